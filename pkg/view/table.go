package view

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// ColumnDate is the leading assessment-date column. It is always visible.
const ColumnDate types.ColumnID = "assessmentDate"

// EmptyCell is rendered for controls that were not assessed
const EmptyCell = "-"

// SortDir is the direction of the active sort key
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Toggle returns the opposite direction
func (d SortDir) Toggle() SortDir {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// TableQuery is the table state carried in the page URL
type TableQuery struct {
	Sort   types.ColumnID
	Dir    SortDir
	Filter string
}

// DefaultTableQuery sorts by date, newest first
func DefaultTableQuery() TableQuery {
	return TableQuery{Sort: ColumnDate, Dir: SortDesc}
}

// ParseTableQuery reads sort, dir and q. Unknown values fall back to the defaults.
func ParseTableQuery(v url.Values) TableQuery {
	q := DefaultTableQuery()
	if s := types.ColumnID(v.Get("sort")); s == ColumnDate || s.IsValid() {
		q.Sort = s
	}
	switch SortDir(v.Get("dir")) {
	case SortAsc:
		q.Dir = SortAsc
	case SortDesc:
		q.Dir = SortDesc
	}
	q.Filter = strings.TrimSpace(v.Get("q"))
	return q
}

// Values encodes the query for links
func (q TableQuery) Values() url.Values {
	v := url.Values{}
	v.Set("sort", q.Sort.String())
	v.Set("dir", string(q.Dir))
	if q.Filter != "" {
		v.Set("q", q.Filter)
	}
	return v
}

// Column is a header cell of the table
type Column struct {
	ID      types.ColumnID
	Label   string
	Sorted  bool
	Dir     SortDir // current direction when Sorted
	NextDir SortDir // direction applied when the header is clicked
}

// Cell is one value of a row. Value is nil for the date column and for missing scores.
type Cell struct {
	Column types.ColumnID
	Value  *int
	Text   string
}

// Row is one assessment of the table
type Row struct {
	Assessment *model.Assessment
	Cells      []Cell
}

// Table is the projection of the assessment collection on the visible columns
type Table struct {
	Query   TableQuery
	Columns []Column
	Rows    []Row
	Total   int // rows before filtering
}

// BuildTable projects list on the date column plus visible, then filters and sorts
// the rows. A sort key that is not visible falls back to the date.
func BuildTable(list []*model.Assessment, visible []types.ColumnID, q TableQuery, locale cis18.Locale) *Table {
	cols := append([]types.ColumnID{ColumnDate}, visible...)
	if !contains(cols, q.Sort) {
		q.Sort = ColumnDate
	}
	if q.Dir != SortAsc {
		q.Dir = SortDesc
	}

	t := &Table{Query: q, Total: len(list)}
	for _, c := range cols {
		col := Column{ID: c, Label: columnLabel(c, locale), NextDir: SortDesc}
		if c == q.Sort {
			col.Sorted = true
			col.Dir = q.Dir
			col.NextDir = q.Dir.Toggle()
		}
		t.Columns = append(t.Columns, col)
	}

	needle := strings.ToLower(q.Filter)
	for _, a := range list {
		row := Row{Assessment: a}
		for _, c := range cols {
			row.Cells = append(row.Cells, cellOf(a, c))
		}
		if needle != "" && !row.matches(needle) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}

	sortRows(t.Rows, indexOf(cols, q.Sort), q.Dir)
	return t
}

// Header returns the column labels in order
func (t *Table) Header() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}

// Records returns the cell texts of every row, one value per column
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rec := make([]string, len(r.Cells))
		for j, c := range r.Cells {
			rec[j] = c.Text
		}
		out[i] = rec
	}
	return out
}

// VisibleColumns returns the hideable columns currently shown
func (t *Table) VisibleColumns() []types.ColumnID {
	var out []types.ColumnID
	for _, c := range t.Columns {
		if c.ID != ColumnDate {
			out = append(out, c.ID)
		}
	}
	return out
}

func (r Row) matches(needle string) bool {
	for _, c := range r.Cells {
		if strings.Contains(strings.ToLower(c.Text), needle) {
			return true
		}
	}
	return false
}

func cellOf(a *model.Assessment, col types.ColumnID) Cell {
	var v *int
	switch {
	case col == ColumnDate:
		return Cell{Column: col, Text: a.DateString()}
	case col == types.ColumnTotalScore:
		v = cis18.Score(a.Mean())
	default:
		v = a.Controls.Get(col.ControlNumber())
	}
	c := Cell{Column: col, Value: v, Text: EmptyCell}
	if v != nil {
		c.Text = strconv.Itoa(*v)
	}
	return c
}

// sortRows orders rows by the cell at idx. Dates compare as time; missing scores
// sort after present ones in both directions.
func sortRows(rows []Row, idx int, dir SortDir) {
	sort.SliceStable(rows, func(i, j int) bool {
		if idx == 0 {
			a, b := rows[i].Assessment, rows[j].Assessment
			if dir == SortAsc {
				return a.AssessmentDate.Before(b.AssessmentDate)
			}
			return a.AssessmentDate.After(b.AssessmentDate)
		}
		a, b := rows[i].Cells[idx].Value, rows[j].Cells[idx].Value
		switch {
		case a == nil || b == nil:
			return a != nil && b == nil
		case dir == SortAsc:
			return *a < *b
		default:
			return *a > *b
		}
	})
}

func columnLabel(c types.ColumnID, locale cis18.Locale) string {
	if c == ColumnDate {
		return cis18.DateLabel(locale)
	}
	return cis18.ColumnLabel(c, locale)
}

func contains(cols []types.ColumnID, c types.ColumnID) bool {
	return indexOf(cols, c) >= 0
}

func indexOf(cols []types.ColumnID, c types.ColumnID) int {
	for i, x := range cols {
		if x == c {
			return i
		}
	}
	return -1
}
