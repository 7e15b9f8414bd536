package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ControlCount is the number of CIS controls scored by an assessment
const ControlCount = 18

// ColumnID identifies a column of the assessment table: one of the 18 controls or the total score.
type ColumnID string

const (
	ColumnTotalScore ColumnID = "totalScore"
	controlPrefix             = "control"
)

// ErrInvalidColumn is returned when a column identifier is unknown
var ErrInvalidColumn = goerr.New("invalid column identifier")

// ControlColumn returns the column of the n-th control (1-based).
func ControlColumn(n int) ColumnID {
	return ColumnID(fmt.Sprintf("%s%d", controlPrefix, n))
}

// ControlNumber returns the 1-based control number of the column, or 0 for non-control columns.
func (c ColumnID) ControlNumber() int {
	s := string(c)
	if !strings.HasPrefix(s, controlPrefix) {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, controlPrefix))
	if err != nil || n < 1 || n > ControlCount {
		return 0
	}
	if ControlColumn(n) != c {
		// rejects forms like "control01"
		return 0
	}
	return n
}

// IsControl reports whether the column is one of the 18 control columns
func (c ColumnID) IsControl() bool {
	return c.ControlNumber() != 0
}

// IsValid reports whether the column is a control column or the total score column
func (c ColumnID) IsValid() bool {
	return c == ColumnTotalScore || c.IsControl()
}

func (c ColumnID) String() string {
	return string(c)
}

// ParseColumnID parses a column identifier
func ParseColumnID(s string) (ColumnID, error) {
	c := ColumnID(s)
	if !c.IsValid() {
		return "", goerr.Wrap(ErrInvalidColumn, "unknown column", goerr.V("column", s))
	}
	return c, nil
}

// AllColumns returns the total score column followed by control1..control18
func AllColumns() []ColumnID {
	cols := make([]ColumnID, 0, ControlCount+1)
	cols = append(cols, ColumnTotalScore)
	for i := 1; i <= ControlCount; i++ {
		cols = append(cols, ControlColumn(i))
	}
	return cols
}

// DefaultVisibleColumns returns the column set used when no preference is stored:
// the total score plus the first six controls.
func DefaultVisibleColumns() []ColumnID {
	cols := []ColumnID{ColumnTotalScore}
	for i := 1; i <= 6; i++ {
		cols = append(cols, ControlColumn(i))
	}
	return cols
}
