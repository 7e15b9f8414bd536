package export

import (
	"io"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/view"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook
const (
	SheetAssessments = "Assessments"
	SheetControls    = "Controls"
)

const (
	widthDate    = 14
	widthTotal   = 12
	widthControl = 20
	widthNumber  = 8
	widthName    = 60
)

var glossaryHeader = map[cis18.Locale][]any{
	cis18.LocaleEN: {"CIS", "Control"},
	cis18.LocaleJA: {"CIS", "コントロール"},
}

// WriteXLSX writes the table to sheet 1 and the control catalog to sheet 2
func WriteXLSX(w io.Writer, t *view.Table, locale cis18.Locale) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetAssessments); err != nil {
		return goerr.Wrap(err, "failed to rename sheet")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return goerr.Wrap(err, "failed to create header style")
	}

	if err := writeAssessmentSheet(f, t, bold); err != nil {
		return err
	}
	if err := writeGlossarySheet(f, locale, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return goerr.Wrap(err, "failed to write workbook")
	}
	return nil
}

func writeAssessmentSheet(f *excelize.File, t *view.Table, headerStyle int) error {
	header := make([]any, 0, len(t.Columns))
	for _, h := range t.Header() {
		header = append(header, h)
	}
	if err := setRow(f, SheetAssessments, 1, header); err != nil {
		return err
	}
	if err := styleRow(f, SheetAssessments, len(header), headerStyle); err != nil {
		return err
	}

	for i, r := range t.Rows {
		values := make([]any, 0, len(r.Cells))
		for _, c := range r.Cells {
			if c.Value != nil {
				values = append(values, *c.Value)
			} else {
				values = append(values, c.Text)
			}
		}
		if err := setRow(f, SheetAssessments, i+2, values); err != nil {
			return err
		}
	}

	for i, c := range t.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return goerr.Wrap(err, "invalid column number", goerr.V("column", i+1))
		}
		if err := f.SetColWidth(SheetAssessments, name, name, columnWidth(c.ID)); err != nil {
			return goerr.Wrap(err, "failed to set column width", goerr.V("column", name))
		}
	}
	return nil
}

func writeGlossarySheet(f *excelize.File, locale cis18.Locale, headerStyle int) error {
	if _, err := f.NewSheet(SheetControls); err != nil {
		return goerr.Wrap(err, "failed to add glossary sheet")
	}

	header, ok := glossaryHeader[locale]
	if !ok {
		header = glossaryHeader[cis18.LocaleEN]
	}
	if err := setRow(f, SheetControls, 1, header); err != nil {
		return err
	}
	if err := styleRow(f, SheetControls, len(header), headerStyle); err != nil {
		return err
	}
	for i, c := range cis18.Controls() {
		if err := setRow(f, SheetControls, i+2, []any{"CIS " + strconv.Itoa(c.Number), c.Name(locale)}); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetControls, "A", "A", widthNumber); err != nil {
		return goerr.Wrap(err, "failed to set column width")
	}
	if err := f.SetColWidth(SheetControls, "B", "B", widthName); err != nil {
		return goerr.Wrap(err, "failed to set column width")
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return goerr.Wrap(err, "invalid row", goerr.V("row", row))
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return goerr.Wrap(err, "failed to write row", goerr.V("sheet", sheet), goerr.V("row", row))
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, cols, style int) error {
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return goerr.Wrap(err, "invalid column count", goerr.V("columns", cols))
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return goerr.Wrap(err, "failed to style header", goerr.V("sheet", sheet))
	}
	return nil
}

func columnWidth(col types.ColumnID) float64 {
	switch {
	case col == view.ColumnDate:
		return widthDate
	case col == types.ColumnTotalScore:
		return widthTotal
	default:
		return widthControl
	}
}
