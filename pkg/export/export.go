// Package export writes the visible projection of the assessment table as CSV or XLSX.
package export

import (
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/view"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned for unknown formats
var ErrUnsupportedFormat = goerr.New("unsupported export format")

// ParseFormat parses csv or xlsx
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", goerr.Wrap(ErrUnsupportedFormat, "unknown format", goerr.V("format", s))
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Filename returns cis18-assessment-<date>.<ext>
func Filename(f Format, date time.Time) string {
	return "cis18-assessment-" + date.Format(model.DateLayout) + "." + string(f)
}

// Write serializes the table in format f
func Write(w io.Writer, f Format, t *view.Table, locale cis18.Locale) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t, locale)
	default:
		return goerr.Wrap(ErrUnsupportedFormat, "unknown format", goerr.V("format", f))
	}
}
