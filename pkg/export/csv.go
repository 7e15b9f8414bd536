package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/view"
)

// WriteCSV writes the header and one line per row. Every value is quoted.
func WriteCSV(w io.Writer, t *view.Table) error {
	bw := bufio.NewWriter(w)
	if err := writeCSVLine(bw, t.Header()); err != nil {
		return err
	}
	for _, rec := range t.Records() {
		if err := writeCSVLine(bw, rec); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return goerr.Wrap(err, "failed to flush csv")
	}
	return nil
}

func writeCSVLine(w *bufio.Writer, values []string) error {
	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(v, `"`, `""`))
		sb.WriteByte('"')
	}
	sb.WriteString("\r\n")
	if _, err := w.WriteString(sb.String()); err != nil {
		return goerr.Wrap(err, "failed to write csv line")
	}
	return nil
}
