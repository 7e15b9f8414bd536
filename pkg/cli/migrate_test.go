package cli

import (
	"bytes"
	"testing"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/usecase"
)

func TestGetIndexConfig(t *testing.T) {
	cfg := getIndexConfig("stg")
	names := make([]string, 0, len(cfg.Collections))
	for _, c := range cfg.Collections {
		names = append(names, c.Name)
		gt.Bool(t, len(c.Indexes) > 0).True()
	}
	gt.Array(t, names).Equal([]string{"stg_assessments", "stg_leads", "stg_service_requests", "stg_users"})
	gt.Value(t, getIndexConfig("").Collections[0].Name).Equal("assessments")

	// assessments end with the document id so equal timestamps order the same on every backend
	fields := cfg.Collections[0].Indexes[0].Fields
	last := fields[len(fields)-1]
	gt.Value(t, last.Path).Equal("__name__")
	gt.Value(t, last.Order).Equal(fireconf.OrderDescending)
}

func TestSQLiteTables(t *testing.T) {
	tables := sqliteTables()
	gt.Array(t, tables).Length(8)
	gt.Value(t, tables[0]).Equal("assessments")
}

func TestPrintValidationReport(t *testing.T) {
	var buf bytes.Buffer
	printValidationReport(&buf, &usecase.ValidationResult{Checked: 3})
	gt.String(t, buf.String()).Contains("3 assessments checked, no issues")

	buf.Reset()
	printValidationReport(&buf, &usecase.ValidationResult{
		Checked: 2,
		Issues: []usecase.ValidationIssue{
			{AssessmentID: "a1", Expected: "60", Actual: "10", Message: "total score drift", Fixed: true},
			{AssessmentID: "a2", Expected: "40", Actual: "", Message: "total score missing"},
		},
	})
	out := buf.String()
	gt.String(t, out).Contains("FIXED")
	gt.String(t, out).Contains("DRIFT")
	gt.String(t, out).Contains("assessment=a1")
	gt.String(t, out).Contains("2 assessments checked, 2 issues, 1 unfixed")
}
