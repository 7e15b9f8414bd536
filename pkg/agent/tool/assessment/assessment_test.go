package assessment_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/agent/tool"
	"github.com/secmon-lab/cisboard/pkg/agent/tool/assessment"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/repository/memory"
)

func findTool(t *testing.T, tools []gollem.Tool, name string) gollem.Tool {
	t.Helper()
	for _, tl := range tools {
		if tl.Spec().Name == name {
			return tl
		}
	}
	t.Fatalf("tool %s not found", name)
	return nil
}

func seed(t *testing.T, repo *memory.Memory, orgID types.OrganizationID, date string, scores map[int]int) {
	t.Helper()
	d, err := model.ParseDate(date)
	gt.NoError(t, err).Required()
	a := &model.Assessment{OrganizationID: orgID, AssessmentDate: d}
	for n, v := range scores {
		a.Controls.Set(n, cis18.Score(v))
	}
	_, err = repo.Assessment().Create(context.Background(), a)
	gt.NoError(t, err).Required()
}

func TestToolNames(t *testing.T) {
	tools := assessment.New(memory.New(), types.NewOrganizationID(), cis18.LocaleEN)
	gt.Array(t, tools).Length(3)
	names := map[string]bool{}
	for _, tl := range tools {
		names[tl.Spec().Name] = true
	}
	gt.Bool(t, names["cis18__latest_assessment"]).True()
	gt.Bool(t, names["cis18__list_assessments"]).True()
	gt.Bool(t, names["cis18__compare_latest"]).True()
}

func TestLatestAssessment(t *testing.T) {
	repo := memory.New()
	orgID := types.NewOrganizationID()
	tools := assessment.New(repo, orgID, cis18.LocaleEN)
	latest := findTool(t, tools, "cis18__latest_assessment")

	var progress []string
	ctx := tool.WithUpdate(context.Background(), func(_ context.Context, msg string) {
		progress = append(progress, msg)
	})

	t.Run("no assessment", func(t *testing.T) {
		out, err := latest.Run(ctx, map[string]any{})
		gt.NoError(t, err).Required()
		gt.Value(t, out["found"]).Equal(false)
	})

	t.Run("returns controls and groups", func(t *testing.T) {
		seed(t, repo, orgID, "2024-03-01", map[int]int{1: 80, 2: 40})
		out, err := latest.Run(ctx, map[string]any{})
		gt.NoError(t, err).Required()
		gt.Value(t, out["found"]).Equal(true)

		a := out["assessment"].(map[string]any)
		gt.Value(t, a["assessment_date"]).Equal("2024-03-01")
		gt.Value(t, a["total_score"]).Equal(60)
		controls := a["controls"].([]map[string]any)
		gt.Array(t, controls).Length(18)
		gt.Value(t, controls[0]["score"]).Equal(80)
		gt.Value(t, controls[2]["score"]).Equal(nil)
	})

	gt.Array(t, progress).Length(2)
}

func TestListAssessments(t *testing.T) {
	repo := memory.New()
	orgID := types.NewOrganizationID()
	for i := range 3 {
		seed(t, repo, orgID, time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC).Format(model.DateLayout), map[int]int{1: 10 * (i + 1)})
	}
	list := findTool(t, assessment.New(repo, orgID, cis18.LocaleEN), "cis18__list_assessments")

	out, err := list.Run(context.Background(), map[string]any{"limit": float64(2)})
	gt.NoError(t, err).Required()
	items := out["assessments"].([]map[string]any)
	gt.Array(t, items).Length(2)
	gt.Value(t, items[0]["assessment_date"]).Equal("2024-03-01")
	gt.Value(t, out["total"]).Equal(3)

	_, err = list.Run(context.Background(), map[string]any{"limit": "two"})
	gt.Value(t, err).NotNil()
}

func TestCompareLatest(t *testing.T) {
	repo := memory.New()
	orgID := types.NewOrganizationID()
	cmp := findTool(t, assessment.New(repo, orgID, cis18.LocaleEN), "cis18__compare_latest")
	ctx := context.Background()

	seed(t, repo, orgID, "2024-01-01", map[int]int{1: 50, 2: 50, 3: 50})

	out, err := cmp.Run(ctx, map[string]any{})
	gt.NoError(t, err).Required()
	gt.Value(t, out["available"]).Equal(false)

	seed(t, repo, orgID, "2024-02-01", map[int]int{1: 70, 2: 50, 3: 30, 4: 10})

	out, err = cmp.Run(ctx, map[string]any{})
	gt.NoError(t, err).Required()
	gt.Value(t, out["available"]).Equal(true)
	gt.Value(t, out["latest_date"]).Equal("2024-02-01")
	gt.Value(t, out["improved"]).Equal(1)
	gt.Value(t, out["unchanged"]).Equal(1)
	gt.Value(t, out["worsened"]).Equal(1)

	controls := out["controls"].([]map[string]any)
	gt.Value(t, controls[0]["delta"]).Equal(20)
	gt.Value(t, controls[3]["direction"]).Equal("no_data")
}
