package assessment

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/cisboard/pkg/agent/tool"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

const (
	defaultListLimit = 10
	maxListLimit     = 50
)

// New builds the read-only assessment tools of the chatbot, scoped to one organization
func New(repo interfaces.Repository, orgID types.OrganizationID, locale cis18.Locale) []gollem.Tool {
	return []gollem.Tool{
		&latestTool{repo: repo, orgID: orgID, locale: locale},
		&listTool{repo: repo, orgID: orgID},
		&compareLatestTool{repo: repo, orgID: orgID, locale: locale},
	}
}

func scoreValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

// assessmentToMap converts an Assessment to a map for tool response
func assessmentToMap(a *model.Assessment, locale cis18.Locale) map[string]any {
	controls := make([]map[string]any, 0, types.ControlCount)
	for _, c := range cis18.Controls() {
		controls = append(controls, map[string]any{
			"number": c.Number,
			"name":   c.Name(locale),
			"score":  scoreValue(a.Controls.Get(c.Number)),
		})
	}

	groups := make([]map[string]any, 0, 3)
	for _, g := range cis18.DisplayGroups() {
		groups = append(groups, map[string]any{
			"name":     g.Name(locale),
			"subtotal": g.Mean(a.Controls),
		})
	}

	return map[string]any{
		"id":              a.ID.String(),
		"assessment_date": a.DateString(),
		"total_score":     a.Mean(),
		"import_method":   a.ImportMethod.String(),
		"controls":        controls,
		"groups":          groups,
	}
}

type latestTool struct {
	repo   interfaces.Repository
	orgID  types.OrganizationID
	locale cis18.Locale
}

func (t *latestTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "cis18__latest_assessment",
		Description: "Get the most recent CIS Controls v8 assessment of the organization with all 18 control scores (0-100, null when not assessed) and the three group subtotals",
		Parameters:  map[string]*gollem.Parameter{},
	}
}

func (t *latestTool) Run(ctx context.Context, _ map[string]any) (map[string]any, error) {
	tool.Update(ctx, "Reading latest assessment...")
	a, err := t.repo.Assessment().GetLatest(ctx, t.orgID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get latest assessment", goerr.V("organization_id", t.orgID))
	}
	if a == nil {
		return map[string]any{"found": false}, nil
	}
	return map[string]any{"found": true, "assessment": assessmentToMap(a, t.locale)}, nil
}

type listTool struct {
	repo  interfaces.Repository
	orgID types.OrganizationID
}

func (t *listTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "cis18__list_assessments",
		Description: "List assessments of the organization, newest first, with their dates and total scores",
		Parameters: map[string]*gollem.Parameter{
			"limit": {
				Type:        gollem.TypeInteger,
				Description: fmt.Sprintf("Maximum number of assessments to return (default %d, max %d)", defaultListLimit, maxListLimit),
			},
		},
	}
}

func (t *listTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	limit, ok := tool.IntArg(args, "limit", defaultListLimit)
	if !ok {
		return nil, goerr.New("limit must be an integer", goerr.V("limit", args["limit"]))
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	tool.Update(ctx, "Listing assessments...")
	list, err := t.repo.Assessment().List(ctx, t.orgID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments", goerr.V("organization_id", t.orgID))
	}

	total := len(list)
	if len(list) > limit {
		list = list[:limit]
	}
	items := make([]map[string]any, len(list))
	for i, a := range list {
		items[i] = map[string]any{
			"id":              a.ID.String(),
			"assessment_date": a.DateString(),
			"total_score":     a.Mean(),
			"assessed":        a.Controls.Present(),
			"import_method":   a.ImportMethod.String(),
		}
	}
	return map[string]any{"assessments": items, "total": total}, nil
}

type compareLatestTool struct {
	repo   interfaces.Repository
	orgID  types.OrganizationID
	locale cis18.Locale
}

func (t *compareLatestTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "cis18__compare_latest",
		Description: "Compare the two most recent assessments control by control (delta = latest - previous) with counts of improved, unchanged and worsened controls",
		Parameters:  map[string]*gollem.Parameter{},
	}
}

func (t *compareLatestTool) Run(ctx context.Context, _ map[string]any) (map[string]any, error) {
	tool.Update(ctx, "Comparing assessments...")
	list, err := t.repo.Assessment().List(ctx, t.orgID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments", goerr.V("organization_id", t.orgID))
	}
	if len(list) < 2 {
		return map[string]any{"available": false, "reason": "at least two assessments are required"}, nil
	}

	latest, previous := list[0], list[1]
	cmp := cis18.Compare(latest.Controls, previous.Controls)

	controls := make([]map[string]any, 0, types.ControlCount)
	for _, c := range cis18.Controls() {
		d := cmp.Controls[c.Number-1]
		row := map[string]any{
			"number":   c.Number,
			"name":     c.Name(t.locale),
			"latest":   scoreValue(d.Left),
			"previous": scoreValue(d.Right),
		}
		if d.HasData() {
			row["delta"] = *d.Delta
			row["direction"] = string(d.Direction)
		} else {
			row["delta"] = nil
			row["direction"] = "no_data"
		}
		controls = append(controls, row)
	}

	return map[string]any{
		"available":     true,
		"latest_date":   latest.DateString(),
		"previous_date": previous.DateString(),
		"total": map[string]any{
			"latest":    scoreValue(cmp.Total.Left),
			"previous":  scoreValue(cmp.Total.Right),
			"delta":     scoreValue(cmp.Total.Delta),
			"direction": string(cmp.Total.Direction),
		},
		"improved":  cmp.Improved,
		"unchanged": cmp.Unchanged,
		"worsened":  cmp.Worsened,
		"controls":  controls,
	}, nil
}
