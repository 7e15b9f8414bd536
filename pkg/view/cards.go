// Package view builds the view-models of the assessment dashboard: the card grid, the
// table, the pairwise comparison and the manual entry form.
package view

import (
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
)

const highlightCount = 3

// ControlScore is one control with its score. Score is nil when not assessed.
type ControlScore struct {
	Number int
	Name   string
	Score  *int
}

// GroupSummary is a display group with its subtotal and member controls
type GroupSummary struct {
	Key      string
	Name     string
	Subtotal int
	Controls []ControlScore
}

// Card is the card-grid entry of one assessment
type Card struct {
	Assessment *model.Assessment
	Total      int
	Trend      *cis18.Trend // nil for the oldest assessment
	Groups     []GroupSummary
	Top        []ControlScore
	Bottom     []ControlScore
}

// BuildCards returns one card per assessment. list must be ordered newest first; each
// card's trend compares against the next (older) entry.
func BuildCards(list []*model.Assessment, locale cis18.Locale) []Card {
	cards := make([]Card, 0, len(list))
	for i, a := range list {
		card := Card{
			Assessment: a,
			Total:      a.Mean(),
			Groups:     groupSummaries(a.Controls, locale),
			Top:        ranked(cis18.Top(a.Controls, highlightCount), locale),
			Bottom:     ranked(cis18.Bottom(a.Controls, highlightCount), locale),
		}
		if i+1 < len(list) {
			card.Trend = cis18.NewTrend(card.Total, list[i+1].Mean())
		}
		cards = append(cards, card)
	}
	return cards
}

func groupSummaries(s cis18.Scores, locale cis18.Locale) []GroupSummary {
	groups := cis18.DisplayGroups()
	out := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		gs := GroupSummary{Key: g.Key, Name: g.Name(locale), Subtotal: g.Mean(s)}
		for _, n := range g.Controls {
			gs.Controls = append(gs.Controls, controlScore(n, s.Get(n), locale))
		}
		out = append(out, gs)
	}
	return out
}

func ranked(list []cis18.RankedControl, locale cis18.Locale) []ControlScore {
	out := make([]ControlScore, 0, len(list))
	for _, r := range list {
		out = append(out, controlScore(r.Number, cis18.Score(r.Score), locale))
	}
	return out
}

func controlScore(n int, v *int, locale cis18.Locale) ControlScore {
	cs := ControlScore{Number: n, Score: v}
	if c, ok := cis18.ControlByNumber(n); ok {
		cs.Name = c.Name(locale)
	}
	return cs
}
