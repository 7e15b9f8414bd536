package types

// ViewMode selects how the assessment collection is presented on the dashboard
type ViewMode string

const (
	ViewModeCards      ViewMode = "cards"
	ViewModeTable      ViewMode = "table"
	ViewModeComparison ViewMode = "comparison"
)

// AllViewModes returns all view modes in tab order
func AllViewModes() []ViewMode {
	return []ViewMode{ViewModeCards, ViewModeTable, ViewModeComparison}
}

// IsValid checks if the view mode is known
func (m ViewMode) IsValid() bool {
	switch m {
	case ViewModeCards, ViewModeTable, ViewModeComparison:
		return true
	default:
		return false
	}
}

func (m ViewMode) String() string {
	return string(m)
}

// ParseViewMode returns the view mode for s, falling back to cards for unknown values.
func ParseViewMode(s string) ViewMode {
	m := ViewMode(s)
	if !m.IsValid() {
		return ViewModeCards
	}
	return m
}
