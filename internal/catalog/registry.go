package catalog

import "strings"

type FilterCategory string

const (
	CategoryType   FilterCategory = "Type"
	CategoryLanded FilterCategory = "Learn/Landed"
	CategoryLevel  FilterCategory = "Level"
)

// Pseudo filters that resolve against user state rather than trick data.
const (
	FilterLanded     = "Landed"
	FilterNextLearns = "Next Learns"
	FilterFavorites  = "Favorites"
)

// FilterConfig is one selectable filter chip. Color and Icon only matter
// for rendering.
type FilterConfig struct {
	Name     string
	Category FilterCategory
	Color    string
	Icon     string
}

var registry = buildRegistry()

func buildRegistry() []FilterConfig {
	out := []FilterConfig{
		{Name: "Kick", Category: CategoryType, Color: "#3DA1F2", Icon: "🦵"},
		{Name: "Flip", Category: CategoryType, Color: "#E94F87", Icon: "🤸"},
		{Name: "Twist", Category: CategoryType, Color: "#F28C2E", Icon: "🌀"},
		{Name: "Transition", Category: CategoryType, Color: "#40C28C", Icon: "🔁"},
		{Name: FilterLanded, Category: CategoryLanded, Color: "#4CC24A", Icon: "✓"},
		{Name: FilterNextLearns, Category: CategoryLanded, Color: "#ECBD01", Icon: "➜"},
		{Name: FilterFavorites, Category: CategoryLanded, Color: "#FFD166", Icon: "★"},
	}
	for _, t := range Tiers() {
		out = append(out, FilterConfig{
			Name:     t.Name(),
			Category: CategoryLevel,
			Color:    t.Color(),
			Icon:     strings.Repeat("*", int(t)+1),
		})
	}
	return out
}

// Registry returns every registered filter in display order.
func Registry() []FilterConfig {
	return append([]FilterConfig(nil), registry...)
}

// FilterNames returns the registered filter names in display order.
func FilterNames() []string {
	out := make([]string, len(registry))
	for i, f := range registry {
		out[i] = f.Name
	}
	return out
}

// LookupFilter finds a registered filter by name, ignoring case.
func LookupFilter(name string) (FilterConfig, bool) {
	for _, f := range registry {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return FilterConfig{}, false
}
