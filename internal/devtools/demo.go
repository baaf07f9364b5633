package devtools

import (
	"context"
	"encoding/json"
	"sort"

	"trickadex/internal/catalog"
	"trickadex/internal/state"
)

// Scenario is a deterministic starting state for screenshots and manual
// testing.
type Scenario struct {
	Name      string
	Screen    string
	UserName  string
	Landed    state.Flags
	Favorites state.Flags
	Filters   []string
	Search    string
	Combo     []string
}

type Manager struct{}

func NewManager() *Manager { return &Manager{} }

func (m *Manager) Names() []string {
	names := []string{"fresh", "novice", "kicker", "advanced", "filtered", "combo", "profile"}
	sort.Strings(names)
	return names
}

func (m *Manager) Resolve(c *catalog.Catalog, name string) Scenario {
	switch name {
	case "fresh":
		return Scenario{Name: name, Screen: "tricks", Landed: state.Flags{}, Favorites: state.Flags{}}
	case "novice":
		return Scenario{Name: name, Screen: "progress", Landed: landUpTo(c, catalog.TierNovice, 0), Favorites: state.Flags{}}
	case "kicker":
		landed := landUpTo(c, catalog.TierNovice, 0)
		for _, t := range c.Tricks() {
			if t.HasType("kick") && t.Difficulty <= catalog.TierIntermediate {
				landed[t.ID] = true
			}
		}
		return Scenario{Name: name, Screen: "profile", UserName: "Demo Kicker", Landed: landed, Favorites: state.Flags{}}
	case "advanced":
		return Scenario{Name: name, Screen: "progress", Landed: landUpTo(c, catalog.TierIntermediate, 2), Favorites: firstN(c, 3)}
	case "filtered":
		return Scenario{
			Name:      name,
			Screen:    "tricks",
			Landed:    landUpTo(c, catalog.TierNovice, 0),
			Favorites: firstN(c, 2),
			Filters:   []string{"Kick", catalog.FilterNextLearns},
		}
	case "combo":
		landed := landUpTo(c, catalog.TierBeginner, 0)
		return Scenario{Name: name, Screen: "combo", Landed: landed, Favorites: state.Flags{}, Combo: pick(c, landed, 3)}
	case "profile":
		return Scenario{Name: name, Screen: "profile", UserName: "Demo User", Landed: landUpTo(c, catalog.TierBeginner, 1), Favorites: state.Flags{}}
	default:
		return Scenario{Name: "fresh", Screen: "tricks", Landed: state.Flags{}, Favorites: state.Flags{}}
	}
}

// Apply writes the scenario's persisted parts into store.
func (m *Manager) Apply(ctx context.Context, store state.Store, sc Scenario) error {
	values := map[string]string{}
	for key, flags := range map[string]state.Flags{state.KeyLanded: sc.Landed, state.KeyFavorites: sc.Favorites} {
		if flags == nil {
			continue
		}
		b, err := json.Marshal(flags)
		if err != nil {
			return err
		}
		values[key] = string(b)
	}
	if sc.UserName != "" {
		values[state.KeyUserName] = sc.UserName
	}
	return store.SetMany(ctx, values)
}

// landUpTo lands every trick up to tier and the first extra tricks of the
// next tier, in catalog order.
func landUpTo(c *catalog.Catalog, tier catalog.Tier, extra int) state.Flags {
	out := state.Flags{}
	for _, t := range c.Tricks() {
		switch {
		case t.Difficulty <= tier:
			out[t.ID] = true
		case t.Difficulty == tier+1 && extra > 0:
			out[t.ID] = true
			extra--
		}
	}
	return out
}

func firstN(c *catalog.Catalog, n int) state.Flags {
	out := state.Flags{}
	for _, t := range c.Tricks() {
		if len(out) == n {
			break
		}
		out[t.ID] = true
	}
	return out
}

func pick(c *catalog.Catalog, landed state.Flags, n int) []string {
	out := make([]string, 0, n)
	for _, t := range c.Tricks() {
		if len(out) == n {
			break
		}
		if landed[t.ID] {
			out = append(out, t.ID)
		}
	}
	return out
}
