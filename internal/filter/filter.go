// Package filter resolves which catalog tricks are visible for a set of
// active filter chips and a search string.
package filter

import (
	"strings"

	"trickadex/internal/catalog"
)

// EffectiveFilters returns active plus the registered filter named by
// search, when search names one that is not already active. The second
// result reports whether search named a registered filter.
func EffectiveFilters(active []string, search string) ([]string, bool) {
	out := append([]string(nil), active...)
	if search == "" {
		return out, false
	}
	f, ok := catalog.LookupFilter(search)
	if !ok {
		return out, false
	}
	if !containsFold(active, f.Name) {
		out = append(out, f.Name)
	}
	return out, true
}

// ResolveVisibleTricks applies every effective filter (AND) and, when
// search is not a filter name, a case-insensitive substring match on the
// trick name. Catalog order is preserved.
func ResolveVisibleTricks(c *catalog.Catalog, landed, favorites map[string]bool, active []string, search string) []catalog.Trick {
	return resolve(c, landed, favorites, active, search, func() map[string]bool {
		return ComputeRecommendedSet(c, landed)
	})
}

func resolve(c *catalog.Catalog, landed, favorites map[string]bool, active []string, search string, recommended func() map[string]bool) []catalog.Trick {
	tricks := c.Tricks()
	filters, searchIsFilter := EffectiveFilters(active, search)
	if len(filters) == 0 && search == "" {
		return append([]catalog.Trick(nil), tricks...)
	}

	preds := make([]func(catalog.Trick) bool, 0, len(filters)+1)
	for _, name := range filters {
		preds = append(preds, predicate(name, landed, favorites, recommended))
	}
	if search != "" && !searchIsFilter {
		needle := strings.ToLower(search)
		preds = append(preds, func(t catalog.Trick) bool {
			return strings.Contains(strings.ToLower(t.Name), needle)
		})
	}

	out := make([]catalog.Trick, 0, len(tricks))
	for _, t := range tricks {
		if matchAll(t, preds) {
			out = append(out, t)
		}
	}
	return out
}

func predicate(name string, landed, favorites map[string]bool, recommended func() map[string]bool) func(catalog.Trick) bool {
	switch {
	case strings.EqualFold(name, catalog.FilterLanded):
		return func(t catalog.Trick) bool { return landed[t.ID] }
	case strings.EqualFold(name, catalog.FilterFavorites):
		return func(t catalog.Trick) bool { return favorites[t.ID] }
	case strings.EqualFold(name, catalog.FilterNextLearns):
		rec := recommended()
		return func(t catalog.Trick) bool { return rec[t.ID] }
	}
	if tier, ok := catalog.TierByName(name); ok {
		return func(t catalog.Trick) bool { return t.Difficulty == tier }
	}
	// Anything else is a type tag. Unknown tags match nothing.
	return func(t catalog.Trick) bool { return t.HasType(name) }
}

func matchAll(t catalog.Trick, preds []func(catalog.Trick) bool) bool {
	for _, p := range preds {
		if !p(t) {
			return false
		}
	}
	return true
}

// ComputeRecommendedSet returns the ids of tricks that are not landed and
// whose prerequisites are all landed. Prerequisites missing from the
// catalog are never landed, so they keep their dependents out.
func ComputeRecommendedSet(c *catalog.Catalog, landed map[string]bool) map[string]bool {
	out := map[string]bool{}
	for _, t := range c.Tricks() {
		if landed[t.ID] {
			continue
		}
		ready := true
		for _, p := range t.Prerequisites {
			if !landed[p] {
				ready = false
				break
			}
		}
		if ready {
			out[t.ID] = true
		}
	}
	return out
}

// RecommendedTricks is ComputeRecommendedSet in catalog order.
func RecommendedTricks(c *catalog.Catalog, landed map[string]bool) []catalog.Trick {
	rec := ComputeRecommendedSet(c, landed)
	out := make([]catalog.Trick, 0, len(rec))
	for _, t := range c.Tricks() {
		if rec[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

type TierGroup struct {
	Tier   catalog.Tier
	Tricks []catalog.Trick
}

// GroupByTier partitions tricks by difficulty in ascending tier order,
// omitting empty tiers and keeping input order inside a tier.
func GroupByTier(tricks []catalog.Trick) []TierGroup {
	var buckets [catalog.TierCount][]catalog.Trick
	for _, t := range tricks {
		if !t.Difficulty.Valid() {
			continue
		}
		buckets[t.Difficulty] = append(buckets[t.Difficulty], t)
	}
	out := make([]TierGroup, 0, catalog.TierCount)
	for i, b := range buckets {
		if len(b) == 0 {
			continue
		}
		out = append(out, TierGroup{Tier: catalog.Tier(i), Tricks: b})
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
