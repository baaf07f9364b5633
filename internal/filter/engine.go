package filter

import (
	"sort"
	"strings"
	"sync"

	"trickadex/internal/catalog"
)

// Engine memoizes the filter operations for one catalog. Results are the
// same as the package functions; callers hand in new landed/favorite
// snapshots through SetLanded and SetFavorites, which invalidate the caches
// that depend on them.
type Engine struct {
	mu sync.Mutex

	catalog   *catalog.Catalog
	landed    map[string]bool
	favorites map[string]bool
	landedV   uint64
	favV      uint64

	recV     uint64
	recValid bool
	rec      map[string]bool

	visKey   visibleKey
	visValid bool
	vis      []catalog.Trick
}

type visibleKey struct {
	landedV uint64
	favV    uint64
	filters string
	search  string
}

func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c, landed: map[string]bool{}, favorites: map[string]bool{}}
}

func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// SetLanded replaces the landed snapshot. The map is copied.
func (e *Engine) SetLanded(landed map[string]bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.landed = copyFlags(landed)
	e.landedV++
}

// SetFavorites replaces the favorites snapshot. The map is copied.
func (e *Engine) SetFavorites(favorites map[string]bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.favorites = copyFlags(favorites)
	e.favV++
}

func (e *Engine) Landed() map[string]bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyFlags(e.landed)
}

func (e *Engine) Favorites() map[string]bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyFlags(e.favorites)
}

// Recommended returns the Next Learns id set for the current snapshot.
// The returned map must not be modified.
func (e *Engine) Recommended() map[string]bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recommendedLocked()
}

func (e *Engine) recommendedLocked() map[string]bool {
	if !e.recValid || e.recV != e.landedV {
		e.rec = ComputeRecommendedSet(e.catalog, e.landed)
		e.recV = e.landedV
		e.recValid = true
	}
	return e.rec
}

// RecommendedTricks is Recommended in catalog order.
func (e *Engine) RecommendedTricks() []catalog.Trick {
	rec := e.Recommended()
	out := make([]catalog.Trick, 0, len(rec))
	for _, t := range e.catalog.Tricks() {
		if rec[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// Visible returns the memoized ResolveVisibleTricks result. The returned
// slice must not be modified.
func (e *Engine) Visible(active []string, search string) []catalog.Trick {
	e.mu.Lock()
	defer e.mu.Unlock()
	key := visibleKey{landedV: e.landedV, favV: e.favV, filters: setKey(active), search: search}
	if e.visValid && e.visKey == key {
		return e.vis
	}
	e.vis = resolve(e.catalog, e.landed, e.favorites, active, search, e.recommendedLocked)
	e.visKey = key
	e.visValid = true
	return e.vis
}

// VisibleGroups is Visible grouped by tier.
func (e *Engine) VisibleGroups(active []string, search string) []TierGroup {
	return GroupByTier(e.Visible(active, search))
}

func copyFlags(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		if v {
			out[k] = true
		}
	}
	return out
}

func setKey(names []string) string {
	norm := make([]string, 0, len(names))
	for _, n := range names {
		norm = append(norm, strings.ToLower(n))
	}
	sort.Strings(norm)
	return strings.Join(norm, "\x00")
}
