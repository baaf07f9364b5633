package combo

import (
	"math/rand/v2"

	"trickadex/internal/catalog"
)

// RandomSpec bounds a random combo.
type RandomSpec struct {
	Size       int
	MinTier    catalog.Tier
	MaxTier    catalog.Tier
	OnlyLanded bool
}

// Pool returns the tricks a random combo may draw from, in catalog order.
func Pool(c *catalog.Catalog, landed map[string]bool, spec RandomSpec) []catalog.Trick {
	lo, hi := spec.MinTier, spec.MaxTier
	if lo > hi {
		lo, hi = hi, lo
	}
	var out []catalog.Trick
	for _, t := range c.Tricks() {
		if t.Difficulty < lo || t.Difficulty > hi {
			continue
		}
		if spec.OnlyLanded && !landed[t.ID] {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Random builds a combo of spec.Size tricks from the pool. Tricks repeat
// only when the pool is smaller than the requested size.
func Random(c *catalog.Catalog, landed map[string]bool, spec RandomSpec, rng *rand.Rand) *Sequence {
	seq := &Sequence{}
	pool := Pool(c, landed, spec)
	if len(pool) == 0 || spec.Size <= 0 {
		return seq
	}
	for seq.Len() < spec.Size {
		perm := rng.Perm(len(pool))
		for _, i := range perm {
			if seq.Len() == spec.Size {
				break
			}
			seq.Append(pool[i])
		}
	}
	return seq
}
