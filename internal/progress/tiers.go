package progress

import (
	"math"
	"sort"

	"trickadex/internal/catalog"
)

type TierProgress struct {
	Tier    catalog.Tier
	Total   int
	Landed  int
	Percent int
}

// Mastered reports a non-empty tier with every trick landed.
func (p TierProgress) Mastered() bool {
	return p.Total > 0 && p.Percent == 100
}

// ComputeTierProgress returns one row per tier, easiest first.
func ComputeTierProgress(c *catalog.Catalog, landed map[string]bool) []TierProgress {
	rows := make([]TierProgress, catalog.TierCount)
	for i := range rows {
		rows[i].Tier = catalog.Tier(i)
	}
	for _, t := range c.Tricks() {
		if !t.Difficulty.Valid() {
			continue
		}
		rows[t.Difficulty].Total++
		if landed[t.ID] {
			rows[t.Difficulty].Landed++
		}
	}
	for i := range rows {
		rows[i].Percent = percent(rows[i].Landed, rows[i].Total)
	}
	return rows
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(total)))
}

// NextLearnsPreview returns up to n tricks ordered by difficulty, keeping
// the input order within a tier.
func NextLearnsPreview(tricks []catalog.Trick, n int) []catalog.Trick {
	out := append([]catalog.Trick(nil), tricks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Difficulty < out[j].Difficulty })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
