package progress

import (
	"strings"

	"trickadex/internal/catalog"
)

const (
	LabelNewToTricks = "New to tricks"
	LabelWellRounded = "Well Rounded"
	LabelKicker      = "Kicker"
	LabelFlipper     = "Flipper"
	LabelTwister     = "Twister"
	LevelUnranked    = "Unranked"
)

// FocusConfig holds the classification thresholds. Every count compared
// against them covers catalog tricks only: landed ids the catalog does not
// know are ignored.
type FocusConfig struct {
	// MinLanded is the landed catalog-trick count below which the user is
	// new.
	MinLanded int
	// TierThreshold is the landed count that makes a tier the user's level.
	TierThreshold int
	// SpecialistShare is the percentage a tag must exceed to name a
	// specialist.
	SpecialistShare float64
}

func DefaultFocusConfig() FocusConfig {
	return FocusConfig{MinLanded: 10, TierThreshold: 4, SpecialistShare: 45}
}

// focusTags are checked in this order when picking a specialist label.
var focusTags = []struct {
	tag   string
	label string
}{
	{"kick", LabelKicker},
	{"flip", LabelFlipper},
	{"twist", LabelTwister},
}

type Focus struct {
	Label string
	// Level is the tier name or LevelUnranked; LevelTier is -1 when unranked.
	Level        string
	LevelTier    catalog.Tier
	LevelPercent int
	TotalLanded  int // landed tricks present in the catalog
	Counts       map[string]int
}

func (f Focus) Ranked() bool { return f.LevelTier >= 0 }

// ComputeUserFocus classifies the landed tricks. Landed ids that are not
// in the catalog are ignored.
func ComputeUserFocus(c *catalog.Catalog, landed map[string]bool, cfg FocusConfig) Focus {
	counts := map[string]int{}
	for _, ft := range focusTags {
		counts[ft.tag] = 0
	}
	var perTier [catalog.TierCount]int
	total := 0
	for _, t := range c.Tricks() {
		if !landed[t.ID] {
			continue
		}
		total++
		if t.Difficulty.Valid() {
			perTier[t.Difficulty]++
		}
		for _, ty := range t.Types {
			key := strings.ToLower(ty)
			if _, ok := counts[key]; ok {
				counts[key]++
			}
		}
	}

	f := Focus{Level: LevelUnranked, LevelTier: -1, TotalLanded: total, Counts: counts}
	for i := catalog.TierCount - 1; i >= 0; i-- {
		if perTier[i] >= cfg.TierThreshold {
			f.LevelTier = catalog.Tier(i)
			f.Level = f.LevelTier.Name()
			break
		}
	}
	if f.Ranked() {
		f.LevelPercent = ComputeTierProgress(c, landed)[f.LevelTier].Percent
	}

	if total < cfg.MinLanded || !f.Ranked() {
		f.Label = LabelNewToTricks
		return f
	}
	f.Label = LabelWellRounded
	tagged := 0
	for _, n := range counts {
		tagged += n
	}
	if tagged == 0 {
		return f
	}
	for _, ft := range focusTags {
		if 100*float64(counts[ft.tag])/float64(tagged) > cfg.SpecialistShare {
			f.Label = ft.label
			break
		}
	}
	return f
}
