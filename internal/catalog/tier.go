package catalog

import (
	"strconv"
	"strings"
)

// Tier is one of the eight fixed difficulty levels, easiest first.
type Tier int

const (
	TierNovice Tier = iota
	TierBeginner
	TierIntermediate
	TierAdvanced
	TierElite
	TierAscendant
	TierTranscendent
	TierGodlike
)

// TierCount is the number of defined tiers.
const TierCount = 8

var tierNames = [TierCount]string{
	"Novice",
	"Beginner",
	"Intermediate",
	"Advanced",
	"Elite",
	"Ascendant",
	"Transcendent",
	"Godlike",
}

var tierColors = [TierCount]string{
	"#0C8997",
	"#FF6B6B",
	"#C2E812",
	"#9046CF",
	"#F0A202",
	"#623CEA",
	"#F5EF36",
	"#C2185B",
}

func (t Tier) Valid() bool {
	return t >= 0 && t < TierCount
}

func (t Tier) Name() string {
	if !t.Valid() {
		return ""
	}
	return tierNames[t]
}

func (t Tier) Color() string {
	if !t.Valid() {
		return ""
	}
	return tierColors[t]
}

func (t Tier) String() string {
	if name := t.Name(); name != "" {
		return name
	}
	return "Tier(" + strconv.Itoa(int(t)) + ")"
}

// Tiers returns all tiers in ascending order.
func Tiers() []Tier {
	out := make([]Tier, TierCount)
	for i := range out {
		out[i] = Tier(i)
	}
	return out
}

// TierByName resolves a tier name case-insensitively.
func TierByName(name string) (Tier, bool) {
	name = strings.TrimSpace(name)
	for i, n := range tierNames {
		if strings.EqualFold(n, name) {
			return Tier(i), true
		}
	}
	return 0, false
}
