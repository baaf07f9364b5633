package state

import (
	"context"
	"encoding/json"
)

const (
	minTier = 0
	maxTier = 7
)

// Preferences drive the random combo generator.
type Preferences struct {
	OnlyLanded bool `json:"onlyLandedTricks"`
	MinTier    int  `json:"minLevel"`
	MaxTier    int  `json:"maxLevel"`
	ComboSize  int  `json:"numberOfTricks"`
}

func DefaultPreferences() Preferences {
	return Preferences{OnlyLanded: true, MinTier: minTier, MaxTier: maxTier, ComboSize: 3}
}

// Normalize clamps tiers into range, swaps inverted bounds and keeps the
// combo size at least one.
func (p Preferences) Normalize() Preferences {
	p.MinTier = clamp(p.MinTier, minTier, maxTier)
	p.MaxTier = clamp(p.MaxTier, minTier, maxTier)
	if p.MinTier > p.MaxTier {
		p.MinTier, p.MaxTier = p.MaxTier, p.MinTier
	}
	if p.ComboSize < 1 {
		p.ComboSize = 1
	}
	return p
}

// LoadPreferences returns the stored preferences, or defaults when the
// blob is missing or malformed. Fields absent from the blob keep their
// defaults.
func LoadPreferences(ctx context.Context, s Store, log Logger) Preferences {
	out := DefaultPreferences()
	raw, ok, err := s.Get(ctx, KeyPreferences)
	if err != nil {
		orNop(log).Error("state.load_failed", map[string]any{"key": KeyPreferences, "error": err.Error()})
		return out
	}
	if !ok || raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		orNop(log).Error("state.decode_failed", map[string]any{"key": KeyPreferences, "error": err.Error()})
		return DefaultPreferences()
	}
	return out.Normalize()
}

func SavePreferences(ctx context.Context, s Store, p Preferences, log Logger) {
	b, err := json.Marshal(p.Normalize())
	if err != nil {
		orNop(log).Error("state.encode_failed", map[string]any{"key": KeyPreferences, "error": err.Error()})
		return
	}
	if err := s.Set(ctx, KeyPreferences, string(b)); err != nil {
		orNop(log).Error("state.save_failed", map[string]any{"key": KeyPreferences, "error": err.Error()})
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
