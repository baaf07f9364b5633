package state

import (
	"context"
	"encoding/json"
	"maps"
)

// Flags maps trick ids to a boolean mark (landed or favorite). Absent ids
// read as false.
type Flags map[string]bool

func (f Flags) Clone() Flags {
	out := make(Flags, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Toggle returns a copy with id flipped.
func (f Flags) Toggle(id string) Flags {
	out := f.Clone()
	out[id] = !f[id]
	return out
}

// Equal reports whether both sets mark the same ids as true.
func (f Flags) Equal(o Flags) bool {
	return maps.Equal(f.trueOnly(), o.trueOnly())
}

func (f Flags) trueOnly() map[string]bool {
	out := make(map[string]bool, len(f))
	for k, v := range f {
		if v {
			out[k] = true
		}
	}
	return out
}

// Count is the number of ids set to true.
func (f Flags) Count() int {
	n := 0
	for _, v := range f {
		if v {
			n++
		}
	}
	return n
}

// LoadFlags reads the blob at key. Missing, unreadable or malformed data
// yields an empty set; failures go to log.
func LoadFlags(ctx context.Context, s Store, key string, log Logger) Flags {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		orNop(log).Error("state.load_failed", map[string]any{"key": key, "error": err.Error()})
		return Flags{}
	}
	if !ok || raw == "" {
		return Flags{}
	}
	var out Flags
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		orNop(log).Error("state.decode_failed", map[string]any{"key": key, "error": err.Error()})
		return Flags{}
	}
	if out == nil {
		out = Flags{}
	}
	return out
}

// SaveFlags writes the blob at key. Failures are logged, not returned.
func SaveFlags(ctx context.Context, s Store, key string, f Flags, log Logger) {
	b, err := json.Marshal(f)
	if err != nil {
		orNop(log).Error("state.encode_failed", map[string]any{"key": key, "error": err.Error()})
		return
	}
	if err := s.Set(ctx, key, string(b)); err != nil {
		orNop(log).Error("state.save_failed", map[string]any{"key": key, "error": err.Error()})
	}
}
