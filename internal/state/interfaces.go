package state

import (
	"context"
	"time"
)

// Store is the persisted key-value store plus a log of flag toggles.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	RecordToggle(ctx context.Context, ev ToggleEvent) error
	RecentToggles(ctx context.Context, key string, limit int) ([]ToggleEvent, error)
	GetSummary(ctx context.Context) (Summary, error)
	Close() error
}

// Logger receives load and save failures, which are never returned to
// callers of the typed helpers.
type Logger interface {
	Error(msg string, fields map[string]any)
}

// ToggleEvent records one flip of a landed or favorite flag.
type ToggleEvent struct {
	SessionID string
	Key       string
	TrickID   string
	Value     bool
	TS        time.Time
}

type Summary struct {
	Toggles         int
	LandedToggles   int
	FavoriteToggles int
	Sessions        int
	LastToggleTS    time.Time
}

type nopLogger struct{}

func (nopLogger) Error(string, map[string]any) {}

func orNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}
