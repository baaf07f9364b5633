package state

import (
	"context"
	"errors"
	"testing"
)

type recordingLogger struct {
	msgs []string
}

func (l *recordingLogger) Error(msg string, _ map[string]any) { l.msgs = append(l.msgs, msg) }

func TestLoadFlagsFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	log := &recordingLogger{}

	if got := LoadFlags(ctx, store, KeyLanded, log); len(got) != 0 || len(log.msgs) != 0 {
		t.Fatalf("absent key should be empty without logging: %v %v", got, log.msgs)
	}

	_ = store.Set(ctx, KeyLanded, "{not json")
	if got := LoadFlags(ctx, store, KeyLanded, log); len(got) != 0 {
		t.Fatalf("malformed blob should be empty, got %v", got)
	}
	if len(log.msgs) != 1 || log.msgs[0] != "state.decode_failed" {
		t.Fatalf("expected decode failure logged, got %v", log.msgs)
	}

	store.FailGet = errors.New("disk gone")
	if got := LoadFlags(ctx, store, KeyLanded, log); len(got) != 0 {
		t.Fatalf("read error should be empty, got %v", got)
	}
	if log.msgs[len(log.msgs)-1] != "state.load_failed" {
		t.Fatalf("expected load failure logged, got %v", log.msgs)
	}
}

func TestSaveFlagsRoundTripsAndSwallowsErrors(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	log := &recordingLogger{}

	flags := Flags{}.Toggle("backflip").Toggle("cork").Toggle("cork")
	if !flags["backflip"] || flags["cork"] || flags.Count() != 1 {
		t.Fatalf("unexpected flags %v", flags)
	}
	SaveFlags(ctx, store, KeyFavorites, flags, log)
	got := LoadFlags(ctx, store, KeyFavorites, log)
	if !got["backflip"] || got.Count() != 1 {
		t.Fatalf("unexpected reload %v", got)
	}

	store.FailSet = errors.New("read only")
	SaveFlags(ctx, store, KeyFavorites, flags, log)
	if len(log.msgs) != 1 || log.msgs[0] != "state.save_failed" {
		t.Fatalf("expected save failure logged, got %v", log.msgs)
	}
}

func TestFlagsEqualIgnoresFalseEntries(t *testing.T) {
	a := Flags{"axe": true, "cork": false}
	if !a.Equal(Flags{"axe": true}) {
		t.Fatalf("false entries must not affect equality")
	}
	if a.Equal(Flags{"axe": true, "cork": true}) || a.Equal(nil) {
		t.Fatalf("different marks compared equal")
	}
	if !Flags(nil).Equal(Flags{}) {
		t.Fatalf("nil and empty sets are equal")
	}
}

func TestFlagsToggleDoesNotMutateReceiver(t *testing.T) {
	orig := Flags{"a": true}
	next := orig.Toggle("a")
	if !orig["a"] || next["a"] {
		t.Fatalf("toggle must copy: orig=%v next=%v", orig, next)
	}
}

func TestPreferencesDefaultsAndNormalize(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if got := LoadPreferences(ctx, store, nil); got != DefaultPreferences() {
		t.Fatalf("expected defaults, got %+v", got)
	}

	_ = store.Set(ctx, KeyPreferences, `{"minLevel":6,"maxLevel":2,"numberOfTricks":0}`)
	got := LoadPreferences(ctx, store, nil)
	want := Preferences{OnlyLanded: true, MinTier: 2, MaxTier: 6, ComboSize: 1}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}

	_ = store.Set(ctx, KeyPreferences, `[]`)
	if got := LoadPreferences(ctx, store, nil); got != DefaultPreferences() {
		t.Fatalf("malformed preferences should reset, got %+v", got)
	}

	SavePreferences(ctx, store, Preferences{MinTier: -3, MaxTier: 99, ComboSize: 5}, nil)
	got = LoadPreferences(ctx, store, nil)
	if got.MinTier != 0 || got.MaxTier != 7 || got.ComboSize != 5 || got.OnlyLanded {
		t.Fatalf("unexpected saved preferences %+v", got)
	}
}

func TestProfileNotifiesSubscribersUntilUnsubscribed(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	p := NewProfile(store, nil)
	if name, stored := p.Load(ctx); name != DefaultUserName || stored {
		t.Fatalf("expected default name and nothing stored, got %q %v", name, stored)
	}

	var seen []string
	unsub := p.Subscribe(func(name string) { seen = append(seen, name) })

	if p.SetName(ctx, "   ") {
		t.Fatalf("blank names must be ignored")
	}
	if !p.SetName(ctx, "  Robin  ") {
		t.Fatalf("expected name accepted")
	}
	if v, _, _ := store.Get(ctx, KeyUserName); v != "Robin" {
		t.Fatalf("expected persisted trimmed name, got %q", v)
	}
	unsub()
	unsub()
	p.SetName(ctx, "Kai")

	if len(seen) != 1 || seen[0] != "Robin" || p.Subscribers() != 0 {
		t.Fatalf("unexpected notifications %v", seen)
	}

	other := NewProfile(store, nil)
	if name, stored := other.Load(ctx); name != "Kai" || !stored {
		t.Fatalf("expected stored name to load, got %q %v", name, stored)
	}

	blank := NewMemory()
	_ = blank.Set(ctx, KeyUserName, "   ")
	if _, stored := NewProfile(blank, nil).Load(ctx); stored {
		t.Fatalf("a blank stored name must count as not stored")
	}
}
