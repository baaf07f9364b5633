package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"trickadex/internal/catalog"
	"trickadex/internal/filter"
	"trickadex/internal/state"
	"trickadex/internal/telemetry"
	"trickadex/internal/ui"
)

type fakeView struct {
	mu        sync.Mutex
	ctrl      ui.Controller
	engine    *filter.Engine
	screen    ui.Screen
	landed    state.Flags
	favorites state.Flags
	userName  string
	prefs     state.Preferences
	combo     []catalog.Trick
	filters   []string
	search    string
	flashes   []string
	stopped   bool
	pushes    int
	prompted  int
}

func (v *fakeView) Run() error { return nil }
func (v *fakeView) Stop() {
	v.mu.Lock()
	v.stopped = true
	v.mu.Unlock()
}
func (v *fakeView) SetController(c ui.Controller) { v.ctrl = c }
func (v *fakeView) SetScreen(s ui.Screen) {
	v.mu.Lock()
	v.screen = s
	v.mu.Unlock()
}
func (v *fakeView) SetEngine(e *filter.Engine) { v.engine = e }
func (v *fakeView) SetMarks(landed, favorites state.Flags) {
	v.mu.Lock()
	v.landed, v.favorites = landed.Clone(), favorites.Clone()
	v.pushes++
	v.mu.Unlock()
}
func (v *fakeView) SetUserName(name string) {
	v.mu.Lock()
	v.userName = name
	v.mu.Unlock()
}
func (v *fakeView) SetPreferences(p state.Preferences) {
	v.mu.Lock()
	v.prefs = p
	v.mu.Unlock()
}
func (v *fakeView) SetCombo(tricks []catalog.Trick) {
	v.mu.Lock()
	v.combo = append([]catalog.Trick(nil), tricks...)
	v.mu.Unlock()
}
func (v *fakeView) SetFilters(filters []string, search string) {
	v.mu.Lock()
	v.filters, v.search = filters, search
	v.mu.Unlock()
}
func (v *fakeView) FlashStatus(msg string) {
	v.mu.Lock()
	v.flashes = append(v.flashes, msg)
	v.mu.Unlock()
}

func (v *fakeView) PromptName() {
	v.mu.Lock()
	v.prompted++
	v.mu.Unlock()
}

func (v *fakeView) marks() (state.Flags, state.Flags, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.landed.Clone(), v.favorites.Clone(), v.pushes
}

func (v *fakeView) lastFlash() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.flashes) == 0 {
		return ""
	}
	return v.flashes[len(v.flashes)-1]
}

func testCatalog() *catalog.Catalog {
	return catalog.MustNew([]catalog.Trick{
		{ID: "axe", Name: "Axe Kick", Types: []string{"kick"}, Difficulty: catalog.TierNovice},
		{ID: "backflip", Name: "Backflip", Types: []string{"flip"}, Prerequisites: []string{"axe"}, Difficulty: catalog.TierBeginner},
		{ID: "cartwheel", Name: "Cartwheel", Types: []string{"transition"}, Difficulty: catalog.TierNovice},
	})
}

func newTestApp(t *testing.T, cfg Config, store state.Store) (*App, *fakeView, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	view := &fakeView{}
	a := newApp(cfg, telemetry.NewWriterLogger(&logs), store, testCatalog(), view, nil)
	return a, view, &logs
}

func TestNewPushesStoredStateToView(t *testing.T) {
	store := state.NewMemory()
	ctx := context.Background()
	_ = store.Set(ctx, state.KeyLanded, `{"axe":true}`)
	_ = store.Set(ctx, state.KeyFavorites, `{"cartwheel":true}`)
	_ = store.Set(ctx, state.KeyPreferences, `{"onlyLandedTricks":false,"minLevel":5,"maxLevel":1,"numberOfTricks":4}`)
	_ = store.Set(ctx, state.KeyUserName, "  Sam  ")

	a, view, _ := newTestApp(t, Config{}, store)
	if view.ctrl != a {
		t.Fatalf("expected app to register as controller")
	}
	if view.engine == nil || view.engine.Catalog() != a.catalog {
		t.Fatalf("expected engine bound to catalog")
	}
	if !view.landed["axe"] || !view.favorites["cartwheel"] {
		t.Fatalf("unexpected marks: %v %v", view.landed, view.favorites)
	}
	if view.userName != "Sam" {
		t.Fatalf("expected trimmed stored name, got %q", view.userName)
	}
	if view.prefs.MinTier != 1 || view.prefs.MaxTier != 5 || view.prefs.OnlyLanded || view.prefs.ComboSize != 4 {
		t.Fatalf("expected normalized prefs, got %+v", view.prefs)
	}
}

func TestNewDefaultsOnMalformedBlobs(t *testing.T) {
	store := state.NewMemory()
	_ = store.Set(context.Background(), state.KeyLanded, "{not json")
	_, view, logs := newTestApp(t, Config{}, store)
	if len(view.landed) != 0 {
		t.Fatalf("expected empty landed set, got %v", view.landed)
	}
	if view.userName != state.DefaultUserName {
		t.Fatalf("expected default name, got %q", view.userName)
	}
	if !strings.Contains(logs.String(), "state.decode_failed") {
		t.Fatalf("expected decode failure to be logged, got %s", logs.String())
	}
}

func TestToggleLandedPersistsAndRecords(t *testing.T) {
	store := state.NewMemory()
	a, view, _ := newTestApp(t, Config{}, store)
	ctx := context.Background()

	a.OnToggleLanded("axe")
	if !view.landed["axe"] {
		t.Fatalf("expected view to see axe landed")
	}
	if got := state.LoadFlags(ctx, store, state.KeyLanded, nil); !got["axe"] {
		t.Fatalf("expected landed blob persisted, got %v", got)
	}
	a.OnToggleLanded("axe")
	if view.landed["axe"] {
		t.Fatalf("expected second toggle to clear axe")
	}

	events, err := store.RecentToggles(ctx, state.KeyLanded, 10)
	if err != nil {
		t.Fatalf("recent toggles: %v", err)
	}
	if len(events) != 2 || events[0].Value || !events[1].Value {
		t.Fatalf("unexpected toggle log: %+v", events)
	}
	if events[0].SessionID == "" {
		t.Fatalf("expected session id on toggle events")
	}
}

// slowStore delays writes so concurrent toggles overlap.
type slowStore struct {
	*state.MemoryStore
	delay time.Duration
}

func (s slowStore) Set(ctx context.Context, key, value string) error {
	time.Sleep(s.delay)
	return s.MemoryStore.Set(ctx, key, value)
}

func (s slowStore) RecordToggle(ctx context.Context, ev state.ToggleEvent) error {
	time.Sleep(s.delay)
	return s.MemoryStore.RecordToggle(ctx, ev)
}

func TestConcurrentTogglesLeaveViewMatchingStore(t *testing.T) {
	store := slowStore{MemoryStore: state.NewMemory(), delay: time.Millisecond}
	a, view, _ := newTestApp(t, Config{}, store)
	ctx := context.Background()

	ids := []string{"axe", "backflip", "cartwheel"}
	var wg sync.WaitGroup
	for i := 0; i < 9; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if len(id)%2 == 0 {
				a.OnToggleFavorite(id)
			} else {
				a.OnToggleLanded(id)
			}
		}(ids[i%len(ids)])
	}
	wg.Wait()

	landed, favorites, _ := view.marks()
	storedLanded := state.LoadFlags(ctx, store, state.KeyLanded, nil)
	storedFavorites := state.LoadFlags(ctx, store, state.KeyFavorites, nil)
	if !landed.Equal(storedLanded) || !favorites.Equal(storedFavorites) {
		t.Fatalf("view drifted from store: view=%v/%v store=%v/%v", landed, favorites, storedLanded, storedFavorites)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !landed.Equal(a.landed) || !favorites.Equal(a.favorites) {
		t.Fatalf("view drifted from app state: view=%v/%v app=%v/%v", landed, favorites, a.landed, a.favorites)
	}
}

func TestRefreshIgnoresOwnWrites(t *testing.T) {
	store := state.NewMemory()
	a, view, logs := newTestApp(t, Config{}, store)
	ctx := context.Background()

	a.OnToggleLanded("axe")
	_, _, before := view.marks()
	a.refresh(ctx)
	if _, _, after := view.marks(); after != before {
		t.Fatalf("refresh after our own write pushed marks again (%d -> %d)", before, after)
	}
	if !strings.Contains(logs.String(), "state.unchanged") {
		t.Fatalf("expected unchanged refresh to be logged")
	}

	_ = store.Set(ctx, state.KeyLanded, `{"axe":true,"cartwheel":true}`)
	a.refresh(ctx)
	landed, _, after := view.marks()
	if after != before+1 || !landed["cartwheel"] {
		t.Fatalf("expected external change pushed once, got pushes=%d landed=%v", after-before, landed)
	}
	if !strings.Contains(logs.String(), "state.changed") {
		t.Fatalf("expected external change to be logged")
	}
}

func TestRefreshPicksUpExternalRename(t *testing.T) {
	store := state.NewMemory()
	_ = store.Set(context.Background(), state.KeyUserName, "Sam")
	a, view, _ := newTestApp(t, Config{}, store)

	_ = store.Set(context.Background(), state.KeyUserName, "Robin")
	a.refresh(context.Background())
	view.mu.Lock()
	defer view.mu.Unlock()
	if view.userName != "Robin" {
		t.Fatalf("expected renamed user, got %q", view.userName)
	}
}

func TestFirstRunPromptsForName(t *testing.T) {
	_, view, logs := newTestApp(t, Config{}, state.NewMemory())
	if view.prompted != 1 {
		t.Fatalf("expected a name prompt on first run, got %d", view.prompted)
	}
	if !strings.Contains(logs.String(), "profile.first_run") {
		t.Fatalf("expected first run to be logged")
	}

	named := state.NewMemory()
	_ = named.Set(context.Background(), state.KeyUserName, "Sam")
	if _, view, _ := newTestApp(t, Config{}, named); view.prompted != 0 {
		t.Fatalf("a stored name must not prompt")
	}

	if _, view, _ := newTestApp(t, Config{DemoScenario: "empty"}, state.NewMemory()); view.prompted != 0 {
		t.Fatalf("demo scenarios must not prompt")
	}
}

func TestToggleFavoriteLeavesLandedAlone(t *testing.T) {
	store := state.NewMemory()
	a, view, _ := newTestApp(t, Config{}, store)
	a.OnToggleFavorite("backflip")
	if !view.favorites["backflip"] || len(view.landed) != 0 {
		t.Fatalf("unexpected marks: landed=%v favorites=%v", view.landed, view.favorites)
	}
}

func TestToggleUnknownTrickIsIgnored(t *testing.T) {
	store := state.NewMemory()
	a, view, logs := newTestApp(t, Config{}, store)
	a.OnToggleLanded("moonwalk")
	if len(view.landed) != 0 {
		t.Fatalf("expected no marks, got %v", view.landed)
	}
	if _, ok, _ := store.Get(context.Background(), state.KeyLanded); ok {
		t.Fatalf("expected nothing persisted")
	}
	if !strings.Contains(logs.String(), "state.toggle_unknown") {
		t.Fatalf("expected unknown toggle logged")
	}
}

func TestRenameUpdatesSubscribersAndStore(t *testing.T) {
	store := state.NewMemory()
	a, view, _ := newTestApp(t, Config{}, store)
	a.OnRename("  Riley ")
	if view.userName != "Riley" {
		t.Fatalf("expected subscriber update, got %q", view.userName)
	}
	if got, _, _ := store.Get(context.Background(), state.KeyUserName); got != "Riley" {
		t.Fatalf("expected stored name, got %q", got)
	}
	a.OnRename("   ")
	if view.userName != "Riley" {
		t.Fatalf("blank rename must be ignored, got %q", view.userName)
	}
	if view.lastFlash() == "" {
		t.Fatalf("expected a status for blank rename")
	}
}

func TestSavePreferencesNormalizesAndPersists(t *testing.T) {
	store := state.NewMemory()
	a, view, _ := newTestApp(t, Config{}, store)
	a.OnSavePreferences(state.Preferences{OnlyLanded: false, MinTier: 9, MaxTier: 2, ComboSize: 0})
	want := state.Preferences{OnlyLanded: false, MinTier: 2, MaxTier: 7, ComboSize: 1}
	if view.prefs != want {
		t.Fatalf("expected %+v, got %+v", want, view.prefs)
	}
	if got := state.LoadPreferences(context.Background(), store, nil); got != want {
		t.Fatalf("expected persisted %+v, got %+v", want, got)
	}
}

func TestRandomComboRespectsPreferences(t *testing.T) {
	store := state.NewMemory()
	a, view, _ := newTestApp(t, Config{}, store)

	// Only landed tricks by default, and nothing is landed yet.
	a.OnRandomCombo()
	if len(view.combo) != 0 {
		t.Fatalf("expected no combo, got %v", view.combo)
	}
	if !strings.Contains(view.lastFlash(), "No tricks") {
		t.Fatalf("expected empty-pool status, got %q", view.lastFlash())
	}

	a.OnToggleLanded("axe")
	a.OnRandomCombo()
	if len(view.combo) != 3 {
		t.Fatalf("expected 3 tricks, got %d", len(view.combo))
	}
	for _, tr := range view.combo {
		if tr.ID != "axe" {
			t.Fatalf("expected only landed axe, got %s", tr.ID)
		}
	}

	a.OnSavePreferences(state.Preferences{OnlyLanded: false, MinTier: 1, MaxTier: 1, ComboSize: 2})
	a.OnRandomCombo()
	if len(view.combo) != 2 || view.combo[0].ID != "backflip" {
		t.Fatalf("expected beginner-only combo, got %v", view.combo)
	}
}

func TestCopyReportsClipboardResult(t *testing.T) {
	a, view, _ := newTestApp(t, Config{}, state.NewMemory())
	var copied string
	a.copy = func(text string) error {
		copied = text
		return nil
	}
	a.OnCopy("Axe Kick -> Backflip")
	if copied != "Axe Kick -> Backflip" || !strings.Contains(view.lastFlash(), "Copied") {
		t.Fatalf("expected copy, got %q / %q", copied, view.lastFlash())
	}

	a.copy = func(string) error { return errors.New("no display") }
	a.OnCopy("x")
	if view.lastFlash() != "Clipboard unavailable" {
		t.Fatalf("expected failure status, got %q", view.lastFlash())
	}
	a.OnCopy("")
	if view.lastFlash() != "Nothing to copy" {
		t.Fatalf("expected empty status, got %q", view.lastFlash())
	}
}

func TestOnEventAndQuit(t *testing.T) {
	a, view, logs := newTestApp(t, Config{}, state.NewMemory())
	a.OnEvent("combo.dropped", map[string]any{"index": 1})
	if !strings.Contains(logs.String(), `"msg":"combo.dropped"`) {
		t.Fatalf("expected event in log, got %s", logs.String())
	}
	a.OnQuit()
	if !view.stopped {
		t.Fatalf("expected quit to stop the view")
	}
}

func TestDemoScenarioDrivesView(t *testing.T) {
	store := state.NewMemory()
	a, view, _ := newTestApp(t, Config{DemoScenario: "filtered"}, store)
	if view.screen != ui.ScreenTricks {
		t.Fatalf("expected tricks screen, got %v", view.screen)
	}
	if len(view.filters) != 2 || view.filters[1] != catalog.FilterNextLearns {
		t.Fatalf("unexpected demo filters: %v", view.filters)
	}
	if !view.landed["axe"] || !view.landed["cartwheel"] {
		t.Fatalf("expected novice tricks landed, got %v", view.landed)
	}

	if err := a.applyDemoScenario(context.Background(), "combo"); err != nil {
		t.Fatalf("apply combo demo: %v", err)
	}
	if view.screen != ui.ScreenCombo || len(view.combo) == 0 {
		t.Fatalf("expected combo screen with tricks, got %v %v", view.screen, view.combo)
	}
}

func TestDevHandlerSwitchesScenario(t *testing.T) {
	a, view, _ := newTestApp(t, Config{DemoScenario: "fresh"}, state.NewMemory())
	srv := httptest.NewServer(a.devHandler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/__dev/demo", "application/json", strings.NewReader(`{"demo":"profile"}`))
	if err != nil {
		t.Fatalf("post demo: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if view.screen != ui.ScreenProfile || view.userName != "Demo User" {
		t.Fatalf("expected profile demo applied, got %v %q", view.screen, view.userName)
	}

	resp2, err := http.Get(srv.URL + "/__dev/ready")
	if err != nil {
		t.Fatalf("get ready: %v", err)
	}
	defer resp2.Body.Close()
	var ready map[string]any
	if err := json.NewDecoder(resp2.Body).Decode(&ready); err != nil {
		t.Fatalf("decode ready: %v", err)
	}
	if ready["state"] != "profile" || ready["ok"] != true {
		t.Fatalf("unexpected ready payload: %v", ready)
	}

	bad, err := http.Post(srv.URL+"/__dev/demo", "application/json", strings.NewReader(`{"demo":"  "}`))
	if err != nil {
		t.Fatalf("post empty demo: %v", err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty demo, got %d", bad.StatusCode)
	}
}

func TestRandomSpecFromPreferences(t *testing.T) {
	spec := RandomSpec(state.Preferences{OnlyLanded: true, MinTier: 6, MaxTier: 3, ComboSize: 5})
	if spec.MinTier != catalog.Tier(3) || spec.MaxTier != catalog.Tier(6) || spec.Size != 5 || !spec.OnlyLanded {
		t.Fatalf("unexpected spec %+v", spec)
	}
}
