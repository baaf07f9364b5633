package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"sync"
	"time"

	"trickadex/internal/catalog"
	"trickadex/internal/combo"
	"trickadex/internal/devtools"
	"trickadex/internal/filter"
	"trickadex/internal/state"
	"trickadex/internal/telemetry"
	"trickadex/internal/ui"

	"github.com/atotto/clipboard"
	clog "github.com/charmbracelet/log"
)

type App struct {
	cfg Config

	logger    Logger
	store     state.Store
	storePath string
	catalog   *catalog.Catalog
	engine    *filter.Engine
	profile   *state.Profile
	demo      devtools.Demo
	view      ui.View
	copy      CopyFunc
	rng       *rand.Rand

	mu        sync.Mutex
	landed    state.Flags
	favorites state.Flags
	prefs     state.Preferences

	unsubscribe func()
	stopWatch   context.CancelFunc
	watchDone   chan struct{}

	devMu     sync.Mutex
	devServer *http.Server
	demoMu    sync.Mutex
	devState  struct {
		State     string
		RenderSeq int
		Error     string
	}
}

func New(cfg Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	logger, err := telemetry.NewJSONLogger(cfg.LogPath)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		logger.Mirror(clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "trickadex", Level: clog.DebugLevel}))
	}

	cat, err := LoadCatalog(context.Background(), cfg.CatalogPath)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	// Demo scenarios never touch the user's real progress.
	var (
		store     state.Store
		storePath string
	)
	if cfg.DemoScenario != "" {
		store = state.NewMemory()
	} else {
		sqlite, err := OpenStore(context.Background(), cfg)
		if err != nil {
			_ = logger.Close()
			return nil, err
		}
		store = sqlite
		storePath = sqlite.Path()
	}

	view := ui.New(ui.Options{
		ASCIIOnly:    cfg.ASCIIOnly,
		Debug:        cfg.Debug,
		StyleVariant: cfg.UI.StyleVariant,
		MotionLevel:  cfg.UI.MotionLevel,
		MouseScope:   cfg.UI.MouseScope,
	})

	a := newApp(cfg, logger, store, cat, view, clipboard.WriteAll)
	a.storePath = storePath
	return a, nil
}

// newApp wires the controller to its collaborators and pushes the stored
// state into the view.
func newApp(cfg Config, logger Logger, store state.Store, cat *catalog.Catalog, view ui.View, copyFn CopyFunc) *App {
	a := &App{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		catalog: cat,
		engine:  filter.NewEngine(cat),
		profile: state.NewProfile(store, logger),
		demo:    devtools.NewManager(),
		view:    view,
		copy:    copyFn,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x7472696b)),
		prefs:   state.DefaultPreferences(),
	}
	view.SetController(a)
	view.SetEngine(a.engine)
	a.unsubscribe = a.profile.Subscribe(view.SetUserName)

	ctx := context.Background()
	if cfg.DemoScenario != "" {
		if err := a.applyDemoScenario(ctx, cfg.DemoScenario); err != nil {
			a.logger.Error("dev.demo.initial_failed", map[string]any{"demo": cfg.DemoScenario, "error": err.Error()})
		}
	} else if !a.reload(ctx) {
		a.logger.Info("profile.first_run", map[string]any{})
		view.PromptName()
	}
	return a
}

// LoadCatalog reads the catalog at path, or the built-in one when path is
// empty.
func LoadCatalog(ctx context.Context, path string) (*catalog.Catalog, error) {
	var loader catalog.Loader = catalog.NewLoader()
	if path == "" {
		return loader.LoadBuiltin(ctx)
	}
	return loader.LoadFile(ctx, path)
}

// OpenStore opens the SQLite store under cfg.DataDir and ensures its
// schema.
func OpenStore(ctx context.Context, cfg Config) (*state.SQLiteStore, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	store, err := state.NewSQLite(cfg.StorePath())
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("prepare state: %w", err)
	}
	return store, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start", map[string]any{
		"session": a.logger.SessionID(),
		"tricks":  a.catalog.Len(),
		"demo":    a.cfg.DemoScenario,
	})
	if dangling := a.catalog.DanglingPrerequisites(); len(dangling) > 0 {
		a.logger.Info("catalog.dangling_prerequisites", map[string]any{"count": len(dangling)})
	}

	if a.storePath != "" && !a.cfg.NoWatch {
		a.startWatch(ctx)
	}
	if a.cfg.Dev {
		if err := a.startDevHTTP(); err != nil {
			return err
		}
	}
	return a.view.Run()
}

func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.devServer != nil {
		_ = a.devServer.Shutdown(ctx)
	}
	if a.stopWatch != nil {
		a.stopWatch()
		<-a.watchDone
	}
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	_ = a.store.Close()
	a.logger.Info("app.stop", map[string]any{"session": a.logger.SessionID()})
	_ = a.logger.Close()
}

func (a *App) startWatch(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	a.stopWatch = cancel
	a.watchDone = make(chan struct{})
	go func() {
		defer close(a.watchDone)
		err := state.Watch(ctx, a.storePath, state.DefaultDebounce, func() {
			a.refresh(ctx)
		})
		if err != nil {
			a.logger.Error("state.watch_failed", map[string]any{"path": a.storePath, "error": err.Error()})
		}
	}()
}

// reload reads every persisted blob and pushes it to the view. It reports
// whether the user has saved a name.
func (a *App) reload(ctx context.Context) (nameStored bool) {
	a.mu.Lock()
	a.landed = state.LoadFlags(ctx, a.store, state.KeyLanded, a.logger)
	a.favorites = state.LoadFlags(ctx, a.store, state.KeyFavorites, a.logger)
	a.prefs = state.LoadPreferences(ctx, a.store, a.logger)
	a.view.SetPreferences(a.prefs)
	a.view.SetMarks(a.landed.Clone(), a.favorites.Clone())
	a.mu.Unlock()

	name, stored := a.profile.Load(ctx)
	a.view.SetUserName(name)
	return stored
}

// refresh handles a change to the store file. The app's own writes also
// land here, so nothing is pushed unless the stored state differs from
// what the view already shows.
func (a *App) refresh(ctx context.Context) {
	// Read under the lock so a toggle cannot land between load and compare.
	a.mu.Lock()
	landed := state.LoadFlags(ctx, a.store, state.KeyLanded, a.logger)
	favorites := state.LoadFlags(ctx, a.store, state.KeyFavorites, a.logger)
	prefs := state.LoadPreferences(ctx, a.store, a.logger)
	marksChanged := !landed.Equal(a.landed) || !favorites.Equal(a.favorites)
	prefsChanged := prefs != a.prefs
	if marksChanged {
		a.landed, a.favorites = landed, favorites
		a.view.SetMarks(landed.Clone(), favorites.Clone())
	}
	if prefsChanged {
		a.prefs = prefs
		a.view.SetPreferences(prefs)
	}
	a.mu.Unlock()

	// Load publishes to subscribers only when the name differs.
	_, _ = a.profile.Load(ctx)
	if !marksChanged && !prefsChanged {
		a.logger.Debug("state.unchanged", map[string]any{"path": a.storePath})
		return
	}
	a.logger.Info("state.changed", map[string]any{"path": a.storePath, "marks": marksChanged, "prefs": prefsChanged})
}

func (a *App) OnToggleLanded(trickID string) {
	a.toggle(state.KeyLanded, trickID)
}

func (a *App) OnToggleFavorite(trickID string) {
	a.toggle(state.KeyFavorites, trickID)
}

func (a *App) toggle(key, trickID string) {
	if _, ok := a.catalog.ByID(trickID); !ok {
		a.logger.Error("state.toggle_unknown", map[string]any{"key": key, "trick": trickID})
		return
	}
	ctx := context.Background()

	// The view is updated before the lock is released so concurrent
	// toggles reach it in the order they were applied.
	a.mu.Lock()
	defer a.mu.Unlock()
	var value bool
	if key == state.KeyLanded {
		a.landed = a.landed.Toggle(trickID)
		value = a.landed[trickID]
		state.SaveFlags(ctx, a.store, key, a.landed, a.logger)
	} else {
		a.favorites = a.favorites.Toggle(trickID)
		value = a.favorites[trickID]
		state.SaveFlags(ctx, a.store, key, a.favorites, a.logger)
	}
	a.view.SetMarks(a.landed.Clone(), a.favorites.Clone())

	ev := state.ToggleEvent{
		SessionID: a.logger.SessionID(),
		Key:       key,
		TrickID:   trickID,
		Value:     value,
		TS:        time.Now().UTC(),
	}
	if err := a.store.RecordToggle(ctx, ev); err != nil {
		a.logger.Error("state.record_toggle_failed", map[string]any{"key": key, "trick": trickID, "error": err.Error()})
	}
	a.logger.Info("state.toggled", map[string]any{"key": key, "trick": trickID, "value": value})
}

func (a *App) OnRename(name string) {
	if !a.profile.SetName(context.Background(), name) {
		a.view.FlashStatus("Name cannot be empty")
		return
	}
	a.logger.Info("profile.renamed", map[string]any{"length": len([]rune(a.profile.Name()))})
}

func (a *App) OnSavePreferences(p state.Preferences) {
	p = p.Normalize()
	a.mu.Lock()
	a.prefs = p
	state.SavePreferences(context.Background(), a.store, p, a.logger)
	a.view.SetPreferences(p)
	a.mu.Unlock()
	a.logger.Info("prefs.saved", map[string]any{
		"only_landed": p.OnlyLanded,
		"min_tier":    p.MinTier,
		"max_tier":    p.MaxTier,
		"size":        p.ComboSize,
	})
	a.view.FlashStatus("Combo preferences saved")
}

func (a *App) OnRandomCombo() {
	a.mu.Lock()
	prefs := a.prefs
	landed := a.landed.Clone()
	spec := RandomSpec(prefs)
	seq := combo.Random(a.catalog, landed, spec, a.rng)
	a.mu.Unlock()

	if seq.Len() == 0 {
		a.view.FlashStatus("No tricks match your combo preferences")
		a.logger.Info("combo.random_empty", map[string]any{"only_landed": prefs.OnlyLanded, "min_tier": prefs.MinTier, "max_tier": prefs.MaxTier})
		return
	}
	a.logger.Info("combo.random", map[string]any{"size": seq.Len()})
	a.view.SetCombo(seq.Items())
}

// RandomSpec converts stored preferences into generator bounds.
func RandomSpec(p state.Preferences) combo.RandomSpec {
	p = p.Normalize()
	return combo.RandomSpec{
		Size:       p.ComboSize,
		MinTier:    catalog.Tier(p.MinTier),
		MaxTier:    catalog.Tier(p.MaxTier),
		OnlyLanded: p.OnlyLanded,
	}
}

func (a *App) OnCopy(text string) {
	if text == "" {
		a.view.FlashStatus("Nothing to copy")
		return
	}
	if a.copy == nil {
		a.view.FlashStatus("Clipboard unavailable")
		return
	}
	if err := a.copy(text); err != nil {
		a.logger.Error("clipboard.write_failed", map[string]any{"error": err.Error()})
		a.view.FlashStatus("Clipboard unavailable")
		return
	}
	a.view.FlashStatus("Copied combo to clipboard")
}

func (a *App) OnEvent(name string, fields map[string]any) {
	a.logger.Info(name, fields)
}

func (a *App) OnQuit() {
	a.logger.Info("app.quit", map[string]any{})
	a.view.Stop()
}

// applyDemoScenario writes the scenario into the store, reloads, and
// drives the view to the scenario's screen.
func (a *App) applyDemoScenario(ctx context.Context, name string) error {
	sc := a.demo.Resolve(a.catalog, name)
	if err := a.demo.Apply(ctx, a.store, sc); err != nil {
		return fmt.Errorf("apply demo %s: %w", sc.Name, err)
	}
	a.reload(ctx)

	screen, ok := ui.ScreenByName(sc.Screen)
	if !ok {
		screen = ui.ScreenTricks
	}
	a.view.SetFilters(sc.Filters, sc.Search)
	tricks := make([]catalog.Trick, 0, len(sc.Combo))
	for _, id := range sc.Combo {
		if t, ok := a.catalog.ByID(id); ok {
			tricks = append(tricks, t)
		}
	}
	a.view.SetCombo(tricks)
	a.view.SetScreen(screen)
	a.logger.Info("dev.demo.applied", map[string]any{"requested": name, "resolved": sc.Name, "screen": screen.String()})
	return nil
}
