package ui

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	pbar "charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	clog "github.com/charmbracelet/log"

	"trickadex/internal/catalog"
	"trickadex/internal/combo"
	"trickadex/internal/filter"
	"trickadex/internal/progress"
	"trickadex/internal/state"
)

type applyMsg struct {
	fn func(*Root)
}

type animateMsg time.Time

// autoScrollMsg carries the drag generation it was scheduled for; ticks
// from an older generation are dropped.
type autoScrollMsg struct {
	gen uint64
}

type hitKind int

const (
	hitTab hitKind = iota
	hitChip
	hitTrick
	hitTier
	hitLevelBar
	hitSource
	hitCard
)

type hit struct {
	kind  hitKind
	x, y  int
	w, h  int
	index int
}

func (h hit) contains(x, y int) bool {
	return x >= h.x && x < h.x+h.w && y >= h.y && y < h.y+h.h
}

type Root struct {
	theme        Theme
	ascii        bool
	debug        bool
	ctrl         Controller
	styleVariant string
	motionLevel  string
	mouseScope   string

	mu      sync.Mutex
	program *tea.Program
	running bool

	screen Screen
	layout LayoutMode
	cols   int
	rows   int

	engine    *filter.Engine
	loaded    bool
	landed    state.Flags
	favorites state.Flags
	userName  string
	prefs     state.Preferences
	focusCfg  progress.FocusConfig
	focus     progress.Focus

	statusFlash string

	tricks  tricksState
	stats   statsState
	profile profileState
	combo   comboState

	hits []hit

	help     help.Model
	keymaps  map[Screen]screenKeyMap
	bar      pbar.Model
	loadSpin spinner.Model
	markdown *glamour.TermRenderer
	logger   *clog.Logger
	fps      int

	lastInputEvent string
}

type Options struct {
	ASCIIOnly    bool
	Debug        bool
	StyleVariant string
	MotionLevel  string
	MouseScope   string
	// Combo geometry in terminal cells. Zero values use cell defaults.
	Combo combo.Options
	Focus progress.FocusConfig
}

func New(opts Options) *Root {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "trickadex-ui", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(56),
	)
	if err != nil {
		renderer = nil
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	motionLevel := normalizeMotionLevel(opts.MotionLevel)
	mouseScope := normalizeMouseScope(opts.MouseScope)
	styleVariant := normalizeStyleVariant(opts.StyleVariant)
	theme := ThemeForVariant(styleVariant)

	fps := 60
	switch motionLevel {
	case "reduced":
		fps = 30
	case "off":
		fps = 0
	}
	bar := pbar.New(
		pbar.WithWidth(20),
		pbar.WithColors(lipgloss.Color("#5EC2FF"), lipgloss.Color("#79E6A6"), lipgloss.Color("#F2D16B")),
		pbar.WithScaled(true),
	)
	loadSpin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(theme.Accent),
	)

	comboOpts := opts.Combo
	if comboOpts.CardPitch <= 0 {
		comboOpts = defaultCellComboOptions()
	}
	focusCfg := opts.Focus
	if focusCfg.MinLanded <= 0 && focusCfg.TierThreshold <= 0 && focusCfg.SpecialistShare <= 0 {
		focusCfg = progress.DefaultFocusConfig()
	}

	r := &Root{
		theme:        theme,
		ascii:        opts.ASCIIOnly,
		debug:        opts.Debug,
		styleVariant: styleVariant,
		motionLevel:  motionLevel,
		mouseScope:   mouseScope,
		screen:       ScreenTricks,
		layout:       LayoutWide,
		cols:         120,
		rows:         30,
		landed:       state.Flags{},
		favorites:    state.Flags{},
		prefs:        state.DefaultPreferences(),
		focusCfg:     focusCfg,
		focus:        progress.Focus{Level: progress.LevelUnranked, LevelTier: -1},
		help:         h,
		keymaps:      newKeyMaps(),
		bar:          bar,
		loadSpin:     loadSpin,
		markdown:     renderer,
		logger:       logger,
		fps:          fps,
	}
	r.tricks = newTricksState()
	r.profile = newProfileState(fps)
	r.combo = newComboState(comboOpts)
	return r
}

func (r *Root) Init() tea.Cmd {
	return spinnerTickCmd(r.loadSpin)
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.layout = DetermineLayoutMode(r.cols, r.rows)
		r.help.SetWidth(r.cols)
		r.syncComboZone()
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, r.animateIfNeeded()
	case animateMsg:
		return r, r.stepAnimation()
	case autoScrollMsg:
		return r, r.stepAutoScroll(msg.gen)
	case spinner.TickMsg:
		if r.loaded {
			return r, nil
		}
		var cmd tea.Cmd
		r.loadSpin, cmd = r.loadSpin.Update(msg)
		return r, cmd
	case tea.PasteMsg:
		return r.handlePaste(msg)
	case tea.MouseClickMsg:
		return r.handleMouseClick(msg)
	case tea.MouseMotionMsg:
		return r.handleMouseMotion(msg)
	case tea.MouseReleaseMsg:
		return r.handleMouseRelease(msg)
	case tea.MouseWheelMsg:
		return r.handleMouseWheel(msg)
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			msg := "UI recovered from a rendering panic. Check logs."
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			view = tea.NewView(r.theme.Error.Width(width).Render(trimForWidth(msg, max(1, width-1))))
		}
	}()

	v := tea.NewView(r.render())
	v.AltScreen = true
	v.MouseMode = r.currentMouseMode()
	return v
}

// render draws the whole screen and records the mouse hit regions.
func (r *Root) render() string {
	if r.cols < 1 {
		r.cols = 120
	}
	if r.rows < 1 {
		r.rows = 30
	}
	r.hits = r.hits[:0]

	if r.layout == LayoutTooSmall {
		return r.renderTooSmall()
	}
	base := r.renderFrame()
	if overlay := r.renderOverlay(); overlay != "" {
		base = composeOverlay(base, overlay, r.cols, r.rows)
	}
	return base
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
}

func (r *Root) SetScreen(screen Screen) {
	r.apply(func(m *Root) {
		m.switchScreen(screen)
	})
}

func (r *Root) SetEngine(e *filter.Engine) {
	r.apply(func(m *Root) {
		m.engine = e
		if e != nil {
			e.SetLanded(m.landed)
			e.SetFavorites(m.favorites)
		}
		m.recomputeFocus()
	})
}

// SetMarks replaces the landed and favorite snapshots. The first call ends
// the loading state.
func (r *Root) SetMarks(landed, favorites state.Flags) {
	landed = landed.Clone()
	favorites = favorites.Clone()
	r.apply(func(m *Root) {
		first := !m.loaded
		m.loaded = true
		m.landed = landed
		m.favorites = favorites
		if m.engine != nil {
			m.engine.SetLanded(landed)
			m.engine.SetFavorites(favorites)
		}
		m.recomputeFocus()
		if first && m.screen == ScreenProfile {
			m.profile.display.Reset()
		}
	})
}

func (r *Root) SetUserName(name string) {
	r.apply(func(m *Root) {
		m.userName = name
	})
}

func (r *Root) SetPreferences(p state.Preferences) {
	p = p.Normalize()
	r.apply(func(m *Root) {
		m.prefs = p
		if !m.combo.prefsOpen {
			m.combo.prefsDraft = p
		}
	})
}

func (r *Root) SetCombo(tricks []catalog.Trick) {
	items := append([]catalog.Trick(nil), tricks...)
	r.apply(func(m *Root) {
		m.cancelDrag()
		m.combo.seq.Clear()
		for _, t := range items {
			m.combo.seq.Append(t)
		}
		m.combo.cardIndex = 0
		m.combo.resolver.SetScrollOffset(0)
		m.syncComboZone()
	})
}

// SetFilters replaces the active chips and the search text on the tricks
// screen.
func (r *Root) SetFilters(filters []string, search string) {
	r.apply(func(m *Root) {
		m.tricks.selection = filter.NewSelection(filters...)
		m.tricks.search.SetValue(search)
		m.tricks.cursor = 0
		m.tricks.offset = 0
	})
}

// PromptName opens the name editor on the profile screen. The app calls it
// on first run, before any name is saved.
func (r *Root) PromptName() {
	r.apply(func(m *Root) {
		m.switchScreen(ScreenProfile)
		m.tricks.detailOpen = false
		m.profile.editing = true
		m.profile.firstRun = true
		m.profile.input.SetValue("")
		_ = m.profile.input.Focus()
		m.statusFlash = "Welcome! Type your name and press enter"
	})
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(m *Root) {
		m.statusFlash = msg
	})
}

func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

func (r *Root) dispatchController(fn func(Controller)) {
	if fn == nil || r.ctrl == nil {
		return
	}
	ctrl := r.ctrl
	go fn(ctrl)
}

func (r *Root) emit(name string, fields map[string]any) {
	r.dispatchController(func(c Controller) { c.OnEvent(name, fields) })
}

func (r *Root) switchScreen(screen Screen) {
	if screen < ScreenTricks || screen > ScreenCombo || screen == r.screen {
		return
	}
	if r.screen == ScreenCombo {
		r.cancelDrag()
		r.combo.prefsOpen = false
		r.combo.chipFocus = false
		r.combo.search.Blur()
	}
	r.tricks.search.Blur()
	r.profile.editing = false
	r.profile.input.Blur()
	r.screen = screen
	if screen == ScreenProfile {
		if r.motionLevel == "off" {
			r.profile.display.Jump()
		} else {
			r.profile.display.Reset()
		}
	}
	r.syncComboZone()
}

func (r *Root) recomputeFocus() {
	if r.engine == nil {
		return
	}
	r.focus = progress.ComputeUserFocus(r.engine.Catalog(), r.landed, r.focusCfg)
	r.profile.display.SetTarget(r.focus.LevelPercent)
	if r.motionLevel == "off" {
		r.profile.display.Jump()
	}
}

func (r *Root) currentCatalog() *catalog.Catalog {
	if r.engine == nil {
		return nil
	}
	return r.engine.Catalog()
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text))

	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"))) {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}
	if r.layout == LayoutTooSmall {
		return r, nil
	}

	if r.textEntryActive() {
		switch r.screen {
		case ScreenTricks:
			return r.handleSearchKey(msg)
		case ScreenProfile:
			return r.handleNameKey(msg)
		case ScreenCombo:
			return r.handleComboSearchKey(msg)
		}
	}

	if r.tricks.detailOpen && r.screen == ScreenTricks {
		return r.handleDetailKey(msg)
	}
	if r.combo.prefsOpen && r.screen == ScreenCombo {
		return r.handlePrefsKey(msg)
	}
	if r.screen == ScreenCombo && r.combo.resolver.State() == combo.StateDragging {
		return r.handleComboDragKey(msg)
	}

	km := r.keymaps[r.screen]
	switch {
	case key.Matches(msg, km.Quit):
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	case key.Matches(msg, km.NextScreen):
		r.switchScreen((r.screen + 1) % Screen(len(screenTitles)))
		return r, r.animateIfNeeded()
	case key.Matches(msg, km.PrevScreen):
		r.switchScreen((r.screen + Screen(len(screenTitles)) - 1) % Screen(len(screenTitles)))
		return r, r.animateIfNeeded()
	}
	if msg.Text >= "1" && msg.Text <= "4" && len(msg.Text) == 1 && !r.tricks.chipFocus && !r.combo.chipFocus {
		r.switchScreen(Screen(msg.Text[0] - '1'))
		return r, r.animateIfNeeded()
	}

	switch r.screen {
	case ScreenTricks:
		return r.handleTricksKey(msg)
	case ScreenProgress:
		return r.handleStatsKey(msg)
	case ScreenProfile:
		return r.handleProfileKey(msg)
	default:
		return r.handleComboKey(msg)
	}
}

func (r *Root) textEntryActive() bool {
	switch r.screen {
	case ScreenTricks:
		return r.tricks.search.Focused()
	case ScreenProfile:
		return r.profile.editing
	case ScreenCombo:
		return r.combo.search.Focused() && !r.combo.prefsOpen
	}
	return false
}

func (r *Root) handlePaste(msg tea.PasteMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("paste:%d", len(msg.Content)))
	if !r.textEntryActive() {
		return r, nil
	}
	var cmd tea.Cmd
	switch r.screen {
	case ScreenTricks:
		r.tricks.search, cmd = r.tricks.search.Update(msg)
		r.tricks.cursor, r.tricks.offset = 0, 0
	case ScreenProfile:
		r.profile.input, cmd = r.profile.input.Update(msg)
	case ScreenCombo:
		r.combo.search, cmd = r.combo.search.Update(msg)
		r.resetComboSource()
	}
	return r, cmd
}

func (r *Root) hitAt(x, y int) (hit, bool) {
	for i := len(r.hits) - 1; i >= 0; i-- {
		if r.hits[i].contains(x, y) {
			return r.hits[i], true
		}
	}
	return hit{}, false
}

func (r *Root) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	m := msg.Mouse()
	r.recordInputEvent(fmt.Sprintf("click:%d,%d button:%v", m.X, m.Y, m.Button))
	if m.Button != tea.MouseLeft || r.layout == LayoutTooSmall {
		return r, nil
	}
	h, ok := r.hitAt(m.X, m.Y)
	if !ok {
		return r, nil
	}
	if h.kind == hitTab {
		r.switchScreen(Screen(h.index))
		return r, r.animateIfNeeded()
	}
	switch r.screen {
	case ScreenTricks:
		return r.handleTricksClick(h)
	case ScreenProgress:
		return r.handleStatsClick(h)
	case ScreenProfile:
		return r.handleProfileClick(h)
	default:
		return r.handleComboPress(h, m.X, m.Y)
	}
}

func (r *Root) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	if r.screen != ScreenCombo {
		return r, nil
	}
	m := msg.Mouse()
	return r, r.comboPointerMoved(m.X, m.Y)
}

func (r *Root) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if r.screen != ScreenCombo {
		return r, nil
	}
	m := msg.Mouse()
	r.recordInputEvent(fmt.Sprintf("release:%d,%d", m.X, m.Y))
	r.comboPointerReleased(m.X, m.Y)
	return r, nil
}

func (r *Root) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	m := msg.Mouse()
	delta := 0
	switch m.Button {
	case tea.MouseWheelUp, tea.MouseWheelLeft:
		delta = -1
	case tea.MouseWheelDown, tea.MouseWheelRight:
		delta = 1
	default:
		return r, nil
	}
	switch r.screen {
	case ScreenTricks:
		r.moveTrickCursor(delta * 3)
	case ScreenProgress:
		r.stats.cursor = clamp(r.stats.cursor+delta, 0, catalog.TierCount-1)
	case ScreenCombo:
		zone := r.combo.resolver.Zone()
		if float64(m.Y) >= zone.Y && float64(m.Y) <= zone.Y+zone.Height {
			step := r.combo.resolver.Options().CardPitch
			r.combo.resolver.SetScrollOffset(r.combo.resolver.ScrollOffset() + float64(delta)*step)
		} else {
			r.combo.sourceCursor = clamp(r.combo.sourceCursor+delta, 0, max(0, len(r.comboSource())-1))
		}
	}
	return r, nil
}

func (r *Root) animateIfNeeded() tea.Cmd {
	if r.screen != ScreenProfile || r.profile.animating || r.profile.display.Settled() {
		return nil
	}
	if r.fps <= 0 {
		r.profile.display.Jump()
		return nil
	}
	r.profile.animating = true
	return animateTickCmd(r.fps)
}

func (r *Root) stepAnimation() tea.Cmd {
	if r.profile.display.Step() || r.screen != ScreenProfile {
		r.profile.animating = false
		return nil
	}
	return animateTickCmd(r.fps)
}

func animateTickCmd(fps int) tea.Cmd {
	return tea.Tick(progress.FrameInterval(fps), func(t time.Time) tea.Msg { return animateMsg(t) })
}

func spinnerTickCmd(model spinner.Model) tea.Cmd {
	return func() tea.Msg {
		return model.Tick()
	}
}

func (r *Root) currentMouseMode() tea.MouseMode {
	switch r.mouseScope {
	case "off":
		return tea.MouseModeNone
	case "full":
		return tea.MouseModeCellMotion
	default:
		if r.screen == ScreenCombo {
			return tea.MouseModeCellMotion
		}
		return tea.MouseModeNone
	}
}

func normalizeStyleVariant(v string) string {
	switch strings.TrimSpace(v) {
	case "cozy_clean", "retro_terminal", "modern_arcade":
		return strings.TrimSpace(v)
	default:
		return "modern_arcade"
	}
}

func normalizeMotionLevel(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "reduced", "full":
		return strings.TrimSpace(v)
	default:
		return "full"
	}
}

func normalizeMouseScope(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "scoped", "full":
		return strings.TrimSpace(v)
	default:
		return "full"
	}
}

func (r *Root) recordInputEvent(event string) {
	r.lastInputEvent = trimForWidth(strings.TrimSpace(event), 160)
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}

	message := fmt.Sprintf("%v", recovered)
	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered",
		"where", where,
		"panic", message,
		"messageType", msgType,
		"screen", r.screen.String(),
		"layout", r.layout,
		"cols", r.cols,
		"rows", r.rows,
		"last_input", r.lastInputEvent,
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)
