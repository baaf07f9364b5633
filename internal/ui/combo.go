package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"trickadex/internal/catalog"
	"trickadex/internal/combo"
	"trickadex/internal/filter"
	"trickadex/internal/state"
)

const (
	zonePanelRows = 5
	// comboFilterRows covers the combo text, search and chip lines between
	// the drop zone and the source panel.
	comboFilterRows = 3
	maxComboSize    = 10
)

type comboState struct {
	seq      *combo.Sequence
	resolver *combo.Resolver

	search    textinput.Model
	selection filter.Selection
	chipFocus bool
	chipIndex int

	sourceCursor int
	sourceOffset int
	cardIndex    int

	// grab is the pointer cell at the start of a mouse drag; fromCard is
	// the card being reordered, or -1 when dragging from the source list.
	grab     combo.Point
	fromCard int
	keyboard bool
	kbdSlot  int
	kbdStart combo.Point

	scrollGen     uint64
	scrollTicking bool

	prefsOpen  bool
	prefsDraft state.Preferences
	prefsRow   int
}

// defaultCellComboOptions is the resolver geometry measured in terminal
// cells.
func defaultCellComboOptions() combo.Options {
	return combo.Options{
		CardPitch:    16,
		EdgeBand:     4,
		ScrollStep:   2,
		ScrollPeriod: 50 * time.Millisecond,
	}
}

func newComboState(opts combo.Options) comboState {
	seq := &combo.Sequence{}
	in := textinput.New()
	in.Prompt = "Search: "
	in.Placeholder = "narrow the trick list"
	in.CharLimit = 40
	return comboState{
		search:     in,
		seq:        seq,
		resolver:   combo.NewResolver(seq, opts),
		fromCard:   -1,
		prefsDraft: state.DefaultPreferences(),
	}
}

// syncComboZone recomputes the drop zone rectangle from the terminal size.
// The zone is the inner area of the top panel on the combo screen.
func (r *Root) syncComboZone() {
	r.combo.resolver.SetZone(combo.Rect{
		X:      1,
		Y:      float64(headerRows + 1),
		Width:  float64(max(1, r.cols-3)),
		Height: float64(zonePanelRows - 3),
	})
}

// comboChips are the filters offered on the combo screen. Landed is
// always applied there and Next Learns never overlaps it.
func comboChips() []catalog.FilterConfig {
	all := catalog.Registry()
	out := make([]catalog.FilterConfig, 0, len(all))
	for _, c := range all {
		if c.Name == catalog.FilterLanded || c.Name == catalog.FilterNextLearns {
			continue
		}
		out = append(out, c)
	}
	return out
}

// comboSource lists the tricks that can be dragged into the combo: the
// landed tricks matching the combo chips and search, or the whole catalog
// narrowed the same way before anything is landed.
func (r *Root) comboSource() []catalog.Trick {
	if r.engine == nil {
		return nil
	}
	names := r.combo.selection.Names()
	if r.focus.TotalLanded > 0 {
		names = append(names, catalog.FilterLanded)
	}
	return r.engine.Visible(names, r.combo.search.Value())
}

func (r *Root) resetComboSource() {
	r.combo.sourceCursor, r.combo.sourceOffset = 0, 0
}

func (r *Root) toggleComboChip(name string) {
	r.combo.selection = r.combo.selection.Toggle(name)
	r.resetComboSource()
	r.emit("combo.filter_toggled", map[string]any{"filter": name, "active": r.combo.selection.Has(name)})
}

func (r *Root) handleComboSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, key.NewBinding(key.WithKeys("esc", "enter"))) {
		r.combo.search.Blur()
		return r, nil
	}
	var cmd tea.Cmd
	r.combo.search, cmd = r.combo.search.Update(msg)
	r.resetComboSource()
	return r, cmd
}

func (r *Root) handleComboChipKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	km := r.keymaps[ScreenCombo]
	chips := comboChips()
	switch {
	case key.Matches(msg, km.Left), key.Matches(msg, km.Up):
		r.combo.chipIndex = clamp(r.combo.chipIndex-1, 0, len(chips)-1)
	case key.Matches(msg, km.Right), key.Matches(msg, km.Down):
		r.combo.chipIndex = clamp(r.combo.chipIndex+1, 0, len(chips)-1)
	case key.Matches(msg, km.Select):
		r.toggleComboChip(chips[r.combo.chipIndex].Name)
	case key.Matches(msg, key.NewBinding(key.WithKeys("c"))):
		r.combo.selection = r.combo.selection.Clear()
		r.resetComboSource()
	case key.Matches(msg, km.Chips), key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
		r.combo.chipFocus = false
	}
	return r, nil
}

func (r *Root) handleComboKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	km := r.keymaps[ScreenCombo]
	if r.combo.chipFocus {
		return r.handleComboChipKey(msg)
	}
	seq := r.combo.seq
	switch {
	case key.Matches(msg, km.Search):
		return r, r.combo.search.Focus()
	case key.Matches(msg, km.Chips):
		r.combo.chipFocus = true
	case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
		r.combo.search.SetValue("")
		r.combo.selection = r.combo.selection.Clear()
		r.resetComboSource()
	case key.Matches(msg, km.Up):
		r.combo.sourceCursor = clamp(r.combo.sourceCursor-1, 0, max(0, len(r.comboSource())-1))
	case key.Matches(msg, km.Down):
		r.combo.sourceCursor = clamp(r.combo.sourceCursor+1, 0, max(0, len(r.comboSource())-1))
	case key.Matches(msg, km.Select):
		r.beginKeyboardDrag()
	case key.Matches(msg, km.Left):
		r.selectCard(r.combo.cardIndex - 1)
	case key.Matches(msg, km.Right):
		r.selectCard(r.combo.cardIndex + 1)
	case key.Matches(msg, km.MoveLeft):
		r.moveCard(-1)
	case key.Matches(msg, km.MoveRight):
		r.moveCard(1)
	case key.Matches(msg, km.Remove):
		if t, ok := seq.At(r.combo.cardIndex); ok && seq.RemoveAt(r.combo.cardIndex) {
			r.emit("combo.removed", map[string]any{"trick": t.ID, "index": r.combo.cardIndex})
			r.selectCard(r.combo.cardIndex)
		}
	case key.Matches(msg, km.Clear):
		seq.Clear()
		r.combo.cardIndex = 0
		r.combo.resolver.SetScrollOffset(0)
	case key.Matches(msg, km.Random):
		r.dispatchController(func(c Controller) { c.OnRandomCombo() })
	case key.Matches(msg, km.Copy):
		if seq.Len() == 0 {
			r.statusFlash = "Combo is empty"
			return r, nil
		}
		text := seq.Text()
		r.dispatchController(func(c Controller) { c.OnCopy(text) })
	case key.Matches(msg, km.Prefs):
		r.combo.prefsOpen = true
		r.combo.prefsDraft = r.prefs
		r.combo.prefsRow = 0
	}
	return r, nil
}

func (r *Root) selectCard(i int) {
	n := r.combo.seq.Len()
	if n == 0 {
		r.combo.cardIndex = 0
		return
	}
	r.combo.cardIndex = clamp(i, 0, n-1)
	r.ensureSlotVisible(r.combo.cardIndex)
}

func (r *Root) moveCard(delta int) {
	from := r.combo.cardIndex
	if _, ok := r.combo.seq.At(from); !ok {
		return
	}
	to := clamp(from+delta, 0, r.combo.seq.Len()-1)
	if to == from {
		return
	}
	r.combo.cardIndex = r.combo.seq.Reorder(from, to)
	r.ensureSlotVisible(r.combo.cardIndex)
	r.emit("combo.reordered", map[string]any{"from": from, "to": r.combo.cardIndex})
}

// ensureSlotVisible scrolls so that the slot boundary sits outside the
// auto-scroll bands.
func (r *Root) ensureSlotVisible(slot int) {
	res := r.combo.resolver
	opts := res.Options()
	zone := res.Zone()
	x := float64(slot) * opts.CardPitch
	margin := opts.EdgeBand + 1
	scroll := res.ScrollOffset()
	if x-scroll < margin {
		res.SetScrollOffset(x - margin)
	} else if x-scroll > zone.Width-margin {
		res.SetScrollOffset(x - zone.Width + margin)
	}
}

func (r *Root) beginKeyboardDrag() {
	src := r.comboSource()
	if len(src) == 0 {
		return
	}
	r.combo.sourceCursor = clamp(r.combo.sourceCursor, 0, len(src)-1)
	r.syncComboZone()
	zone := r.combo.resolver.Zone()
	start := combo.Point{X: 2, Y: zone.Y + zone.Height + 3 + comboFilterRows + float64(r.combo.sourceCursor-r.combo.sourceOffset)}
	r.combo.resolver.Begin(src[r.combo.sourceCursor], start)
	r.combo.keyboard = true
	r.combo.kbdStart = start
	r.combo.fromCard = -1
	r.combo.kbdSlot = r.combo.seq.Len()
	r.placeKeyboardPointer()
	r.emit("combo.drag_started", map[string]any{"trick": src[r.combo.sourceCursor].ID, "input": "keyboard"})
}

// placeKeyboardPointer moves the synthetic pointer onto the current slot
// boundary inside the zone.
func (r *Root) placeKeyboardPointer() {
	res := r.combo.resolver
	r.combo.kbdSlot = clamp(r.combo.kbdSlot, 0, r.combo.seq.Len())
	r.ensureSlotVisible(r.combo.kbdSlot)
	zone := res.Zone()
	x := zone.X + float64(r.combo.kbdSlot)*res.Options().CardPitch - res.ScrollOffset()
	y := zone.Y + 1
	res.Move(combo.Point{X: x - r.combo.kbdStart.X, Y: y - r.combo.kbdStart.Y})
}

func (r *Root) handleComboDragKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	km := r.keymaps[ScreenCombo]
	if key.Matches(msg, key.NewBinding(key.WithKeys("esc"))) {
		r.cancelDrag()
		return r, nil
	}
	if !r.combo.keyboard {
		return r, nil
	}
	switch {
	case key.Matches(msg, km.Left):
		r.combo.kbdSlot--
		r.placeKeyboardPointer()
	case key.Matches(msg, km.Right):
		r.combo.kbdSlot++
		r.placeKeyboardPointer()
	case key.Matches(msg, km.Select):
		r.finishDrag()
	}
	return r, nil
}

func (r *Root) handleComboPress(h hit, x, y int) (tea.Model, tea.Cmd) {
	switch h.kind {
	case hitChip:
		chips := comboChips()
		if h.index >= 0 && h.index < len(chips) {
			r.combo.chipIndex = h.index
			r.toggleComboChip(chips[h.index].Name)
		}
	case hitSource:
		src := r.comboSource()
		if h.index < 0 || h.index >= len(src) {
			return r, nil
		}
		r.combo.sourceCursor = h.index
		r.beginMouseDrag(src[h.index], x, y, -1)
	case hitCard:
		t, ok := r.combo.seq.At(h.index)
		if !ok {
			return r, nil
		}
		r.combo.cardIndex = h.index
		r.beginMouseDrag(t, x, y, h.index)
	}
	return r, nil
}

func (r *Root) beginMouseDrag(t catalog.Trick, x, y, fromCard int) {
	r.syncComboZone()
	p := combo.Point{X: float64(x), Y: float64(y)}
	r.combo.resolver.Begin(t, p)
	r.combo.grab = p
	r.combo.fromCard = fromCard
	r.combo.keyboard = false
	r.emit("combo.drag_started", map[string]any{"trick": t.ID, "input": "mouse", "from_card": fromCard})
}

func (r *Root) comboPointerMoved(x, y int) tea.Cmd {
	if r.combo.resolver.State() != combo.StateDragging || r.combo.keyboard {
		return nil
	}
	r.combo.resolver.Move(combo.Point{X: float64(x) - r.combo.grab.X, Y: float64(y) - r.combo.grab.Y})
	return r.scheduleAutoScroll()
}

func (r *Root) comboPointerReleased(x, y int) {
	if r.combo.resolver.State() != combo.StateDragging || r.combo.keyboard {
		return
	}
	r.combo.resolver.Move(combo.Point{X: float64(x) - r.combo.grab.X, Y: float64(y) - r.combo.grab.Y})
	r.finishDrag()
}

func (r *Root) scheduleAutoScroll() tea.Cmd {
	if r.combo.resolver.AutoScroll() == combo.ScrollNone {
		if r.combo.scrollTicking {
			r.stopAutoScroll()
		}
		return nil
	}
	if r.combo.scrollTicking {
		return nil
	}
	r.combo.scrollTicking = true
	gen := r.combo.scrollGen
	return tea.Tick(r.combo.resolver.Options().ScrollPeriod, func(time.Time) tea.Msg {
		return autoScrollMsg{gen: gen}
	})
}

func (r *Root) stepAutoScroll(gen uint64) tea.Cmd {
	if gen != r.combo.scrollGen || !r.combo.scrollTicking {
		return nil
	}
	r.combo.scrollTicking = false
	if !r.combo.resolver.Step() {
		return nil
	}
	return r.scheduleAutoScroll()
}

// stopAutoScroll invalidates any tick already in flight.
func (r *Root) stopAutoScroll() {
	r.combo.scrollGen++
	r.combo.scrollTicking = false
}

func (r *Root) finishDrag() {
	res := r.combo.resolver
	if res.State() != combo.StateDragging {
		return
	}
	r.stopAutoScroll()
	last := res.Last()
	from := r.combo.fromCard
	r.combo.fromCard = -1
	r.combo.keyboard = false

	if from >= 0 {
		out := res.Cancel()
		if !last.IsOverTarget {
			r.emit("combo.drag_cancelled", map[string]any{"trick": out.Trick.ID})
			return
		}
		to := last.HoverIndex
		if to > from {
			to--
		}
		r.combo.cardIndex = r.combo.seq.Reorder(from, to)
		r.emit("combo.reordered", map[string]any{"from": from, "to": r.combo.cardIndex})
		return
	}

	out := res.End()
	if out.Kind != combo.OutcomeDropped {
		r.emit("combo.drag_cancelled", map[string]any{"trick": out.Trick.ID})
		return
	}
	r.combo.cardIndex = out.Index
	r.syncComboZone()
	r.emit("combo.dropped", map[string]any{"trick": out.Trick.ID, "index": out.Index, "length": r.combo.seq.Len()})
}

func (r *Root) cancelDrag() {
	if r.combo.resolver.State() != combo.StateDragging {
		return
	}
	r.stopAutoScroll()
	out := r.combo.resolver.Cancel()
	r.combo.fromCard = -1
	r.combo.keyboard = false
	r.emit("combo.drag_cancelled", map[string]any{"trick": out.Trick.ID})
}

func (r *Root) handlePrefsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	km := r.keymaps[ScreenCombo]
	d := &r.combo.prefsDraft
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
		r.combo.prefsOpen = false
	case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
		p := d.Normalize()
		r.prefs = p
		r.combo.prefsOpen = false
		r.dispatchController(func(c Controller) { c.OnSavePreferences(p) })
	case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
		*d = state.DefaultPreferences()
	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
		r.combo.prefsRow = clamp(r.combo.prefsRow-1, 0, 3)
	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
		r.combo.prefsRow = clamp(r.combo.prefsRow+1, 0, 3)
	case key.Matches(msg, km.Left), key.Matches(msg, km.Right), key.Matches(msg, key.NewBinding(key.WithKeys("space"))):
		delta := 1
		if key.Matches(msg, km.Left) {
			delta = -1
		}
		switch r.combo.prefsRow {
		case 0:
			d.OnlyLanded = !d.OnlyLanded
		case 1:
			d.MinTier = clamp(d.MinTier+delta, 0, catalog.TierCount-1)
		case 2:
			d.MaxTier = clamp(d.MaxTier+delta, 0, catalog.TierCount-1)
		case 3:
			d.ComboSize = clamp(d.ComboSize+delta, 1, maxComboSize)
		}
	}
	return r, nil
}

func (r *Root) renderPrefs() string {
	d := r.combo.prefsDraft
	onlyLanded := "no"
	if d.OnlyLanded {
		onlyLanded = "yes"
	}
	rows := []string{
		"Only landed tricks   " + onlyLanded,
		"Lowest level         " + catalog.Tier(d.MinTier).Name(),
		"Highest level        " + catalog.Tier(d.MaxTier).Name(),
		fmt.Sprintf("Tricks per combo     %d", d.ComboSize),
	}
	var b strings.Builder
	b.WriteString(r.theme.OverlayTitle.Render("Random combo preferences"))
	b.WriteString("\n\n")
	for i, row := range rows {
		pointer := "  "
		if i == r.combo.prefsRow {
			pointer = r.glyph("▸ ", "> ")
		}
		b.WriteString(pointer + row + "\n")
	}
	b.WriteString("\n" + r.theme.Muted.Render("←/→ change · r defaults · enter save · esc cancel"))
	return r.theme.Overlay.Render(b.String())
}

func (r *Root) renderCombo(originY, height int) string {
	width := r.cols
	zone := r.renderDropZone(width, originY)
	text := r.combo.seq.Text()
	if text == "" {
		text = "No combo yet"
	}
	textLine := " " + r.theme.Info.Render(trimForWidth(text, width-2))
	searchLine := " " + r.combo.search.View()
	chipLine := r.renderComboChips(width, originY+zonePanelRows+2)
	sourceH := max(3, height-zonePanelRows-comboFilterRows)
	source := r.renderSource(width, sourceH, originY+zonePanelRows+comboFilterRows)
	return zone + "\n" + textLine + "\n" + searchLine + "\n" + chipLine + "\n" + source
}

// renderComboChips draws the combo filters on one line, recording a hit
// region per chip. Chips that do not fit are dropped from the right.
func (r *Root) renderComboChips(width, y int) string {
	on, off := r.glyph("◉", "[x]"), r.glyph("○", "[ ]")
	var b strings.Builder
	b.WriteString(" ")
	x := 1
	for i, c := range comboChips() {
		active := r.combo.selection.Has(c.Name)
		mark := off
		if active {
			mark = on
		}
		label := mark + " " + c.Name
		w := len([]rune(label))
		if x+w+1 > width {
			break
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color))
		if active {
			style = r.theme.ChipActive
		}
		if r.combo.chipFocus && i == r.combo.chipIndex {
			style = r.theme.Cursor
		}
		r.hits = append(r.hits, hit{kind: hitChip, x: x, y: y, w: w, h: 1, index: i})
		b.WriteString(style.Render(label) + " ")
		x += w + 1
	}
	return b.String()
}

func (r *Root) renderDropZone(width, originY int) string {
	res := r.combo.resolver
	opts := res.Options()
	innerW := width - 2
	pitch := opts.CardPitch
	scroll := res.ScrollOffset()
	cardW := max(3, int(pitch)-2)
	seq := r.combo.seq
	dragging := res.State() == combo.StateDragging
	last := res.Last()

	marker := []rune(strings.Repeat(" ", innerW))
	if dragging && last.HoverIndex >= 0 {
		x := int(math.Round(float64(last.HoverIndex)*pitch-scroll)) - 1
		glyph := []rune(r.glyph("▼", "v"))[0]
		marker[clamp(x, 0, innerW-1)] = glyph
	}

	cards := []rune(strings.Repeat(" ", innerW))
	type span struct{ start, end, index int }
	var spans []span
	for i, t := range seq.Items() {
		start := int(math.Round(float64(i)*pitch - scroll))
		label := []rune(padRune("["+trimForWidth(t.Name, cardW-2)+"]", cardW))
		lo, hi := -1, -1
		for j, ch := range label {
			x := start + j
			if x < 0 || x >= innerW {
				continue
			}
			cards[x] = ch
			if lo < 0 {
				lo = x
			}
			hi = x + 1
		}
		if lo >= 0 {
			spans = append(spans, span{lo, hi, i})
			r.hits = append(r.hits, hit{kind: hitCard, x: 1 + lo, y: originY + 2, w: hi - lo, h: 1, index: i})
		}
	}
	cardLine := string(cards)
	if seq.Len() == 0 && !dragging {
		cardLine = r.theme.Muted.Render("Drag landed tricks here, or press r for a random combo")
	} else {
		for _, s := range spans {
			if s.index != r.combo.cardIndex || dragging {
				continue
			}
			cardLine = string(cards[:s.start]) + r.theme.Cursor.Render(string(cards[s.start:s.end])) + string(cards[s.end:])
		}
	}

	status := fmt.Sprintf("%d tricks", seq.Len())
	if res.MaxScroll() > 0 {
		left, right := " ", " "
		if scroll > 0 {
			left = r.glyph("◀", "<")
		}
		if scroll < res.MaxScroll() {
			right = r.glyph("▶", ">")
		}
		status = left + " " + status + " " + right
	}
	if t, ok := res.Dragged(); ok {
		where := "release over the combo to drop"
		if last.IsOverTarget {
			where = fmt.Sprintf("drop at position %d", last.HoverIndex+1)
		}
		if auto := res.AutoScroll(); auto != combo.ScrollNone {
			where += " (scrolling " + auto.String() + ")"
		}
		status += "  " + r.theme.Pending.Render("Dragging "+t.Name+": "+where)
	}

	lines := []string{
		r.theme.Placeholder.Render(string(marker)),
		cardLine,
		status,
	}
	return r.drawPanel("Combo", lines, width, zonePanelRows)
}

func (r *Root) renderSource(width, height, originY int) string {
	src := r.comboSource()
	innerH := height - 2
	innerW := width - 2
	if len(src) == 0 {
		return r.drawPanel("Tricks", []string{r.theme.Muted.Render(" No tricks match the combo filters")}, width, height)
	}
	r.combo.sourceCursor = clamp(r.combo.sourceCursor, 0, len(src)-1)
	r.combo.sourceOffset = scrollWindow(r.combo.sourceOffset, r.combo.sourceCursor, innerH, len(src))

	lines := make([]string, 0, innerH)
	for i := r.combo.sourceOffset; i < len(src) && len(lines) < innerH; i++ {
		t := src[i]
		plain := fmt.Sprintf(" %s %s", r.glyph("⠿", "::"), t.Name)
		r.hits = append(r.hits, hit{kind: hitSource, x: 1, y: originY + 1 + len(lines), w: innerW, h: 1, index: i})
		if i == r.combo.sourceCursor {
			lines = append(lines, r.theme.Cursor.Render(padRune(plain, innerW)))
			continue
		}
		lines = append(lines, padRune(plain, innerW-14)+TierStyle(t.Difficulty).Render(t.Difficulty.Name()))
	}
	title := "Landed tricks (drag into the combo)"
	if r.focus.TotalLanded == 0 {
		title = "All tricks (land some to narrow this list)"
	}
	return r.drawPanel(title, lines, width, height)
}
