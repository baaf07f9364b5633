package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"trickadex/internal/catalog"
	"trickadex/internal/filter"
)

type tricksState struct {
	search     textinput.Model
	selection  filter.Selection
	chipFocus  bool
	chipIndex  int
	chipOffset int
	cursor     int
	offset     int
	detailOpen bool
	detailID   string
}

func newTricksState() tricksState {
	in := textinput.New()
	in.Prompt = "Search: "
	in.Placeholder = "trick name or filter"
	in.CharLimit = 40
	return tricksState{search: in}
}

type listRow struct {
	header bool
	tier   catalog.Tier
	count  int
	trick  catalog.Trick
	index  int
}

func (r *Root) visibleTricks() []catalog.Trick {
	if r.engine == nil {
		return nil
	}
	return r.engine.Visible(r.tricks.selection.Names(), r.tricks.search.Value())
}

func (r *Root) visibleRows() ([]listRow, []catalog.Trick) {
	if r.engine == nil {
		return nil, nil
	}
	groups := r.engine.VisibleGroups(r.tricks.selection.Names(), r.tricks.search.Value())
	var rows []listRow
	var flat []catalog.Trick
	for _, g := range groups {
		rows = append(rows, listRow{header: true, tier: g.Tier, count: len(g.Tricks)})
		for _, t := range g.Tricks {
			rows = append(rows, listRow{trick: t, index: len(flat)})
			flat = append(flat, t)
		}
	}
	return rows, flat
}

// selectedTrick indexes the tier-grouped order the list is drawn in.
func (r *Root) selectedTrick() (catalog.Trick, bool) {
	_, vis := r.visibleRows()
	if len(vis) == 0 {
		return catalog.Trick{}, false
	}
	r.tricks.cursor = clamp(r.tricks.cursor, 0, len(vis)-1)
	return vis[r.tricks.cursor], true
}

func (r *Root) moveTrickCursor(delta int) {
	_, flat := r.visibleRows()
	n := len(flat)
	if n == 0 {
		r.tricks.cursor = 0
		return
	}
	r.tricks.cursor = clamp(r.tricks.cursor+delta, 0, n-1)
}

func (r *Root) toggleChip(name string) {
	r.tricks.selection = r.tricks.selection.Toggle(name)
	r.tricks.cursor, r.tricks.offset = 0, 0
	r.emit("ui.filter_toggled", map[string]any{"filter": name, "active": r.tricks.selection.Has(name)})
}

func (r *Root) clearFilters() {
	r.tricks.selection = r.tricks.selection.Clear()
	r.tricks.search.SetValue("")
	r.tricks.cursor, r.tricks.offset = 0, 0
}

// showFilter switches to the tricks screen with only name active.
func (r *Root) showFilter(name string) {
	r.switchScreen(ScreenTricks)
	r.tricks.selection = filter.NewSelection(name)
	r.tricks.search.SetValue("")
	r.tricks.cursor, r.tricks.offset = 0, 0
	r.tricks.chipFocus = false
	r.tricks.detailOpen = false
}

func (r *Root) toggleLanded(id string) {
	if id == "" {
		return
	}
	r.dispatchController(func(c Controller) { c.OnToggleLanded(id) })
}

func (r *Root) toggleFavorite(id string) {
	if id == "" {
		return
	}
	r.dispatchController(func(c Controller) { c.OnToggleFavorite(id) })
}

func (r *Root) handleSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("esc", "enter"))):
		r.tricks.search.Blur()
		return r, nil
	case key.Matches(msg, key.NewBinding(key.WithKeys("tab"))):
		if s := filter.Suggest(r.tricks.search.Value()); len(s) > 0 {
			if !r.tricks.selection.Has(s[0]) {
				r.toggleChip(s[0])
			}
			r.tricks.search.SetValue("")
		}
		return r, nil
	}
	var cmd tea.Cmd
	r.tricks.search, cmd = r.tricks.search.Update(msg)
	r.tricks.cursor, r.tricks.offset = 0, 0
	return r, cmd
}

func (r *Root) handleTricksKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	km := r.keymaps[ScreenTricks]
	if r.tricks.chipFocus {
		chips := catalog.Registry()
		switch {
		case key.Matches(msg, km.Up), key.Matches(msg, km.Left):
			r.tricks.chipIndex = clamp(r.tricks.chipIndex-1, 0, len(chips)-1)
		case key.Matches(msg, km.Down), key.Matches(msg, km.Right):
			r.tricks.chipIndex = clamp(r.tricks.chipIndex+1, 0, len(chips)-1)
		case key.Matches(msg, km.Select):
			r.toggleChip(chips[r.tricks.chipIndex].Name)
		case key.Matches(msg, km.Clear):
			r.clearFilters()
		case key.Matches(msg, km.Chips), key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
			r.tricks.chipFocus = false
		}
		return r, nil
	}

	switch {
	case key.Matches(msg, km.Up):
		r.moveTrickCursor(-1)
	case key.Matches(msg, km.Down):
		r.moveTrickCursor(1)
	case key.Matches(msg, key.NewBinding(key.WithKeys("pgup"))):
		r.moveTrickCursor(-10)
	case key.Matches(msg, key.NewBinding(key.WithKeys("pgdown"))):
		r.moveTrickCursor(10)
	case key.Matches(msg, km.Select):
		if t, ok := r.selectedTrick(); ok {
			r.toggleLanded(t.ID)
		}
	case key.Matches(msg, km.Favorite):
		if t, ok := r.selectedTrick(); ok {
			r.toggleFavorite(t.ID)
		}
	case key.Matches(msg, km.Details), key.Matches(msg, km.Right):
		if t, ok := r.selectedTrick(); ok {
			r.tricks.detailOpen = true
			r.tricks.detailID = t.ID
		}
	case key.Matches(msg, km.Search):
		return r, r.tricks.search.Focus()
	case key.Matches(msg, km.Chips):
		r.tricks.chipFocus = true
	case key.Matches(msg, km.Clear):
		r.clearFilters()
	case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
		r.tricks.search.SetValue("")
	}
	return r, nil
}

func (r *Root) handleDetailKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	km := r.keymaps[ScreenTricks]
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("esc", "q", "i", "left"))):
		r.tricks.detailOpen = false
	case key.Matches(msg, km.Select):
		r.toggleLanded(r.tricks.detailID)
	case key.Matches(msg, km.Favorite):
		r.toggleFavorite(r.tricks.detailID)
	case key.Matches(msg, km.Up), key.Matches(msg, km.Down):
		delta := 1
		if key.Matches(msg, km.Up) {
			delta = -1
		}
		r.moveTrickCursor(delta)
		if t, ok := r.selectedTrick(); ok {
			r.tricks.detailID = t.ID
		}
	}
	return r, nil
}

func (r *Root) handleTricksClick(h hit) (tea.Model, tea.Cmd) {
	switch h.kind {
	case hitChip:
		chips := catalog.Registry()
		if h.index >= 0 && h.index < len(chips) {
			r.tricks.chipIndex = h.index
			r.toggleChip(chips[h.index].Name)
		}
	case hitTrick:
		if h.index == r.tricks.cursor {
			if t, ok := r.selectedTrick(); ok {
				r.tricks.detailOpen = true
				r.tricks.detailID = t.ID
			}
			return r, nil
		}
		r.tricks.cursor = h.index
	}
	return r, nil
}

func (r *Root) chipColumnWidth() int {
	if r.layout == LayoutWide {
		return 26
	}
	return 22
}

func (r *Root) renderTricks(originY, height int) string {
	searchLine := r.tricks.search.View()
	if sugg := filter.Suggest(r.tricks.search.Value()); len(sugg) > 0 && r.tricks.search.Focused() {
		searchLine += "  " + r.theme.Muted.Render("tab: "+strings.Join(sugg, ", "))
	} else if n := r.tricks.selection.Len(); n > 0 {
		searchLine += "  " + r.theme.Info.Render(strings.Join(r.tricks.selection.Names(), " + "))
	}

	panelH := max(3, height-1)
	chipW := r.chipColumnWidth()
	listW := max(20, r.cols-chipW-1)
	chips := r.renderChipPanel(chipW, panelH, originY+1)
	list := r.renderTrickList(listW, panelH, chipW+1, originY+1)
	return searchLine + "\n" + joinColumns(chips, list)
}

func (r *Root) renderChipPanel(width, height, originY int) string {
	chips := catalog.Registry()
	innerH := height - 2
	r.tricks.chipOffset = scrollWindow(r.tricks.chipOffset, r.tricks.chipIndex, innerH, len(chips))
	on, off := r.glyph("◉", "[x]"), r.glyph("○", "[ ]")

	lines := make([]string, 0, innerH)
	for i := r.tricks.chipOffset; i < len(chips) && len(lines) < innerH; i++ {
		c := chips[i]
		mark := off
		if r.tricks.selection.Has(c.Name) {
			mark = on
		}
		label := fmt.Sprintf("%s %s", mark, c.Name)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color))
		if r.tricks.selection.Has(c.Name) {
			style = r.theme.ChipActive
		}
		if r.tricks.chipFocus && i == r.tricks.chipIndex {
			style = r.theme.Cursor
		}
		r.hits = append(r.hits, hit{kind: hitChip, x: 1, y: originY + 1 + len(lines), w: width - 2, h: 1, index: i})
		lines = append(lines, style.Render(padRune(trimForWidth(label, width-2), width-2)))
	}
	title := "Filters"
	if r.tricks.chipFocus {
		title = "Filters (f to close)"
	}
	return r.drawPanel(title, lines, width, height)
}

func (r *Root) renderTrickList(width, height, originX, originY int) string {
	rows, flat := r.visibleRows()
	innerW := width - 2
	innerH := height - 2
	title := fmt.Sprintf("%d tricks found", len(flat))

	if len(flat) == 0 {
		lines := []string{
			"",
			r.theme.Muted.Render("No tricks match these filters."),
			r.theme.Muted.Render("Press c to clear filters and search."),
		}
		return r.drawPanel(title, lines, width, height)
	}

	r.tricks.cursor = clamp(r.tricks.cursor, 0, len(flat)-1)
	cursorRow := 0
	for i, row := range rows {
		if !row.header && row.index == r.tricks.cursor {
			cursorRow = i
			break
		}
	}
	if cursorRow == 1 {
		// keep the group header in view above the first trick
		cursorRow = 0
	}
	r.tricks.offset = scrollWindow(r.tricks.offset, cursorRow, innerH, len(rows))

	lines := make([]string, 0, innerH)
	for i := r.tricks.offset; i < len(rows) && len(lines) < innerH; i++ {
		row := rows[i]
		if row.header {
			rule := r.glyph("──", "--")
			label := fmt.Sprintf("%s %s (%d) %s", rule, row.tier.Name(), row.count, rule)
			lines = append(lines, TierStyle(row.tier).Render(label))
			continue
		}
		r.hits = append(r.hits, hit{kind: hitTrick, x: originX + 1, y: originY + 1 + len(lines), w: innerW, h: 1, index: row.index})
		lines = append(lines, r.trickLine(row.trick, innerW, row.index == r.tricks.cursor))
	}
	return r.drawPanel(title, lines, width, height)
}

func (r *Root) trickLine(t catalog.Trick, width int, selected bool) string {
	landed := r.landed[t.ID]
	fav := r.favorites[t.ID]
	mark := r.glyph("·", "-")
	if landed {
		mark = r.glyph("✓", "x")
	}
	star := " "
	if fav {
		star = r.glyph("★", "*")
	}
	types := strings.Join(t.Types, ", ")
	nameW := max(8, width-4-len(types)-1)
	plain := fmt.Sprintf("%s %s %s %s", mark, star, padRune(trimForWidth(t.Name, nameW), nameW), types)
	if selected {
		return r.theme.Cursor.Render(padRune(plain, width))
	}
	markStyle := r.theme.Muted
	if landed {
		markStyle = r.theme.Landed
	}
	return markStyle.Render(mark) + " " + r.theme.Favorite.Render(star) + " " +
		padRune(trimForWidth(t.Name, nameW), nameW) + " " + r.theme.Muted.Render(types)
}

func (r *Root) renderTrickDetail() string {
	c := r.currentCatalog()
	if c == nil {
		return ""
	}
	t, ok := c.ByID(r.tricks.detailID)
	if !ok {
		r.tricks.detailOpen = false
		return ""
	}
	width := clamp(r.cols-8, 30, 64)

	var b strings.Builder
	b.WriteString(r.theme.OverlayTitle.Render(t.Name))
	b.WriteString("  ")
	b.WriteString(TierStyle(t.Difficulty).Render(t.Difficulty.Name()))
	b.WriteString("\n")
	status := "Not landed yet"
	if r.landed[t.ID] {
		status = "Landed"
	}
	if r.favorites[t.ID] {
		status += ", favorite"
	}
	b.WriteString(r.theme.Muted.Render(status))
	b.WriteString("\n\n")
	if len(t.Types) > 0 {
		b.WriteString("Types: " + strings.Join(t.Types, ", ") + "\n")
	}
	if len(t.Prerequisites) > 0 {
		parts := make([]string, 0, len(t.Prerequisites))
		for _, id := range t.Prerequisites {
			name := id
			if p, ok := c.ByID(id); ok {
				name = p.Name
			}
			mark := r.glyph("·", "-")
			if r.landed[id] {
				mark = r.glyph("✓", "x")
			}
			parts = append(parts, mark+" "+name)
		}
		b.WriteString("Prerequisites: " + strings.Join(parts, "  ") + "\n")
	}
	if desc := strings.TrimSpace(t.Description); desc != "" {
		b.WriteString("\n")
		b.WriteString(r.renderMarkdown(desc, width-4))
		b.WriteString("\n")
	}
	if t.TutorialURL != "" {
		b.WriteString("\nTutorial: " + t.TutorialURL + "\n")
	}
	b.WriteString("\n" + r.theme.Muted.Render("enter landed · s favorite · esc close"))
	return r.theme.Overlay.Width(width).Render(b.String())
}

func (r *Root) renderMarkdown(md string, width int) string {
	if r.markdown == nil {
		return md
	}
	out, err := r.markdown.Render(md)
	if err != nil {
		return md
	}
	lines := strings.Split(strings.Trim(out, "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(trimForWidth(lines[i], width), " ")
	}
	return strings.Join(lines, "\n")
}
