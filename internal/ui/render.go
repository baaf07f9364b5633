package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const (
	headerRows = 1
	footerRows = 2
)

func (r *Root) bodyHeight() int {
	return max(1, r.rows-headerRows-footerRows)
}

func (r *Root) renderFrame() string {
	header := r.renderHeader()
	bodyH := r.bodyHeight()

	var body string
	if !r.loaded || r.engine == nil {
		body = lipgloss.Place(r.cols, bodyH, lipgloss.Center, lipgloss.Center,
			r.loadSpin.View()+" "+r.theme.Muted.Render("Loading your progress..."))
	} else {
		switch r.screen {
		case ScreenTricks:
			body = r.renderTricks(headerRows, bodyH)
		case ScreenProgress:
			body = r.renderStats(headerRows, bodyH)
		case ScreenProfile:
			body = r.renderProfile(headerRows, bodyH)
		default:
			body = r.renderCombo(headerRows, bodyH)
		}
	}
	body = fitLines(body, r.cols, bodyH)

	helpLine := padANSI(r.help.View(r.keymaps[r.screen]), r.cols)
	status := r.theme.Status.Render(padANSI(r.statusText(), max(1, r.cols-2)))
	return strings.Join([]string{header, body, helpLine, status}, "\n")
}

func (r *Root) renderHeader() string {
	title := r.theme.Accent.Render("TrickaDex")
	parts := []string{title}
	x := 1 + lipgloss.Width(title) + 1
	for i, name := range screenTitles {
		label := fmt.Sprintf("%d %s", i+1, name)
		style := r.theme.Tab
		if Screen(i) == r.screen {
			style = r.theme.TabActive
		}
		rendered := style.Render(label)
		w := lipgloss.Width(rendered)
		r.hits = append(r.hits, hit{kind: hitTab, x: x, y: 0, w: w, h: 1, index: i})
		parts = append(parts, rendered)
		x += w + 1
	}
	line := strings.Join(parts, " ")
	if r.userName != "" {
		line += "  " + r.theme.Muted.Render(r.userName)
	}
	return r.theme.Header.Render(padANSI(line, max(1, r.cols-2)))
}

func (r *Root) statusText() string {
	if r.statusFlash != "" {
		return r.statusFlash
	}
	if !r.loaded {
		return "Loading"
	}
	landed := r.landed.Count()
	total := 0
	if c := r.currentCatalog(); c != nil {
		total = c.Len()
	}
	return fmt.Sprintf("%d/%d landed  |  %s  |  %s", landed, total, r.focus.Label, r.focus.Level)
}

func (r *Root) renderTooSmall() string {
	msg := fmt.Sprintf("Terminal too small: %dx%d (need %dx%d)", r.cols, r.rows, minCols, minRows)
	return lipgloss.Place(r.cols, r.rows, lipgloss.Center, lipgloss.Center, r.theme.Error.Render(msg))
}

func (r *Root) renderOverlay() string {
	switch {
	case r.screen == ScreenTricks && r.tricks.detailOpen:
		return r.renderTrickDetail()
	case r.screen == ScreenCombo && r.combo.prefsOpen:
		return r.renderPrefs()
	}
	return ""
}

func (r *Root) drawPanel(title string, lines []string, width, height int) string {
	width = max(4, width)
	height = max(3, height)
	innerW := width - 2
	innerH := height - 2

	h := "─"
	v := "│"
	tl := "┌"
	tr := "┐"
	bl := "└"
	br := "┘"
	if r.ascii {
		h = "-"
		v = "|"
		tl, tr, bl, br = "+", "+", "+", "+"
	}

	top := tl + strings.Repeat(h, innerW) + tr
	if title != "" && innerW > 2 {
		t := " " + trimForWidth(title, innerW-2) + " "
		runes := []rune(top)
		start := 1
		for i, ch := range []rune(t) {
			pos := start + i
			if pos >= len(runes)-1 {
				break
			}
			runes[pos] = ch
		}
		top = string(runes)
	}

	out := make([]string, 0, height)
	out = append(out, r.theme.PanelBorder.Render(top))
	for row := 0; row < innerH; row++ {
		line := ""
		if row < len(lines) {
			line = lines[row]
		}
		out = append(out, r.theme.PanelBorder.Render(v)+r.theme.PanelBody.Render(padANSI(line, innerW))+r.theme.PanelBorder.Render(v))
	}
	out = append(out, r.theme.PanelBorder.Render(bl+strings.Repeat(h, innerW)+br))
	return strings.Join(out, "\n")
}

// padANSI truncates or pads a possibly styled string to exactly width
// cells.
func padANSI(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\t", "    ")
	if ansi.StringWidth(s) > width {
		s = ansi.Truncate(s, width, "…")
	}
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// fitLines forces a block to exactly rows lines of width cells.
func fitLines(block string, width, rows int) string {
	lines := strings.Split(block, "\n")
	if len(lines) > rows {
		lines = lines[:rows]
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padANSI(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

func padRune(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\t", "    "))
	if len(r) > width {
		r = r[:width]
	}
	if len(r) < width {
		r = append(r, []rune(strings.Repeat(" ", width-len(r)))...)
	}
	return string(r)
}

func composeOverlay(base, overlay string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return base
	}
	base = ansi.Strip(base)
	overlay = ansi.Strip(overlay)
	baseLines := strings.Split(base, "\n")
	if len(baseLines) < rows {
		pad := make([]string, rows-len(baseLines))
		baseLines = append(baseLines, pad...)
	}
	for i := 0; i < rows; i++ {
		baseLines[i] = padRune(baseLines[i], cols)
	}

	overlayLines := strings.Split(strings.TrimRight(overlay, "\n"), "\n")
	ow := 1
	for _, line := range overlayLines {
		if lw := len([]rune(line)); lw > ow {
			ow = lw
		}
	}
	ow = min(ow, cols)
	oh := min(len(overlayLines), rows)
	startRow := (rows - oh) / 2
	startCol := max(0, (cols-ow)/2)

	for i := 0; i < oh; i++ {
		row := startRow + i
		if row < 0 || row >= rows {
			continue
		}
		dst := []rune(baseLines[row])
		src := []rune(overlayLines[i])
		if len(src) > ow {
			src = src[:ow]
		}
		for j := 0; j < ow && startCol+j < len(dst); j++ {
			dst[startCol+j] = ' '
		}
		for j := 0; j < len(src) && startCol+j < len(dst); j++ {
			dst[startCol+j] = src[j]
		}
		baseLines[row] = string(dst)
	}
	return strings.Join(baseLines[:rows], "\n")
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// joinColumns places two rendered blocks side by side with a one-cell gap.
func joinColumns(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// scrollWindow returns the first visible row so that cursor stays inside a
// window of height rows.
func scrollWindow(offset, cursor, height, total int) int {
	if height <= 0 {
		return 0
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+height {
		offset = cursor - height + 1
	}
	return clamp(offset, 0, max(0, total-height))
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

func (r *Root) glyph(fancy, plain string) string {
	if r.ascii {
		return plain
	}
	return fancy
}
