package ui

import (
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"trickadex/internal/catalog"
	"trickadex/internal/progress"
)

type statsState struct {
	cursor int
}

func (r *Root) tierProgress() []progress.TierProgress {
	c := r.currentCatalog()
	if c == nil {
		return nil
	}
	return progress.ComputeTierProgress(c, r.landed)
}

func (r *Root) handleStatsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	km := r.keymaps[ScreenProgress]
	switch {
	case key.Matches(msg, km.Up):
		r.stats.cursor = clamp(r.stats.cursor-1, 0, catalog.TierCount-1)
	case key.Matches(msg, km.Down):
		r.stats.cursor = clamp(r.stats.cursor+1, 0, catalog.TierCount-1)
	case key.Matches(msg, km.Select):
		r.showFilter(catalog.Tier(r.stats.cursor).Name())
	}
	return r, nil
}

func (r *Root) handleStatsClick(h hit) (tea.Model, tea.Cmd) {
	if h.kind != hitTier {
		return r, nil
	}
	if h.index == r.stats.cursor {
		r.showFilter(catalog.Tier(h.index).Name())
		return r, nil
	}
	r.stats.cursor = h.index
	return r, nil
}

func (r *Root) renderStats(originY, height int) string {
	tiers := r.tierProgress()
	width := r.cols
	innerW := width - 2
	barW := clamp(innerW-40, 10, 50)
	bar := r.bar
	bar.SetWidth(barW)

	lines := []string{r.theme.Muted.Render("Pick a tier to browse its tricks."), ""}
	for i, tp := range tiers {
		name := padRune(tp.Tier.Name(), 13)
		count := fmt.Sprintf("%3d/%-3d", tp.Landed, tp.Total)
		badge := ""
		if tp.Mastered() {
			badge = r.theme.Landed.Render(" " + r.glyph("★ Mastered", "* Mastered"))
		}
		pointer := "  "
		if i == r.stats.cursor {
			pointer = r.theme.Accent.Render(r.glyph("▸ ", "> "))
		}
		line := pointer + TierStyle(tp.Tier).Render(name) + " " + bar.ViewAs(float64(tp.Percent)/100) + " " + count + badge
		r.hits = append(r.hits, hit{kind: hitTier, x: 1, y: originY + 1 + len(lines), w: innerW, h: 1, index: i})
		lines = append(lines, line)
	}

	total := 0
	landed := 0
	for _, tp := range tiers {
		total += tp.Total
		landed += tp.Landed
	}
	lines = append(lines, "", fmt.Sprintf("Overall: %d of %d tricks landed", landed, total))
	return r.drawPanel("Progress by tier", lines, width, height)
}
