package ui

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"trickadex/internal/catalog"
	"trickadex/internal/progress"
)

const nextLearnsPreviewSize = 3

type profileState struct {
	display   *progress.Display
	animating bool
	editing   bool
	firstRun  bool // enter saves even the default name
	input     textinput.Model
}

func newProfileState(fps int) profileState {
	in := textinput.New()
	in.Prompt = "Name: "
	in.CharLimit = 30
	return profileState{display: progress.NewDisplay(fps), input: in}
}

func (r *Root) handleProfileKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	km := r.keymaps[ScreenProfile]
	switch {
	case key.Matches(msg, km.Edit):
		r.profile.editing = true
		r.profile.input.SetValue(r.userName)
		return r, r.profile.input.Focus()
	case key.Matches(msg, km.Select):
		r.showLevel()
	}
	return r, nil
}

func (r *Root) handleNameKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
		r.profile.editing = false
		r.profile.firstRun = false
		r.profile.input.Blur()
		return r, nil
	case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
		name := strings.TrimSpace(r.profile.input.Value())
		firstRun := r.profile.firstRun
		r.profile.editing = false
		r.profile.firstRun = false
		r.profile.input.Blur()
		if name == "" || (name == r.userName && !firstRun) {
			return r, nil
		}
		r.dispatchController(func(c Controller) { c.OnRename(name) })
		return r, nil
	}
	var cmd tea.Cmd
	r.profile.input, cmd = r.profile.input.Update(msg)
	return r, cmd
}

func (r *Root) handleProfileClick(h hit) (tea.Model, tea.Cmd) {
	if h.kind == hitLevelBar {
		r.showLevel()
	}
	return r, nil
}

// showLevel opens the tricks screen filtered to the user's level tier.
func (r *Root) showLevel() {
	if !r.focus.Ranked() {
		r.statusFlash = "Land a few more tricks in one tier to get ranked"
		return
	}
	r.showFilter(r.focus.Level)
}

func (r *Root) renderProfile(originY, height int) string {
	width := r.cols
	innerW := width - 2
	f := r.focus

	lines := []string{}
	if r.profile.editing {
		lines = append(lines, r.profile.input.View())
	} else {
		lines = append(lines, r.theme.OverlayTitle.Render(r.userName)+"  "+r.theme.Muted.Render("(e to edit)"))
	}
	lines = append(lines, "")
	lines = append(lines, "Focus:  "+r.theme.Accent.Render(f.Label))

	levelStyle := r.theme.Muted
	if f.Ranked() {
		levelStyle = TierStyle(f.LevelTier)
	}
	lines = append(lines, "Level:  "+levelStyle.Render(f.Level))

	bar := r.bar
	bar.SetWidth(clamp(innerW-12, 10, 60))
	r.hits = append(r.hits, hit{kind: hitLevelBar, x: 1, y: originY + 1 + len(lines), w: innerW, h: 1})
	lines = append(lines, "        "+bar.ViewAs(r.profile.display.Fraction()))
	lines = append(lines, fmt.Sprintf("        %d%% of %s", r.profile.display.Value(), f.Level))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Tricks landed: %d", f.TotalLanded))
	lines = append(lines, r.focusBreakdown())
	lines = append(lines, "")

	lines = append(lines, r.theme.PanelTitle.Render("Next learns"))
	next := r.nextLearns()
	if len(next) == 0 {
		lines = append(lines, r.theme.Muted.Render("Nothing unlocked yet. Land a prerequisite to open new tricks."))
	}
	for _, t := range next {
		lines = append(lines, fmt.Sprintf("  %s %s  %s", r.glyph("➜", "->"), t.Name, TierStyle(t.Difficulty).Render(t.Difficulty.Name())))
	}
	return r.drawPanel("Profile", lines, width, height)
}

func (r *Root) focusBreakdown() string {
	if len(r.focus.Counts) == 0 {
		return ""
	}
	tags := make([]string, 0, len(r.focus.Counts))
	for tag := range r.focus.Counts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		parts = append(parts, fmt.Sprintf("%s %d", tag, r.focus.Counts[tag]))
	}
	return r.theme.Muted.Render(strings.Join(parts, "  ·  "))
}

func (r *Root) nextLearns() []catalog.Trick {
	if r.engine == nil {
		return nil
	}
	return progress.NextLearnsPreview(r.engine.RecommendedTricks(), nextLearnsPreviewSize)
}
