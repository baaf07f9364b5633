package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"trickadex/internal/app"
	"trickadex/internal/catalog"
	"trickadex/internal/progress"
	"trickadex/internal/state"
)

var (
	statsTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5EC2FF"))
	statsLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(true)
	statsValue = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	statsBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("#79E6A6")).Bold(true)
)

const statsBarWidth = 20

func newStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print tier progress, focus and toggle history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.config(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			snap, err := loadSnapshot(ctx, cfg)
			if err != nil {
				return err
			}
			writeStats(cmd.OutOrStdout(), snap)
			return nil
		},
	}
}

// snapshot is the persisted state the non-interactive commands read.
type snapshot struct {
	catalog   *catalog.Catalog
	landed    state.Flags
	favorites state.Flags
	prefs     state.Preferences
	userName  string
	summary   state.Summary
}

func loadSnapshot(ctx context.Context, cfg app.Config) (snapshot, error) {
	cat, err := app.LoadCatalog(ctx, cfg.CatalogPath)
	if err != nil {
		return snapshot{}, err
	}
	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return snapshot{}, err
	}
	defer store.Close()

	userName, _ := state.NewProfile(store, nil).Load(ctx)
	summary, err := store.GetSummary(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("read toggle history: %w", err)
	}
	return snapshot{
		catalog:   cat,
		landed:    state.LoadFlags(ctx, store, state.KeyLanded, nil),
		favorites: state.LoadFlags(ctx, store, state.KeyFavorites, nil),
		prefs:     state.LoadPreferences(ctx, store, nil),
		userName:  userName,
		summary:   summary,
	}, nil
}

func writeStats(w io.Writer, snap snapshot) {
	focus := progress.ComputeUserFocus(snap.catalog, snap.landed, progress.DefaultFocusConfig())

	fmt.Fprintln(w, statsTitle.Render(snap.userName))
	fmt.Fprintf(w, "%s %s\n", statsLabel.Render("Focus:"), statsValue.Render(focus.Label))
	level := focus.Level
	if focus.Ranked() {
		level = fmt.Sprintf("%s (%d%%)", focus.Level, focus.LevelPercent)
	}
	fmt.Fprintf(w, "%s %s\n", statsLabel.Render("Level:"), statsValue.Render(level))
	fmt.Fprintf(w, "%s %d landed, %d favorites\n\n", statsLabel.Render("Tricks:"), focus.TotalLanded, favoritesInCatalog(snap))

	for _, tp := range progress.ComputeTierProgress(snap.catalog, snap.landed) {
		name := lipgloss.NewStyle().Width(13).Foreground(lipgloss.Color(tp.Tier.Color())).Render(tp.Tier.Name())
		line := fmt.Sprintf("%s %s %3d/%-3d %3d%%", name, textBar(tp.Percent, statsBarWidth), tp.Landed, tp.Total, tp.Percent)
		if tp.Mastered() {
			line += " " + statsBadge.Render("Mastered")
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w)
	s := snap.summary
	fmt.Fprintf(w, "%s %d toggles over %d sessions (%d landed, %d favorite)\n",
		statsLabel.Render("History:"), s.Toggles, s.Sessions, s.LandedToggles, s.FavoriteToggles)
	if !s.LastToggleTS.IsZero() {
		fmt.Fprintf(w, "%s %s\n", statsLabel.Render("Last change:"), s.LastToggleTS.Local().Format(time.DateTime))
	}
}

func favoritesInCatalog(snap snapshot) int {
	n := 0
	for id, on := range snap.favorites {
		if _, ok := snap.catalog.ByID(id); ok && on {
			n++
		}
	}
	return n
}

func textBar(percent, width int) string {
	filled := percent * width / 100
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
