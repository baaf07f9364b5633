package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trickadex/internal/app"
)

type rootFlags struct {
	debug    bool
	logPath  string
	dataDir  string
	catalog  string
	demo     string
	ascii    bool
	dev      bool
	noWatch  bool
	style    string
	motion   string
	mouse    string
	endpoint string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "trickadex",
		Short:         "Browse, track and combine tricking moves in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.config(cmd)
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&flags.debug, "debug", false, "log diagnostics to stderr")
	pf.StringVar(&flags.logPath, "log", "", "append JSON event log to this file")
	pf.StringVar(&flags.dataDir, "data-dir", "", "directory holding state.db (default ~/.local/share/trickadex)")
	pf.StringVar(&flags.catalog, "catalog", "", "load tricks from a YAML file instead of the built-in catalog")
	pf.StringVar(&flags.endpoint, "feedback-endpoint", "", "form endpoint that receives feedback")

	f := cmd.Flags()
	f.StringVar(&flags.demo, "demo", "", "start from a demo scenario with in-memory state")
	f.BoolVar(&flags.ascii, "ascii", false, "draw with ASCII glyphs only")
	f.BoolVar(&flags.dev, "dev", false, "serve demo scenario switching over HTTP (demo mode only)")
	f.BoolVar(&flags.noWatch, "no-watch", false, "do not reload when another process changes state")
	f.StringVar(&flags.style, "style", "", "ui style: modern_arcade, cozy_clean or retro_terminal")
	f.StringVar(&flags.motion, "motion", "", "ui motion: full, reduced or off")
	f.StringVar(&flags.mouse, "mouse", "", "mouse scope: full, scoped or off")

	cmd.AddCommand(newStatsCmd(flags), newComboCmd(flags), newFeedbackCmd(flags))
	return cmd
}

// config layers defaults, TRICKADEX_* variables and explicitly set flags.
func (f *rootFlags) config(cmd *cobra.Command) (app.Config, error) {
	cfg := app.DefaultConfig()
	if err := cfg.LoadEnv(); err != nil {
		return cfg, err
	}
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("debug") {
		cfg.Debug = f.debug
	}
	if changed("log") {
		cfg.LogPath = f.logPath
	}
	if changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if changed("catalog") {
		cfg.CatalogPath = f.catalog
	}
	if changed("feedback-endpoint") {
		cfg.Feedback.Endpoint = f.endpoint
	}
	if changed("demo") {
		cfg.DemoScenario = f.demo
	}
	if changed("ascii") {
		cfg.ASCIIOnly = f.ascii
	}
	if changed("dev") {
		cfg.Dev = f.dev
	}
	if changed("no-watch") {
		cfg.NoWatch = f.noWatch
	}
	if changed("style") {
		cfg.UI.StyleVariant = f.style
	}
	if changed("motion") {
		cfg.UI.MotionLevel = f.motion
	}
	if changed("mouse") {
		cfg.UI.MouseScope = f.mouse
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runTUI(ctx context.Context, cfg app.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(ctx)
}
