package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config controls runtime behavior for the TUI app.
type Config struct {
	Dev          bool   `env:"DEV"`
	DevHTTP      string `env:"DEV_HTTP"`
	LogPath      string `env:"LOG"`
	Debug        bool   `env:"DEBUG"`
	DemoScenario string `env:"DEMO"`
	ASCIIOnly    bool   `env:"ASCII"`
	DataDir      string `env:"DATA_DIR"`
	CatalogPath  string `env:"CATALOG"`
	// NoWatch disables reloading state when another process writes it.
	NoWatch  bool           `env:"NO_WATCH"`
	Feedback FeedbackConfig `envPrefix:"FEEDBACK_"`
	UI       UIConfig       `envPrefix:"UI_"`
}

type FeedbackConfig struct {
	Endpoint string `env:"ENDPOINT"`
	ReplyTo  string `env:"REPLY_TO"`
}

type UIConfig struct {
	StyleVariant string `env:"STYLE"`
	MotionLevel  string `env:"MOTION"`
	MouseScope   string `env:"MOUSE"`
}

func DefaultConfig() Config {
	return Config{
		DevHTTP: "127.0.0.1:17321",
		Feedback: FeedbackConfig{
			ReplyTo: "feedback@trickadex.app",
		},
		UI: UIConfig{
			StyleVariant: "modern_arcade",
			MotionLevel:  "full",
			MouseScope:   "full",
		},
	}
}

// LoadEnv overlays TRICKADEX_* environment variables onto c. Unset
// variables leave fields untouched.
func (c *Config) LoadEnv() error {
	return c.loadEnv(nil)
}

func (c *Config) loadEnv(environ map[string]string) error {
	opts := env.Options{Prefix: "TRICKADEX_"}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.UI.StyleVariant {
	case "", "modern_arcade", "cozy_clean", "retro_terminal":
	default:
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}
	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = "modern_arcade"
	}
	switch c.UI.MotionLevel {
	case "", "off", "reduced", "full":
	default:
		return fmt.Errorf("invalid ui motion level %q", c.UI.MotionLevel)
	}
	if c.UI.MotionLevel == "" {
		c.UI.MotionLevel = "full"
	}
	switch c.UI.MouseScope {
	case "", "off", "scoped", "full":
	default:
		return fmt.Errorf("invalid ui mouse scope %q", c.UI.MouseScope)
	}
	if c.UI.MouseScope == "" {
		c.UI.MouseScope = "full"
	}
	if c.Dev && c.DevHTTP == "" {
		c.DevHTTP = "127.0.0.1:17321"
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "trickadex")
	}

	return nil
}

// StorePath is the SQLite file holding persisted state.
func (c Config) StorePath() string {
	return filepath.Join(c.DataDir, "state.db")
}
