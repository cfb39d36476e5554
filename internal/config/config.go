// Package config loads lucid settings from ~/.lucid/config.toml and LUCID_* env vars.
// Command-line flags are applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"lucid-cli/internal/model"
)

const (
	FileName = "config.toml"

	FormatJSON = "json"
	FormatYAML = "yaml"

	DefaultAIMaxTasks = 10
)

type Config struct {
	// Dir is the data directory holding lucid.sqlite.
	Dir      string `toml:"dir"`
	Format   string `toml:"format"`
	LogLevel string `toml:"log_level"`
	// LogFile receives logs while the TUI owns the terminal.
	LogFile string `toml:"log_file"`

	Forms Forms `toml:"forms"`
	AI    AI    `toml:"ai"`
	TUI   TUI   `toml:"tui"`
}

type Forms struct {
	NaturalDates bool   `toml:"natural_dates"`
	Undo         bool   `toml:"undo"`
	DefaultColor string `toml:"default_color"`
}

type AI struct {
	Enabled  bool `toml:"enabled"`
	MaxTasks int  `toml:"max_tasks"`
}

type TUI struct {
	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme"`
	// ColorProfile is "auto", "truecolor", "ansi256", "ansi" or "ascii".
	ColorProfile string `toml:"color_profile"`
}

func Default() Config {
	return Config{
		Format:   FormatJSON,
		LogLevel: "warn",
		Forms: Forms{
			NaturalDates: true,
			Undo:         true,
			DefaultColor: model.DefaultColorName,
		},
		AI:  AI{Enabled: true, MaxTasks: DefaultAIMaxTasks},
		TUI: TUI{Theme: "auto", ColorProfile: "auto"},
	}
}

// Dir is ~/.lucid unless LUCID_CONFIG_DIR is set.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("LUCID_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".lucid"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load layers defaults, the TOML file at path (default location when empty;
// a missing file is not an error) and LUCID_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		p, err := Path()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("loading config file %s: %w", path, err)
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
		return nil
	}

	str("LUCID_DIR", &cfg.Dir)
	str("LUCID_FORMAT", &cfg.Format)
	str("LUCID_LOG_LEVEL", &cfg.LogLevel)
	str("LUCID_LOG_FILE", &cfg.LogFile)
	str("LUCID_DEFAULT_COLOR", &cfg.Forms.DefaultColor)
	str("LUCID_THEME", &cfg.TUI.Theme)
	str("LUCID_COLOR_PROFILE", &cfg.TUI.ColorProfile)
	if err := boolean("LUCID_NATURAL_DATES", &cfg.Forms.NaturalDates); err != nil {
		return err
	}
	if err := boolean("LUCID_UNDO", &cfg.Forms.Undo); err != nil {
		return err
	}
	if err := boolean("LUCID_AI", &cfg.AI.Enabled); err != nil {
		return err
	}
	if v, ok := lookup("LUCID_AI_MAX_TASKS"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("LUCID_AI_MAX_TASKS: %w", err)
		}
		cfg.AI.MaxTasks = n
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Format {
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("invalid format %q (expected json or yaml)", c.Format)
	}
	if c.Forms.DefaultColor != "" {
		if _, ok := model.FindColor(c.Forms.DefaultColor); !ok {
			return fmt.Errorf("unknown default_color %q", c.Forms.DefaultColor)
		}
	}
	if c.AI.MaxTasks < 0 {
		return fmt.Errorf("ai.max_tasks must be >= 0")
	}
	return nil
}
