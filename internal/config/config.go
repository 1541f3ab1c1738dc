package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds user preferences. Values come from defaults, then the TOML
// config file, then FERN_* environment variables.
type Config struct {
	UI      UIConfig      `mapstructure:"ui" json:"ui"`
	Log     LogConfig     `mapstructure:"log" json:"log"`
	Marks   MarksConfig   `mapstructure:"marks" json:"marks"`
	Metrics MetricsConfig `mapstructure:"metrics" json:"metrics"`
	// Keys overrides key bindings, e.g. keys.down = ["j", "ctrl+n"].
	Keys map[string][]string `mapstructure:"keys" json:"keys,omitempty"`
}

type UIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs     string `mapstructure:"glyphs" json:"glyphs"`
	ShowHidden bool   `mapstructure:"show_hidden" json:"show_hidden"`
	DirsFirst  bool   `mapstructure:"dirs_first" json:"dirs_first"`
	ShowLog    bool   `mapstructure:"show_log" json:"show_log"`
}

type LogConfig struct {
	Level string `mapstructure:"level" json:"level"`
	File  string `mapstructure:"file" json:"file"`
}

type MarksConfig struct {
	// Path is the sqlite database holding marks.
	Path string `mapstructure:"path" json:"path"`
}

type MetricsConfig struct {
	// Addr enables the Prometheus listener when set (e.g. "127.0.0.1:9464").
	Addr string `mapstructure:"addr" json:"addr"`
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching the user's config).
	if v := strings.TrimSpace(os.Getenv("FERN_CONFIG_DIR")); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "fern"), nil
}

// Path returns the config file location: FERN_CONFIG, else config.toml in Dir.
func Path() (string, error) {
	if v := strings.TrimSpace(os.Getenv("FERN_CONFIG")); v != "" {
		return v, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("ui.glyphs", "unicode")
	v.SetDefault("ui.show_hidden", false)
	v.SetDefault("ui.dirs_first", false)
	v.SetDefault("ui.show_log", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("marks.path", filepath.Join(dir, "marks.sqlite"))
	v.SetDefault("metrics.addr", "")
}

// Load reads configuration. An explicit path must exist; the default path
// may be missing.
func Load(path string) (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	v := viper.New()
	setDefaults(v, dir)
	v.SetConfigType("toml")

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		if path, err = Path(); err != nil {
			return Config{}, err
		}
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("FERN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes c to path (or the default location), creating the directory.
func Save(c Config, path string) error {
	if strings.TrimSpace(path) == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("ui.glyphs", c.UI.Glyphs)
	v.Set("ui.show_hidden", c.UI.ShowHidden)
	v.Set("ui.dirs_first", c.UI.DirsFirst)
	v.Set("ui.show_log", c.UI.ShowLog)
	v.Set("log.level", c.Log.Level)
	v.Set("log.file", c.Log.File)
	v.Set("marks.path", c.Marks.Path)
	v.Set("metrics.addr", c.Metrics.Addr)
	for action, keys := range c.Keys {
		v.Set("keys."+action, keys)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
