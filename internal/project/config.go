package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config mirrors dooble.toml. Zero values mean "use the CLI default".
type Config struct {
	Output OutputConfig `toml:"output"`
	Check  CheckConfig  `toml:"check"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-"`
	meta toml.MetaData
}

type OutputConfig struct {
	Format string `toml:"format"` // pretty|grid|json|msgpack
	Color  string `toml:"color"`  // auto|on|off
}

type CheckConfig struct {
	Jobs           int    `toml:"jobs"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Cache          bool   `toml:"cache"`
	UI             string `toml:"ui"` // auto|on|off
}

var (
	// ErrConfigInvalid wraps every validation failure of dooble.toml.
	ErrConfigInvalid = errors.New("invalid dooble.toml")
)

// DefaultConfig returns the settings used when no dooble.toml exists.
func DefaultConfig() Config {
	return Config{
		Output: OutputConfig{Format: "pretty", Color: "auto"},
		Check:  CheckConfig{MaxDiagnostics: 100, Cache: true, UI: "auto"},
	}
}

// LoadConfig decodes dooble.toml on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	cfg.meta = meta

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: %w: unknown keys: %s", path, ErrConfigInvalid, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Defined reports whether key was set explicitly in the file.
func (c *Config) Defined(key ...string) bool {
	if c == nil || c.Path == "" {
		return false
	}
	return c.meta.IsDefined(key...)
}

func (c *Config) validate() error {
	if c.Defined("output", "format") && !oneOf(c.Output.Format, "pretty", "grid", "json", "msgpack") {
		return fmt.Errorf("%w: [output].format must be pretty|grid|json|msgpack, got %q", ErrConfigInvalid, c.Output.Format)
	}
	if c.Defined("output", "color") && !oneOf(c.Output.Color, "auto", "on", "off") {
		return fmt.Errorf("%w: [output].color must be auto|on|off, got %q", ErrConfigInvalid, c.Output.Color)
	}
	if c.Defined("check", "ui") && !oneOf(c.Check.UI, "auto", "on", "off") {
		return fmt.Errorf("%w: [check].ui must be auto|on|off, got %q", ErrConfigInvalid, c.Check.UI)
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("%w: [check].jobs must be >= 0", ErrConfigInvalid)
	}
	if c.Check.MaxDiagnostics < 0 {
		return fmt.Errorf("%w: [check].max_diagnostics must be >= 0", ErrConfigInvalid)
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	v = strings.TrimSpace(v)
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
