// Package config loads memviz settings from a TOML file.
//
// Configuration is optional: every field has a working default, and a
// missing config file is not an error. Flags set on the command line take
// precedence over file values.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/pkranz/memviz/pkg/errors"
	"github.com/pkranz/memviz/pkg/layout"
)

// Config holds all user-tunable settings.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CacheConfig configures the cache backend. Redis settings are only used
// when Backend is "redis".
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// LayoutConfig mirrors the layout engine's tunables.
type LayoutConfig struct {
	CharWidth      float64 `toml:"char_width"`
	Padding        float64 `toml:"padding"`
	Margin         float64 `toml:"margin"`
	AlignThreshold float64 `toml:"align_threshold"`
}

// RenderConfig configures output rendering.
type RenderConfig struct {
	// VizType is one of "boxes" or "nodelink".
	VizType string `toml:"viz_type"`
	// Formats lists the default output formats (svg, png, dot, json).
	Formats []string `toml:"formats"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Cache: CacheConfig{
			Backend: "file",
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Layout: LayoutConfig{
			CharWidth:      layout.DefaultCharWidth,
			Padding:        layout.DefaultPadding,
			Margin:         layout.DefaultMargin,
			AlignThreshold: layout.DefaultAlignThreshold,
		},
		Render: RenderConfig{
			VizType: "boxes",
			Formats: []string{"svg"},
		},
	}
}

// Load reads the config file at path, layering its values over the
// defaults. A missing file returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config file")
	}
	return cfg, nil
}

// Path returns the default config file location, honoring XDG_CONFIG_HOME.
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "memviz", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "memviz.toml")
	}
	return filepath.Join(home, ".config", "memviz", "config.toml")
}

// LayoutOptions converts the layout section to engine options.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{
		CharWidth:      c.Layout.CharWidth,
		Padding:        c.Layout.Padding,
		Margin:         c.Layout.Margin,
		AlignThreshold: c.Layout.AlignThreshold,
	}
}
