// Package config loads tmscope settings from a config file, TMSCOPE_*
// environment variables and built-in defaults, in increasing order of
// precedence: defaults, file, environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dshills/tmscope/internal/logging"
	"github.com/dshills/tmscope/internal/theme/loader"
)

// EnvPrefix is prepended to upper-cased setting keys, with dots replaced by
// underscores: log.level is read from TMSCOPE_LOG_LEVEL.
const EnvPrefix = "TMSCOPE"

// Config holds all tmscope settings.
type Config struct {
	ThemeDirs    []string      `mapstructure:"theme_dirs"`
	DefaultTheme string        `mapstructure:"default_theme"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	Watch        bool          `mapstructure:"watch"`
	Log          LogConfig     `mapstructure:"log"`

	// Source is the config file that was read, or "" when none was found.
	Source string `mapstructure:"-"`
}

// LogConfig configures the root logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		ThemeDirs: []string{},
		CacheTTL:  loader.DefaultCacheTTL,
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Logging returns the logger configuration.
func (c Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Pretty: c.Log.Pretty}
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	var errs []error
	if c.CacheTTL < 0 {
		errs = append(errs, &ValidationError{Path: "cache_ttl", Message: "must not be negative", Value: c.CacheTTL})
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, &ValidationError{Path: "log.level", Message: "unknown level", Value: c.Log.Level})
	}
	for i, dir := range c.ThemeDirs {
		if strings.TrimSpace(dir) == "" {
			errs = append(errs, &ValidationError{Path: fmt.Sprintf("theme_dirs[%d]", i), Message: "empty directory", Value: dir})
		}
	}
	return errors.Join(errs...)
}

type options struct {
	searchPaths []string
}

// Option configures Load.
type Option func(*options)

// WithSearchPaths replaces the directories searched for config.{yaml,toml,json}
// when Load is called without an explicit path.
func WithSearchPaths(dirs ...string) Option {
	return func(o *options) {
		o.searchPaths = dirs
	}
}

// DefaultSearchPaths returns the current directory's .tmscope folder followed
// by the user config directory.
func DefaultSearchPaths() []string {
	paths := []string{".tmscope"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "tmscope"))
	}
	return paths
}

// Load reads the configuration. A non-empty path must name an existing file;
// otherwise the search paths are tried and a missing file is not an error.
// The result is validated before it is returned.
func Load(path string, opts ...Option) (Config, error) {
	o := options{searchPaths: DefaultSearchPaths()}
	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()
	setDefaults(v, Defaults())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return Config{}, fmt.Errorf("stat config: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		for _, dir := range o.searchPaths {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, &ParseError{Path: v.ConfigFileUsed(), Err: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, &ParseError{Path: v.ConfigFileUsed(), Err: err}
	}
	cfg.Source = v.ConfigFileUsed()
	cfg.ThemeDirs = expandDirs(cfg.ThemeDirs)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("theme_dirs", d.ThemeDirs)
	v.SetDefault("default_theme", d.DefaultTheme)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("watch", d.Watch)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)
}

// expandDirs expands a leading ~ and drops surrounding whitespace.
func expandDirs(dirs []string) []string {
	home, _ := os.UserHomeDir()
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		dir = strings.TrimSpace(dir)
		if home != "" && (dir == "~" || strings.HasPrefix(dir, "~/")) {
			dir = filepath.Join(home, dir[1:])
		}
		out = append(out, dir)
	}
	return out
}
