package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dshills/tmscope/internal/config"
	"github.com/dshills/tmscope/internal/logging"
	"github.com/dshills/tmscope/internal/theme"
	"github.com/dshills/tmscope/internal/theme/loader"
)

var errNoTheme = errors.New("no theme given and default_theme is not set")

// app holds the state shared by all subcommands. It is filled in by setup
// before any subcommand runs.
type app struct {
	configPath string
	themeDirs  []string
	logLevel   string

	cfg      config.Config
	log      zerolog.Logger
	registry *loader.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "tmscope",
		Short: "Inspect TextMate themes and the attributes they assign to scopes",
		Long: `tmscope loads TextMate themes (JSON, TOML or YAML) from theme directories
and shows how they resolve scope chains into token attributes.`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default: .tmscope/config.* or the user config dir)")
	flags.StringSliceVar(&a.themeDirs, "theme-dir", nil, "theme directory, repeatable (overrides theme_dirs)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (overrides log.level)")

	root.AddCommand(
		newListCmd(a),
		newMatchCmd(a),
		newAttrsCmd(a),
		newColorsCmd(a),
		newWatchCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(a.themeDirs) > 0 {
		cfg.ThemeDirs = a.themeDirs
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lc := cfg.Logging()
	lc.Out = cmd.ErrOrStderr()
	logger, err := logging.New(lc)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logging.Component(logger, logging.CompCLI)
	a.registry = loader.NewRegistry(
		loader.WithDirs(cfg.ThemeDirs...),
		loader.WithCacheTTL(cfg.CacheTTL),
		loader.WithLogger(logger),
	)
	if err := a.registry.Refresh(); err != nil {
		a.log.Warn().Err(err).Msg("some themes could not be loaded")
	}
	a.log.Debug().
		Str("config", cfg.Source).
		Strs("dirs", cfg.ThemeDirs).
		Int("themes", a.registry.Catalog().Len()).
		Msg("ready")
	return nil
}

// loadTheme loads name, falling back to the configured default theme.
func (a *app) loadTheme(name string) (*theme.Theme, error) {
	if name == "" {
		name = a.cfg.DefaultTheme
	}
	if name == "" {
		return nil, errNoTheme
	}
	th, err := a.registry.Load(name)
	if err != nil {
		return nil, err
	}
	a.log.Debug().Str("theme", name).Str("name", th.Name()).Msg("theme loaded")
	return th, nil
}
