package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cinescore/internal/config"
	"cinescore/internal/core"
	"cinescore/internal/utils"
)

// movieFinder is what the lookup command needs from core.Manager.
type movieFinder interface {
	FindMovie(ctx context.Context, title string, weights core.Weights) (*core.Report, error)
}

type commandContext struct {
	configPath *string
	debug      *bool
	cfg        *config.Config

	// newFinder is swapped out in tests.
	newFinder func(cfg *config.Config, logger *utils.Logger) (movieFinder, error)
}

func newCommandContext(configPath *string, debug *bool) *commandContext {
	return &commandContext{
		configPath: configPath,
		debug:      debug,
		newFinder: func(cfg *config.Config, logger *utils.Logger) (movieFinder, error) {
			return core.NewManager(cfg, logger)
		},
	}
}

// ensureConfig loads .env, the config file and the environment once.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	_ = godotenv.Load()

	cfg, err := config.Load(*c.configPath)
	if err != nil {
		return nil, err
	}
	if *c.debug {
		cfg.App.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) logger() *utils.Logger {
	debug := c.cfg != nil && c.cfg.App.Debug
	return utils.NewLogger(debug, os.Stderr)
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var debugFlag bool

	ctx := newCommandContext(&configFlag, &debugFlag)

	rootCmd := &cobra.Command{
		Use:           "cinescore",
		Short:         "Look up a movie on TMDB and OMDb and score it",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "config.yml", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newLookupCommand(ctx))

	return rootCmd
}
