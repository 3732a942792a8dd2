package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/skelanim/internal/config"
	"github.com/Faultbox/skelanim/internal/logger"
)

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "animsim",
	Short: "Headless skeletal animation simulator",
	Long: `animsim loads a rig (skeleton, clips, controllers and transition graph)
and evaluates it frame by frame without a renderer.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if err := logger.Init(loaded.Logging.Level, loaded.Logging.LogFile); err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		cfg = loaded
		logger.Sugar.Debugf("Config: %+v", cfg)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	config.BindFlags(rootCmd.PersistentFlags())
}

// rigPath returns the first positional argument or the configured rig.
func rigPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Simulation.Rig
}
