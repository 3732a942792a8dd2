package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/skelanim/internal/logger"
	"github.com/Faultbox/skelanim/internal/metrics"
	"github.com/Faultbox/skelanim/internal/rig"
)

var (
	runCharacters int
	runHold       bool
)

var runCmd = &cobra.Command{
	Use:   "run [rig.yaml]",
	Short: "Play a rig's input script headlessly",
	Long: `Builds one or more characters from the rig, feeds them the rig's script
and evaluates sampling, blending and forward kinematics every frame.
State, progress and the emitted samples are printed every print_every frames.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runSimulation(ctx, cmd, rigPath(args))
	},
}

func init() {
	runCmd.Flags().IntVar(&runCharacters, "characters", 1, "Number of characters built from the rig")
	runCmd.Flags().BoolVar(&runHold, "hold", false, "Keep serving metrics after the run until interrupted")
	rootCmd.AddCommand(runCmd)
}

func runSimulation(ctx context.Context, cmd *cobra.Command, path string) error {
	log := logger.Named("run")

	def, err := rig.LoadDefinition(path, false)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	errc := make(chan error, 1)
	if cfg.Metrics.Enabled {
		m = metrics.New(nil)
		go func() { errc <- m.Serve(ctx, cfg.Metrics.Addr) }()
	}

	sim, err := newSimulation(cfg, def, runCharacters, m, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	frames, dt := cfg.Simulation.Frames, cfg.Simulation.Timestep
	log.Info("simulation started",
		zap.String("rig", path),
		zap.Int("characters", len(sim.actors)),
		zap.Int("frames", frames),
		zap.Float32("timestep", dt))

	start := time.Now()
	failed := sim.run(frames, dt)
	log.Info("simulation finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("failed_frames", failed))

	if err := sim.flush(); err != nil {
		return err
	}

	if m != nil && runHold {
		fmt.Fprintf(cmd.OutOrStdout(), "serving metrics on %s, press Ctrl+C to exit\n", cfg.Metrics.Addr)
		select {
		case <-ctx.Done():
		case err := <-errc:
			if err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d frames had character failures", failed, frames)
	}
	return nil
}
