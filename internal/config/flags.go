package config

import "github.com/spf13/pflag"

var (
	flagSet         *pflag.FlagSet
	flagConfig      string
	flagDebug       bool
	flagRig         string
	flagFrames      int
	flagTimestep    float32
	flagCrossfade   string
	flagMetrics     bool
	flagMetricsAddr string
	flagLogFile     string
	flagDumpDir     string
)

// BindFlags registers the config flags on fs. Call this before fs is parsed.
func BindFlags(fs *pflag.FlagSet) {
	flagSet = fs
	fs.StringVar(&flagConfig, "config", "", "Path to config file")
	fs.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	fs.StringVar(&flagRig, "rig", "", "Path to rig file")
	fs.IntVar(&flagFrames, "frames", 0, "Number of frames to simulate")
	fs.Float32Var(&flagTimestep, "timestep", 0, "Simulation timestep in seconds")
	fs.StringVar(&flagCrossfade, "crossfade", "", "Crossfade policy (auto, direct, triangular)")
	fs.BoolVar(&flagMetrics, "metrics", false, "Serve Prometheus metrics")
	fs.StringVar(&flagMetricsAddr, "metrics-addr", "", "Metrics listen address")
	fs.StringVar(&flagLogFile, "log-file", "", "Write JSON logs to this file")
	fs.StringVar(&flagDumpDir, "dump-dir", "", "Write per-frame sample dumps to this directory")
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if flagSet == nil {
		return
	}
	if flagDebug {
		cfg.Logging.Level = "debug"
	}
	if flagRig != "" {
		cfg.Simulation.Rig = flagRig
	}
	if flagFrames > 0 {
		cfg.Simulation.Frames = flagFrames
	}
	if flagTimestep > 0 {
		cfg.Simulation.Timestep = flagTimestep
	}
	if flagCrossfade != "" {
		cfg.Animation.Crossfade = flagCrossfade
	}
	if flagSet.Changed("metrics") {
		cfg.Metrics.Enabled = flagMetrics
	}
	if flagMetricsAddr != "" {
		cfg.Metrics.Addr = flagMetricsAddr
	}
	if flagLogFile != "" {
		cfg.Logging.LogFile = flagLogFile
	}
	if flagDumpDir != "" {
		cfg.Simulation.DumpDir = flagDumpDir
	}
}
