package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagSize      = flag.Int("size", 0, "Normal map size in texels")
	flagChunkSize = flag.Int("chunk-size", 0, "Points per batch transform chunk")
	flagWorkers   = flag.Int("workers", -1, "Batch transform workers (0 = all CPUs)")
	flagProfile   = flag.String("profile", "", "Tiling profile (global-geodetic, spherical-mercator)")
	flagLogFile   = flag.String("log-file", "", "Write logs to this file as well")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after the global flags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSize > 0 {
		cfg.NormalMap.Size = *flagSize
	}
	if *flagChunkSize > 0 {
		cfg.Batch.ChunkSize = *flagChunkSize
	}
	if *flagWorkers >= 0 {
		cfg.Batch.Workers = *flagWorkers
	}
	if *flagProfile != "" {
		cfg.Pool.Profile = *flagProfile
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
