package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/pthm-cable/seekers/config"
	"github.com/pthm-cable/seekers/game"
	"github.com/pthm-cable/seekers/storage"
	"github.com/pthm-cable/seekers/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	maxGenerations := flag.Int("max-generations", 0, "Stop once this generation is reached (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	storeKind := flag.String("store", "", "Checkpoint backend: memory, file, sqlite (empty = use config)")
	storePath := flag.String("store-path", "", "Checkpoint directory or database file (empty = use config)")
	clearSave := flag.Bool("clear-save", false, "Delete the stored checkpoint before starting")
	fixedStep := flag.Bool("fixed-step", false, "Measure generation length in simulated time instead of wall-clock time")
	logPerf := flag.Bool("log-perf", false, "Log tick timing at every rollover")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *storeKind != "" {
		cfg.Storage.Kind = *storeKind
	}
	if *storePath != "" {
		cfg.Storage.Path = *storePath
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	if err := run(cfg, rngSeed, runOptions{
		maxTicks:       *maxTicks,
		maxGenerations: *maxGenerations,
		outputDir:      *outputDir,
		clearSave:      *clearSave,
		fixedStep:      *fixedStep,
		logPerf:        *logPerf,
	}); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	maxTicks       int
	maxGenerations int
	outputDir      string
	clearSave      bool
	fixedStep      bool
	logPerf        bool
}

func run(cfg *config.Config, rngSeed int64, opts runOptions) error {
	ctx := context.Background()

	kv, err := storage.NewKV(cfg.Storage.Kind, cfg.Storage.Path)
	if err != nil {
		return err
	}
	if err := kv.Init(ctx); err != nil {
		return err
	}
	defer kv.Close()

	store := storage.NewGenomeStore(kv, cfg.Storage.Key, slog.Default())
	if opts.clearSave {
		if err := store.Clear(ctx); err != nil {
			return err
		}
		slog.Info("checkpoint_cleared", "key", cfg.Storage.Key)
	}

	output, err := telemetry.NewOutputManager(opts.outputDir)
	if err != nil {
		return err
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)

	gameOpts := game.Options{
		Rand:        rand.New(rand.NewSource(rngSeed)),
		Persistence: store,
		Perf:        perf,
		Logger:      slog.Default(),
	}
	if output != nil {
		gameOpts.Recorder = output
	}

	var clock *game.ManualClock
	if opts.fixedStep {
		clock = game.NewManualClock(time.Unix(0, 0))
		gameOpts.Clock = clock
	}

	ctrl, err := game.NewController(cfg, game.NewPhysics(cfg), gameOpts)
	if err != nil {
		return err
	}

	slog.Info("starting headless simulation",
		"seed", rngSeed,
		"run_id", output.RunID(),
		"generation", ctrl.Generation(),
		"population", cfg.Population.Size,
		"topology", cfg.Derived.Topology,
		"store", cfg.Storage.Kind,
		"fixed_step", opts.fixedStep,
		"max_ticks", opts.maxTicks,
		"max_generations", opts.maxGenerations,
	)

	for tick := 1; ; tick++ {
		if clock != nil {
			clock.Advance(time.Duration(ctrl.Config().Physics.DT * float64(time.Second)))
		}

		if ctrl.Tick() {
			perfStats := perf.Stats()
			if opts.logPerf {
				perfStats.LogStats()
			}
			if err := output.WritePerf(perfStats, ctrl.Generation()-1); err != nil {
				slog.Error("failed to write perf", "error", err)
			}

			if opts.maxGenerations > 0 && ctrl.Generation() >= opts.maxGenerations {
				slog.Info("max generations reached", "generation", ctrl.Generation())
				return nil
			}
		}

		if opts.maxTicks > 0 && tick >= opts.maxTicks {
			slog.Info("max ticks reached", "tick", tick, "generation", ctrl.Generation())
			return nil
		}
	}
}
