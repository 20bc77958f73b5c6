package main

import (
	"context"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/seekers/config"
	"github.com/pthm-cable/seekers/game"
	"github.com/pthm-cable/seekers/neural"
	"github.com/pthm-cable/seekers/storage"
	"github.com/pthm-cable/seekers/telemetry"
)

// FitnessEvaluator runs headless fixed-step simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	tail        int // trailing generations averaged into the score
	seeds       []int64
	baseConfig  *config.Config

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestBrain   *neural.Network
	bestGen     int
	lastScore   float64 // mean best fitness from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations, tail int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	if tail < 1 {
		tail = 1
	}
	return &FitnessEvaluator{
		params:      params,
		generations: generations,
		tail:        tail,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestBrain returns the top genome from the best evaluation and the generation it finished.
func (fe *FitnessEvaluator) BestBrain() (*neural.Network, int) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestBrain, fe.bestGen
}

// LastScore returns the mean best fitness from the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScore
}

// runResult holds the results from a single simulation run.
type runResult struct {
	stats []telemetry.GenerationStats
	brain *neural.Network // rank-0 genome of the last finished generation
	gen   int
	err   error
}

// statsRecorder collects generation summaries from one controller.
type statsRecorder struct {
	stats []telemetry.GenerationStats
}

func (r *statsRecorder) RecordGeneration(s telemetry.GenerationStats) error {
	r.stats = append(r.stats, s)
	return nil
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated mean of the best fitness over the trailing generations,
// averaged across seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	scores := make([]float64, 0, len(results))
	bestSeed := -1
	bestScore := math.Inf(-1)
	for i, r := range results {
		if r.err != nil {
			slog.Warn("evaluation run failed", "seed", fe.seeds[i], "error", r.err)
			continue
		}
		sc := fe.score(r.stats)
		scores = append(scores, sc)
		if sc > bestScore {
			bestScore = sc
			bestSeed = i
		}
	}
	if len(scores) == 0 {
		return 0
	}

	mean := stat.Mean(scores, nil)
	fitness := -mean

	fe.mu.Lock()
	if fitness < fe.bestFitness && results[bestSeed].brain != nil {
		fe.bestFitness = fitness
		fe.bestBrain = results[bestSeed].brain
		fe.bestGen = results[bestSeed].gen
	}
	fe.lastScore = mean
	fe.mu.Unlock()

	return fitness
}

// runSimulation executes a single headless run for the configured number of generations.
// The rank-0 genome is captured through an in-memory genome store.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	ctx := context.Background()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := storage.NewMemoryKV()
	if err := kv.Init(ctx); err != nil {
		return runResult{err: err}
	}
	defer kv.Close()
	store := storage.NewGenomeStore(kv, storage.DefaultKey, quiet)

	clock := game.NewManualClock(time.Unix(0, 0))
	recorder := &statsRecorder{}
	ctrl, err := game.NewController(cfg, game.NewPhysics(cfg), game.Options{
		Rand:        rand.New(rand.NewSource(seed)),
		Clock:       clock,
		Persistence: store,
		Recorder:    recorder,
		Logger:      quiet,
	})
	if err != nil {
		return runResult{err: err}
	}

	step := time.Duration(cfg.Physics.DT * float64(time.Second))
	for ctrl.Generation() <= fe.generations {
		clock.Advance(step)
		ctrl.Tick()
	}

	brain, gen, _ := store.Load(ctx)
	return runResult{stats: recorder.stats, brain: brain, gen: gen}
}

// score averages the best fitness of the trailing generations.
func (fe *FitnessEvaluator) score(stats []telemetry.GenerationStats) float64 {
	if len(stats) == 0 {
		return 0
	}
	start := len(stats) - fe.tail
	if start < 0 {
		start = 0
	}
	best := make([]float64, 0, len(stats)-start)
	for _, s := range stats[start:] {
		best = append(best, s.BestFitness)
	}
	return stat.Mean(best, nil)
}
