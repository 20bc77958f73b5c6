package game

import "github.com/pthm-cable/seekers/telemetry"

// recordGeneration summarizes the finished generation, logs it, and hands it
// to the recorder. Recorder failures are logged and never stop the rollover.
func (c *Controller) recordGeneration(ranked []*Agent) {
	fitness := make([]float64, len(ranked))
	for i, a := range ranked {
		fitness[i] = a.Fitness
	}

	stats := telemetry.GenerationStats{
		Generation:      c.generation,
		DurationSec:     c.Elapsed().Seconds(),
		Ticks:           c.ticks,
		Population:      len(ranked),
		TargetsConsumed: c.consumed,
	}
	telemetry.ComputeFitnessStats(fitness).Apply(&stats)
	if len(ranked) > 0 {
		stats.BestParams = ranked[0].Brain.ParamCount()
	}

	c.logger.Info("generation_rollover", "stats", stats)

	if c.recorder != nil {
		if err := c.recorder.RecordGeneration(stats); err != nil {
			c.logger.Error("failed to record generation", "generation", stats.Generation, "error", err)
		}
	}
}
