package execution

import (
	"context"

	logger "github.com/rs/zerolog/log"

	"ctp/internal/config"
	"ctp/internal/domain"
	"ctp/internal/harness"
)

// Runner executes a single characterization case
type Runner struct {
	config *config.Config
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{config: cfg}
}

// Prepare applies the configured timeout and repeat count to a case that sets none of its own
func (r *Runner) Prepare(c harness.Case) harness.Case {
	if c.Timeout <= 0 {
		c.Timeout = r.config.Timeout
	}
	if repeat := r.config.Flags.Repeat; repeat > c.Repeat {
		c.Repeat = repeat
	}
	return c
}

// Run executes one case on behalf of worker workerID
func (r *Runner) Run(ctx context.Context, c harness.Case, workerID int) domain.CaseResult {
	c = r.Prepare(c)
	logger.Debug().Int("worker", workerID).Str("case", c.ID()).Msg("Running case.")

	result := harness.Run(ctx, c)

	event := logger.Debug()
	if !result.Passed {
		event = logger.Info()
	}
	event.Int("worker", workerID).
		Str("case", result.ID).
		Bool("passed", result.Passed).
		Int("attempts", result.Attempts).
		Dur("duration", result.Duration).
		Msg("Case finished.")
	return result
}
