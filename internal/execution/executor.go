package execution

import (
	"context"
	"time"

	"ctp/internal/domain"
	"ctp/internal/harness"
)

// Executor executes cases and returns results
type Executor interface {
	Execute(ctx context.Context, cases []harness.Case) ([]domain.CaseResult, time.Duration, error)
}
