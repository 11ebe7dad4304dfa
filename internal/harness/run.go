package harness

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"ctp/internal/domain"
)

// ErrFixture marks a failure to build the fixture, as opposed to an observed error
var ErrFixture = errors.New("fixture")

// Observe builds a fresh fixture and invokes the operation once.
// Errors and panics raised by the operation are part of the observation;
// the returned error is only set when the fixture could not be built.
func Observe(c Case) (obs Observation, err error) {
	if c.Fixture != nil {
		fixture, ferr := buildFixture(c.Fixture)
		if ferr != nil {
			return Observation{}, fmt.Errorf("%w: %v", ErrFixture, ferr)
		}
		obs.Fixture = fixture
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				obs.Panic = &PanicValue{Value: r, Stack: string(debug.Stack())}
			}
		}()
		obs.Value, obs.Err = c.Invoke(obs.Fixture)
	}()
	return obs, nil
}

func buildFixture(build func() (any, error)) (fixture any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fixture panicked: %v", r)
		}
	}()
	return build()
}

// Run executes a case: every attempt builds a new fixture, invokes the operation and
// matches the observation against the expected outcome. The case passes only if every
// attempt matches before the timeout expires.
func Run(ctx context.Context, c Case) domain.CaseResult {
	start := time.Now()
	result := domain.CaseResult{
		ID:        c.ID(),
		Suite:     c.Suite,
		Name:      c.Name,
		Partition: c.Partition,
		Source:    c.Source,
	}
	if err := c.Validate(); err != nil {
		result.Expected = "a valid case"
		result.Actual = "invalid case"
		result.Detail = err.Error()
		result.Duration = time.Since(start)
		return result
	}
	result.Expected = c.Expect.String()

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	for attempt := 1; attempt <= c.attempts(); attempt++ {
		result.Attempts = attempt
		obs, err := observeWithin(ctx, c)
		if err != nil {
			result.Actual = err.Error()
			result.TimedOut = errors.Is(err, context.DeadlineExceeded)
			if result.TimedOut {
				result.Actual = fmt.Sprintf("timeout after %s", c.timeout())
			}
			result.Detail = err.Error()
			result.Duration = time.Since(start)
			return result
		}

		result.Actual = Describe(obs)
		if mismatchErr := c.Expect.Match(obs); mismatchErr != nil {
			result.Detail = Detail(obs, mismatchErr, attempt)
			result.Duration = time.Since(start)
			return result
		}
	}

	result.Passed = true
	result.Duration = time.Since(start)
	return result
}

type observed struct {
	obs Observation
	err error
}

// observeWithin runs one attempt on its own goroutine so a hung operation cannot block the
// worker past the deadline. The goroutine of an abandoned attempt finishes in the background.
func observeWithin(ctx context.Context, c Case) (Observation, error) {
	if err := ctx.Err(); err != nil {
		return Observation{}, err
	}
	done := make(chan observed, 1)
	go func() {
		obs, err := Observe(c)
		done <- observed{obs: obs, err: err}
	}()
	select {
	case <-ctx.Done():
		return Observation{}, ctx.Err()
	case o := <-done:
		return o.obs, o.err
	}
}
