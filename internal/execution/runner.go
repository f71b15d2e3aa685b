package execution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"caserun/internal/domain"
)

// Runner executes a single test case
type Runner struct {
	timeout time.Duration
	logger  *slog.Logger
}

// NewRunner creates a new Runner. A zero timeout disables the per-case deadline.
func NewRunner(timeout time.Duration, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{timeout: timeout, logger: logger}
}

// Run executes the case body on its own goroutine and waits for it to settle.
// Errors and panics raised by the body are converted into a fail outcome.
func (r *Runner) Run(ctx context.Context, tc domain.TestCase) domain.TestResult {
	start := time.Now()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		returned := false
		defer func() {
			if p := recover(); p != nil {
				done <- &domain.UnexpectedFault{Value: p}
			} else if !returned {
				// runtime.Goexit ends the body without a return value or a panic
				done <- &domain.UnexpectedFault{Value: "case body exited without returning"}
			}
		}()
		err := tc.Body(ctx)
		returned = true
		done <- err
	}()

	var err error
	if r.timeout > 0 {
		select {
		case err = <-done:
		case <-ctx.Done():
			// The body may still be running; it is abandoned, not awaited.
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = &domain.TimeoutError{Timeout: r.timeout}
			} else {
				err = ctx.Err()
			}
		}
	} else {
		err = <-done
	}

	result := domain.TestResult{
		Name:     tc.Name,
		Outcome:  domain.OutcomePass,
		Duration: time.Since(start),
	}
	if err != nil {
		result.Outcome = domain.OutcomeFail
		result.Reason = reason(err)
		result.Err = err
		r.logger.Debug("Case failed", "case", tc.Name, "reason", result.Reason, "duration", result.Duration)
	} else {
		r.logger.Debug("Case passed", "case", tc.Name, "duration", result.Duration)
	}
	return result
}

// reason renders a human-readable failure reason
func reason(err error) string {
	var fault *domain.UnexpectedFault
	if errors.As(err, &fault) {
		return fault.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fmt.Sprintf("unexpected fault: %T", err)
}
