package execution

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"caserun/internal/domain"
	"caserun/internal/ui"
)

// Sequential runs test cases one at a time in the order they are yielded.
// Case N+1 does not start before the outcome of case N is final.
type Sequential struct {
	runner   *Runner
	progress *ui.ProgressBar
	logger   *slog.Logger
}

// NewSequential creates a new Sequential executor
func NewSequential(runner *Runner, logger *slog.Logger) *Sequential {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sequential{runner: runner, logger: logger}
}

// SetProgress sets the progress bar for the executor
func (s *Sequential) SetProgress(progress *ui.ProgressBar) {
	s.progress = progress
}

// Execute runs every yielded case and returns their results in case order.
// Case failures never abort the run.
func (s *Sequential) Execute(ctx context.Context, cases iter.Seq[domain.TestCase]) ([]domain.TestResult, time.Duration, error) {
	startTime := time.Now()
	results := make([]domain.TestResult, 0)
	var passed, failed int

	for tc := range cases {
		s.logger.Debug("Running case", "case", tc.Name, "index", len(results))
		result := s.runner.Run(ctx, tc)
		results = append(results, result)

		if result.Passed() {
			passed++
		} else {
			failed++
		}
		if s.progress != nil {
			s.progress.Update(passed, failed)
		}
	}

	if s.progress != nil {
		s.progress.Finish()
	}

	duration := time.Since(startTime)
	s.logger.Info("Run finished", "total", len(results), "passed", passed, "failed", failed, "duration", duration)
	return results, duration, nil
}

var _ Executor = (*Sequential)(nil)
