package execution

import (
	"context"
	"iter"
	"time"

	"caserun/internal/domain"
)

// Executor executes test cases and returns one result per case
type Executor interface {
	Execute(ctx context.Context, cases iter.Seq[domain.TestCase]) ([]domain.TestResult, time.Duration, error)
}
