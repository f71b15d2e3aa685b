package domain

import "time"

// Outcome is the final state of an executed test case
type Outcome string

const (
	OutcomePass Outcome = "pass"
	OutcomeFail Outcome = "fail"
)

// TestResult represents the result of executing a test case
type TestResult struct {
	Name     string        `json:"name"`
	Outcome  Outcome       `json:"outcome"`
	Reason   string        `json:"reason,omitempty"` // Set only when Outcome is fail
	Duration time.Duration `json:"duration_ns"`
	Err      error         `json:"-"` // Error that caused the failure, if any
}

// Passed reports whether the case passed
func (r TestResult) Passed() bool {
	return r.Outcome == OutcomePass
}

// Summary aggregates the results of a run
type Summary struct {
	Total    int       `json:"total"`
	Passed   int       `json:"passed"`
	Failed   int       `json:"failed"`
	Failures []Failure `json:"failures"`
}

// OK reports whether the run had no failures
func (s Summary) OK() bool {
	return s.Failed == 0
}

// RunMeta contains metadata about a test run
type RunMeta struct {
	RunID           string  `json:"run_id"`
	Total           int     `json:"total"`
	Passed          int     `json:"passed"`
	Failed          int     `json:"failed"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// RunOutput is the complete persisted form of a test run
type RunOutput struct {
	Meta        RunMeta            `json:"meta"`
	Results     []TestResult       `json:"results"`
	Failures    []Failure          `json:"failures"`
	Attachments []AttachmentRecord `json:"attachments"`
}

// Summary rebuilds the summary of a persisted run
func (o *RunOutput) Summary() Summary {
	failures := o.Failures
	if failures == nil {
		failures = []Failure{}
	}
	return Summary{
		Total:    o.Meta.Total,
		Passed:   o.Meta.Passed,
		Failed:   o.Meta.Failed,
		Failures: failures,
	}
}
