// Package report aggregates test results and the attachments produced while
// running them.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"caserun/internal/domain"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// AttachmentSink receives attachments produced by running cases
type AttachmentSink interface {
	Attach(a domain.Attachment)
}

// Reporter owns the attachments of a run and builds its report
type Reporter struct {
	mu          sync.Mutex
	attachments []domain.Attachment
}

// New creates an empty Reporter
func New() *Reporter {
	return &Reporter{}
}

// Attach records an attachment. It is safe for concurrent use.
func (r *Reporter) Attach(a domain.Attachment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachments = append(r.attachments, a)
}

// Attachments returns every attachment recorded so far, in arrival order
func (r *Reporter) Attachments() []domain.Attachment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Attachment, len(r.attachments))
	copy(out, r.attachments)
	return out
}

// Retained applies each attachment's lifetime against the outcome of its case.
// DeleteOnSuccess attachments of passing cases are dropped.
func (r *Reporter) Retained(results []domain.TestResult) []domain.Attachment {
	outcomes := make(map[string]domain.Outcome, len(results))
	for _, res := range results {
		outcomes[res.Name] = res.Outcome
	}

	var kept []domain.Attachment
	for _, a := range r.Attachments() {
		outcome, ok := outcomes[a.Case]
		if !ok {
			// Orphaned attachments are kept; there is no outcome to judge them by.
			outcome = domain.OutcomeFail
		}
		if a.Retain(outcome) {
			kept = append(kept, a)
		}
	}
	return kept
}

// Build assembles the persisted form of a run
func (r *Reporter) Build(runID string, results []domain.TestResult, duration time.Duration) *domain.RunOutput {
	summary := Summarize(results)

	var records []domain.AttachmentRecord
	for _, a := range r.Retained(results) {
		records = append(records, a.Record())
	}

	return &domain.RunOutput{
		Meta: domain.RunMeta{
			RunID:           runID,
			Total:           summary.Total,
			Passed:          summary.Passed,
			Failed:          summary.Failed,
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Results:     results,
		Failures:    summary.Failures,
		Attachments: records,
	}
}

// Summarize counts results and lists failures in run order
func Summarize(results []domain.TestResult) domain.Summary {
	summary := domain.Summary{
		Total:    len(results),
		Failures: []domain.Failure{},
	}
	for _, res := range results {
		if res.Passed() {
			summary.Passed++
			continue
		}
		summary.Failed++
		summary.Failures = append(summary.Failures, domain.Failure{Name: res.Name, Reason: res.Reason})
	}
	return summary
}

// Format renders a summary as plain text. The output only depends on the summary.
func Format(summary domain.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total: %d | Passed: %d | Failed: %d\n", summary.Total, summary.Passed, summary.Failed)

	if len(summary.Failures) == 0 {
		if summary.Total > 0 {
			b.WriteString("All cases passed\n")
		}
		return b.String()
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Case", "Reason"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Reason", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})
	for i, f := range summary.Failures {
		t.AppendRow(table.Row{i + 1, f.Name, f.Reason})
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

// FormatJSON renders a summary as indented JSON with total, passed, failed and failures
func FormatJSON(summary domain.Summary) (string, error) {
	if summary.Failures == nil {
		summary.Failures = []domain.Failure{}
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	return string(data) + "\n", nil
}
