package ui

import (
	"fmt"
	"io"

	"caserun/internal/domain"
	"caserun/internal/report"

	"github.com/fatih/color"
)

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

// PrintReport prints a finished run in the given format ("text" or "json")
func (f *Formatter) PrintReport(output *domain.RunOutput, format string) error {
	summary := output.Summary()

	if format == "json" {
		data, err := report.FormatJSON(summary)
		if err != nil {
			return err
		}
		_, err = io.WriteString(f.out, data)
		return err
	}

	cyan := color.New(color.FgCyan)
	cyan.Fprintln(f.out, "\n╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                     Test Case Execution Report                ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintf(f.out, "Run: %s | Duration: %.2fs\n\n", output.Meta.RunID, output.Meta.DurationSeconds)

	fmt.Fprint(f.out, report.Format(summary))

	if len(output.Attachments) > 0 {
		fmt.Fprintln(f.out)
		color.New(color.FgWhite, color.Bold).Fprintln(f.out, "Attachments:")
		for _, a := range output.Attachments {
			fmt.Fprintf(f.out, "  %s: %s\n", a.Case, a)
			if a.Path != "" {
				fmt.Fprintf(f.out, "    %s\n", a.Path)
			}
		}
	}

	fmt.Fprintln(f.out)
	if summary.OK() {
		color.New(color.FgGreen).Fprintln(f.out, "✓ All test cases passed!")
	} else {
		color.New(color.FgRed).Fprintf(f.out, "✗ %d of %d test case(s) failed\n", summary.Failed, summary.Total)
	}
	return nil
}

// PrintCaseList prints registered case names
func (f *Formatter) PrintCaseList(names []string) {
	color.New(color.FgCyan).Fprintf(f.out, "Registered test cases (%d):\n", len(names))
	for i, name := range names {
		fmt.Fprintf(f.out, "  %2d. %s\n", i+1, name)
	}
}
