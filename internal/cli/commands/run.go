package commands

import (
	"context"
	"fmt"
	"io"

	"caserun/internal/config"
	"caserun/internal/discovery"
	"caserun/internal/domain"
	"caserun/internal/execution"
	"caserun/internal/exitcodes"
	"caserun/internal/metrics"
	"caserun/internal/report"
	"caserun/internal/ui"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// RunCommand handles the run command
type RunCommand struct {
	config *config.Config
	stdout io.Writer
	stderr io.Writer
	setup  SetupFunc
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(cfg *config.Config, stdout, stderr io.Writer, setup SetupFunc) *RunCommand {
	return &RunCommand{
		config: cfg,
		stdout: stdout,
		stderr: stderr,
		setup:  setup,
	}
}

// Execute runs the command. A run with failed cases returns an
// *exitcodes.TestFailureError.
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	output, err := rc.Run(cmd.Context())
	if err != nil {
		return err
	}

	if output.Meta.Failed > 0 {
		if rc.config.Flags.OpenFailures {
			st, closeStorage, err := openStorage(rc.config)
			if err != nil {
				return err
			}
			defer closeStorage()
			if err := ui.NewFailureViewer(st).View(output); err != nil {
				return err
			}
		}
		return &exitcodes.TestFailureError{Failed: output.Meta.Failed}
	}
	return nil
}

// Run registers, executes and reports every selected case
func (rc *RunCommand) Run(ctx context.Context) (*domain.RunOutput, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := newLogger(rc.config, rc.stderr)
	if err != nil {
		return nil, err
	}

	reporter := report.New()
	reg, err := buildRegistry(rc.config, reporter, logger, rc.setup)
	if err != nil {
		return nil, err
	}

	filter := discovery.NewFilter(rc.config.Flags.NameFilter)
	selected := len(filter.FilterByName(reg.Names()))
	if selected == 0 {
		color.New(color.FgYellow).Fprintln(rc.stderr, "No test cases to execute")
	}

	executor := execution.NewSequential(execution.NewRunner(rc.config.CaseTimeout, logger), logger)
	if selected > 0 && !rc.config.Flags.NoProgress && rc.config.Format == "text" {
		executor.SetProgress(ui.NewProgressBar(selected, rc.stderr))
	}

	results, duration, err := executor.Execute(ctx, filter.Cases(reg.All()))
	if err != nil {
		return nil, err
	}

	output := reporter.Build(uuid.NewString(), results, duration)

	st, closeStorage, err := openStorage(rc.config)
	if err != nil {
		return nil, err
	}
	defer closeStorage()
	if err := st.Save(output, reporter.Retained(results)); err != nil {
		return nil, fmt.Errorf("failed to save test results: %w", err)
	}

	if rc.config.MetricsFile != "" {
		recorder := metrics.NewRecorder()
		recorder.Record(output)
		if err := recorder.WriteTextfile(rc.config.MetricsFile); err != nil {
			return nil, err
		}
	}

	if err := ui.NewFormatter(rc.stdout).PrintReport(output, rc.config.Format); err != nil {
		return nil, err
	}
	return output, nil
}
