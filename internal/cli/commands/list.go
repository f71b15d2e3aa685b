package commands

import (
	"io"

	"caserun/internal/config"
	"caserun/internal/discovery"
	"caserun/internal/report"
	"caserun/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ListCommand handles the list command
type ListCommand struct {
	config *config.Config
	stdout io.Writer
	setup  SetupFunc
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config, stdout io.Writer, setup SetupFunc) *ListCommand {
	return &ListCommand{
		config: cfg,
		stdout: stdout,
		setup:  setup,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(lc.config, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	reg, err := buildRegistry(lc.config, report.New(), logger, lc.setup)
	if err != nil {
		return err
	}

	names := discovery.NewFilter(lc.config.Flags.NameFilter).FilterByName(reg.Names())
	if len(names) == 0 {
		color.New(color.FgYellow).Fprintln(lc.stdout, "No test cases found")
		return nil
	}

	ui.NewFormatter(lc.stdout).PrintCaseList(names)
	return nil
}
