package commands

import (
	"caserun/internal/config"
	"caserun/internal/ui"

	"github.com/spf13/cobra"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	config *config.Config
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(cfg *config.Config) *FailuresCommand {
	return &FailuresCommand{config: cfg}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	st, closeStorage, err := openStorage(fc.config)
	if err != nil {
		return err
	}
	defer closeStorage()

	output, err := st.Load()
	if err != nil {
		return err
	}
	return ui.NewFailureViewer(st).View(output)
}
