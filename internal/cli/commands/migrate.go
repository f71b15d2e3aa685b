package commands

import (
	"errors"
	"io"

	"caserun/internal/config"
	"caserun/internal/storage"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// MigrateCommand handles the migrate command
type MigrateCommand struct {
	config *config.Config
	stdout io.Writer
}

// NewMigrateCommand creates a new MigrateCommand
func NewMigrateCommand(cfg *config.Config, stdout io.Writer) *MigrateCommand {
	return &MigrateCommand{
		config: cfg,
		stdout: stdout,
	}
}

// Execute runs the command
func (mc *MigrateCommand) Execute(cmd *cobra.Command, args []string) error {
	if mc.config.DatabaseDSN == "" {
		return errors.New("migrate needs a database: pass --db-dsn or set " + config.EnvDatabaseDSN)
	}

	ctx := cmd.Context()
	if err := storage.EnsureDatabase(ctx, mc.config.DatabaseDSN); err != nil {
		return err
	}
	st, err := storage.OpenSQL(mc.config.DatabaseDSN)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintln(mc.stdout, "✓ Result schema is up to date")
	return nil
}
