package commands

import (
	"fmt"
	"io"
	"log/slog"

	"caserun/internal/cli"
	"caserun/internal/config"
	"caserun/internal/logging"
	"caserun/internal/registry"
	"caserun/internal/report"
	"caserun/internal/storage"
	"caserun/internal/suite"

	"github.com/spf13/cobra"
)

// SetupFunc registers additional cases before a run. sink receives attachments.
type SetupFunc func(reg *registry.Registry, sink report.AttachmentSink) error

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Migrate  *MigrateCommand
	Failures *FailuresCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config, stdout, stderr io.Writer, setup SetupFunc) *Commands {
	return &Commands{
		Run:      NewRunCommand(cfg, stdout, stderr, setup),
		List:     NewListCommand(cfg, stdout, setup),
		Migrate:  NewMigrateCommand(cfg, stdout),
		Failures: NewFailuresCommand(cfg),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentFlags().StringVar(&flags.ProjectPath, "project", config.DefaultProjectPath, "Project directory holding .env and the storage folder")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.DatabaseDSN, "db-dsn", "", "MySQL DSN of the result database (optional)")

	preRun := func(cmd *cobra.Command, args []string) error {
		cfg.ProjectPath = flags.ProjectPath
		if err := cfg.LoadEnv(); err != nil {
			return err
		}
		flags.Apply(cfg, cmd.Flags())
		return cfg.Validate()
	}

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run the registered test cases",
		Long:    "Run every registered test case sequentially, report the results and save them to storage",
		RunE:    c.Run.Execute,
		PreRunE: preRun,
	}
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter cases by name pattern (supports wildcards, e.g., 'test*' or '*Launch*')")
	runCmd.Flags().StringVar(&flags.Format, "format", config.DefaultFormat, "Report format (text or json)")
	runCmd.Flags().DurationVar(&flags.CaseTimeout, "case-timeout", 0, "Fail a case that runs longer than this (0 disables)")
	runCmd.Flags().StringVar(&flags.LaunchCmd, "launch-cmd", "", "Command started by the launch scenario")
	runCmd.Flags().StringVar(&flags.LaunchReady, "launch-ready", "", "Regular expression the launched app prints once it is ready")
	runCmd.Flags().StringSliceVar(&flags.UIConfigs, "ui-config", nil, "Repeat the launch scenario for each UI configuration")
	runCmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	runCmd.Flags().BoolVar(&flags.NoProgress, "no-progress", false, "Do not draw the progress bar")
	runCmd.Flags().BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failures viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List registered test cases",
		Long:    "List the registered test cases without running them",
		RunE:    c.List.Execute,
		PreRunE: preRun,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter cases by name pattern (supports wildcards, e.g., 'test*' or '*Launch*')")
	listCmd.Flags().StringVar(&flags.LaunchCmd, "launch-cmd", "", "Command started by the launch scenario")
	listCmd.Flags().StringSliceVar(&flags.UIConfigs, "ui-config", nil, "Repeat the launch scenario for each UI configuration")
	rootCmd.AddCommand(listCmd)

	// Migrate command
	migrateCmd := &cobra.Command{
		Use:     "migrate",
		Short:   "Create the result database schema",
		Long:    "Create the MySQL database and tables used to store run results",
		RunE:    c.Migrate.Execute,
		PreRunE: preRun,
	}
	rootCmd.AddCommand(migrateCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:     "failures",
		Short:   "View test failures interactively",
		Long:    "Display the failures of the last run in an interactive viewer",
		RunE:    c.Failures.Execute,
		PreRunE: preRun,
	}
	rootCmd.AddCommand(failuresCmd)
}

// buildRegistry registers the smoke suite, the configured launch scenarios and
// the cases added by setup
func buildRegistry(cfg *config.Config, sink report.AttachmentSink, logger *slog.Logger, setup SetupFunc) (*registry.Registry, error) {
	reg := registry.New()
	if err := suite.Smoke(reg); err != nil {
		return nil, fmt.Errorf("register smoke suite: %w", err)
	}
	if _, err := suite.Launch(reg, cfg, sink, logger); err != nil {
		return nil, err
	}
	if setup != nil {
		if err := setup(reg, sink); err != nil {
			return nil, fmt.Errorf("register cases: %w", err)
		}
	}
	return reg, nil
}

// openStorage returns the JSON storage, fanned out to MySQL when a DSN is configured
func openStorage(cfg *config.Config) (storage.Storage, func() error, error) {
	jsonStorage := storage.NewJSONStorage(cfg)
	if cfg.DatabaseDSN == "" {
		return jsonStorage, func() error { return nil }, nil
	}
	sqlStorage, err := storage.OpenSQL(cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	return storage.Multi{jsonStorage, sqlStorage}, sqlStorage.Close, nil
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	return logging.New(w, cfg.LogLevel)
}
