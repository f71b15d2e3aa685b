package main

import (
	"fmt"
	"os"

	"caserun/internal/cli"
	"caserun/internal/cli/commands"
	"caserun/internal/config"
	"caserun/internal/exitcodes"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "caserun",
		Short:         "Sequential test case runner with launch scenarios",
		Long:          `Run registered test cases one at a time, capture a launch screen artifact from the application under test and report the results for CI.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg, os.Stdout, os.Stderr, nil)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		code := exitcodes.FromError(err)
		if code != exitcodes.TestFailure {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(code)
	}
}
