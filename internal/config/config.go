package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string `validate:"required"`

	// Output settings
	OutputJSONFile string `validate:"required"`
	OutputJSONDir  string `validate:"required"`
	AttachmentsDir string `validate:"required"`
	Format         string `validate:"oneof=text json"`

	// Execution settings
	CaseTimeout time.Duration `validate:"gte=0"`

	// Launch scenario settings
	LaunchCommand      string
	LaunchArgs         []string
	LaunchReadyPattern string
	LaunchReadyTimeout time.Duration `validate:"gt=0"`
	LaunchCaseName     string        `validate:"required"`
	UIConfigurations   []string      `validate:"dive,required"`

	// Sinks
	MetricsFile string
	DatabaseDSN string

	LogLevel string `validate:"oneof=debug info warn warning error"`

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	NameFilter   string
	NoProgress   bool
	OpenFailures bool
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		ProjectPath:        DefaultProjectPath,
		OutputJSONFile:     DefaultOutputJSONFile,
		OutputJSONDir:      DefaultOutputJSONDir,
		AttachmentsDir:     DefaultAttachmentsDir,
		Format:             DefaultFormat,
		LaunchReadyTimeout: DefaultLaunchReadyTimeout,
		LaunchCaseName:     DefaultLaunchCaseName,
		LogLevel:           DefaultLogLevel,
	}
}

// LoadEnv reads the project's .env file, if any, and applies CASERUN_*
// environment variables on top of the current values. Variables already set
// in the process environment win over the .env file.
func (c *Config) LoadEnv() error {
	envPath := filepath.Join(c.ProjectPath, ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load %s: %w", envPath, err)
	}

	if v := strings.TrimSpace(os.Getenv(EnvLaunchCommand)); v != "" {
		fields := strings.Fields(v)
		c.LaunchCommand = fields[0]
		c.LaunchArgs = fields[1:]
	}
	if v := os.Getenv(EnvLaunchReady); v != "" {
		c.LaunchReadyPattern = v
	}
	if v := os.Getenv(EnvUIConfigs); v != "" {
		c.UIConfigurations = splitList(v)
	}
	if v := os.Getenv(EnvCaseTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvCaseTimeout, err)
		}
		c.CaseTimeout = d
	}
	if v := os.Getenv(EnvDatabaseDSN); v != "" {
		c.DatabaseDSN = v
	}
	if v := os.Getenv(EnvMetricsFile); v != "" {
		c.MetricsFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv(EnvOutputJSONDir); v != "" {
		c.OutputJSONDir = v
	}
	if v := os.Getenv(EnvReportFormat); v != "" {
		c.Format = strings.ToLower(v)
	}
	return nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetOutputPath returns the absolute path to the output JSON file so run and
// failures always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetAttachmentsPath returns the directory holding the attachments of a run
func (c *Config) GetAttachmentsPath(runID string) string {
	return filepath.Join(filepath.Dir(c.GetOutputPath()), c.AttachmentsDir, runID)
}

// LaunchEnabled reports whether a launch command is configured
func (c *Config) LaunchEnabled() bool {
	return c.LaunchCommand != ""
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
