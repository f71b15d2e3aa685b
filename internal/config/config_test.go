package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_GetOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name: "absolute project path",
			config: &Config{
				ProjectPath:    "/project",
				OutputJSONDir:  "storage",
				OutputJSONFile: "test-results.json",
			},
			expected: "/project/storage/test-results.json",
		},
		{
			name: "custom output dir",
			config: &Config{
				ProjectPath:    "/project",
				OutputJSONDir:  "out/ci",
				OutputJSONFile: "run.json",
			},
			expected: "/project/out/ci/run.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetOutputPath()
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestConfig_GetAttachmentsPath(t *testing.T) {
	cfg := New()
	cfg.ProjectPath = "/project"

	got := cfg.GetAttachmentsPath("run-1")
	expected := "/project/storage/attachments/run-1"
	if got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.ProjectPath != DefaultProjectPath {
		t.Errorf("expected ProjectPath %s, got %s", DefaultProjectPath, cfg.ProjectPath)
	}

	if cfg.LaunchEnabled() {
		t.Error("launch must be disabled by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "unknown format", modify: func(c *Config) { c.Format = "xml" }},
		{name: "negative timeout", modify: func(c *Config) { c.CaseTimeout = -time.Second }},
		{name: "unknown log level", modify: func(c *Config) { c.LogLevel = "trace" }},
		{name: "empty ui configuration", modify: func(c *Config) { c.UIConfigurations = []string{"light", ""} }},
		{name: "missing case name", modify: func(c *Config) { c.LaunchCaseName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfig_Validate_LogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error"} {
		cfg := New()
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			t.Errorf("log level %q: unexpected error: %v", level, err)
		}
	}
}

func TestConfig_LoadEnv(t *testing.T) {
	dir := t.TempDir()
	dotenv := "CASERUN_LAUNCH_CMD=./app --headless\nCASERUN_UI_CONFIGS=light, dark\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvLaunchCommand, "")
	t.Setenv(EnvUIConfigs, "")
	os.Unsetenv(EnvLaunchCommand)
	os.Unsetenv(EnvUIConfigs)
	t.Setenv(EnvCaseTimeout, "250ms")
	t.Setenv(EnvReportFormat, "JSON")

	cfg := New()
	cfg.ProjectPath = dir
	if err := cfg.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}

	if cfg.LaunchCommand != "./app" || len(cfg.LaunchArgs) != 1 || cfg.LaunchArgs[0] != "--headless" {
		t.Errorf("unexpected launch command %q %v", cfg.LaunchCommand, cfg.LaunchArgs)
	}
	if len(cfg.UIConfigurations) != 2 || cfg.UIConfigurations[1] != "dark" {
		t.Errorf("unexpected ui configurations %v", cfg.UIConfigurations)
	}
	if cfg.CaseTimeout != 250*time.Millisecond {
		t.Errorf("expected 250ms timeout, got %s", cfg.CaseTimeout)
	}
	if cfg.Format != "json" {
		t.Errorf("expected json format, got %s", cfg.Format)
	}
}

func TestConfig_LoadEnv_BadTimeout(t *testing.T) {
	t.Setenv(EnvCaseTimeout, "soon")
	cfg := New()
	cfg.ProjectPath = t.TempDir()
	if err := cfg.LoadEnv(); err == nil {
		t.Error("expected parse error")
	}
}
