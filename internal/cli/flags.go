package cli

import (
	"strings"
	"time"

	"caserun/internal/config"

	"github.com/spf13/pflag"
)

// Flags holds command-line flags
type Flags struct {
	ProjectPath  string
	NameFilter   string
	Format       string
	CaseTimeout  time.Duration
	LaunchCmd    string
	LaunchReady  string
	UIConfigs    []string
	MetricsFile  string
	DatabaseDSN  string
	LogLevel     string
	NoProgress   bool
	OpenFailures bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		NameFilter:   f.NameFilter,
		NoProgress:   f.NoProgress,
		OpenFailures: f.OpenFailures,
	}
}

// Apply copies explicitly set flags onto cfg, so defaults and environment
// values survive for flags the user did not pass.
func (f *Flags) Apply(cfg *config.Config, fs *pflag.FlagSet) {
	cfg.Flags = f.ToConfigFlags()

	changed := func(name string) bool {
		fl := fs.Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("format") {
		cfg.Format = strings.ToLower(f.Format)
	}
	if changed("case-timeout") {
		cfg.CaseTimeout = f.CaseTimeout
	}
	if changed("launch-cmd") {
		fields := strings.Fields(f.LaunchCmd)
		cfg.LaunchCommand, cfg.LaunchArgs = "", nil
		if len(fields) > 0 {
			cfg.LaunchCommand = fields[0]
			cfg.LaunchArgs = fields[1:]
		}
	}
	if changed("launch-ready") {
		cfg.LaunchReadyPattern = f.LaunchReady
	}
	if changed("ui-config") {
		cfg.UIConfigurations = f.UIConfigs
	}
	if changed("metrics-file") {
		cfg.MetricsFile = f.MetricsFile
	}
	if changed("db-dsn") {
		cfg.DatabaseDSN = f.DatabaseDSN
	}
	if changed("log-level") {
		cfg.LogLevel = strings.ToLower(f.LogLevel)
	}
}
