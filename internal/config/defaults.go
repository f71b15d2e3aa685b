package config

import "time"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultAttachmentsDir is the directory under the output dir holding attachment payloads
	DefaultAttachmentsDir = "attachments"
	// DefaultFormat is the default report format
	DefaultFormat = "text"
	// DefaultLogLevel is the default log level
	DefaultLogLevel = "warn"
	// DefaultLaunchReadyTimeout bounds how long a launched app may take to become ready
	DefaultLaunchReadyTimeout = 10 * time.Second
	// DefaultLaunchCaseName is the case name of the launch scenario
	DefaultLaunchCaseName = "testLaunch"
)

// Environment variables read on top of the defaults
const (
	EnvLaunchCommand = "CASERUN_LAUNCH_CMD"
	EnvLaunchReady   = "CASERUN_LAUNCH_READY"
	EnvUIConfigs     = "CASERUN_UI_CONFIGS"
	EnvCaseTimeout   = "CASERUN_CASE_TIMEOUT"
	EnvDatabaseDSN   = "CASERUN_DB_DSN"
	EnvMetricsFile   = "CASERUN_METRICS_FILE"
	EnvLogLevel      = "CASERUN_LOG_LEVEL"
	EnvOutputJSONDir = "CASERUN_OUTPUT_DIR"
	EnvReportFormat  = "CASERUN_FORMAT"
)
