package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "VERDICT"

// TargetType identifies the kind of entity a remote run executes.
type TargetType string

const (
	TargetCase    TargetType = "case"
	TargetSuite   TargetType = "suite"
	TargetMonitor TargetType = "monitor"
)

func (t TargetType) String() string {
	return string(t)
}

// IsValid reports whether the target type is one of the accepted values.
func (t TargetType) IsValid() bool {
	switch t {
	case TargetCase, TargetSuite, TargetMonitor:
		return true
	default:
		return false
	}
}

// ValidTargetTypes returns every accepted target type.
func ValidTargetTypes() []TargetType {
	return []TargetType{TargetCase, TargetSuite, TargetMonitor}
}

func validateTarget(value string) error {
	if !TargetType(value).IsValid() {
		return fmt.Errorf("target must be one of: %s, %s, %s", TargetCase, TargetSuite, TargetMonitor)
	}
	return nil
}

// prefixEnvVars prepends the application env-var prefix to a variable name.
func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	APIKey = &cli.StringFlag{
		Name:     "api.key",
		Value:    "",
		Required: true,
		EnvVars:  prefixEnvVars("API_KEY"),
		Usage:    "API key used to authenticate against the reporting API",
	}
	APIBaseURL = &cli.StringFlag{
		Name:    "api.url",
		Value:   "",
		EnvVars: prefixEnvVars("API_URL"),
		Usage:   "Base URL of the Verdict API. Defaults to the hosted endpoint.",
	}
	PushToken = &cli.StringFlag{
		Name:    "push.token",
		Value:   "",
		EnvVars: prefixEnvVars("PUSH_TOKEN"),
		Usage:   "Bearer token for streaming runtime status updates",
	}
	ProjectID = &cli.StringFlag{
		Name:    "project.id",
		Value:   "",
		EnvVars: prefixEnvVars("PROJECT_ID"),
		Usage:   "Project identifier for artifact upload and sync status",
	}
	Target = &cli.StringFlag{
		Name:    "target",
		Value:   string(TargetCase),
		EnvVars: prefixEnvVars("TARGET"),
		Usage:   "Type of entity to run (case, suite, monitor)",
		Action: func(_ *cli.Context, value string) error {
			return validateTarget(value)
		},
	}
	TargetID = &cli.StringFlag{
		Name:    "target.id",
		Value:   "",
		EnvVars: prefixEnvVars("TARGET_ID"),
		Usage:   "Identifier of the case, suite or monitor to run",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: prefixEnvVars("RUN_INTERVAL"),
		Usage:   "Interval between runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	ArtifactDir = &cli.StringFlag{
		Name:    "artifact.dir",
		Value:   "",
		EnvVars: prefixEnvVars("ARTIFACT_DIR"),
		Usage:   "Directory where fetched result documents are written",
	}
	BuildName = &cli.StringFlag{
		Name:    "build.name",
		Value:   "",
		EnvVars: prefixEnvVars("BUILD_NAME"),
		Usage:   "Build name attached to triggered runs",
	}
	EnvironmentName = &cli.StringFlag{
		Name:    "environment.name",
		Value:   "",
		EnvVars: prefixEnvVars("ENVIRONMENT_NAME"),
		Usage:   "Environment name attached to triggered runs",
	}
	ReleaseName = &cli.StringFlag{
		Name:    "release.name",
		Value:   "",
		EnvVars: prefixEnvVars("RELEASE_NAME"),
		Usage:   "Release name attached to triggered runs",
	}
	MetricsEnabled = &cli.BoolFlag{
		Name:    "metrics.enabled",
		Value:   false,
		EnvVars: prefixEnvVars("METRICS_ENABLED"),
		Usage:   "Enable the Prometheus metrics server",
	}
	MetricsAddr = &cli.StringFlag{
		Name:    "metrics.addr",
		Value:   "0.0.0.0",
		EnvVars: prefixEnvVars("METRICS_ADDR"),
		Usage:   "Metrics server listen address",
	}
	MetricsPort = &cli.IntFlag{
		Name:    "metrics.port",
		Value:   7300,
		EnvVars: prefixEnvVars("METRICS_PORT"),
		Usage:   "Metrics server listen port",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log.level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "The lowest log level that will be output",
	}
	LogFormat = &cli.StringFlag{
		Name:    "log.format",
		Value:   "terminal",
		EnvVars: prefixEnvVars("LOG_FORMAT"),
		Usage:   "Format the log output. Supported formats: 'terminal', 'logfmt', 'json'",
	}
	LogColor = &cli.BoolFlag{
		Name:    "log.color",
		Value:   false,
		EnvVars: prefixEnvVars("LOG_COLOR"),
		Usage:   "Color the log output if in terminal mode",
	}
	LogFile = &cli.StringFlag{
		Name:    "log.file",
		Value:   "",
		EnvVars: prefixEnvVars("LOG_FILE"),
		Usage:   "Also write logs to this file (watch mode)",
	}
)

var requiredFlags = []cli.Flag{
	APIKey,
}

var optionalFlags = []cli.Flag{
	APIBaseURL,
	PushToken,
	ProjectID,
	Target,
	TargetID,
	RunInterval,
	ArtifactDir,
	BuildName,
	EnvironmentName,
	ReleaseName,
	MetricsEnabled,
	MetricsAddr,
	MetricsPort,
	LogLevel,
	LogFormat,
	LogColor,
	LogFile,
}

// LogFlags is the subset shared by every subcommand.
var LogFlags = []cli.Flag{
	LogLevel,
	LogFormat,
	LogColor,
}

// APIFlags is the subset needed to reach the query-authenticated API.
var APIFlags = []cli.Flag{
	APIKey,
	APIBaseURL,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
