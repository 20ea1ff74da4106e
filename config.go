package verdict

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/ethereum/go-ethereum/log"

	"github.com/verdicthq/verdict-go/api"
	"github.com/verdicthq/verdict-go/flags"
)

// Config holds the SDK and CLI configuration
type Config struct {
	APIBaseURL string `yaml:"apiUrl"`    // Base URL of the Verdict API; empty means the hosted endpoint
	APIKey     string `yaml:"apiKey"`    // Key for the query-authenticated reporting API
	PushToken  string `yaml:"pushToken"` // Bearer token for runtime status pushes
	ProjectID  string `yaml:"projectId"`

	RunID       string `yaml:"runId"`      // Identity assigned by the platform for this run
	InstanceID  string `yaml:"instanceId"` // Identity of this execution instance within the run
	Framework   string `yaml:"framework"`  // Test framework the host integrates with
	ArtifactDir string `yaml:"artifactDir"`

	Capabilities         map[string]any    `yaml:"capabilities"`
	Options              map[string]any    `yaml:"options"`
	Metadata             map[string]any    `yaml:"metadata"`
	EnvironmentVariables map[string]string `yaml:"environmentVariables"`

	Target      flags.TargetType `yaml:"target"`   // Entity type triggered in watch/run mode
	TargetID    string           `yaml:"targetId"` // Entity identifier triggered in watch/run mode
	RunInterval time.Duration    `yaml:"-"`        // Interval between triggered runs
	RunOnce     bool             `yaml:"-"`        // Indicates if the service should exit after one run
	RunOptions  *api.RunOptions  `yaml:"-"`

	MetricsEnabled bool   `yaml:"-"`
	MetricsAddr    string `yaml:"-"`
	MetricsPort    int    `yaml:"-"`

	Log log.Logger `yaml:"-"`
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, logger log.Logger, target string, targetID string) (*Config, error) {
	// Parse flags
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}
	if targetID == "" {
		return nil, errors.New("target id is required")
	}

	targetType := flags.TargetType(target)
	if !targetType.IsValid() {
		return nil, fmt.Errorf("invalid target type: %s. Must be one of: %s, %s, %s",
			target, flags.TargetCase, flags.TargetSuite, flags.TargetMonitor)
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)
	runOnce := runInterval == 0

	var runOptions *api.RunOptions
	build := ctx.String(flags.BuildName.Name)
	environment := ctx.String(flags.EnvironmentName.Name)
	release := ctx.String(flags.ReleaseName.Name)
	if build != "" || environment != "" || release != "" {
		runOptions = &api.RunOptions{
			BuildName:       build,
			EnvironmentName: environment,
			ReleaseName:     release,
		}
	}

	return &Config{
		APIBaseURL:     ctx.String(flags.APIBaseURL.Name),
		APIKey:         ctx.String(flags.APIKey.Name),
		PushToken:      ctx.String(flags.PushToken.Name),
		ProjectID:      ctx.String(flags.ProjectID.Name),
		ArtifactDir:    ctx.String(flags.ArtifactDir.Name),
		Target:         targetType,
		TargetID:       targetID,
		RunInterval:    runInterval,
		RunOnce:        runOnce,
		RunOptions:     runOptions,
		MetricsEnabled: ctx.Bool(flags.MetricsEnabled.Name),
		MetricsAddr:    ctx.String(flags.MetricsAddr.Name),
		MetricsPort:    ctx.Int(flags.MetricsPort.Name),
		Log:            logger,
	}, nil
}

// LoadConfig reads a Config from a YAML file and applies VERDICT_*
// environment overrides. Hosts launched by an agent receive their run
// identity through the environment rather than the file.
func LoadConfig(path string) (*Config, error) {
	log.Debug("Reading config file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrides := map[string]*string{
		"API_URL":      &cfg.APIBaseURL,
		"API_KEY":      &cfg.APIKey,
		"PUSH_TOKEN":   &cfg.PushToken,
		"PROJECT_ID":   &cfg.ProjectID,
		"RUN_ID":       &cfg.RunID,
		"INSTANCE_ID":  &cfg.InstanceID,
		"FRAMEWORK":    &cfg.Framework,
		"ARTIFACT_DIR": &cfg.ArtifactDir,
	}
	for name, target := range overrides {
		if value, ok := os.LookupEnv(flags.EnvVarPrefix + "_" + name); ok {
			*target = value
		}
	}
}
