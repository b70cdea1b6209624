package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TimestampLayout is the layout of the bracketed common log format timestamp
const TimestampLayout = "02/Jan/2006:15:04:05 -0700"

// StatusGroups defines HTTP status code groups
var StatusGroups = map[string][2]int{
	"informational": {100, 199},
	"success":       {200, 299},
	"redirect":      {300, 399},
	"client_error":  {400, 499},
	"server_error":  {500, 599},
}

// StatusGroup returns the name of the group a status code belongs to
func StatusGroup(status int) string {
	for name, bounds := range StatusGroups {
		if status >= bounds[0] && status <= bounds[1] {
			return name
		}
	}
	return "other"
}

// Config holds all analysis settings
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Detector DetectorConfig `yaml:"detector"`
	Output   OutputConfig   `yaml:"output"`
}

// AnalysisConfig holds settings shared by the report aggregators
type AnalysisConfig struct {
	TopN   int           `yaml:"top_n"`
	Window time.Duration `yaml:"window"`
}

// DetectorConfig holds the failed login heuristic
type DetectorConfig struct {
	FailureStatus int           `yaml:"failure_status"`
	BurstAttempts int           `yaml:"burst_attempts"`
	BurstGap      time.Duration `yaml:"burst_gap"`
	BlockDuration time.Duration `yaml:"block_duration"`
}

// OutputConfig holds console and logging settings
type OutputConfig struct {
	Color    bool   `yaml:"color"`
	Quiet    bool   `yaml:"quiet"`
	LogLevel string `yaml:"log_level"`
}

// DefaultDetector is the heuristic: 3 failed logins within a 20 second
// budget block the client for 5 minutes.
var DefaultDetector = DetectorConfig{
	FailureStatus: 401,
	BurstAttempts: 3,
	BurstGap:      20 * time.Second,
	BlockDuration: 5 * time.Minute,
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Analysis: AnalysisConfig{
			TopN:   10,
			Window: time.Hour,
		},
		Detector: DefaultDetector,
		Output: OutputConfig{
			Color:    true,
			LogLevel: "info",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate rejects settings the analysis cannot run with
func (c Config) Validate() error {
	switch {
	case c.Analysis.TopN <= 0:
		return fmt.Errorf("analysis.top_n must be positive, got %d", c.Analysis.TopN)
	case c.Analysis.Window <= 0:
		return fmt.Errorf("analysis.window must be positive, got %s", c.Analysis.Window)
	case c.Detector.BurstAttempts < 2:
		return fmt.Errorf("detector.burst_attempts must be at least 2, got %d", c.Detector.BurstAttempts)
	case c.Detector.BurstGap < 0:
		return fmt.Errorf("detector.burst_gap must not be negative, got %s", c.Detector.BurstGap)
	case c.Detector.BlockDuration < 0:
		return fmt.Errorf("detector.block_duration must not be negative, got %s", c.Detector.BlockDuration)
	}
	return nil
}
