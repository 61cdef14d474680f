// Package config loads and validates the keep application configuration
// from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Default sweep settings
	defaultSweepSchedule = "*/5 * * * *"

	// Default server settings
	defaultListenAddr = ":8080"

	// Default monitoring settings
	defaultMonitoringMode = "scrape"
	defaultMetricsPrefix  = "keep"
	defaultJobName        = "keep"
	defaultPushTimeout    = 30 * time.Second

	// Default logging settings
	defaultLogLevel  = "info"
	defaultLogFormat = "json"
	defaultLogOutput = "stdout"
)

// Config represents the complete application configuration
type Config struct {
	Budget     BudgetConfig     `yaml:"budget"`
	Sweep      SweepConfig      `yaml:"sweep"`
	Server     ServerConfig     `yaml:"server"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// BudgetConfig bounds the retention of hidden activity records.
// A zero value leaves that axis unbounded.
type BudgetConfig struct {
	// MaxCount is the maximum number of simultaneously retained hidden records.
	MaxCount int `yaml:"max_count"`
	// MaxCost is the maximum total estimated cost of retained hidden records.
	MaxCost float64 `yaml:"max_cost"`
}

// SweepConfig controls the periodic maintenance sweep.
type SweepConfig struct {
	// Schedule is a standard 5-field cron expression. Empty disables sweeping.
	Schedule string `yaml:"schedule"`
	// Disabled turns the sweeper off even if a schedule is set.
	Disabled bool `yaml:"disabled"`
}

// ServerConfig holds ops HTTP server settings.
type ServerConfig struct {
	// Listen is the address the ops server listens on.
	Listen string `yaml:"listen"`
}

// MonitoringConfig holds metrics settings.
type MonitoringConfig struct {
	// Mode selects how metrics leave the process: "scrape" or "push".
	Mode string `yaml:"mode"`
	// PushURL is the remote write base URL, required in push mode.
	PushURL string `yaml:"push_url"`
	// MetricsPrefix is prepended to pushed metric names.
	MetricsPrefix string `yaml:"metrics_prefix"`
	// JobName is the job label attached to pushed metrics.
	JobName string `yaml:"job_name"`
	// PushTimeout is the HTTP timeout for remote write requests.
	PushTimeout time.Duration `yaml:"push_timeout"`
}

// LoggingConfig holds logging settings, mirrored into the logging package.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	Output    string `yaml:"output"`
	AddSource bool   `yaml:"add_source"`
}

// Validate performs basic validation on the configuration
func (c *Config) Validate() error {
	if c.Budget.MaxCount < 0 {
		return fmt.Errorf("budget max_count must not be negative")
	}
	if c.Budget.MaxCost < 0 {
		return fmt.Errorf("budget max_cost must not be negative")
	}
	switch c.Monitoring.Mode {
	case "scrape":
	case "push":
		if c.Monitoring.PushURL == "" {
			return fmt.Errorf("monitoring push_url is required in push mode")
		}
	default:
		return fmt.Errorf("monitoring mode must be scrape or push, got %q", c.Monitoring.Mode)
	}
	if c.Monitoring.PushTimeout < 0 {
		return fmt.Errorf("monitoring push_timeout must not be negative")
	}
	return nil
}

// SetDefaults sets reasonable default values for optional fields
func (c *Config) SetDefaults() {
	if c.Sweep.Schedule == "" {
		c.Sweep.Schedule = defaultSweepSchedule
	}
	if c.Server.Listen == "" {
		c.Server.Listen = defaultListenAddr
	}
	if c.Monitoring.Mode == "" {
		c.Monitoring.Mode = defaultMonitoringMode
	}
	if c.Monitoring.MetricsPrefix == "" {
		c.Monitoring.MetricsPrefix = defaultMetricsPrefix
	}
	if c.Monitoring.JobName == "" {
		c.Monitoring.JobName = defaultJobName
	}
	if c.Monitoring.PushTimeout == 0 {
		c.Monitoring.PushTimeout = defaultPushTimeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Output == "" {
		c.Logging.Output = defaultLogOutput
	}
}

// LoadConfig reads the YAML config file at the given path and returns a Config struct
func LoadConfig(path string) (Config, error) {
	var cfg Config
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
