package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration values
type Config struct {
	Loop       LoopConfig       `yaml:"loop"`
	Display    DisplayConfig    `yaml:"display"`
	Input      InputConfig      `yaml:"input"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// LoopConfig sets the update rates of the application loop.
type LoopConfig struct {
	FixedUpdateHz uint64 `yaml:"fixed_update_hz"`
	// 0 leaves the variable update uncapped
	VariableUpdateMaxHz uint64 `yaml:"variable_update_max_hz"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
}

type InputConfig struct {
	TPS                    int `yaml:"tps"` // 0 syncs ticks with the display refresh
	KeyRepeatDelayTicks    int `yaml:"key_repeat_delay_ticks"`
	KeyRepeatIntervalTicks int `yaml:"key_repeat_interval_ticks"`
}

// MonitoringConfig controls loop metrics. With Enabled false no monitor is
// attached to the loop at all.
type MonitoringConfig struct {
	Enabled               bool `yaml:"enabled"`
	ReportIntervalSeconds int  `yaml:"report_interval_seconds"`
	BacklogAlertThreshold int  `yaml:"backlog_alert_threshold"`

	// Also track average fixed update time and log the full stats
	DetailedStats bool `yaml:"detailed_stats"`
}

// DefaultConfig returns the values used when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		Loop: LoopConfig{
			FixedUpdateHz:       60,
			VariableUpdateMaxHz: 0,
		},
		Display: DisplayConfig{
			ScreenWidth:  800,
			ScreenHeight: 600,
			WindowTitle:  "tickloop",
			Resizable:    true,
		},
		Input: InputConfig{
			TPS:                    0,
			KeyRepeatDelayTicks:    30,
			KeyRepeatIntervalTicks: 3,
		},
		Monitoring: MonitoringConfig{
			Enabled:               true,
			ReportIntervalSeconds: 5,
			BacklogAlertThreshold: 10,
			DetailedStats:         false,
		},
	}
}

// LoadConfig loads configuration from a YAML file. Missing keys keep
// their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates YAML configuration data.
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Validate checks the values the loop cannot run without.
func (c *Config) Validate() error {
	if c.Loop.FixedUpdateHz == 0 {
		return fmt.Errorf("invalid config: loop.fixed_update_hz must be higher than 0")
	}
	if c.Display.ScreenWidth <= 0 || c.Display.ScreenHeight <= 0 {
		return fmt.Errorf("invalid config: display size %dx%d", c.Display.ScreenWidth, c.Display.ScreenHeight)
	}
	if c.Input.TPS < 0 {
		return fmt.Errorf("invalid config: input.tps must not be negative")
	}
	if c.Input.KeyRepeatDelayTicks < 0 || c.Input.KeyRepeatIntervalTicks < 0 {
		return fmt.Errorf("invalid config: key repeat ticks must not be negative")
	}
	if c.Monitoring.ReportIntervalSeconds < 0 {
		return fmt.Errorf("invalid config: monitoring.report_interval_seconds must not be negative")
	}
	return nil
}

// Helper functions for easy access to commonly used values
func (c *Config) GetFixedUpdatePeriod() time.Duration {
	return PeriodFromHz(c.Loop.FixedUpdateHz)
}

// GetVariableUpdateMinPeriod returns 0 when the variable update is uncapped.
func (c *Config) GetVariableUpdateMinPeriod() time.Duration {
	return PeriodFromHz(c.Loop.VariableUpdateMaxHz)
}

func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

func (c *Config) GetReportInterval() time.Duration {
	return time.Duration(c.Monitoring.ReportIntervalSeconds) * time.Second
}

// PeriodFromHz converts a frequency to a period. 0 Hz maps to a 0 period.
func PeriodFromHz(hz uint64) time.Duration {
	if hz == 0 {
		return 0
	}
	return time.Second / time.Duration(hz)
}
