package web

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration, loaded from a YAML file. Durations
// are plain integers (minutes/hours) so files stay hand-editable.
type Config struct {
	Listen  string `yaml:"listen"`
	DataDir string `yaml:"data_dir"`
	DBPath  string `yaml:"db_path"`

	MaxUploadMB          int64 `yaml:"max_upload_mb"`
	DownloadTTLMinutes   int   `yaml:"download_ttl_minutes"`
	UploadTTLHours       int   `yaml:"upload_ttl_hours"`
	OutputTTLHours       int   `yaml:"output_ttl_hours"`
	SweepIntervalMinutes int   `yaml:"sweep_interval_minutes"`

	// Classifier options, passed through to the extraction core.
	StructuralStyles     []string `yaml:"structural_styles"`
	KeepCitationAfterTag bool     `yaml:"keep_citation_after_tag"`
}

// LoadConfig reads a YAML configuration file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8090"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.DBPath == "" {
		c.DBPath = "db/cardmark.db"
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = 20
	}
	if c.DownloadTTLMinutes <= 0 {
		c.DownloadTTLMinutes = 15
	}
	if c.UploadTTLHours <= 0 {
		c.UploadTTLHours = 1
	}
	if c.OutputTTLHours <= 0 {
		c.OutputTTLHours = 24
	}
	if c.SweepIntervalMinutes <= 0 {
		c.SweepIntervalMinutes = 10
	}
}

// MaxUploadSize is the upload cap in bytes.
func (c *Config) MaxUploadSize() int64 { return c.MaxUploadMB << 20 }

// DownloadTTL is how long a signed download URL stays valid.
func (c *Config) DownloadTTL() time.Duration {
	return time.Duration(c.DownloadTTLMinutes) * time.Minute
}

// UploadTTL is the retention of uploaded inputs.
func (c *Config) UploadTTL() time.Duration {
	return time.Duration(c.UploadTTLHours) * time.Hour
}

// OutputTTL is the retention of extraction outputs.
func (c *Config) OutputTTL() time.Duration {
	return time.Duration(c.OutputTTLHours) * time.Hour
}

// SweepInterval is how often the janitor runs.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}
