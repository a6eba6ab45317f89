package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server Server `yaml:"server"`

	JWT JWT `yaml:"jwt"`

	Snapshot Snapshot `yaml:"snapshot"`

	Breaks Breaks `yaml:"breaks"`
}

type Server struct {
	Address string `yaml:"address"`
}

type JWT struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in"` // In Hours
}

type Snapshot struct {
	Path string `yaml:"path"`
}

type Breaks struct {
	DurationMinutes      int `yaml:"duration_minutes"`
	MaxPerDay            int `yaml:"max_per_day"`
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
}

// SweepInterval returns the sweep cadence, defaulting to one second.
func (b Breaks) SweepInterval() time.Duration {
	if b.SweepIntervalSeconds <= 0 {
		return time.Second
	}
	return time.Duration(b.SweepIntervalSeconds) * time.Second
}

func Load() (*Config, error) {
	configPath := "configs/development.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}

	f, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
