package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.001
	DefaultInterval = 1.0 / 60.0
	DefaultJitter   = 0.05
	DefaultSpeed    = 100.0
	DefaultAngle    = math.Pi / 4
	DefaultDrag     = 0.002
	DefaultGravity  = 9.81
	DefaultMaxTime  = 600.0
	DefaultTol      = 1e-6
)

type Config struct {
	Integrator    string         `yaml:"integrator"`
	Dt            float64        `yaml:"dt"`
	Tolerance     float64        `yaml:"tolerance"`
	MaxFlightTime float64        `yaml:"max_flight_time"`
	Seed          int64          `yaml:"seed"`
	Launch        LaunchConfig   `yaml:"launch"`
	Params        ParamsConfig   `yaml:"params"`
	Sampling      SamplingConfig `yaml:"sampling"`
}

type LaunchConfig struct {
	Speed float64 `yaml:"speed"`
	Angle float64 `yaml:"angle"` // radians
}

type ParamsConfig struct {
	Drag    float64 `yaml:"drag"`
	Gravity float64 `yaml:"gravity"`
	Wind    float64 `yaml:"wind"`
}

type SamplingConfig struct {
	Interval float64 `yaml:"interval"`
	Jitter   float64 `yaml:"jitter"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator:    "rk45",
		Dt:            DefaultDt,
		Tolerance:     DefaultTol,
		MaxFlightTime: DefaultMaxTime,
		Launch: LaunchConfig{
			Speed: DefaultSpeed,
			Angle: DefaultAngle,
		},
		Params: ParamsConfig{
			Drag:    DefaultDrag,
			Gravity: DefaultGravity,
		},
		Sampling: SamplingConfig{
			Interval: DefaultInterval,
			Jitter:   DefaultJitter,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
