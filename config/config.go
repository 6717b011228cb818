// Package config loads gyrotone settings from a YAML file, with environment
// overrides on top.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/jsphweid/gyrotone/constants"
	"github.com/jsphweid/gyrotone/duration"
)

const (
	OutputOto  = "oto"
	OutputMidi = "midi"
	OutputLog  = "log"
)

type Config struct {
	// Seed fixes the random source. Nil means seed from the clock.
	Seed *uint64 `yaml:"seed,omitempty"`

	// DurationTable is "default" or "classic".
	DurationTable string `yaml:"duration_table,omitempty"`

	// Output selects the audio driver for play: oto, midi or log.
	Output   string `yaml:"output,omitempty"`
	MidiPort string `yaml:"midi_port,omitempty"`

	SampleRate int     `yaml:"sample_rate,omitempty"`
	Volume     float64 `yaml:"volume,omitempty"`

	OutDir string `yaml:"out_dir,omitempty"`

	Listen         string   `yaml:"listen,omitempty"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
	// AutosaveAfter is how long a session must be idle before it is written
	// to disk, e.g. "2s". Empty disables autosave.
	AutosaveAfter string `yaml:"autosave_after,omitempty"`

	Dynamo Dynamo `yaml:"dynamo,omitempty"`

	LogLevel string `yaml:"log_level,omitempty"`
}

// Dynamo points at the table that stores performance metadata. An empty
// endpoint disables it.
type Dynamo struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	Region   string `yaml:"region,omitempty"`
	Table    string `yaml:"table,omitempty"`
}

func (d Dynamo) Enabled() bool {
	return d.Endpoint != ""
}

func Default() *Config {
	return &Config{
		DurationTable:  "default",
		Output:         OutputLog,
		SampleRate:     constants.DefaultSampleRate,
		Volume:         0.3,
		OutDir:         constants.GetOutDir(),
		Listen:         constants.DefaultListenAddr,
		AllowedOrigins: []string{"*"},
		AutosaveAfter:  "2s",
		Dynamo: Dynamo{
			Region: "localhost",
			Table:  "gyrotone-performances",
		},
		LogLevel: "info",
	}
}

// Load reads path on top of the defaults and then applies environment
// overrides. A missing file at an empty path is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if seed, ok := constants.GetSeed(); ok {
		c.Seed = &seed
	}
	if dir := os.Getenv("OUT_PATH"); dir != "" {
		c.OutDir = dir
	}
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := duration.TableByName(c.DurationTable); err != nil {
		errs = append(errs, err)
	}
	switch c.Output {
	case OutputOto, OutputMidi, OutputLog:
	default:
		errs = append(errs, fmt.Errorf("unknown output %q", c.Output))
	}
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample_rate must be positive, got %v", c.SampleRate))
	}
	if c.Volume < 0 || c.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume must be within 0..1, got %v", c.Volume))
	}
	if _, err := c.Autosave(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) Durations() duration.Table {
	table, err := duration.TableByName(c.DurationTable)
	if err != nil {
		return duration.Default
	}
	return table
}

// Autosave returns the idle time before a session is saved, zero if disabled.
func (c *Config) Autosave() (time.Duration, error) {
	if c.AutosaveAfter == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.AutosaveAfter)
	if err != nil {
		return 0, fmt.Errorf("autosave_after: %w", err)
	}
	return d, nil
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
