// Package config holds the run settings of usercpu. Values come from built-in
// defaults, then an optional YAML file, then command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInterval = time.Second
	DefaultProcRoot = "/proc"
)

// Config is the full set of tunables for one monitoring run.
type Config struct {
	Interval     time.Duration `yaml:"interval"`
	ProcRoot     string        `yaml:"proc_root"`
	MaxProcesses int           `yaml:"max_processes"` // 0 means unbounded
	MaxUsers     int           `yaml:"max_users"`     // 0 means unbounded
	HostSummary  bool          `yaml:"host_summary"`
	Verbose      bool          `yaml:"verbose"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Interval: DefaultInterval,
		ProcRoot: DefaultProcRoot,
	}
}

// Load reads a YAML file on top of the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults. Empty input yields the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot drive a run.
func (c Config) Validate() error {
	var errs []error
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %v", c.Interval))
	}
	if c.ProcRoot == "" {
		errs = append(errs, errors.New("proc_root must not be empty"))
	}
	if c.MaxProcesses < 0 {
		errs = append(errs, fmt.Errorf("max_processes must not be negative, got %d", c.MaxProcesses))
	}
	if c.MaxUsers < 0 {
		errs = append(errs, fmt.Errorf("max_users must not be negative, got %d", c.MaxUsers))
	}
	return errors.Join(errs...)
}
