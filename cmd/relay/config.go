package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// settings is the effective runtime configuration: defaults, overlaid with
// the config file (when given), overlaid with explicit flags.
type settings struct {
	Sequence  string
	CharCount int
	Workers   int
	Turns     int
	Duration  time.Duration
	LogLevel  string
}

// fileConfig maps config file keys to runtime settings. The same shape is
// decoded from TOML or YAML, selected by file extension.
type fileConfig struct {
	Sequence  string `toml:"sequence" yaml:"sequence"`
	CharCount int    `toml:"char_count" yaml:"char_count"`
	Workers   int    `toml:"workers" yaml:"workers"`
	Turns     int    `toml:"turns" yaml:"turns"`
	Duration  string `toml:"duration" yaml:"duration"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
}

func defaultSettings() settings {
	return settings{LogLevel: "info"}
}

// loadFileConfig reads a TOML or YAML config file.
func loadFileConfig(path string) (fileConfig, error) {
	var raw fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &raw); err != nil {
			return fileConfig{}, fmt.Errorf("load config: %w", err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fileConfig{}, fmt.Errorf("load config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fileConfig{}, fmt.Errorf("load config: %w", err)
		}
	default:
		return fileConfig{}, fmt.Errorf("load config: unsupported extension %q (want .toml, .yaml or .yml)", ext)
	}
	return raw, nil
}

// applyFile overlays file values onto the settings. Zero values in the file
// leave the current setting untouched.
func (s *settings) applyFile(fc fileConfig) {
	if fc.Sequence != "" {
		s.Sequence = fc.Sequence
	}
	if fc.CharCount > 0 {
		s.CharCount = fc.CharCount
	}
	if fc.Workers > 0 {
		s.Workers = fc.Workers
	}
	if fc.Turns > 0 {
		s.Turns = fc.Turns
	}
	if fc.Duration != "" {
		if d, err := time.ParseDuration(fc.Duration); err == nil {
			s.Duration = d
		}
	}
	if fc.LogLevel != "" {
		s.LogLevel = fc.LogLevel
	}
}

// applyFlags overlays explicitly given flag values. Zero values mean the
// flag was not set and leave the current setting untouched.
func (s *settings) applyFlags(sequence string, charCount, workers, turns int, duration time.Duration, logLevel string) {
	if sequence != "" {
		s.Sequence = sequence
	}
	if charCount > 0 {
		s.CharCount = charCount
	}
	if workers > 0 {
		s.Workers = workers
	}
	if turns > 0 {
		s.Turns = turns
	}
	if duration > 0 {
		s.Duration = duration
	}
	if logLevel != "" {
		s.LogLevel = logLevel
	}
}

// validate reports the first configuration problem, before any worker starts.
func (s *settings) validate() error {
	if s.Sequence == "" {
		return fmt.Errorf("sequence is required and must be non-empty")
	}
	if s.CharCount < 1 {
		return fmt.Errorf("chars must be a positive integer (got %d)", s.CharCount)
	}
	if s.Workers < 1 {
		return fmt.Errorf("workers must be a positive integer (got %d)", s.Workers)
	}
	return nil
}
