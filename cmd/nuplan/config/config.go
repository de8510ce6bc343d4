// Package config loads nuplan.yaml, the CLI's settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/willibrandon/nuplan/observability"
)

// FileName is the settings file searched for by FindConfigFile.
const FileName = "nuplan.yaml"

// DefaultRepositoryFile is the repository manifest used when neither the
// settings file nor --repository names one.
const DefaultRepositoryFile = "nuplan-repo.yaml"

// Config is the content of nuplan.yaml. Command-line flags override it.
type Config struct {
	// Repository is the path of the repository manifest
	Repository string `yaml:"repository"`

	// TargetFramework filters dependency sets (e.g. net8.0); empty uses all
	TargetFramework string `yaml:"targetFramework"`

	// DependencyVersion is lowest, highestPatch, highestMinor or highest
	DependencyVersion string `yaml:"dependencyVersion"`

	// Prerelease admits pre-release packages from the source repository
	Prerelease bool `yaml:"prerelease"`

	// EngineVersion is checked against packages' minClientVersion
	EngineVersion string `yaml:"engineVersion"`

	// LogLevel sets planner log verbosity
	LogLevel string `yaml:"logLevel"`

	// Constraints pins package ids to version ranges (e.g. Newtonsoft.Json: "[13.0, 14.0)")
	Constraints map[string]string `yaml:"constraints"`

	Tracing TracingConfig `yaml:"tracing"`
}

// TracingConfig selects the OpenTelemetry exporter.
type TracingConfig struct {
	// Exporter is none, stdout or otlp
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP collector address (host:port)
	Endpoint string `yaml:"endpoint"`

	// SamplingRate is the trace sampling rate (0.0 to 1.0)
	SamplingRate float64 `yaml:"samplingRate"`
}

// NewDefaultConfig returns the settings used when no file is found.
func NewDefaultConfig() *Config {
	return &Config{
		Repository:        DefaultRepositoryFile,
		DependencyVersion: "lowest",
		LogLevel:          "minimal",
		Tracing: TracingConfig{
			Exporter:     "none",
			SamplingRate: 1.0,
		},
	}
}

// DefaultConfigLocations returns the nuplan.yaml locations to search in
// precedence order
func DefaultConfigLocations() []string {
	var locations []string

	if cwd, err := os.Getwd(); err == nil {
		locations = append(locations, filepath.Join(cwd, FileName))
		locations = append(locations, filepath.Join(cwd, ".nuplan", FileName))
	}

	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".nuplan", FileName))
	}

	return locations
}

// FindConfigFile finds the first existing nuplan.yaml file
func FindConfigFile() string {
	for _, loc := range DefaultConfigLocations() {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// Load reads the settings file at path, or the first file found by
// FindConfigFile when path is empty. It returns the defaults and an empty
// path when no file exists.
func Load(path string) (*Config, string, error) {
	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return NewDefaultConfig(), "", nil
		}
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// LoadConfig reads the settings file at path over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes settings over the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := NewDefaultConfig()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// TracerConfig converts the tracing section for observability.SetupTracing.
func (c *Config) TracerConfig(serviceVersion string) observability.TracerConfig {
	tc := observability.DefaultTracerConfig()
	tc.ServiceVersion = serviceVersion
	if c.Tracing.Exporter != "" {
		tc.ExporterType = c.Tracing.Exporter
	}
	tc.OTLPEndpoint = c.Tracing.Endpoint
	if c.Tracing.SamplingRate > 0 {
		tc.SamplingRate = c.Tracing.SamplingRate
	}
	return tc
}

// TracingEnabled reports whether an exporter other than none is configured.
func (c *Config) TracingEnabled() bool {
	return c.Tracing.Exporter != "" && c.Tracing.Exporter != "none"
}
