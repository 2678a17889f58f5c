package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runnerr0/textwrapped/internal/analysis"
)

// Default config file path.
const DefaultConfigPath = "~/.config/textwrapped/config.yaml"

// Config holds all textwrapped configuration.
type Config struct {
	Window   WindowConfig    `yaml:"window"`
	Sources  SourcesConfig   `yaml:"sources"`
	Limits   analysis.Limits `yaml:"limits"`
	Analysis AnalysisConfig  `yaml:"analysis"`
	Logging  LoggingConfig   `yaml:"logging"`
	Output   OutputConfig    `yaml:"output"`
	Metrics  MetricsConfig   `yaml:"metrics"`
}

type WindowConfig struct {
	// Year to report on. 0 means the current year, falling back to the
	// previous one when the current year has fewer than MinMessages.
	Year        int    `yaml:"year"`
	MinMessages int    `yaml:"min_messages"`
	Timezone    string `yaml:"timezone"`
}

type SourcesConfig struct {
	IMessage IMessageSourceConfig `yaml:"imessage"`
	WhatsApp WhatsAppSourceConfig `yaml:"whatsapp"`
}

type IMessageSourceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type WhatsAppSourceConfig struct {
	Enabled bool     `yaml:"enabled"`
	Paths   []string `yaml:"paths"`
}

type AnalysisConfig struct {
	ExcludeShortCodes bool     `yaml:"exclude_short_codes"`
	ContactsFile      string   `yaml:"contacts_file"`
	Emojis            []string `yaml:"emojis"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // auto, console or json
}

type OutputConfig struct {
	Path string `yaml:"path"`
}

type MetricsConfig struct {
	File string `yaml:"file"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Window.MinMessages < 0 {
		cfg.Window.MinMessages = 0
	}

	return cfg, nil
}

// Location resolves Window.Timezone. Empty and "Local" mean the system zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Window.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Window.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Window.Timezone, err)
	}
	return loc, nil
}

// IMessagePath returns the configured chat.db path with ~ expanded.
func (c *Config) IMessagePath() (string, error) {
	return ExpandPath(c.Sources.IMessage.Path)
}

// WhatsAppPaths returns the configured ChatStorage.sqlite candidates with ~
// expanded.
func (c *Config) WhatsAppPaths() ([]string, error) {
	out := make([]string, 0, len(c.Sources.WhatsApp.Paths))
	for _, p := range c.Sources.WhatsApp.Paths {
		expanded, err := ExpandPath(p)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded)
	}
	return out, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
