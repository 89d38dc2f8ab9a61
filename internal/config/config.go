package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Feed      Feed      `yaml:"feed"`
	Search    Search    `yaml:"search"`
	Retention Retention `yaml:"retention"`
	Output    Output    `yaml:"output"`
}

type Feed struct {
	URL               string `yaml:"url"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	UserAgent         string `yaml:"user_agent"`
	RetryCount        int    `yaml:"retry_count"`
	RetryDelaySeconds int    `yaml:"retry_delay_seconds"`
}

type Search struct {
	PerPage    int    `yaml:"per_page"`
	SessionKey string `yaml:"session_key"`
}

type Retention struct {
	Articles RetentionPolicy `yaml:"articles"`
	Logs     RetentionPolicy `yaml:"logs"`
}

type RetentionPolicy struct {
	Days      int `yaml:"days"`
	ChunkSize int `yaml:"chunk_size"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

// Timeout returns the feed fetch timeout as a duration.
func (f Feed) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// RetryDelay returns the wait between fetch attempts as a duration.
func (f Feed) RetryDelay() time.Duration {
	return time.Duration(f.RetryDelaySeconds) * time.Second
}

// ConfigDir returns the XDG config directory for newswatch.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "newswatch")
}

// DataDir returns the XDG data directory for newswatch.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "newswatch")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/newswatch/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'newswatch init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Feed: Feed{
			URL:               "https://www.newsweekjapan.jp/story/rss.xml",
			TimeoutSeconds:    30,
			UserAgent:         "newswatch/1.0 (RSS aggregator)",
			RetryCount:        3,
			RetryDelaySeconds: 5,
		},
		Search: Search{
			PerPage:    20,
			SessionKey: "article_search_conditions",
		},
		Retention: Retention{
			Articles: RetentionPolicy{Days: 90, ChunkSize: 1000},
			Logs:     RetentionPolicy{Days: 30, ChunkSize: 1000},
		},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Feed.URL == "" {
		return fmt.Errorf("feed.url must not be empty")
	}
	if c.Feed.RetryCount < 1 {
		return fmt.Errorf("feed.retry_count must be at least 1")
	}
	if c.Search.PerPage < 1 {
		return fmt.Errorf("search.per_page must be at least 1")
	}
	return nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
