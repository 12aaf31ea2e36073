// Package config handles domgraft configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/domgraft/internal/reconcile"
)

// Config is the top-level domgraft configuration.
type Config struct {
	Browser   BrowserConfig    `yaml:"browser"`
	Page      PageConfig       `yaml:"page"`
	Reconcile reconcile.Config `yaml:"reconcile"`
	Store     StoreConfig      `yaml:"store"`
	Transport TransportConfig  `yaml:"transport"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	// Remote is the WebSocket URL of an already-running Chrome. Empty
	// launches a local one.
	Remote  string `yaml:"remote"`
	Headful bool   `yaml:"headful"`
}

// PageConfig locates the host application.
type PageConfig struct {
	URL        string        `yaml:"url"`
	NavTimeout time.Duration `yaml:"nav_timeout"`
}

// StoreConfig locates the template database.
type StoreConfig struct {
	Path          string        `yaml:"path"`
	WatchInterval time.Duration `yaml:"watch_interval"`
}

// TransportConfig controls how composed messages are handed off.
type TransportConfig struct {
	// OpenCommand overrides the platform URI opener. Empty picks the
	// platform default (xdg-open, open, rundll32).
	OpenCommand string `yaml:"open_command"`
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Page.NavTimeout <= 0 {
		c.Page.NavTimeout = 30 * time.Second
	}
	if c.Store.Path == "" {
		c.Store.Path = "domgraft.db"
	}
	if c.Store.WatchInterval <= 0 {
		c.Store.WatchInterval = 2 * time.Second
	}
}

func (c *Config) validate() error {
	if c.Page.URL == "" {
		return fmt.Errorf("config: page.url is required")
	}
	if c.Reconcile.ButtonAnchor == "" {
		return fmt.Errorf("config: reconcile.button_anchor is required")
	}
	if c.Reconcile.Extract.IDSelector == "" {
		return fmt.Errorf("config: reconcile.extract.id_selector is required")
	}
	return nil
}
