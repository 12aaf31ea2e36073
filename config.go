package domgraft

import (
	"github.com/hazyhaar/domgraft/internal/config"
)

// Config is the top-level domgraft configuration. Re-exported from internal.
type Config = config.Config

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig = config.BrowserConfig

// PageConfig locates the host application.
type PageConfig = config.PageConfig

// StoreConfig locates the template database.
type StoreConfig = config.StoreConfig

// TransportConfig controls how composed messages are handed off.
type TransportConfig = config.TransportConfig

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}
