// Package config handles vizdash configuration using Viper.
//
// Configuration sources (in priority order):
//  1. Environment variables (VIZDASH_*)
//  2. Config file (~/.config/vizdash/config.yaml)
//  3. Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultOrg is the GitHub organization the dashboard renders.
	DefaultOrg = "vizual-ai"
	// DefaultAPIURL is the GitHub REST API endpoint.
	DefaultAPIURL = "https://api.github.com"
	// DefaultGraphQLURL is the GitHub GraphQL endpoint.
	DefaultGraphQLURL = "https://api.github.com/graphql"
	// DefaultSnapshotBase is the base URL for pre-computed JSON state files.
	DefaultSnapshotBase = "https://vizual-ai.github.io/dashboard"
	// DefaultCDNHost is the third-party CDN the shell loads assets from.
	DefaultCDNHost = "cdn.jsdelivr.net"
	// DefaultProbeTimeout bounds a single endpoint probe.
	DefaultProbeTimeout = 5 * time.Second
	// DefaultTheme is the dashboard theme.
	DefaultTheme = "dark"
)

// Config holds the vizdash configuration.
type Config struct {
	v *viper.Viper
}

// Load reads configuration from all sources.
func Load() *Config {
	v := viper.New()

	v.SetDefault("github.org", DefaultOrg)
	v.SetDefault("github.api_url", DefaultAPIURL)
	v.SetDefault("github.graphql_url", DefaultGraphQLURL)
	v.SetDefault("snapshot.base_url", DefaultSnapshotBase)
	v.SetDefault("cache.cdn_host", DefaultCDNHost)
	v.SetDefault("gateway.probe_timeout", DefaultProbeTimeout)
	v.SetDefault("ui.theme", DefaultTheme)

	// Config file location
	home, err := os.UserHomeDir()
	if err == nil {
		configDir := filepath.Join(home, ".config", "vizdash")
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Environment variables
	v.SetEnvPrefix("VIZDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found, but warn on other errors)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file: %v\n", err)
		}
	}

	return &Config{v: v}
}

// Get returns a configuration value.
func (c *Config) Get(key string) interface{} {
	return c.v.Get(key)
}

// GetString returns a configuration value as string.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetDuration returns a configuration value as a duration.
func (c *Config) GetDuration(key string) time.Duration {
	return c.v.GetDuration(key)
}

// Set sets a configuration value and persists it.
func (c *Config) Set(key string, value interface{}) error {
	c.v.Set(key, value)

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configDir := filepath.Join(home, ".config", "vizdash")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	configFile := filepath.Join(configDir, "config.yaml")
	return c.v.WriteConfigAs(configFile)
}

// All returns all configuration as a map.
func (c *Config) All() map[string]interface{} {
	return c.v.AllSettings()
}

// Org returns the configured GitHub organization.
func (c *Config) Org() string {
	return c.GetString("github.org")
}

// APIURL returns the configured GitHub REST API URL.
func (c *Config) APIURL() string {
	return c.GetString("github.api_url")
}

// GraphQLURL returns the configured GitHub GraphQL URL.
func (c *Config) GraphQLURL() string {
	return c.GetString("github.graphql_url")
}

// SnapshotBase returns the base URL for JSON state snapshots.
func (c *Config) SnapshotBase() string {
	return c.GetString("snapshot.base_url")
}

// CDNHost returns the CDN hostname used for cache classification.
func (c *Config) CDNHost() string {
	return c.GetString("cache.cdn_host")
}

// ProbeTimeout returns the per-probe timeout for endpoint checks.
func (c *Config) ProbeTimeout() time.Duration {
	return c.GetDuration("gateway.probe_timeout")
}

// Theme returns the configured dashboard theme.
func (c *Config) Theme() string {
	return c.GetString("ui.theme")
}
