// Package config loads and holds all ensnormd configuration.
// Settings are layered: defaults → ensnormd-config.json → environment variables (env vars win).
package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// Config holds the full ensnormd configuration.
type Config struct {
	HTTPPort      int    `json:"httpPort"`
	BindAddress   string `json:"bindAddress"`
	LogLevel      string `json:"logLevel"`
	ManagementTok string `json:"managementToken"`

	SpecFile     string `json:"specFile"`
	SpecCacheDB  string `json:"specCacheFile"`  // bbolt binary cache of the decoded Spec; empty disables it
	ResultCache  int    `json:"resultCacheSize"` // max entries held by internal/resultcache; 0 disables it

	DNSBridgeEnabled bool `json:"dnsBridgeEnabled"`
}

// Load returns config with defaults overridden by ensnormd-config.json and env vars.
func Load() *Config {
	cfg := defaults()
	loadFile(cfg, "ensnormd-config.json")
	loadEnv(cfg)
	return cfg
}

func defaults() *Config {
	return &Config{
		HTTPPort:         8585,
		BindAddress:      "127.0.0.1",
		LogLevel:         "info",
		SpecFile:         "testdata/spec.json",
		SpecCacheDB:      "spec-cache.db",
		ResultCache:      4096,
		DNSBridgeEnabled: true,
	}
}

func loadFile(cfg *Config, path string) {
	data, err := os.ReadFile(path) //nolint:gosec // G703: path is a controlled config file path, not user input
	if err != nil {
		return // file is optional
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("[CONFIG] Warning: could not parse %s: %v", path, err)
	} else {
		log.Printf("[CONFIG] Loaded %s", path)
	}
}

func loadEnv(cfg *Config) {
	if v := os.Getenv("ENSNORMD_HTTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTPPort = n
		}
	}
	if v := os.Getenv("ENSNORMD_BIND_ADDRESS"); v != "" {
		cfg.BindAddress = v
	}
	if v := os.Getenv("ENSNORMD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ENSNORMD_MANAGEMENT_TOKEN"); v != "" {
		cfg.ManagementTok = v
	}
	if v := os.Getenv("ENSNORMD_SPEC_FILE"); v != "" {
		cfg.SpecFile = v
	}
	if v := os.Getenv("ENSNORMD_SPEC_CACHE_FILE"); v != "" {
		cfg.SpecCacheDB = v
	}
	if v := os.Getenv("ENSNORMD_RESULT_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.ResultCache = n
		}
	}
	if v := os.Getenv("ENSNORMD_DNS_BRIDGE"); v == "false" {
		cfg.DNSBridgeEnabled = false
	}
}
