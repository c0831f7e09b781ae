// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package config

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Manager handles loading and accessing application configuration.
//
// Each manager owns its koanf instance so that separate commands (and tests)
// never observe each other's values.
type Manager struct {
	koanfInstance *koanf.Koanf
	currentConfig Config
	mu            sync.RWMutex
}

// NewManager creates a new Manager.
func NewManager() *Manager {
	return &Manager{
		koanfInstance: koanf.New("."),
		currentConfig: DefaultConfig(),
	}
}

// DefaultConfig returns a new Config struct populated with hardcoded default values.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
			File:   "",
		},
		Hooks: HooksConfig{
			Manifest: "hooks.yaml",
			Debounce: 500 * time.Millisecond,
			Strict:   false,
		},
	}
}

// DefaultConfigAsMap converts the DefaultConfig struct to a flat map for koanf's confmap.Provider.
func DefaultConfigAsMap() map[string]interface{} {
	def := DefaultConfig()
	return map[string]interface{}{
		"log.level":  def.Log.Level,
		"log.format": def.Log.Format,
		"log.file":   def.Log.File,

		"hooks.manifest": def.Hooks.Manifest,
		"hooks.debounce": def.Hooks.Debounce,
		"hooks.strict":   def.Hooks.Strict,
	}
}

// Load loads configuration from defaults, the config file, the environment and flags.
// The file must exist when flags records an explicit --config.
func (m *Manager) Load(flags *pflag.FlagSet, customConfigFilePath string) error {
	debug, explicit := false, false
	if flags != nil {
		if f := flags.Lookup("debug"); f != nil && f.Value.String() == "true" {
			debug = true
		}
		explicit = flags.Changed("config")
	}
	return m.LoadWithSources(DefaultSources(customConfigFilePath, explicit, flags, debug))
}

// LoadWithSources loads configuration from the given sources in priority order.
func (m *Manager) LoadWithSources(sources []ConfigSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ordered := make([]ConfigSource, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})

	k := koanf.New(".")
	for _, src := range ordered {
		if err := src.Load(k); err != nil {
			return fmt.Errorf("config source %s: %w", src.Name(), err)
		}
	}

	var newCfg Config
	if err := k.UnmarshalWithConf("", &newCfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("error unmarshaling final config: %w", err)
	}

	m.koanfInstance = k
	m.currentConfig = newCfg
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentConfig
}

// String returns the raw value of key as loaded, or an empty string.
func (m *Manager) String(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.koanfInstance.String(key)
}

// BindFlags defines command-line flags corresponding to configuration settings.
// Flag names match koanf keys so posflag can map them without a callback.
func BindFlags(flags *pflag.FlagSet) {
	defaults := DefaultConfig()

	flags.Bool("debug", false, "Enable debug logging")
	flags.String("log.format", defaults.Log.Format, "Log format (text, json)")
	flags.StringP("hooks.manifest", "m", defaults.Hooks.Manifest, "Default hook manifest path")
	flags.Duration("hooks.debounce", defaults.Hooks.Debounce, "Quiet period before a changed manifest is reloaded")
	flags.Bool("hooks.strict", defaults.Hooks.Strict, "Fail when a manifest references unknown callbacks")
}
