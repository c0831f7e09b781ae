// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package config

import "time"

// Config is the root configuration structure for hookctl.
type Config struct {
	Log   LogConfig   `description:"Logging configuration" koanf:"log"`
	Hooks HooksConfig `description:"Hook table configuration" koanf:"hooks"`
}

// LogConfig holds logging related configuration.
type LogConfig struct {
	Level  string `description:"Log level (trace, debug, info, warn, error)" koanf:"level"`
	Format string `description:"Log format: json | text" koanf:"format"`
	File   string `description:"Log file path" koanf:"file"`
}

// HooksConfig controls how manifests are located and loaded.
type HooksConfig struct {
	// Manifest is the manifest used when a command is not given one.
	Manifest string `description:"Default hook manifest path" koanf:"manifest"`

	// Debounce is the quiet period the manifest watcher waits for before reloading.
	Debounce time.Duration `description:"Manifest watcher debounce" koanf:"debounce"`

	// Strict rejects manifests referencing callbacks missing from the catalog.
	Strict bool `description:"Fail on unknown callbacks" koanf:"strict"`
}
