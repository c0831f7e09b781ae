// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDir returns the config directory for hookctl.
// Order: XDG_CONFIG_HOME/hookctl, platform-specific fallback.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hookctl")
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("AppData"); appData != "" {
			return filepath.Join(appData, "hookctl")
		}
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hookctl")
}

// DefaultConfigFile is read when no --config flag is given. A missing file is not an error.
func DefaultConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
