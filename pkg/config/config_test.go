// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_StartsWithDefaults(t *testing.T) {
	manager := NewManager()
	require.NotNil(t, manager)
	assert.NotNil(t, manager.koanfInstance)
	assert.Equal(t, DefaultConfig(), manager.Get())
}

func TestNewManager_InstancesAreIndependent(t *testing.T) {
	first := NewManager()
	second := NewManager()

	flags := newTestFlagSet()
	require.NoError(t, flags.Set("hooks.manifest", "first.yaml"))
	require.NoError(t, first.Load(flags, ""))
	require.NoError(t, second.Load(nil, ""))

	assert.Equal(t, "first.yaml", first.Get().Hooks.Manifest)
	assert.Equal(t, "hooks.yaml", second.Get().Hooks.Manifest)
}

func TestDefaultConfig_ReturnsExpectedDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "", cfg.Log.File)
	assert.Equal(t, "hooks.yaml", cfg.Hooks.Manifest)
	assert.Equal(t, 500*time.Millisecond, cfg.Hooks.Debounce)
	assert.False(t, cfg.Hooks.Strict)
}

func TestManager_Load_LoadsDefaultsWhenNoFlags(t *testing.T) {
	manager := NewManager()
	require.NoError(t, manager.Load(nil, ""))

	assert.Equal(t, DefaultConfig(), manager.Get())
	assert.Equal(t, "warn", manager.String("log.level"))
}

func TestManager_Load_OverridesWithFlags(t *testing.T) {
	manager := NewManager()
	flags := newTestFlagSet()
	_ = flags.Set("log.format", "json")
	_ = flags.Set("hooks.manifest", "/etc/hooks/site.yaml")
	_ = flags.Set("hooks.debounce", "2s")
	_ = flags.Set("hooks.strict", "true")

	require.NoError(t, manager.Load(flags, ""))

	cfg := manager.Get()
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/etc/hooks/site.yaml", cfg.Hooks.Manifest)
	assert.Equal(t, 2*time.Second, cfg.Hooks.Debounce)
	assert.True(t, cfg.Hooks.Strict)
}

func TestManager_Load_UnchangedFlagsKeepLowerSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hooks:\n  manifest: from-file.yaml\n"), 0o644))

	manager := NewManager()
	require.NoError(t, manager.Load(newTestFlagSet(), path))

	assert.Equal(t, "from-file.yaml", manager.Get().Hooks.Manifest)
}

func TestManager_Load_DebugFlagSetsLogLevelToDebug(t *testing.T) {
	manager := NewManager()
	flags := newTestFlagSet()
	_ = flags.Set("debug", "true")

	require.NoError(t, manager.Load(flags, ""))
	assert.Equal(t, "debug", manager.Get().Log.Level)
}

func TestManager_Load_PropagatesFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unterminated"), 0o644))

	manager := NewManager()
	err := manager.Load(nil, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config source file:")
	assert.Equal(t, DefaultConfig(), manager.Get(), "failed load must not replace the current config")
}

func TestManager_Load_ExplicitConfigMustExist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.yaml")

	manager := NewManager()
	require.NoError(t, manager.Load(newTestFlagSet(), missing), "an implicit default path may be absent")

	flags := newTestFlagSet()
	flags.String("config", "", "")
	require.NoError(t, flags.Set("config", missing))

	err := manager.Load(flags, missing)
	require.ErrorIs(t, err, ErrConfigNotFound)
}

func TestBindFlags_AddsFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)

	debugFlag := flags.Lookup("debug")
	require.NotNil(t, debugFlag)
	assert.Equal(t, "Enable debug logging", debugFlag.Usage)
	assert.Equal(t, "false", debugFlag.DefValue)

	manifestFlag := flags.Lookup("hooks.manifest")
	require.NotNil(t, manifestFlag)
	assert.Equal(t, "m", manifestFlag.Shorthand)
	assert.Equal(t, "hooks.yaml", manifestFlag.DefValue)

	assert.NotNil(t, flags.Lookup("hooks.debounce"))
	assert.NotNil(t, flags.Lookup("hooks.strict"))
	assert.NotNil(t, flags.Lookup("log.format"))
}

func TestBindFlags_DebugFlagCanBeSet(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)

	require.NoError(t, flags.Set("debug", "true"))
	val, err := flags.GetBool("debug")
	require.NoError(t, err)
	assert.True(t, val)
}

func newTestFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)
	return flags
}
