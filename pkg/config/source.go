// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read by EnvSource.
const EnvPrefix = "HOOKCTL_"

// Load priorities of the built-in sources.
const (
	PriorityDefaults = 10
	PriorityFile     = 20
	PriorityEnv      = 30
	PriorityFlags    = 40
)

// ErrConfigNotFound is returned when a config file that was asked for explicitly is missing.
var ErrConfigNotFound = errors.New("config file not found")

// ConfigSource is one layer of configuration. Layers are loaded in ascending
// priority, so a later layer overrides the keys it sets and keeps the rest.
//
// hookctl stacks defaults, the config file, HOOKCTL_* variables and flags.
// A source with a priority in between, say a shared hooks file at 15, is
// slotted in by LoadWithSources.
type ConfigSource interface {
	Name() string
	Priority() int
	Load(k *koanf.Koanf) error
}

// DefaultSource loads DefaultConfig.
type DefaultSource struct{}

func (s *DefaultSource) Name() string  { return "defaults" }
func (s *DefaultSource) Priority() int { return PriorityDefaults }

func (s *DefaultSource) Load(k *koanf.Koanf) error {
	if err := k.Load(confmap.Provider(DefaultConfigAsMap(), "."), nil); err != nil {
		return fmt.Errorf("load defaults: %w", err)
	}
	return nil
}

// FileSource loads a YAML config file. A missing file is skipped unless Required is set,
// which the CLI does when --config is given.
type FileSource struct {
	Path     string
	Required bool
}

func (s *FileSource) Name() string  { return "file:" + s.Path }
func (s *FileSource) Priority() int { return PriorityFile }

func (s *FileSource) Load(k *koanf.Koanf) error {
	if s.Path == "" {
		return nil
	}

	if _, err := os.Stat(s.Path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", s.Path, err)
		}
		if s.Required {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, s.Path)
		}
		return nil
	}

	if err := k.Load(file.Provider(s.Path), yaml.Parser()); err != nil {
		return fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return nil
}

// EnvSource maps prefixed variables onto keys, one dot per underscore:
//
//	HOOKCTL_HOOKS_MANIFEST -> hooks.manifest
//	HOOKCTL_HOOKS_DEBOUNCE -> hooks.debounce
//
// Variables set to an empty string are ignored so they cannot blank out a default.
type EnvSource struct {
	Prefix string // defaults to EnvPrefix
}

func (s *EnvSource) Name() string  { return "env" }
func (s *EnvSource) Priority() int { return PriorityEnv }

func (s *EnvSource) Load(k *koanf.Koanf) error {
	prefix := s.Prefix
	if prefix == "" {
		prefix = EnvPrefix
	}

	provider := env.ProviderWithValue(prefix, ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		return envKey(prefix, key), value
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("load environment: %w", err)
	}
	return nil
}

func envKey(prefix, name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, prefix)), "_", ".")
}

// FlagSource loads flags whose names are config keys (see BindFlags). Flags the user
// did not set only fill keys no earlier source provided. Debug forces log.level to debug.
type FlagSource struct {
	Flags *pflag.FlagSet
	Debug bool
}

func (s *FlagSource) Name() string  { return "flags" }
func (s *FlagSource) Priority() int { return PriorityFlags }

func (s *FlagSource) Load(k *koanf.Koanf) error {
	if s.Flags != nil {
		if err := k.Load(posflag.Provider(s.Flags, ".", k), nil); err != nil {
			return fmt.Errorf("load flags: %w", err)
		}
	}
	if s.Debug {
		if err := k.Set("log.level", "debug"); err != nil {
			return fmt.Errorf("set debug level: %w", err)
		}
	}
	return nil
}

// DefaultSources returns the sources hookctl loads, lowest priority first.
// requireFile makes a missing configPath an error.
func DefaultSources(configPath string, requireFile bool, flags *pflag.FlagSet, debug bool) []ConfigSource {
	return []ConfigSource{
		&DefaultSource{},
		&FileSource{Path: configPath, Required: requireFile},
		&EnvSource{Prefix: EnvPrefix},
		&FlagSource{Flags: flags, Debug: debug},
	}
}
