// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package manifest reads and writes hook manifests: the serialized form of a
// hook.Snapshot used to seed a table in one bulk step.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/vulntor/hooks/pkg/hook"
)

// CurrentVersion is written into manifests created by this package.
const CurrentVersion = "1.0.0"

// supportedVersions is the version range Parse accepts.
var supportedVersions = mustConstraint("^1")

var validate = validator.New()

// Format is a manifest encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q (must be .yaml, .yml, or .json)", ErrUnsupportedFormat, ext)
	}
}

// Manifest lists subscriptions by event name and priority.
type Manifest struct {
	Version string                            `yaml:"version" json:"version"`
	Hooks   map[string]map[int][]Subscription `yaml:"hooks" json:"hooks"`
}

// Subscription names a catalog callback. A nil AcceptedArgs means hook.DefaultAcceptedArgs.
type Subscription struct {
	Callback     string `yaml:"callback" json:"callback" validate:"required"`
	AcceptedArgs *int   `yaml:"accepted_args,omitempty" json:"accepted_args,omitempty" validate:"omitempty,min=0"`
}

// Accepted returns the accepted argument count of the subscription.
func (s Subscription) Accepted() int {
	if s.AcceptedArgs == nil {
		return hook.DefaultAcceptedArgs
	}
	return *s.AcceptedArgs
}

// document is the decoded wire form. Priority keys stay strings until converted,
// since JSON objects cannot carry integer keys.
type document struct {
	Version string                                `yaml:"version" json:"version"`
	Hooks   map[string]map[string][]Subscription `yaml:"hooks" json:"hooks"`
}

// New returns an empty manifest at CurrentVersion.
func New() *Manifest {
	return &Manifest{
		Version: CurrentVersion,
		Hooks:   make(map[string]map[int][]Subscription),
	}
}

// Add appends a subscription for event at priority.
func (m *Manifest) Add(event string, priority int, callback string, acceptedArgs int) {
	if m.Hooks == nil {
		m.Hooks = make(map[string]map[int][]Subscription)
	}
	byPriority, ok := m.Hooks[event]
	if !ok {
		byPriority = make(map[int][]Subscription)
		m.Hooks[event] = byPriority
	}
	byPriority[priority] = append(byPriority[priority], Subscription{Callback: callback, AcceptedArgs: &acceptedArgs})
}

// Parse decodes a manifest. It does not validate it.
func Parse(data []byte, format Format) (*Manifest, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: failed to parse YAML: %w", ErrInvalidManifest, err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: failed to parse JSON: %w", ErrInvalidManifest, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	m := &Manifest{
		Version: doc.Version,
		Hooks:   make(map[string]map[int][]Subscription, len(doc.Hooks)),
	}

	var result *multierror.Error
	for event, byPriority := range doc.Hooks {
		converted := make(map[int][]Subscription, len(byPriority))
		for raw, subs := range byPriority {
			priority, err := parsePriority(raw)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("hooks.%s: priority %q is not an integer", event, raw))
				continue
			}
			converted[priority] = append(converted[priority], subs...)
		}
		m.Hooks[event] = converted
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return m, nil
}

// Marshal encodes m.
func Marshal(m *Manifest, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(m)
	case FormatJSON:
		return json.MarshalIndent(m, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Validate reports every problem found in m.
func (m *Manifest) Validate() error {
	var result *multierror.Error

	if v, err := semver.NewVersion(m.Version); err != nil {
		result = multierror.Append(result, fmt.Errorf("%w: %q", ErrUnsupportedVersion, m.Version))
	} else if !supportedVersions.Check(v) {
		result = multierror.Append(result, fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedVersion, v, supportedVersions))
	}

	for _, event := range m.Events() {
		if err := validate.Var(event, "required,max=256"); err != nil {
			result = multierror.Append(result, fmt.Errorf("hooks: event name %q is invalid", event))
		}
		for _, priority := range sortedPriorities(m.Hooks[event]) {
			for i, sub := range m.Hooks[event][priority] {
				if err := validate.Struct(sub); err != nil {
					result = multierror.Append(result, describe(event, priority, i, err))
				}
			}
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return nil
}

func describe(event string, priority, index int, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("hooks.%s.%d[%d]: %w", event, priority, index, err)
	}
	var result *multierror.Error
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		if fe.Field() == "AcceptedArgs" {
			field = "accepted_args"
		}
		result = multierror.Append(result, fmt.Errorf("hooks.%s.%d[%d].%s: failed %q", event, priority, index, field, fe.Tag()))
	}
	return result.ErrorOrNil()
}

// Events returns the event names of m, sorted.
func (m *Manifest) Events() []string {
	names := make([]string, 0, len(m.Hooks))
	for name := range m.Hooks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of subscriptions in m.
func (m *Manifest) Len() int {
	n := 0
	for _, byPriority := range m.Hooks {
		for _, subs := range byPriority {
			n += len(subs)
		}
	}
	return n
}

// Snapshot resolves m against catalog. Callbacks are looked up at dispatch time,
// so names missing from catalog are kept and reported when fired.
func (m *Manifest) Snapshot(catalog *hook.Catalog) hook.Snapshot {
	snap := make(hook.Snapshot, len(m.Hooks))
	for event, byPriority := range m.Hooks {
		entries := make(map[int][]hook.SnapshotEntry, len(byPriority))
		for priority, subs := range byPriority {
			for _, sub := range subs {
				entries[priority] = append(entries[priority], hook.SnapshotEntry{
					Key:          sub.Callback,
					Target:       hook.Ref(catalog, sub.Callback),
					AcceptedArgs: sub.Accepted(),
				})
			}
		}
		snap[event] = entries
	}
	return snap
}

// Build creates a hook table from m.
func (m *Manifest) Build(catalog *hook.Catalog, opts ...hook.TableOption) *hook.Table {
	return hook.BuildFromSnapshot(m.Snapshot(catalog), opts...)
}

// UnknownCallbacks lists the callback names of m that catalog does not provide, sorted.
func (m *Manifest) UnknownCallbacks(catalog *hook.Catalog) []string {
	var unknown []string
	for _, byPriority := range m.Hooks {
		for _, subs := range byPriority {
			for _, sub := range subs {
				if _, ok := catalog.Lookup(sub.Callback); !ok && !slices.Contains(unknown, sub.Callback) {
					unknown = append(unknown, sub.Callback)
				}
			}
		}
	}
	sort.Strings(unknown)
	return unknown
}

// CheckCallbacks returns ErrUnknownCallback listing every callback catalog lacks.
func (m *Manifest) CheckCallbacks(catalog *hook.Catalog) error {
	unknown := m.UnknownCallbacks(catalog)
	if len(unknown) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownCallback, strings.Join(unknown, ", "))
}

// FromSnapshot converts snap into a manifest. Callback names are the identity keys.
func FromSnapshot(snap hook.Snapshot) *Manifest {
	m := New()
	for event, byPriority := range snap {
		for priority, entries := range byPriority {
			for _, e := range entries {
				key := e.Key
				if key == "" && e.Target != nil {
					key = e.Target.Key()
				}
				m.Add(event, priority, key, e.AcceptedArgs)
			}
		}
	}
	return m
}

func sortedPriorities(byPriority map[int][]Subscription) []int {
	priorities := make([]int, 0, len(byPriority))
	for p := range byPriority {
		priorities = append(priorities, p)
	}
	slices.Sort(priorities)
	return priorities
}

// parsePriority reads a priority key as a base 10 integer. Leading zeros do not
// change the base.
func parsePriority(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}
