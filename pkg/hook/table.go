// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package hook

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AllEvent is the reserved event name whose subscribers observe every fire.
// They receive the fired event name followed by the fire's arguments.
const AllEvent = "all"

// Table maps event names to their registries and owns the execution state.
type Table struct {
	registries map[string]*Registry
	state      *ExecState
	logger     zerolog.Logger
}

// NewTable creates an empty table.
func NewTable(opts ...TableOption) *Table {
	t := &Table{
		registries: make(map[string]*Registry),
		state:      newExecState(),
		logger:     log.Logger.With().Str("component", "hook").Logger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// registry returns the registry for name, creating it on first use.
func (t *Table) registry(name string) *Registry {
	r, ok := t.registries[name]
	if !ok {
		r = NewRegistry(name, t.logger)
		t.registries[name] = r
	}
	return r
}

// Registry returns the registry for name if one was created.
func (t *Table) Registry(name string) (*Registry, bool) {
	r, ok := t.registries[name]
	return r, ok
}

// Register subscribes target to the named event.
func (t *Table) Register(name string, target Target, opts ...Option) {
	if target == nil {
		t.logger.Warn().Str("hook", name).Msg("Ignoring registration of nil target")
		return
	}
	s := newSubscription(opts)
	t.registry(name).Register(target, s.priority, s.acceptedArgs)
}

// Unregister removes target from the named event at the priority given with
// WithPriority (DefaultPriority otherwise). It reports whether the subscription existed.
func (t *Table) Unregister(name string, target Target, opts ...Option) bool {
	if target == nil {
		return false
	}
	s := newSubscription(opts)
	return t.registry(name).Unregister(target.Key(), s.priority)
}

// HasSubscription returns the priority at which target is subscribed to the named event.
func (t *Table) HasSubscription(name string, target Target) (int, bool) {
	r, ok := t.registries[name]
	if !ok || target == nil {
		return 0, false
	}
	return r.Priority(target.Key())
}

// HasAnySubscription reports whether the named event has any subscriber.
func (t *Table) HasAnySubscription(name string) bool {
	r, ok := t.registries[name]
	return ok && r.Has()
}

// UnregisterAll removes every subscriber of the named event.
func (t *Table) UnregisterAll(name string) {
	if r, ok := t.registries[name]; ok {
		r.UnregisterAll()
	}
}

// UnregisterPriority removes every subscriber of the named event at priority.
func (t *Table) UnregisterPriority(name string, priority int) {
	if r, ok := t.registries[name]; ok {
		r.UnregisterPriority(priority)
	}
}

// FireAction invokes the subscribers of the named event with args.
func (t *Table) FireAction(name string, args ...any) {
	t.fire(modeAction, name, args)
}

// FireFilter threads value through the subscribers of the named event and returns
// the result. With no subscribers value is returned unchanged.
func (t *Table) FireFilter(name string, value any, args ...any) any {
	return t.fire(modeFilter, name, append([]any{value}, args...))
}

func (t *Table) fire(m mode, name string, args []any) any {
	depth := t.state.enter(name)
	defer t.state.leave(depth)

	var value any
	if m == modeFilter {
		value = args[0]
	}

	if r, ok := t.registries[name]; ok {
		value = r.dispatch(m, args)
	}

	if name != AllEvent {
		if all, ok := t.registries[AllEvent]; ok {
			all.dispatch(modeAction, append([]any{name}, args...))
		}
	}

	return value
}

// Deprecation describes a deprecated event.
type Deprecation struct {
	Version     string
	Replacement string
	Message     string
}

// FireActionDeprecated fires a deprecated action, warning when anything is subscribed to it.
func (t *Table) FireActionDeprecated(name string, d Deprecation, args ...any) {
	t.warnDeprecated(name, d)
	t.FireAction(name, args...)
}

// FireFilterDeprecated fires a deprecated filter, warning when anything is subscribed to it.
func (t *Table) FireFilterDeprecated(name string, d Deprecation, value any, args ...any) any {
	t.warnDeprecated(name, d)
	return t.FireFilter(name, value, args...)
}

func (t *Table) warnDeprecated(name string, d Deprecation) {
	if !t.HasAnySubscription(name) {
		return
	}
	evt := t.logger.Warn().Str("hook", name).Str("since", d.Version)
	if d.Replacement != "" {
		evt = evt.Str("replacement", d.Replacement)
	}
	if d.Message != "" {
		evt = evt.Str("detail", d.Message)
	}
	evt.Msg("Hook is deprecated")
}

// CallCount returns how many times the named event was fired.
func (t *Table) CallCount(name string) int {
	return t.state.Count(name)
}

// CallCounts returns a copy of every fire counter.
func (t *Table) CallCounts() map[string]int {
	return t.state.Counts()
}

// CurrentEventName returns the innermost event being fired.
func (t *Table) CurrentEventName() (string, bool) {
	return t.state.Current()
}

// Firing reports whether any event is being fired.
func (t *Table) Firing() bool {
	return t.state.Depth() > 0
}

// IsFiring reports whether the named event is being fired, including as an ancestor
// of the innermost fire.
func (t *Table) IsFiring(name string) bool {
	return t.state.Contains(name)
}

// State returns the execution state of the table.
func (t *Table) State() *ExecState {
	return t.state
}

// Events returns the names of events with at least one subscriber, sorted.
func (t *Table) Events() []string {
	names := make([]string, 0, len(t.registries))
	for name, r := range t.registries {
		if r.Has() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
