// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package hook

import (
	"maps"
	"slices"
)

// ExecState tracks the events currently being fired and how often each event was fired.
// It is owned by a Table and updated around every fire, whether or not the event
// has subscribers.
type ExecState struct {
	stack  []string
	counts map[string]int
}

func newExecState() *ExecState {
	return &ExecState{counts: make(map[string]int)}
}

// enter counts a fire of name and pushes it. It returns the depth to restore on leave.
func (s *ExecState) enter(name string) int {
	s.counts[name]++
	depth := len(s.stack)
	s.stack = append(s.stack, name)
	return depth
}

func (s *ExecState) leave(depth int) {
	s.stack = s.stack[:depth]
}

// Current returns the innermost event being fired.
func (s *ExecState) Current() (string, bool) {
	if len(s.stack) == 0 {
		return "", false
	}
	return s.stack[len(s.stack)-1], true
}

// Depth returns the number of fires in progress.
func (s *ExecState) Depth() int {
	return len(s.stack)
}

// Contains reports whether name is anywhere on the stack.
func (s *ExecState) Contains(name string) bool {
	return slices.Contains(s.stack, name)
}

// Stack returns the in-progress event names, outermost first.
func (s *ExecState) Stack() []string {
	return slices.Clone(s.stack)
}

// Count returns how many times name was fired.
func (s *ExecState) Count(name string) int {
	return s.counts[name]
}

// Counts returns a copy of all fire counters.
func (s *ExecState) Counts() map[string]int {
	return maps.Clone(s.counts)
}
