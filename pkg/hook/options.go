// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package hook

import "github.com/rs/zerolog"

const (
	// DefaultPriority is used when no priority is given.
	DefaultPriority = 10

	// DefaultAcceptedArgs is used when no accepted argument count is given.
	DefaultAcceptedArgs = 1
)

type subscription struct {
	priority     int
	acceptedArgs int
}

// Option configures a registration or unregistration.
type Option func(*subscription)

// WithPriority sets the priority. Lower priorities run first.
func WithPriority(priority int) Option {
	return func(s *subscription) {
		s.priority = priority
	}
}

// WithAcceptedArgs caps how many leading arguments the subscriber receives.
func WithAcceptedArgs(n int) Option {
	return func(s *subscription) {
		s.acceptedArgs = n
	}
}

func newSubscription(opts []Option) subscription {
	s := subscription{
		priority:     DefaultPriority,
		acceptedArgs: DefaultAcceptedArgs,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithLogger sets the logger receiving developer warnings.
func WithLogger(logger zerolog.Logger) TableOption {
	return func(t *Table) {
		t.logger = logger
	}
}
