// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package hookmetrics exports hook fire counts as Prometheus metrics.
package hookmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vulntor/hooks/pkg/hook"
)

// ObserverPriority runs the observer ahead of other wildcard subscribers.
const ObserverPriority = -1000

// Metrics counts fires of a table through its wildcard event.
type Metrics struct {
	fired *prometheus.CounterVec
	table *hook.Table
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	fired := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hooks",
		Name:      "fired_total",
		Help:      "Number of times each hook event was fired.",
	}, []string{"event"})

	if err := reg.Register(fired); err != nil {
		return nil, err
	}
	return &Metrics{fired: fired}, nil
}

// Attach subscribes the observer to table's wildcard event.
func (m *Metrics) Attach(table *hook.Table) {
	m.table = table
	table.Register(hook.AllEvent, m.target(), hook.WithPriority(ObserverPriority), hook.WithAcceptedArgs(0))
}

// Detach removes the observer from the attached table.
func (m *Metrics) Detach() bool {
	if m.table == nil {
		return false
	}
	ok := m.table.Unregister(hook.AllEvent, m.target(), hook.WithPriority(ObserverPriority))
	m.table = nil
	return ok
}

func (m *Metrics) target() hook.Target {
	return hook.Method(m, "Observe")
}

// Observe counts the event being fired on the attached table.
// The innermost event is used rather than the first argument so that
// firing the wildcard event directly is counted under its own name.
func (m *Metrics) Observe(_ ...any) any {
	if m.table == nil {
		return nil
	}
	if name, ok := m.table.CurrentEventName(); ok {
		m.fired.WithLabelValues(name).Inc()
	}
	return nil
}

// Fired returns the counter for event.
func (m *Metrics) Fired(event string) prometheus.Counter {
	return m.fired.WithLabelValues(event)
}
