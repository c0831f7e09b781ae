// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package hook

import (
	"slices"

	"github.com/rs/zerolog"
)

type mode int

const (
	modeAction mode = iota
	modeFilter
)

// entry is one subscription inside a priority bucket.
type entry struct {
	key          string
	target       Target
	acceptedArgs int
}

// Entry is a read-only view of one subscription.
type Entry struct {
	Key          string
	Target       Target
	AcceptedArgs int
}

// run is the priority sequence walked by one dispatch call, plus its position.
// snapshot keeps the sequence as it was when the call started.
type run struct {
	snapshot   []int
	priorities []int
	pos        int
}

// skip removes priority from the part of the sequence not yet visited.
func (rn *run) skip(priority int) {
	for i := rn.pos + 1; i < len(rn.priorities); i++ {
		if rn.priorities[i] == priority {
			rn.priorities = slices.Delete(rn.priorities, i, i+1)
			return
		}
	}
}

// restore puts a skipped priority of the starting sequence back, provided the run
// has not reached it yet.
func (rn *run) restore(priority int) {
	if _, found := slices.BinarySearch(rn.snapshot, priority); !found {
		return
	}
	if rn.pos >= len(rn.priorities) || rn.priorities[rn.pos] >= priority {
		return
	}
	ahead := rn.priorities[rn.pos+1:]
	i, found := slices.BinarySearch(ahead, priority)
	if found {
		return
	}
	rn.priorities = slices.Insert(rn.priorities, rn.pos+1+i, priority)
}

// Registry holds the subscribers of one event name, grouped in priority buckets.
//
// priorities always lists exactly the priorities that have a non-empty bucket, in
// ascending order. runs holds one entry per in-progress dispatch on this registry so
// that nested dispatches walk independently of each other.
type Registry struct {
	name       string
	priorities []int
	buckets    map[int][]*entry
	nesting    int
	runs       []*run
	logger     zerolog.Logger
}

// NewRegistry creates an empty registry for the named event.
func NewRegistry(name string, logger zerolog.Logger) *Registry {
	return &Registry{
		name:    name,
		buckets: make(map[int][]*entry),
		logger:  logger,
	}
}

// Name returns the event name the registry was created for.
func (r *Registry) Name() string {
	return r.name
}

// Register subscribes target at priority. Registering a key that already exists at
// that priority only updates its accepted argument count; its position is kept.
// A nil target is ignored.
//
// Refilling a priority that was emptied during a dispatch makes it visible again to
// every in-progress run that started with it and has not reached it yet.
func (r *Registry) Register(target Target, priority, acceptedArgs int) {
	if target == nil {
		r.logger.Warn().Str("hook", r.name).Int("priority", priority).Msg("Ignoring registration of nil target")
		return
	}
	key := target.Key()

	bucket, exists := r.buckets[priority]
	if !exists {
		idx, _ := slices.BinarySearch(r.priorities, priority)
		r.priorities = slices.Insert(r.priorities, idx, priority)
		for _, rn := range r.runs {
			rn.restore(priority)
		}
	}

	for _, e := range bucket {
		if e.key == key {
			e.acceptedArgs = acceptedArgs
			return
		}
	}

	r.buckets[priority] = append(bucket, &entry{
		key:          key,
		target:       target,
		acceptedArgs: acceptedArgs,
	})
}

// Unregister removes the subscription with key at priority and reports whether it existed.
func (r *Registry) Unregister(key string, priority int) bool {
	bucket, ok := r.buckets[priority]
	if !ok {
		return false
	}

	i := slices.IndexFunc(bucket, func(e *entry) bool { return e.key == key })
	if i < 0 {
		return false
	}

	bucket = slices.Delete(bucket, i, i+1)
	if len(bucket) == 0 {
		r.prune(priority)
		return true
	}
	r.buckets[priority] = bucket
	return true
}

// UnregisterAll removes every subscription.
func (r *Registry) UnregisterAll() {
	for _, priority := range slices.Clone(r.priorities) {
		r.prune(priority)
	}
}

// UnregisterPriority removes every subscription at priority.
func (r *Registry) UnregisterPriority(priority int) {
	if _, ok := r.buckets[priority]; ok {
		r.prune(priority)
	}
}

// prune drops an emptied bucket. In-progress runs that have not reached the
// priority yet will not visit it; the position a run is executing is left alone.
func (r *Registry) prune(priority int) {
	delete(r.buckets, priority)
	if i, found := slices.BinarySearch(r.priorities, priority); found {
		r.priorities = slices.Delete(r.priorities, i, i+1)
	}

	if r.nesting == 0 {
		return
	}
	for _, rn := range r.runs {
		rn.skip(priority)
	}
}

// Has reports whether the registry holds any subscription.
func (r *Registry) Has() bool {
	return len(r.priorities) > 0
}

// Priority returns the lowest priority at which key is subscribed.
func (r *Registry) Priority(key string) (int, bool) {
	for _, priority := range r.priorities {
		for _, e := range r.buckets[priority] {
			if e.key == key {
				return priority, true
			}
		}
	}
	return 0, false
}

// Priorities returns the active priorities in ascending order.
func (r *Registry) Priorities() []int {
	return slices.Clone(r.priorities)
}

// Entries returns the subscriptions at priority in execution order.
func (r *Registry) Entries(priority int) []Entry {
	bucket := r.buckets[priority]
	out := make([]Entry, 0, len(bucket))
	for _, e := range bucket {
		out = append(out, Entry{Key: e.key, Target: e.target, AcceptedArgs: e.acceptedArgs})
	}
	return out
}

// Len returns the number of subscriptions across all priorities.
func (r *Registry) Len() int {
	n := 0
	for _, bucket := range r.buckets {
		n += len(bucket)
	}
	return n
}

// NestingLevel returns the number of dispatch calls in progress on the registry.
func (r *Registry) NestingLevel() int {
	return r.nesting
}

// ApplyFilters threads value through every subscriber and returns the result.
// args follow value in the argument list each subscriber receives.
func (r *Registry) ApplyFilters(value any, args ...any) any {
	return r.dispatch(modeFilter, append([]any{value}, args...))
}

// DoAction invokes every subscriber with args.
func (r *Registry) DoAction(args ...any) {
	r.dispatch(modeAction, args)
}

// dispatch walks the registry once. In filter mode args[0] is the value being threaded.
//
// The priority sequence is copied once per call, but each bucket is copied only when
// its priority is reached. A subscriber that removes and re-adds itself therefore still
// runs once in this pass, while nested dispatches see the live registry.
func (r *Registry) dispatch(m mode, args []any) any {
	var value any
	if m == modeFilter {
		args = slices.Clone(args)
		value = args[0]
	}
	if len(r.priorities) == 0 {
		return value
	}

	level := r.nesting
	rn := &run{snapshot: slices.Clone(r.priorities), priorities: slices.Clone(r.priorities)}
	r.nesting++
	r.runs = append(r.runs, rn)
	defer func() {
		r.runs = r.runs[:level]
		r.nesting = level
	}()

	for ; rn.pos < len(rn.priorities); rn.pos++ {
		priority := rn.priorities[rn.pos]
		bucket := slices.Clone(r.buckets[priority])

		for _, e := range bucket {
			fn, ok := e.target.Resolve()
			if !ok {
				r.logger.Warn().
					Str("hook", r.name).
					Str("key", e.key).
					Int("priority", priority).
					Str("expected", callbackShape).
					Msg("Subscriber is not a valid callback, skipping")
				continue
			}

			if m == modeFilter {
				args[0] = value
			}
			out := fn(truncate(args, e.acceptedArgs)...)
			if m == modeFilter {
				value = out
			}
		}
	}

	return value
}

// truncate copies at most accepted leading arguments.
func truncate(args []any, accepted int) []any {
	n := min(max(accepted, 0), len(args))
	out := make([]any, n)
	copy(out, args)
	return out
}
