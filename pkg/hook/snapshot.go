// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package hook

import "slices"

// Snapshot is the bulk form of a Table: event name -> priority -> ordered subscriptions.
type Snapshot map[string]map[int][]SnapshotEntry

// SnapshotEntry is one subscription in a Snapshot. An empty Key falls back to Target.Key().
type SnapshotEntry struct {
	Key          string
	Target       Target
	AcceptedArgs int
}

// ExportSnapshot returns every subscription of the table.
func (t *Table) ExportSnapshot() Snapshot {
	snap := make(Snapshot, len(t.registries))
	for name, r := range t.registries {
		if !r.Has() {
			continue
		}
		byPriority := make(map[int][]SnapshotEntry, len(r.priorities))
		for _, priority := range r.priorities {
			bucket := r.buckets[priority]
			entries := make([]SnapshotEntry, 0, len(bucket))
			for _, e := range bucket {
				entries = append(entries, SnapshotEntry{Key: e.key, Target: e.target, AcceptedArgs: e.acceptedArgs})
			}
			byPriority[priority] = entries
		}
		snap[name] = byPriority
	}
	return snap
}

// BuildFromSnapshot creates a table holding every subscription of snap.
//
// Registries are populated directly instead of going through Register. A key listed
// twice in one bucket keeps its first position and its last accepted argument count.
func BuildFromSnapshot(snap Snapshot, opts ...TableOption) *Table {
	t := NewTable(opts...)

	for name, byPriority := range snap {
		r := NewRegistry(name, t.logger)

		for priority, entries := range byPriority {
			bucket := make([]*entry, 0, len(entries))
			seen := make(map[string]*entry, len(entries))

			for _, se := range entries {
				if se.Target == nil {
					continue
				}
				key := se.Key
				if key == "" {
					key = se.Target.Key()
				}
				if e, dup := seen[key]; dup {
					e.acceptedArgs = se.AcceptedArgs
					continue
				}
				e := &entry{key: key, target: se.Target, acceptedArgs: se.AcceptedArgs}
				seen[key] = e
				bucket = append(bucket, e)
			}

			if len(bucket) == 0 {
				continue
			}
			r.buckets[priority] = bucket
			r.priorities = append(r.priorities, priority)
		}

		if len(r.priorities) == 0 {
			continue
		}
		slices.Sort(r.priorities)
		t.registries[name] = r
	}

	return t
}
