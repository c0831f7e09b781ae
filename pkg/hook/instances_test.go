// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package hook

import (
	"reflect"
	"runtime"
	"testing"
	"time"
	"weak"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type receiver struct {
	buf [256]byte
}

func (r *receiver) Run(args ...any) any { return nil }

func tracked(keys []weak.Pointer[byte]) int {
	instances.Lock()
	defer instances.Unlock()

	sweepInstances()
	n := 0
	for _, key := range keys {
		if _, ok := instances.ids[key]; ok {
			n++
		}
	}
	return n
}

func TestInstanceIDs_ReleaseCollectedReceivers(t *testing.T) {
	kept := &receiver{}
	keptKey := Method(kept, "Run").Key()

	keys := make([]weak.Pointer[byte], 0, 100)
	for range 100 {
		r := &receiver{}
		_ = Method(r, "Run")
		keys = append(keys, instanceKey(reflect.ValueOf(r)))
	}
	require.Eventually(t, func() bool {
		runtime.GC()
		return tracked(keys) < len(keys)
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, tracked([]weak.Pointer[byte]{instanceKey(reflect.ValueOf(kept))}))
	assert.Equal(t, keptKey, Method(kept, "Run").Key())
	runtime.KeepAlive(kept)
}

func TestInstanceIDs_LiveSubscriptionKeepsIdentity(t *testing.T) {
	tbl := NewTable()
	tbl.Register("e", Method(&receiver{}, "Run"), WithPriority(5))

	runtime.GC()
	instances.Lock()
	sweepInstances()
	instances.Unlock()

	r, ok := tbl.Registry("e")
	require.True(t, ok)
	entries := r.Entries(5)
	require.Len(t, entries, 1)
	assert.Equal(t, entries[0].Key, entries[0].Target.Key())
	assert.Equal(t, entries[0].Key, Method(entries[0].Target.(methodTarget).recv, "Run").Key())
}
