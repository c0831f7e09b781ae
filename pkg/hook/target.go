// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package hook

import (
	"fmt"
	"reflect"
	"sync"
	"weak"

	"github.com/google/uuid"
)

// Callback is the invocable shape every subscriber resolves to.
// Filters return the transformed value; the return value of actions is discarded.
type Callback func(args ...any) any

// callbackShape is reported in developer warnings for targets that cannot be invoked.
const callbackShape = "func(args ...any) any"

// Target is a subscriber reference.
//
// Key identifies the subscription: registering two targets with the same key at the same
// priority yields a single subscription. Resolve is evaluated at dispatch time only, so a
// target may be valid during one dispatch and invalid during the next.
type Target interface {
	Key() string
	Resolve() (Callback, bool)
}

type funcTarget struct {
	name string
	fn   Callback
}

// Func returns a target for a named function. The name is the identity key.
func Func(name string, fn Callback) Target {
	return funcTarget{name: name, fn: fn}
}

func (t funcTarget) Key() string { return t.name }

func (t funcTarget) Resolve() (Callback, bool) {
	return t.fn, t.fn != nil
}

type methodTarget struct {
	recv   any
	method string
	key    string
}

// Method returns a target bound to the named exported method of recv. The method must
// have the Callback signature; this is checked on every dispatch.
//
// Two different instances sharing a method are distinct subscriptions, the same instance
// and method deduplicate. Pointer receivers get a stable instance id on first use;
// non-pointer receivers are identified by their type.
func Method(recv any, method string) Target {
	return methodTarget{
		recv:   recv,
		method: method,
		key:    instanceID(recv) + "::" + method,
	}
}

func (t methodTarget) Key() string { return t.key }

func (t methodTarget) Resolve() (Callback, bool) {
	if t.recv == nil {
		return nil, false
	}
	m := reflect.ValueOf(t.recv).MethodByName(t.method)
	if !m.IsValid() {
		return nil, false
	}
	fn, ok := m.Interface().(func(...any) any)
	if !ok {
		return nil, false
	}
	return fn, true
}

type refTarget struct {
	catalog *Catalog
	name    string
}

// Ref returns a target resolved by name against catalog at dispatch time.
// The name is the identity key.
func Ref(catalog *Catalog, name string) Target {
	return refTarget{catalog: catalog, name: name}
}

func (t refTarget) Key() string { return t.name }

func (t refTarget) Resolve() (Callback, bool) {
	if t.catalog == nil {
		return nil, false
	}
	return t.catalog.Lookup(t.name)
}

// instances is the side table assigning ids to receiver instances. Keys are weak so a
// receiver is not kept alive by having been passed to Method; ids of collected receivers
// are swept once the table has doubled since the last sweep.
var instances = struct {
	sync.Mutex
	ids   map[weak.Pointer[byte]]string
	sweep int
}{ids: make(map[weak.Pointer[byte]]string), sweep: minInstanceSweep}

const minInstanceSweep = 64

func instanceID(recv any) string {
	if recv == nil {
		return "<nil>"
	}
	v := reflect.ValueOf(recv)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Sprintf("%T", recv)
	}
	key := instanceKey(v)

	instances.Lock()
	defer instances.Unlock()

	if id, ok := instances.ids[key]; ok {
		return id
	}
	if len(instances.ids) >= instances.sweep {
		sweepInstances()
		instances.sweep = max(minInstanceSweep, 2*len(instances.ids))
	}
	id := uuid.NewString()
	instances.ids[key] = id
	return id
}

func instanceKey(v reflect.Value) weak.Pointer[byte] {
	return weak.Make((*byte)(v.UnsafePointer()))
}

// sweepInstances drops the ids of collected receivers. Callers hold the lock.
func sweepInstances() {
	for key := range instances.ids {
		if key.Value() == nil {
			delete(instances.ids, key)
		}
	}
}
