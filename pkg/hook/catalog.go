// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package hook

import "sort"

// Catalog maps callback names to functions. Targets created with Ref look their
// callback up here on every dispatch, which lets serialized subscriptions refer to code.
type Catalog struct {
	callbacks map[string]Callback
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{callbacks: make(map[string]Callback)}
}

// Add registers fn under name, replacing any previous callback with that name.
func (c *Catalog) Add(name string, fn Callback) {
	c.callbacks[name] = fn
}

// Remove deletes the callback registered under name.
func (c *Catalog) Remove(name string) {
	delete(c.callbacks, name)
}

// Lookup returns the callback registered under name.
func (c *Catalog) Lookup(name string) (Callback, bool) {
	fn, ok := c.callbacks[name]
	return fn, ok && fn != nil
}

// Names returns the registered callback names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.callbacks))
	for name := range c.callbacks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered callbacks.
func (c *Catalog) Len() int {
	return len(c.callbacks)
}
