// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package appctx

import (
	"context"

	"github.com/vulntor/hooks/pkg/config"
	"github.com/vulntor/hooks/pkg/hook"
)

type key string

const (
	configKey key = "hookctl.config.manager"
	tableKey  key = "hookctl.hook.table"
)

// WithConfig stores the shared config manager on context.
func WithConfig(ctx context.Context, manager *config.Manager) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey, manager)
}

// Config retrieves the shared config manager from context.
func Config(ctx context.Context) (*config.Manager, bool) {
	if ctx == nil {
		return nil, false
	}
	mgr, ok := ctx.Value(configKey).(*config.Manager)
	return mgr, ok && mgr != nil
}

// WithTable stores the hook table commands fire against.
func WithTable(ctx context.Context, table *hook.Table) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, tableKey, table)
}

// Table retrieves the hook table from context.
func Table(ctx context.Context) (*hook.Table, bool) {
	if ctx == nil {
		return nil, false
	}
	t, ok := ctx.Value(tableKey).(*hook.Table)
	return t, ok && t != nil
}
