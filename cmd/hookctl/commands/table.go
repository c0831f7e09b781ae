// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vulntor/hooks/cmd/hookctl/internal/format"
	"github.com/vulntor/hooks/pkg/appctx"
	"github.com/vulntor/hooks/pkg/config"
	"github.com/vulntor/hooks/pkg/hook"
	"github.com/vulntor/hooks/pkg/manifest"
	"github.com/vulntor/hooks/pkg/textfilters"
)

// hooksConfig returns the hooks section of the configuration stored on ctx.
func hooksConfig(ctx context.Context) config.HooksConfig {
	if mgr, ok := appctx.Config(ctx); ok {
		return mgr.Get().Hooks
	}
	return config.DefaultConfig().Hooks
}

// manifestPath picks the manifest from the positional arguments, falling back to configuration.
func manifestPath(ctx context.Context, args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return hooksConfig(ctx).Manifest
}

// loadManifest loads path and checks its callbacks against catalog. Unknown callbacks
// fail in strict mode and are reported as a warning otherwise.
func loadManifest(ctx context.Context, f format.Formatter, path string, catalog *hook.Catalog) (*manifest.Manifest, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}

	if err := m.CheckCallbacks(catalog); err != nil {
		if hooksConfig(ctx).Strict {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		unknown := m.UnknownCallbacks(catalog)
		log.Warn().Str("manifest", path).Strs("callbacks", unknown).Msg("Manifest references unknown callbacks")
		_ = f.PrintWarning(fmt.Sprintf("%s references unknown callbacks: %s", path, strings.Join(unknown, ", ")))
	}
	return m, nil
}

// buildTable creates the hook table for m and stores it on ctx.
func buildTable(ctx context.Context, m *manifest.Manifest, catalog *hook.Catalog) (context.Context, *hook.Table) {
	table := m.Build(catalog, hook.WithLogger(log.Logger.With().Str("component", "hook").Logger()))
	return appctx.WithTable(ctx, table), table
}

// defaultCatalog is the callback catalog manifests are resolved against.
func defaultCatalog() *hook.Catalog {
	return textfilters.Catalog()
}
