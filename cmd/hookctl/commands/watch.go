// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vulntor/hooks/cmd/hookctl/internal/format"
	"github.com/vulntor/hooks/pkg/hook"
	"github.com/vulntor/hooks/pkg/manifest"
)

func newWatchCommand() *cobra.Command {
	var (
		event string
		value string
	)

	cmd := &cobra.Command{
		Use:   "watch [manifest]",
		Short: "Rebuild the hook table whenever the manifest changes",
		Long: `Watch loads the manifest and rebuilds the hook table every time the file changes.
With --fire the event is fired as a filter on each rebuild and the result printed.
Invalid revisions are reported and the previous table stays in use.`,
		GroupID: "manifest",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := format.FromCommand(cmd)
			catalog := defaultCatalog()
			path := manifestPath(cmd.Context(), args)

			report := func(m *manifest.Manifest) {
				_, table := buildTable(cmd.Context(), m, catalog)
				_ = printWatchState(f, path, m, table, event, value)
			}

			m, err := loadManifest(cmd.Context(), f, path, catalog)
			if err != nil {
				return err
			}
			report(m)

			w, err := manifest.NewWatcher(path, report,
				manifest.WithDebounce(hooksConfig(cmd.Context()).Debounce),
				manifest.WithWatcherLogger(log.Logger),
				manifest.WithErrorHandler(func(err error) { _ = f.PrintError(err) }),
			)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&event, "fire", "", "Event to fire as a filter after every reload")
	cmd.Flags().StringVar(&value, "value", "", "Value passed to --fire")

	return cmd
}

func printWatchState(f format.Formatter, path string, m *manifest.Manifest, table *hook.Table, event, value string) error {
	state := map[string]any{
		"manifest":      path,
		"events":        table.Events(),
		"subscriptions": m.Len(),
	}
	if event != "" {
		state["result"] = table.FireFilter(event, value)
	}

	if f.IsJSON() {
		return f.PrintJSON(state)
	}
	msg := fmt.Sprintf("Loaded %s: %d events, %d subscriptions", path, len(table.Events()), m.Len())
	if event != "" {
		msg += fmt.Sprintf("; %s => %v", event, state["result"])
	}
	return f.PrintSummary(msg)
}
