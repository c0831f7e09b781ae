// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vulntor/hooks/cmd/hookctl/internal/format"
	"github.com/vulntor/hooks/pkg/hook"
)

type inspectEntry struct {
	Priority     int    `json:"priority"`
	Callback     string `json:"callback"`
	AcceptedArgs int    `json:"accepted_args"`
	Resolved     bool   `json:"resolved"`
}

type inspectEvent struct {
	Event         string         `json:"event"`
	Subscriptions []inspectEntry `json:"subscriptions"`
}

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "inspect [manifest]",
		Short:   "Show the hook table built from a manifest",
		GroupID: "manifest",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := format.FromCommand(cmd)
			catalog := defaultCatalog()

			m, err := loadManifest(cmd.Context(), f, manifestPath(cmd.Context(), args), catalog)
			if err != nil {
				return err
			}
			ctx, table := buildTable(cmd.Context(), m, catalog)
			cmd.SetContext(ctx)

			events := describeTable(table)
			if f.IsJSON() {
				return f.PrintJSON(events)
			}

			for i, ev := range events {
				if i > 0 {
					if _, err := fmt.Fprintln(cmd.OutOrStdout()); err != nil {
						return err
					}
				}
				if err := f.PrintTitle(ev.Event, fmt.Sprintf("(%d subscriptions)", len(ev.Subscriptions))); err != nil {
					return err
				}
				rows := make([][]string, 0, len(ev.Subscriptions))
				for _, s := range ev.Subscriptions {
					status := "ok"
					if !s.Resolved {
						status = "unknown"
					}
					rows = append(rows, []string{strconv.Itoa(s.Priority), s.Callback, strconv.Itoa(s.AcceptedArgs), status})
				}
				if err := f.PrintTable([]string{"priority", "callback", "accepted_args", "status"}, rows); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// describeTable lists every subscription of table in execution order.
func describeTable(table *hook.Table) []inspectEvent {
	var events []inspectEvent
	for _, name := range table.Events() {
		r, _ := table.Registry(name)
		ev := inspectEvent{Event: name}
		for _, priority := range r.Priorities() {
			for _, e := range r.Entries(priority) {
				_, resolved := e.Target.Resolve()
				ev.Subscriptions = append(ev.Subscriptions, inspectEntry{
					Priority:     priority,
					Callback:     e.Key,
					AcceptedArgs: e.AcceptedArgs,
					Resolved:     resolved,
				})
			}
		}
		events = append(events, ev)
	}
	return events
}
