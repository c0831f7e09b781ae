// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/vulntor/hooks/cmd/hookctl/internal/format"
	"github.com/vulntor/hooks/pkg/hook"
	"github.com/vulntor/hooks/pkg/hookmetrics"
)

type fireOptions struct {
	action      bool
	stats       bool
	deprecated  string
	replacement string
}

type fireResult struct {
	Event     string         `json:"event"`
	Mode      string         `json:"mode"`
	Result    any            `json:"result"`
	CallCount int            `json:"call_count"`
	Fired     map[string]int `json:"fired,omitempty"`
}

func newFireCommand() *cobra.Command {
	var opts fireOptions

	cmd := &cobra.Command{
		Use:   "fire <event> [value] [args...]",
		Short: "Fire an event against the manifest's hook table",
		Long: `Fire builds the hook table from the manifest given with --hooks.manifest and fires
<event> once. As a filter (the default) the value is threaded through every
subscriber and the result is printed. With --action every argument is passed to
the subscribers and return values are discarded.`,
		GroupID: "manifest",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := format.FromCommand(cmd)
			catalog := defaultCatalog()

			m, err := loadManifest(cmd.Context(), f, manifestPath(cmd.Context(), nil), catalog)
			if err != nil {
				return err
			}
			ctx, table := buildTable(cmd.Context(), m, catalog)
			cmd.SetContext(ctx)

			var metrics *hookmetrics.Metrics
			reg := prometheus.NewRegistry()
			if opts.stats {
				if metrics, err = hookmetrics.New(reg); err != nil {
					return fmt.Errorf("register metrics: %w", err)
				}
				metrics.Attach(table)
				defer metrics.Detach()
			}

			result := fire(table, args[0], args[1:], opts)

			if opts.stats {
				fired, err := gatherFired(reg)
				if err != nil {
					return err
				}
				result.Fired = fired
			}

			if f.IsJSON() {
				return f.PrintJSON(result)
			}
			return printFireResult(f, result)
		},
	}

	cmd.Flags().BoolVar(&opts.action, "action", false, "Fire as an action instead of a filter")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "Report every event fired, including nested fires")
	cmd.Flags().StringVar(&opts.deprecated, "deprecated", "", "Fire as deprecated since the given version")
	cmd.Flags().StringVar(&opts.replacement, "replacement", "", "Replacement event reported for --deprecated")

	return cmd
}

func fire(table *hook.Table, event string, rest []string, opts fireOptions) fireResult {
	args := make([]any, len(rest))
	for i, a := range rest {
		args[i] = a
	}

	result := fireResult{Event: event, Mode: "filter"}
	deprecation := hook.Deprecation{Version: opts.deprecated, Replacement: opts.replacement}

	switch {
	case opts.action && opts.deprecated != "":
		result.Mode = "action"
		table.FireActionDeprecated(event, deprecation, args...)
	case opts.action:
		result.Mode = "action"
		table.FireAction(event, args...)
	default:
		var value any = ""
		if len(args) > 0 {
			value, args = args[0], args[1:]
		}
		if opts.deprecated != "" {
			result.Result = table.FireFilterDeprecated(event, deprecation, value, args...)
		} else {
			result.Result = table.FireFilter(event, value, args...)
		}
	}

	result.CallCount = table.CallCount(event)
	return result
}

// gatherFired reads hooks_fired_total from reg.
func gatherFired(reg prometheus.Gatherer) (map[string]int, error) {
	families, err := reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	fired := make(map[string]int)
	for _, mf := range families {
		if mf.GetName() != "hooks_fired_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "event" {
					fired[label.GetValue()] = int(metric.GetCounter().GetValue())
				}
			}
		}
	}
	return fired, nil
}

func printFireResult(f format.Formatter, result fireResult) error {
	if result.Mode == "filter" {
		if err := f.PrintSummary(fmt.Sprintf("%s => %s", result.Event, cast.ToString(result.Result))); err != nil {
			return err
		}
	} else {
		if err := f.PrintSummary(fmt.Sprintf("%s fired (action)", result.Event)); err != nil {
			return err
		}
	}

	if len(result.Fired) == 0 {
		return nil
	}
	events := make([]string, 0, len(result.Fired))
	for name := range result.Fired {
		events = append(events, name)
	}
	sort.Strings(events)
	rows := make([][]string, 0, len(events))
	for _, name := range events {
		rows = append(rows, []string{name, strconv.Itoa(result.Fired[name])})
	}
	return f.PrintTable([]string{"event", "fired"}, rows)
}
