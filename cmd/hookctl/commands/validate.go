// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vulntor/hooks/cmd/hookctl/internal/format"
)

type validateResult struct {
	Manifest      string   `json:"manifest"`
	Valid         bool     `json:"valid"`
	Version       string   `json:"version"`
	Events        int      `json:"events"`
	Subscriptions int      `json:"subscriptions"`
	Unknown       []string `json:"unknown_callbacks,omitempty"`
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "validate [manifest]",
		Short:   "Validate a hook manifest",
		GroupID: "manifest",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := format.FromCommand(cmd)
			path := manifestPath(cmd.Context(), args)
			catalog := defaultCatalog()

			m, err := loadManifest(cmd.Context(), f, path, catalog)
			if err != nil {
				return err
			}

			result := validateResult{
				Manifest:      path,
				Valid:         true,
				Version:       m.Version,
				Events:        len(m.Hooks),
				Subscriptions: m.Len(),
				Unknown:       m.UnknownCallbacks(catalog),
			}
			if f.IsJSON() {
				return f.PrintJSON(result)
			}
			return f.PrintSummary(fmt.Sprintf("✓ %s is valid (version %s, %d events, %d subscriptions)",
				path, result.Version, result.Events, result.Subscriptions))
		},
	}
}
