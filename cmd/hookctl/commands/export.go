// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vulntor/hooks/cmd/hookctl/internal/format"
	"github.com/vulntor/hooks/pkg/manifest"
)

func newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <out>",
		Short: "Write the manifest's hook table to another manifest file",
		Long: `Export builds the hook table from the manifest given with --hooks.manifest, exports
it again and saves it to <out>. The format follows the extension of <out>, so the
command also converts between YAML and JSON. Duplicate subscriptions are merged
the same way the table merges them.`,
		GroupID: "manifest",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := format.FromCommand(cmd)
			catalog := defaultCatalog()
			src := manifestPath(cmd.Context(), nil)

			m, err := loadManifest(cmd.Context(), f, src, catalog)
			if err != nil {
				return err
			}
			ctx, table := buildTable(cmd.Context(), m, catalog)
			cmd.SetContext(ctx)

			out := manifest.FromSnapshot(table.ExportSnapshot())
			if err := manifest.Save(args[0], out); err != nil {
				return err
			}

			if f.IsJSON() {
				return f.PrintJSON(map[string]any{
					"success":       true,
					"source":        src,
					"output":        args[0],
					"events":        len(out.Hooks),
					"subscriptions": out.Len(),
				})
			}
			return f.PrintSummary(fmt.Sprintf("✓ Exported %d subscriptions from %s to %s", out.Len(), src, args[0]))
		},
	}
}
