// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vulntor/hooks/cmd/hookctl/internal/format"
	v "github.com/vulntor/hooks/pkg/version"
)

func newVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := format.FromCommand(cmd)
			info := v.Get()
			if f.IsJSON() {
				return f.PrintJSON(info)
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "%s version: %s\n", cliExecutable, info.Version); err != nil {
				return err
			}
			if short {
				return nil
			}
			if _, err := fmt.Fprintf(out, "Commit: %s\nBuild Date: %s\n", info.Commit, info.BuildDate); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")

	return cmd
}
