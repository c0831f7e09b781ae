// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vulntor/hooks/cmd/hookctl/internal/format"
	"github.com/vulntor/hooks/pkg/appctx"
	"github.com/vulntor/hooks/pkg/config"
	"github.com/vulntor/hooks/pkg/logging"
	"github.com/vulntor/hooks/pkg/paths"
)

const cliExecutable = "hookctl"

// NewCommand constructs the top-level hookctl command, wiring global flags,
// configuration loading and logging.
func NewCommand() *cobra.Command {
	var (
		configFile     string
		verbosityCount int
		logFile        *os.File
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "Inspect, validate and fire hook manifests",
		Long: `hookctl loads hook manifests (YAML or JSON files mapping event names to
prioritized callbacks), builds a hook table from them and fires events against it.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if output, _ := cmd.Flags().GetString("output"); output != "" {
				if err := format.ValidateMode(output); err != nil {
					return err
				}
			}

			if configFile == "" {
				configFile = paths.DefaultConfigFile()
			}
			mgr := config.NewManager()
			if err := mgr.Load(cmd.Flags(), configFile); err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			cfg := mgr.Get()

			debug, _ := cmd.Flags().GetBool("debug")
			f, err := configureLogging(cmd.ErrOrStderr(), cfg.Log, verbosityCount, debug)
			if err != nil {
				return err
			}
			logFile = f

			log.Debug().
				Str("config", configFile).
				Str("manifest", cfg.Hooks.Manifest).
				Bool("strict", cfg.Hooks.Strict).
				Msg("Configuration loaded")

			ctx := appctx.WithConfig(cmd.Context(), mgr)
			cmd.SetContext(ctx)
			if root := cmd.Root(); root != nil && root != cmd {
				root.SetContext(ctx)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logFile != nil {
				return logFile.Close()
			}
			return nil
		},
	}

	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path (default $XDG_CONFIG_HOME/hookctl/config.yaml)")
	cmd.PersistentFlags().CountVarP(&verbosityCount, "verbosity", "v", "Increase logging verbosity (repeatable)")
	cmd.PersistentFlags().StringP("output", "o", string(format.ModeTable), "Output format: table | json")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress summaries")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddGroup(&cobra.Group{ID: "manifest", Title: "Manifest Commands"})

	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newInspectCommand())
	cmd.AddCommand(newFireCommand())
	cmd.AddCommand(newExportCommand())
	cmd.AddCommand(newWatchCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// configureLogging points the global logger at w, or at the configured log file.
// The returned file, if any, must be closed by the caller.
//
// -v and --debug only ever raise verbosity above the configured level.
func configureLogging(w io.Writer, cfg config.LogConfig, verbosity int, debug bool) (*os.File, error) {
	level := logging.ParseLevel(cfg.Level)
	if verbosity > 0 || debug {
		level = min(level, logging.LevelFromVerbosity(verbosity, debug))
	}

	var file *os.File
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		w = f
	}

	if cfg.Format == "json" {
		logging.SetLogWriter(w)
	} else {
		logging.SetLogWriter(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    file != nil,
		})
	}
	logging.ConfigureGlobal(level)
	return file, nil
}
