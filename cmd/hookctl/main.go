// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package main

import (
	"os"

	"github.com/vulntor/hooks/cmd/hookctl/commands"
	"github.com/vulntor/hooks/pkg/manifest"
)

func main() {
	if err := commands.NewCommand().Execute(); err != nil {
		os.Exit(manifest.ExitCode(err))
	}
}
