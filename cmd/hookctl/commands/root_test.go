// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulntor/hooks/pkg/config"
	"github.com/vulntor/hooks/pkg/manifest"
)

const titleManifest = `version: 1.0.0
hooks:
  the_title:
    10:
      - callback: trim
    20:
      - callback: upper
    30:
      - callback: suffix
        accepted_args: 2
`

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := NewCommand()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "hookctl version: dev\n", out)
}

func TestRootCommand_RejectsUnknownOutputMode(t *testing.T) {
	_, _, err := execute(t, "version", "--output", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output mode")
}

func TestRootCommand_ExplicitConfigMustExist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	_, _, err := execute(t, "version", "--config", missing)
	require.ErrorIs(t, err, config.ErrConfigNotFound)
}

func TestValidateCommand(t *testing.T) {
	path := writeManifest(t, "hooks.yaml", titleManifest)

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid (version 1.0.0, 1 events, 3 subscriptions)")
}

func TestValidateCommand_UsesConfiguredManifest(t *testing.T) {
	path := writeManifest(t, "site.json", `{"version":"1.0.0","hooks":{"e":{"5":[{"callback":"lower"}]}}}`)

	out, _, err := execute(t, "validate", "--hooks.manifest", path, "--output", "json")
	require.NoError(t, err)

	var result validateResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Valid)
	assert.Equal(t, path, result.Manifest)
	assert.Equal(t, 1, result.Subscriptions)
}

func TestValidateCommand_Errors(t *testing.T) {
	_, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, manifest.ErrManifestNotFound)
	assert.Equal(t, 4, manifest.ExitCode(err))

	invalid := writeManifest(t, "hooks.yaml", "version: 2.0.0\nhooks: {}\n")
	_, _, err = execute(t, "validate", invalid)
	require.ErrorIs(t, err, manifest.ErrUnsupportedVersion)
	assert.Equal(t, 2, manifest.ExitCode(err))
}

func TestValidateCommand_UnknownCallbacks(t *testing.T) {
	path := writeManifest(t, "hooks.yaml", "version: 1.0.0\nhooks:\n  e:\n    10:\n      - callback: shout\n")

	_, stderr, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "references unknown callbacks: shout")

	_, _, err = execute(t, "validate", path, "--hooks.strict")
	require.ErrorIs(t, err, manifest.ErrUnknownCallback)
}

func TestFireCommand_Filter(t *testing.T) {
	path := writeManifest(t, "hooks.yaml", titleManifest)

	out, _, err := execute(t, "fire", "-m", path, "the_title", "  hello ", "!")
	require.NoError(t, err)
	assert.Equal(t, "the_title => HELLO!\n", out)
}

func TestFireCommand_JSONWithStats(t *testing.T) {
	path := writeManifest(t, "hooks.yaml", titleManifest)

	out, _, err := execute(t, "fire", "-m", path, "--stats", "--output", "json", "the_title", "x")
	require.NoError(t, err)

	var result fireResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "filter", result.Mode)
	assert.Equal(t, "X", result.Result)
	assert.Equal(t, 1, result.CallCount)
	assert.Equal(t, map[string]int{"the_title": 1}, result.Fired)
}

func TestFireCommand_ActionAndUnsubscribedEvent(t *testing.T) {
	path := writeManifest(t, "hooks.yaml", titleManifest)

	out, _, err := execute(t, "fire", "-m", path, "--action", "nothing_here", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "nothing_here fired (action)\n", out)
}

func TestFireCommand_Deprecated(t *testing.T) {
	path := writeManifest(t, "hooks.yaml", titleManifest)

	out, stderr, err := execute(t, "fire", "-m", path, "--deprecated", "1.2.0", "--replacement", "document_title", "the_title", "t")
	require.NoError(t, err)
	assert.Equal(t, "the_title => T\n", out)
	assert.Contains(t, stderr, "Hook is deprecated")
}

func TestInspectCommand_JSON(t *testing.T) {
	path := writeManifest(t, "hooks.yaml", titleManifest+"  broken:\n    1:\n      - callback: missing\n")

	out, _, err := execute(t, "inspect", path, "--output", "json")
	require.NoError(t, err)

	var events []inspectEvent
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	require.Len(t, events, 2)

	assert.Equal(t, "broken", events[0].Event)
	assert.False(t, events[0].Subscriptions[0].Resolved)

	assert.Equal(t, "the_title", events[1].Event)
	require.Len(t, events[1].Subscriptions, 3)
	assert.Equal(t, inspectEntry{Priority: 30, Callback: "suffix", AcceptedArgs: 2, Resolved: true}, events[1].Subscriptions[2])
}

func TestInspectCommand_Table(t *testing.T) {
	path := writeManifest(t, "hooks.yaml", titleManifest)

	out, _, err := execute(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "the_title (3 subscriptions)")
	assert.Contains(t, out, "PRIORITY")
	assert.Contains(t, out, "suffix")
}

func TestExportCommand_ConvertsFormat(t *testing.T) {
	src := writeManifest(t, "hooks.yaml", titleManifest)
	dst := filepath.Join(t.TempDir(), "hooks.json")

	out, _, err := execute(t, "export", "-m", src, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 subscriptions")

	exported, err := manifest.Load(dst)
	require.NoError(t, err)
	original, err := manifest.Load(src)
	require.NoError(t, err)
	assert.Equal(t, original.Build(defaultCatalog()).FireFilter("the_title", " a ", "?"),
		exported.Build(defaultCatalog()).FireFilter("the_title", " a ", "?"))
}
