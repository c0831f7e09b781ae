// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package manifest

import "errors"

var (
	// ErrInvalidManifest is returned when a manifest fails validation.
	// CLI exit code: 2
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrUnsupportedVersion is returned when the manifest version is not a 1.x semantic version.
	// CLI exit code: 2
	ErrUnsupportedVersion = errors.New("unsupported manifest version")

	// ErrUnsupportedFormat is returned for manifest paths that are neither YAML nor JSON.
	// CLI exit code: 2
	ErrUnsupportedFormat = errors.New("unsupported manifest format")

	// ErrUnknownCallback is returned in strict mode when a manifest names a callback
	// the catalog does not provide.
	// CLI exit code: 2
	ErrUnknownCallback = errors.New("unknown callback")

	// ErrManifestNotFound is returned when the manifest file does not exist.
	// CLI exit code: 4
	ErrManifestNotFound = errors.New("manifest not found")
)

// IsInvalidInput checks if err is caused by the manifest content or its path.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidManifest) ||
		errors.Is(err, ErrUnsupportedVersion) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrUnknownCallback)
}

// ExitCode returns the CLI exit code for err.
//   - 0: Success
//   - 1: General error (default)
//   - 2: Invalid manifest or usage
//   - 4: Manifest not found
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsInvalidInput(err):
		return 2
	case errors.Is(err, ErrManifestNotFound):
		return 4
	default:
		return 1
	}
}
