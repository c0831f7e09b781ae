// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEllipsis(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxLength int
		want      string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"truncated with marker", "hello world", 8, "hello..."},
		{"no room for marker", "hello", 3, "hel"},
		{"zero length", "hello", 0, ""},
		{"negative length", "hello", -1, ""},
		{"trims and flattens lines", "  line one\r\nline two  ", 100, "line one line two"},
		{"counts runes", "ğüşöçı world", 7, "ğüşö..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ellipsis(tt.input, tt.maxLength))
		})
	}
}
