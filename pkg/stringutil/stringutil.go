// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package stringutil provides utility functions for string manipulation.
package stringutil

import (
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

// Ellipsis shortens s to at most maxLength runes, ending it with "..." when cut.
//
// s is first flattened to a single line. A maxLength of 3 or less leaves no room
// for the marker, so s is cut without it. A negative maxLength yields "".
func Ellipsis(s string, maxLength int) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")

	if maxLength < 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	runes := []rune(s)
	if maxLength <= len(ellipsis) {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-len(ellipsis)]) + ellipsis
}
