// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package textfilters provides string callbacks for manifests and hookctl.
//
// Every callback converts its first argument to a string with spf13/cast, so a
// filter chain never panics on a value another callback produced. Parameterized
// filters (prefix, suffix, truncate, ellipsis) read their parameter from the second
// argument and need accepted_args of at least 2.
package textfilters

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vulntor/hooks/pkg/hook"
	"github.com/vulntor/hooks/pkg/stringutil"
)

var (
	spaceRun = regexp.MustCompile(`\s+`)
	tag      = regexp.MustCompile(`<[^>]*>`)
)

// Catalog returns a new catalog holding every built-in filter.
func Catalog() *hook.Catalog {
	c := hook.NewCatalog()
	Register(c)
	return c
}

// Register adds every built-in filter to c.
func Register(c *hook.Catalog) {
	c.Add("trim", Trim)
	c.Add("upper", Upper)
	c.Add("lower", Lower)
	c.Add("title", Title)
	c.Add("prefix", Prefix)
	c.Add("suffix", Suffix)
	c.Add("collapse_space", CollapseSpace)
	c.Add("strip_tags", StripTags)
	c.Add("truncate", Truncate)
	c.Add("ellipsis", Ellipsis)
}

func str(args []any, i int) string {
	if i >= len(args) {
		return ""
	}
	return cast.ToString(args[i])
}

// Trim removes leading and trailing white space.
func Trim(args ...any) any {
	return strings.TrimSpace(str(args, 0))
}

// Upper upper-cases the value.
func Upper(args ...any) any {
	return strings.ToUpper(str(args, 0))
}

// Lower lower-cases the value.
func Lower(args ...any) any {
	return strings.ToLower(str(args, 0))
}

// Title title-cases every word of the value.
func Title(args ...any) any {
	return cases.Title(language.Und).String(str(args, 0))
}

// Prefix prepends the second argument.
func Prefix(args ...any) any {
	return str(args, 1) + str(args, 0)
}

// Suffix appends the second argument.
func Suffix(args ...any) any {
	return str(args, 0) + str(args, 1)
}

// CollapseSpace replaces every run of white space with a single space.
func CollapseSpace(args ...any) any {
	return spaceRun.ReplaceAllString(str(args, 0), " ")
}

// StripTags removes markup tags.
func StripTags(args ...any) any {
	return tag.ReplaceAllString(str(args, 0), "")
}

// Truncate keeps at most n runes, where n is the second argument.
// A missing or negative n leaves the value unchanged.
func Truncate(args ...any) any {
	s := str(args, 0)
	if len(args) < 2 {
		return s
	}
	n, err := cast.ToIntE(args[1])
	if err != nil || n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Ellipsis shortens the value to the rune count given as second argument,
// flattening it to one line and marking the cut with "...".
func Ellipsis(args ...any) any {
	s := str(args, 0)
	if len(args) < 2 {
		return s
	}
	n, err := cast.ToIntE(args[1])
	if err != nil {
		return s
	}
	return stringutil.Ellipsis(s, n)
}
