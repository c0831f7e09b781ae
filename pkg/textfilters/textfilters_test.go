// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package textfilters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulntor/hooks/pkg/hook"
)

func TestCatalog_Names(t *testing.T) {
	c := Catalog()
	assert.Equal(t, []string{
		"collapse_space", "ellipsis", "lower", "prefix", "strip_tags", "suffix", "title", "trim", "truncate", "upper",
	}, c.Names())
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name string
		fn   hook.Callback
		args []any
		want string
	}{
		{"trim", Trim, []any{"  a b  "}, "a b"},
		{"upper", Upper, []any{"abc"}, "ABC"},
		{"lower", Lower, []any{"ABC"}, "abc"},
		{"title", Title, []any{"hello wide world"}, "Hello Wide World"},
		{"prefix", Prefix, []any{"world", "hello "}, "hello world"},
		{"prefix without parameter", Prefix, []any{"world"}, "world"},
		{"suffix", Suffix, []any{"hello", "!"}, "hello!"},
		{"collapse space", CollapseSpace, []any{"a \t\n b   c"}, "a b c"},
		{"strip tags", StripTags, []any{"<p>hi <b>there</b></p>"}, "hi there"},
		{"truncate", Truncate, []any{"héllo", 2}, "hé"},
		{"truncate from string", Truncate, []any{"hello", "3"}, "hel"},
		{"truncate longer than value", Truncate, []any{"hi", 10}, "hi"},
		{"truncate negative", Truncate, []any{"hi", -1}, "hi"},
		{"truncate without parameter", Truncate, []any{"hi"}, "hi"},
		{"ellipsis", Ellipsis, []any{"a long\ntitle here", 9}, "a long..."},
		{"ellipsis without parameter", Ellipsis, []any{"as is"}, "as is"},
		{"non string value", Upper, []any{42}, "42"},
		{"no arguments", Trim, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.args...))
		})
	}
}

func TestCatalog_ChainsThroughTable(t *testing.T) {
	c := Catalog()
	table := hook.NewTable()
	table.Register("the_title", hook.Ref(c, "strip_tags"), hook.WithPriority(1))
	table.Register("the_title", hook.Ref(c, "collapse_space"), hook.WithPriority(2))
	table.Register("the_title", hook.Ref(c, "trim"), hook.WithPriority(3))
	table.Register("the_title", hook.Ref(c, "title"), hook.WithPriority(4))
	table.Register("the_title", hook.Ref(c, "suffix"), hook.WithPriority(5), hook.WithAcceptedArgs(2))

	got := table.FireFilter("the_title", "  <em>hello</em>   world ", " | Site")
	require.IsType(t, "", got)
	assert.Equal(t, "Hello World | Site", got)
}
