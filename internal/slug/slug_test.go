// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation", "Hello, World!", "hello-world"},
		{"numbers", "Top 10 Tips for 2026", "top-10-tips-for-2026"},
		{"leading and trailing spaces", "  spaced out  ", "spaced-out"},
		{"multiple spaces", "too    many   spaces", "too-many-spaces"},
		{"existing hyphens", "already-slugged-title", "already-slugged-title"},
		{"consecutive hyphens", "a -- b --- c", "a-b-c"},
		{"accented characters stripped", "Café au lait", "caf-au-lait"},
		{"emoji stripped", "Launch day 🚀", "launch-day"},
		{"only punctuation", "!!!", ""},
		{"empty", "", ""},
		{"mixed case", "CamelCase Title", "camelcase-title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"hello-world", true},
		{"a", true},
		{"top-10-tips", true},
		{"", false},
		{"Hello-World", false},
		{"hello world", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--hyphen", false},
		{"under_score", false},
	}

	for _, tt := range tests {
		if got := IsValid(tt.input); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
