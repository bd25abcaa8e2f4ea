package commands

import (
	"testing"

	"github.com/josephlewis42/minishell/core/env"
	"github.com/stretchr/testify/assert"
)

func TestUnescape(t *testing.T) {
	cases := []struct {
		escaped  string
		expected string
	}{
		{"not escaped", "not escaped"},
		{`newline\n`, "newline\n"},
		{`double-escape\\n`, `double-escape\n`},
		// Octal
		{`\07`, string(rune(7))},
		{`\011`, "\t"},
		{`\0101`, "A"},
		// Hex
		{`\x7`, string(rune(07))},
		{`\x9`, "\t"},
		{`\x4A`, "J"},
	}

	for _, tc := range cases {
		t.Run(tc.escaped, func(t *testing.T) {
			actual := unescape(tc.escaped)

			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestEcho(t *testing.T) {
	cases := []struct {
		name     string
		args     []string
		expected string
	}{
		{"no-args", []string{"echo"}, "\n"},
		{"words", []string{"echo", "a", "b"}, "a b\n"},
		{"no-newline", []string{"echo", "-n", "a"}, "a"},
		{"repeated-n", []string{"echo", "-nnn", "a"}, "a"},
		{"flag-after-word", []string{"echo", "a", "-n"}, "a -n\n"},
		{"not-a-flag", []string{"echo", "-nx", "a"}, "-nx a\n"},
		{"escapes", []string{"echo", "-e", `a\tb`}, "a\tb\n"},
		{"escapes-disabled", []string{"echo", "-eE", `a\tb`}, "a\\tb\n"},
		{"empty-arg", []string{"echo", "", "a"}, " a\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := runBuiltin(t, Echo, env.NewVars(nil), tc.args...)

			assert.Equal(t, tc.expected, res.Stdout)
			assert.Equal(t, 0, res.Status)
		})
	}
}
