package shell

import (
	"testing"

	"github.com/josephlewis42/minishell/core/env"
	"github.com/stretchr/testify/assert"
)

func testExpander() *Expander {
	vars := env.NewVars([]string{"HOME=/home/me", "SPACED=a  b c", "EMPTY=", "LEAD= x "})
	vars.Assign(env.Assignment{Name: "LOCAL", Value: "loc"})
	vars.Assign(env.Assignment{Name: "HOME", Value: "/home/me"})

	return &Expander{
		Vars:        vars,
		LastStatus:  42,
		PID:         1234,
		ProgramName: "minishell",
	}
}

func TestFields(t *testing.T) {
	cases := []struct {
		word     string
		expected []string
	}{
		{"plain", []string{"plain"}},
		{`'$HOME'`, []string{"$HOME"}},
		{`"$HOME"`, []string{"/home/me"}},
		{"$HOME/x", []string{"/home/me/x"}},
		{"$LOCAL", []string{"loc"}},
		{"$?", []string{"42"}},
		{"$$", []string{"1234"}},
		{"$0", []string{"minishell"}},
		{"$1", nil},
		{"$", []string{"$"}},
		{"a$", []string{"a$"}},
		{"$%", []string{"$%"}},
		{`"$"`, []string{"$"}},
		{"$MISSING", nil},
		{"$EMPTY", nil},
		{`"$EMPTY"`, []string{""}},
		{`""`, []string{""}},
		{`''`, []string{""}},
		{"x$EMPTY", []string{"x"}},
		{"$SPACED", []string{"a", "b", "c"}},
		{`"$SPACED"`, []string{"a  b c"}},
		{"<$SPACED>", []string{"<a", "b", "c>"}},
		{"$LEAD", []string{"x"}},
		{"a$LEAD", []string{"a", "x"}},
		{`'a'"b"c`, []string{"abc"}},
		{`"'$HOME'"`, []string{"'/home/me'"}},
		{`'"$HOME"'`, []string{`"$HOME"`}},
		{"$HOME$HOME", []string{"/home/me/home/me"}},
		{"${", []string{"${"}},
	}

	e := testExpander()
	for _, tc := range cases {
		t.Run(tc.word, func(t *testing.T) {
			assert.Equal(t, tc.expected, e.Fields(tc.word))
		})
	}
}

func TestWord(t *testing.T) {
	e := testExpander()

	assert.Equal(t, "a  b c", e.Word("$SPACED"))
	assert.Equal(t, "", e.Word("$MISSING"))
	assert.Equal(t, "pre a  b c post", e.Word(`"pre "$SPACED' post'`))
}

func TestLookupPrefersLocal(t *testing.T) {
	vars := env.NewVars(nil)
	vars.Global.Set("X", "global")
	vars.Local.Set("X", "local")

	e := &Expander{Vars: vars}
	assert.Equal(t, []string{"local"}, e.Fields("$X"))
}

func TestRemoveQuotes(t *testing.T) {
	cases := map[string]string{
		"EOF":        "EOF",
		`"EOF"`:      "EOF",
		`'E'OF`:      "EOF",
		`"$HOME"`:    "$HOME",
		`"it's"`:     "it's",
		`"unclosed`:  "unclosed",
		`a"b c"'d'e`: "ab cde",
	}

	for in, expected := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, expected, RemoveQuotes(in))
		})
	}
}
