package shell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		line  string
		skip  bool
		error string
	}{
		{"", false, ""},
		{"   ", false, ""},
		{"echo a b", false, ""},
		{"# just a comment | ;", true, ""},
		{"  # indented comment", true, ""},
		{"echo a # b", false, ""},
		{"< in cat", false, ""},
		{"> out", false, ""},
		{"cat | < in wc", false, ""},
		{"cat <<EOF | wc > out", false, ""},
		{`echo "a | b ; c"`, false, ""},
		{`echo '$(x)'`, false, ""},
		{"echo $HOME $? $$", false, ""},
		{"echo $", false, ""},

		{"| cat", false, "syntax error near unexpected token `|'"},
		{"% x", false, "syntax error near unexpected token `%'"},
		{"~", false, "syntax error near unexpected token `~'"},
		{"; ls", false, "syntax error near unexpected token `;'"},
		{"ls; pwd", false, "syntax error near unexpected token `;'"},
		{"ls && pwd", false, "syntax error near unexpected token `&'"},
		{"echo (a)", false, "syntax error near unexpected token `('"},
		{`echo a\ b`, false, "syntax error near unexpected token `\\'"},
		{"echo `id`", false, "syntax error near unexpected token ``'"},
		{"ls | | wc", false, "syntax error near unexpected token `|'"},
		{"ls || wc", false, "syntax error near unexpected token `|'"},
		{"cat < > f", false, "syntax error near unexpected token `>'"},
		{"cat <> f", false, "syntax error near unexpected token `>'"},
		{"cat > | f", false, "syntax error near unexpected token `|'"},
		{"cat >>> f", false, "syntax error near unexpected token `>'"},
		{"ls |", false, "syntax error near unexpected token `newline'"},
		{"cat <", false, "syntax error near unexpected token `newline'"},
		{"cat <<", false, "syntax error near unexpected token `newline'"},
		{`echo "abc`, false, "unexpected EOF while looking for matching `\"'"},
		{`echo 'abc`, false, "unexpected EOF while looking for matching `''"},
		{`echo "it's`, false, "unexpected EOF while looking for matching `\"'"},
		{"echo $(id)", false, "expansion is not supported `$('"},
		{"echo ${HOME}", false, "expansion is not supported `${'"},
		{"echo $@", false, "expansion is not supported `$@'"},
		{"echo $#", false, "expansion is not supported `$#'"},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			skip, err := Validate(tc.line)

			assert.Equal(t, tc.skip, skip)
			if tc.error == "" {
				assert.NoError(t, err)
				return
			}

			var syntaxErr *SyntaxError
			assert.True(t, errors.As(err, &syntaxErr))
			assert.EqualError(t, err, tc.error)
		})
	}
}
