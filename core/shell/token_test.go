package shell

import (
	"testing"

	"github.com/anmitsu/go-shlex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func word(v string) Token {
	return Token{Kind: Word, Value: v}
}

func quoted(v string) Token {
	return Token{Kind: Word, Value: v, Quoted: true}
}

func op(k TokenKind) Token {
	return Token{Kind: k}
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		line     string
		expected []Token
	}{
		{"", nil},
		{"   \t ", nil},
		{"echo a b", []Token{word("echo"), word("a"), word("b")}},
		{"echo\ta  b\n", []Token{word("echo"), word("a"), word("b")}},
		{"cat<in>out", []Token{word("cat"), op(Infile), word("in"), op(Outfile), word("out")}},
		{"cat << EOF >> log", []Token{word("cat"), op(Heredoc), word("EOF"), op(Append), word("log")}},
		{"a|b", []Token{word("a"), op(Pipe), word("b")}},
		{"<<<", []Token{op(Heredoc), op(Infile)}},
		{`echo "a | b" 'c > d'`, []Token{word("echo"), quoted(`"a | b"`), quoted(`'c > d'`)}},
		{`echo a"b c"d`, []Token{word("echo"), quoted(`a"b c"d`)}},
		{`echo "it's"`, []Token{word("echo"), quoted(`"it's"`)}},
		{`echo "unterminated | x`, []Token{word("echo"), quoted(`"unterminated | x`)}},
		{"A=1", []Token{{Kind: Assign, Value: "A=1"}}},
		{"A=1 B+=2 env", []Token{{Kind: Assign, Value: "A=1"}, {Kind: Assign, Value: "B+=2"}, word("env")}},
		{"env A=1", []Token{word("env"), word("A=1")}},
		{"export A=1 | B=2", []Token{word("export"), word("A=1"), op(Pipe), {Kind: Assign, Value: "B=2"}}},
		{"> A=1", []Token{op(Outfile), word("A=1")}},
		{`A="x y" cmd`, []Token{{Kind: Assign, Value: `A="x y"`, Quoted: true}, word("cmd")}},
		{`"A"=1`, []Token{quoted(`"A"=1`)}},
		{"1A=1", []Token{word("1A=1")}},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			assert.Equal(t, tc.expected, Tokenize(tc.line))
		})
	}
}

// Quote handling agrees with a POSIX word splitter for lines without
// operators, expansions or backslashes.
func TestTokenizeMatchesShlex(t *testing.T) {
	lines := []string{
		`echo a b`,
		`echo "a" "b"`,
		`echo 'a b' c`,
		`echo "a 'b' c"`,
		`echo 'a "b" c'`,
		`echo a"b"'c'd`,
		`   spaced   out   `,
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			expected, err := shlex.Split(line, true)
			require.NoError(t, err)

			var actual []string
			for _, tok := range Tokenize(line) {
				actual = append(actual, RemoveQuotes(tok.Value))
			}

			assert.Equal(t, expected, actual)
		})
	}
}

func TestTokenKind(t *testing.T) {
	assert.True(t, Heredoc.IsRedirect())
	assert.False(t, Pipe.IsRedirect())
	assert.True(t, Pipe.IsOperator())
	assert.False(t, Assign.IsOperator())
	assert.Equal(t, ">>", Append.Symbol())
	assert.Equal(t, "Outfile", Outfile.String())
	assert.Equal(t, "Unknown", TokenKind(99).String())
}
