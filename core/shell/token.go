// Package shell implements the minishell command language: tokenizing,
// validation, tree building, heredoc capture, expansion and pipeline launch.
package shell

import (
	"strings"

	"github.com/josephlewis42/minishell/core/env"
)

// Defined by
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html
// with only pipes, redirections and heredocs kept as operators.

// TokenKind identifies a lexical token.
type TokenKind int

const (
	// Word is a plain argument word.
	Word TokenKind = iota
	// Pipe is the | operator.
	Pipe
	// Infile is the < operator.
	Infile
	// Outfile is the > operator.
	Outfile
	// Append is the >> operator.
	Append
	// Heredoc is the << operator.
	Heredoc
	// Assign is a NAME=value or NAME+=value word at the start of a command.
	Assign
)

var tokenKindNames = map[TokenKind]string{
	Word:    "Word",
	Pipe:    "Pipe",
	Infile:  "Infile",
	Outfile: "Outfile",
	Append:  "Append",
	Heredoc: "Heredoc",
	Assign:  "Assign",
}

var operators = []struct {
	text string
	kind TokenKind
}{
	// Doubled forms first so they win over the single characters.
	{"<<", Heredoc},
	{">>", Append},
	{"<", Infile},
	{">", Outfile},
	{"|", Pipe},
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsRedirect is true for the four redirection operators.
func (k TokenKind) IsRedirect() bool {
	switch k {
	case Infile, Outfile, Append, Heredoc:
		return true
	}
	return false
}

// IsOperator is true for any operator token.
func (k TokenKind) IsOperator() bool {
	return k == Pipe || k.IsRedirect()
}

// Symbol returns the source text of an operator kind.
func (k TokenKind) Symbol() string {
	for _, op := range operators {
		if op.kind == k {
			return op.text
		}
	}
	return ""
}

// Token is a lexical token. Value keeps quotes exactly as typed.
type Token struct {
	Kind  TokenKind
	Value string
	// Quoted is set if the value contains a quote character.
	Quoted bool
}

func (t Token) String() string {
	if t.Kind.IsOperator() {
		return t.Kind.Symbol()
	}
	return t.Value
}

const blanks = " \t\n\v\f\r"

func isBlank(c byte) bool {
	return strings.IndexByte(blanks, c) >= 0
}

func isOperatorByte(c byte) bool {
	return c == '|' || c == '<' || c == '>'
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"'
}

// Tokenize splits line into tokens. Malformed quoting isn't reported here, an
// unterminated quote runs to the end of the line.
func Tokenize(line string) []Token {
	var tokens []Token

	for i := 0; i < len(line); {
		c := line[i]
		switch {
		case isBlank(c):
			i++

		case isOperatorByte(c):
			for _, op := range operators {
				if strings.HasPrefix(line[i:], op.text) {
					tokens = append(tokens, Token{Kind: op.kind})
					i += len(op.text)
					break
				}
			}

		default:
			start := i
			quoted := false
			for i < len(line) && !isBlank(line[i]) && !isOperatorByte(line[i]) {
				if q := line[i]; isQuote(q) {
					quoted = true
					end := strings.IndexByte(line[i+1:], q)
					if end < 0 {
						i = len(line)
						break
					}
					i += end + 2
					continue
				}
				i++
			}
			tokens = append(tokens, classifyWord(line[start:i], quoted))
		}
	}

	return demoteAssignments(tokens)
}

func classifyWord(word string, quoted bool) Token {
	tok := Token{Kind: Word, Value: word, Quoted: quoted}
	if _, ok := env.ParseAssignment(word); ok {
		tok.Kind = Assign
	}
	return tok
}

// demoteAssignments turns Assign tokens that don't begin a command into words.
// A run of assignments directly after the start of a command stays intact so
// prefixes like A=1 B=2 cmd work.
func demoteAssignments(tokens []Token) []Token {
	atStart := true
	for i := range tokens {
		switch {
		case tokens[i].Kind == Pipe:
			atStart = true
		case tokens[i].Kind == Assign && atStart:
		case tokens[i].Kind == Assign:
			tokens[i].Kind = Word
		default:
			atStart = false
		}
	}
	return tokens
}
