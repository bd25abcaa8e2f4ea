package shell

import (
	"fmt"
	"strings"
)

const (
	// specialChars are never allowed outside of quotes.
	specialChars = ";&\\()`"
	// invalidLeading can't start a line.
	invalidLeading = "%~"
	// unsupportedExpansions may not follow a $ outside of quotes.
	unsupportedExpansions = "({[!@*#-"
)

// SyntaxError is a rejected input line.
type SyntaxError struct {
	// Message describes the problem.
	Message string
	// Near is the offending token.
	Near string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s `%s'", e.Message, e.Near)
}

func errNear(token string) error {
	return &SyntaxError{Message: "syntax error near unexpected token", Near: token}
}

// Validate checks line before it's tokenized. skip is set if the line is a
// comment and should be ignored without touching the exit status.
func Validate(line string) (skip bool, err error) {
	line = strings.Trim(line, blanks)
	if line == "" {
		return false, nil
	}

	switch first := line[0]; {
	case first == '#':
		return true, nil
	case strings.IndexByte(invalidLeading, first) >= 0:
		return false, errNear(string(first))
	case first == '|':
		return false, errNear("|")
	case strings.IndexByte(specialChars, first) >= 0:
		return false, errNear(string(first))
	}

	// pending holds the operator still waiting for an operand.
	pending := TokenKind(-1)
	for i := 0; i < len(line); {
		c := line[i]
		switch {
		case isQuote(c):
			end := strings.IndexByte(line[i+1:], c)
			if end < 0 {
				return false, &SyntaxError{
					Message: "unexpected EOF while looking for matching",
					Near:    string(c),
				}
			}
			i += end + 2
			pending = -1

		case isBlank(c):
			i++

		case strings.IndexByte(specialChars, c) >= 0:
			return false, errNear(string(c))

		case c == '$' && i+1 < len(line) && strings.IndexByte(unsupportedExpansions, line[i+1]) >= 0:
			return false, &SyntaxError{Message: "expansion is not supported", Near: line[i : i+2]}

		case isOperatorByte(c):
			kind := operatorAt(line, i)
			switch {
			case pending == Pipe && kind.IsRedirect():
				// A command after a pipe may start with a redirection.
			case pending != -1:
				return false, errNear(kind.Symbol())
			}
			pending = kind
			i += len(kind.Symbol())

		default:
			pending = -1
			i++
		}
	}

	if pending != -1 {
		return false, errNear("newline")
	}
	return false, nil
}

func operatorAt(line string, i int) TokenKind {
	for _, op := range operators {
		if strings.HasPrefix(line[i:], op.text) {
			return op.kind
		}
	}
	return Word
}
