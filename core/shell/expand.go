package shell

import (
	"strconv"
	"strings"

	"github.com/josephlewis42/minishell/core/env"
)

// Expander performs parameter expansion and quote removal on words.
type Expander struct {
	Vars        *env.Vars
	LastStatus  int
	PID         int
	ProgramName string
}

// Fields expands word into zero or more fields. Single quotes are literal,
// double quotes expand parameters without splitting, and unquoted expansions
// are split on blanks.
func (e *Expander) Fields(word string) []string {
	return e.expand(word, true)
}

// Word expands word into a single string without field splitting, the way
// assignment values are expanded. Quotes are still removed.
func (e *Expander) Word(word string) string {
	return strings.Join(e.expand(word, false), "")
}

func (e *Expander) expand(word string, split bool) []string {
	var fields []string
	var cur strings.Builder
	inField := false

	flush := func() {
		fields = append(fields, cur.String())
		cur.Reset()
		inField = false
	}

	for i := 0; i < len(word); {
		c := word[i]
		switch {
		case c == '\'':
			inField = true
			body, next := quotedSpan(word, i)
			cur.WriteString(body)
			i = next

		case c == '"':
			inField = true
			body, next := quotedSpan(word, i)
			cur.WriteString(e.expandAll(body))
			i = next

		case c == '$':
			value, next, ok := e.parameter(word, i)
			if !ok {
				inField = true
				cur.WriteByte(c)
				i++
				continue
			}
			for j := 0; j < len(value); j++ {
				if split && isBlank(value[j]) {
					if inField {
						flush()
					}
					continue
				}
				inField = true
				cur.WriteByte(value[j])
			}
			i = next

		default:
			inField = true
			cur.WriteByte(c)
			i++
		}
	}

	if inField {
		flush()
	}
	return fields
}

// expandAll substitutes every parameter in s, leaving everything else alone.
func (e *Expander) expandAll(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); {
		if s[i] == '$' {
			if value, next, ok := e.parameter(s, i); ok {
				out.WriteString(value)
				i = next
				continue
			}
		}
		out.WriteByte(s[i])
		i++
	}
	return out.String()
}

// parameter expands the $ at word[i]. It returns false if the dollar sign is
// literal.
func (e *Expander) parameter(word string, i int) (value string, next int, ok bool) {
	if i+1 >= len(word) {
		return "", 0, false
	}

	switch c := word[i+1]; {
	case c == '?':
		return strconv.Itoa(e.LastStatus), i + 2, true
	case c == '$':
		return strconv.Itoa(e.PID), i + 2, true
	case c == '0':
		return e.ProgramName, i + 2, true
	case c >= '1' && c <= '9':
		// No positional parameters are ever set.
		return "", i + 2, true
	case isNameStart(c):
		end := i + 2
		for end < len(word) && isNameChar(word[end]) {
			end++
		}
		return e.lookup(word[i+1 : end]), end, true
	}
	return "", 0, false
}

func (e *Expander) lookup(name string) string {
	if e.Vars == nil {
		return ""
	}
	return e.Vars.Getenv(name)
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

// quotedSpan returns the body of the quote starting at word[i] and the index
// after the closing quote. An unclosed quote runs to the end of word.
func quotedSpan(word string, i int) (body string, next int) {
	end := strings.IndexByte(word[i+1:], word[i])
	if end < 0 {
		return word[i+1:], len(word)
	}
	return word[i+1 : i+1+end], i + end + 2
}

// RemoveQuotes strips quoting from word without expanding anything.
func RemoveQuotes(word string) string {
	var out strings.Builder
	for i := 0; i < len(word); {
		if isQuote(word[i]) {
			body, next := quotedSpan(word, i)
			out.WriteString(body)
			i = next
			continue
		}
		out.WriteByte(word[i])
		i++
	}
	return out.String()
}
