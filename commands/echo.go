package commands

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	unescapeOctal   = regexp.MustCompile(`\\0[0-7][0-7]?[0-7]?`)
	unescapeHex     = regexp.MustCompile(`\\x[0-9a-fA-F][0-9a-fA-F]?`)
	unescapeReplace = strings.NewReplacer(
		`\n`, "\n", // newline
		`\r`, "\r", // carriage return
		`\t`, "\t", // horizontal tab
		`\\`, `\`, // backslash literal
		`\b`, "\b", // backspace
		`\a`, "\a", // alert
		`\f`, "\f", // form feed
		`\v`, "\v", // vertical tab
	)
	echoFlags = regexp.MustCompile(`^-[neE]+$`)
)

func unescape(s string) string {
	s = unescapeReplace.Replace(s)
	s = unescapeOctal.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseUint(arg[2:], 8, 8)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	s = unescapeHex.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseUint(arg[2:], 16, 8)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	return s
}

// Echo writes its arguments separated by spaces.
//
// Leading arguments made only of n, e and E flags (-n, -nn, -ne) are options;
// everything after the first non-flag argument is printed as is.
func Echo(p *Proc) int {
	args := p.Args[1:]
	newline, escaped := true, false

	for len(args) > 0 && echoFlags.MatchString(args[0]) {
		for _, f := range args[0][1:] {
			switch f {
			case 'n':
				newline = false
			case 'e':
				escaped = true
			case 'E':
				escaped = false
			}
		}
		args = args[1:]
	}

	w := p.Stdout
	for i, arg := range args {
		if i > 0 {
			fmt.Fprint(w, " ")
		}

		if escaped {
			arg = unescape(arg)
		}

		fmt.Fprint(w, arg)
	}

	if newline {
		fmt.Fprintln(w)
	}

	return 0
}

func init() {
	mustAddBuiltin("echo", Echo)
}
