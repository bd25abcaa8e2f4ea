package commands

import (
	"errors"
	"io/fs"
	"strings"
	"syscall"
	"unicode"
	"unicode/utf8"
)

// DescribeError renders err the way shells report failed system calls: the
// bare errno text with a capital first letter, without the operation or path.
func DescribeError(err error) string {
	var errno syscall.Errno
	var pathErr *fs.PathError
	switch {
	case errors.As(err, &errno):
		return capitalize(errno.Error())
	case errors.As(err, &pathErr):
		return capitalize(pathErr.Err.Error())
	default:
		return capitalize(err.Error())
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.TrimPrefix(s, s[:size])
}
