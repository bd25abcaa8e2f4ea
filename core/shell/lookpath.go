package shell

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/afero"
)

var (
	// ErrNotFound is the error resulting if a path search failed to find an executable file.
	ErrNotFound = exec.ErrNotFound
	// ErrIsDirectory is returned when the command names a directory.
	ErrIsDirectory = syscall.EISDIR
)

func findExecutable(fsys afero.Fs, file string) error {
	d, err := fsys.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); m.IsDir() {
		return ErrIsDirectory
	} else if m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named by
// path, the shell's own PATH value. If file contains a slash, it is tried
// directly and the PATH is not consulted.
func LookPath(fsys afero.Fs, path, file string) (string, error) {
	if strings.Contains(file, "/") {
		err := findExecutable(fsys, file)
		if err == nil {
			return file, nil
		}
		return "", err
	}
	if file == "" {
		return "", ErrNotFound
	}

	var permErr error
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		switch err := findExecutable(fsys, path); {
		case err == nil:
			return path, nil
		case errors.Is(err, fs.ErrPermission) && permErr == nil:
			permErr = &fs.PathError{Op: "exec", Path: path, Err: err}
		}
	}
	if permErr != nil {
		return "", permErr
	}
	return "", ErrNotFound
}

// lookPathStatus maps a LookPath error to the message and exit status the
// shell reports.
func lookPathStatus(file string, err error) (string, int) {
	switch {
	case errors.Is(err, ErrNotFound):
		return file + ": command not found", 127
	case errors.Is(err, fs.ErrNotExist):
		return file + ": No such file or directory", 127
	case errors.Is(err, ErrIsDirectory):
		return file + ": Is a directory", 126
	case errors.Is(err, fs.ErrPermission):
		return file + ": Permission denied", 126
	default:
		return file + ": " + err.Error(), 126
	}
}
