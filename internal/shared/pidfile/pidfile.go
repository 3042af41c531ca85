// Package pidfile guards against a second concurrent daemon instance via a
// marker file holding the running process id.
package pidfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type File struct {
	path string
}

func New(path string) *File {
	return &File{path: path}
}

// Exists reports whether a pidfile is already present, meaning another
// instance is presumed to be running. The content must parse as a pid;
// an unreadable or garbage file still counts as absent so a crashed
// instance's leftovers do not wedge restarts forever.
func (f *File) Exists() bool {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return false
	}
	_, err = strconv.Atoi(strings.TrimSpace(string(data)))
	return err == nil
}

// Create writes the current process id and returns it.
func (f *File) Create() (string, error) {
	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(f.path, []byte(pid+"\n"), 0644); err != nil {
		return "", fmt.Errorf("write pidfile %q: %w", f.path, err)
	}
	return pid, nil
}

// Remove deletes the pidfile.
func (f *File) Remove() error {
	return os.Remove(f.path)
}
