package sourcefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotRegular is returned when the input path is a directory or device.
var ErrNotRegular = errors.New("not a regular file")

// Document is a source file split into lines. Each line keeps its original
// terminator; a final line without one is kept as is.
type Document struct {
	Path  string
	Lines []string
	Mode  fs.FileMode // permission bits of the source file
}

// ResolveInput returns the absolute path of an existing regular file.
func ResolveInput(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", abs, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s: %w", abs, ErrNotRegular)
	}
	return abs, nil
}

// ResolveOutput returns the absolute form of path after checking that its
// parent directory exists. The file itself need not exist.
func ResolveOutput(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := filepath.Dir(abs)
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	return abs, nil
}

// Read loads the whole file at path.
func Read(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &Document{
		Path:  path,
		Lines: SplitLines(string(data)),
		Mode:  info.Mode().Perm(),
	}, nil
}

// SplitLines splits s after every '\n'. Joining the result gives back s.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// WriteAtomic writes lines to path through a temporary file in the same
// directory that is renamed over path once fully written. On failure the
// temporary file is removed and any existing file at path is left untouched.
func WriteAtomic(path string, lines []string, perm fs.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err = w.WriteString(line); err != nil {
			return fmt.Errorf("writing %s: %w", tmpPath, err)
		}
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming to %s: %w", path, err)
	}
	return nil
}
