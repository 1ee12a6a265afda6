// Package source reads the contract sources a verification transcript
// points at. Two resolution bases are supported: files named in violation
// locations are resolved against the install base directory, while files
// named in witness "from:" annotations are opened exactly as written.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrNotFound is returned when a referenced file or line does not exist.
var ErrNotFound = errors.New("source not found")

// Reader loads source files through an afero.Fs. Reads are not cached:
// every call goes back to the filesystem.
type Reader struct {
	fs      afero.Fs
	baseDir string
}

// NewReader creates a Reader on the given filesystem. baseDir is the
// install location used by ReadInstalled.
// Use afero.NewOsFs() for real files or afero.NewMemMapFs() in tests.
func NewReader(fs afero.Fs, baseDir string) *Reader {
	return &Reader{fs: fs, baseDir: baseDir}
}

// NewOsReader creates a Reader on the operating system filesystem.
func NewOsReader(baseDir string) *Reader {
	return NewReader(afero.NewOsFs(), baseDir)
}

// DefaultBaseDir returns the directory holding the running executable,
// falling back to the working directory when it cannot be determined.
func DefaultBaseDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// BaseDir returns the install base directory.
func (r *Reader) BaseDir() string {
	return r.baseDir
}

// ReadInstalled returns the content of name resolved against the base
// directory. Absolute names are still joined under the base.
func (r *Reader) ReadInstalled(name string) (string, error) {
	return r.read(filepath.Join(r.baseDir, name))
}

// ReadLiteral returns the content of path exactly as written.
func (r *Reader) ReadLiteral(path string) (string, error) {
	return r.read(path)
}

// Line returns the 1-based line n of the file at the literal path.
func (r *Reader) Line(path string, n int) (string, error) {
	content, err := r.ReadLiteral(path)
	if err != nil {
		return "", err
	}
	lines := SplitLines(content)
	if n < 1 || n > len(lines) {
		return "", fmt.Errorf("%s:%d: %w", path, n, ErrNotFound)
	}
	return lines[n-1], nil
}

func (r *Reader) read(path string) (string, error) {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("read %s: %w", path, ErrNotFound)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// SplitLines splits content on newline characters. A trailing newline
// yields a final empty line, as the transcript splitter does.
func SplitLines(content string) []string {
	return strings.Split(content, "\n")
}
