package seed

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/goalpost/internal/checksum"
)

// Entry describes one fixture file found under a Dir.
type Entry struct {
	Path     string // relative to the root, slash-separated
	Checksum string
}

// Dir is a directory of goal fixtures.
type Dir struct {
	root string
}

// NewDir opens root, which must be an existing directory.
func NewDir(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("seed: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("seed: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("seed: root is not a directory: %s", abs)
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute directory path.
func (d *Dir) Root() string { return d.root }

// safePath resolves rel against the root and rejects results outside it.
func (d *Dir) safePath(rel string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("seed: absolute paths not allowed: %s", rel)
	}
	abs, err := filepath.Abs(filepath.Join(d.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("seed: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, d.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("seed: path escapes root: %s", rel)
	}
	return abs, nil
}

// List walks the root and returns every .md fixture with its checksum.
func (d *Dir) List() ([]Entry, error) {
	var out []Entry
	err := filepath.WalkDir(d.root, func(p string, de fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".md") {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(d.root, p)
		out = append(out, Entry{Path: filepath.ToSlash(rel), Checksum: checksum.Sum(data)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed: list: %w", err)
	}
	return out, nil
}

// Read returns the raw bytes of a fixture.
func (d *Dir) Read(path string) ([]byte, error) {
	abs, err := d.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return data, nil
}

// Write atomically replaces a fixture: tmp file, fsync, rename.
func (d *Dir) Write(path string, content []byte) error {
	abs, err := d.safePath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("seed: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".goalpost-tmp-*")
	if err != nil {
		return fmt.Errorf("seed: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("seed: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("seed: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("seed: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("seed: rename: %w", err)
	}
	success = true
	return nil
}
