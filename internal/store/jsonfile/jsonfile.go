// Package jsonfile implements the store interfaces on flat JSON array
// files. Every operation loads the entire collection, works on the
// in-memory slice, and rewrites the whole file. A per-collection mutex
// serializes writers within the process; across processes the last
// writer wins.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// collection is one JSON array file holding every record of a type.
type collection[T any] struct {
	mu   sync.Mutex
	path string
}

func newCollection[T any](dataDir, name string) *collection[T] {
	return &collection[T]{path: filepath.Join(dataDir, name)}
}

// load reads the whole file. A file that does not exist yet is an empty
// collection, not an error.
func (c *collection[T]) load() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.path, err)
	}
	return records, nil
}

// save rewrites the whole file. It writes to a temp file in the same
// directory and renames it over the target so a crash mid-write never
// leaves a truncated collection behind.
func (c *collection[T]) save(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", c.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", c.path, err)
	}
	return nil
}
