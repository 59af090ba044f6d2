package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// File stores the score as a single decimal line.
//
// Writes go to a temp file next to the target and are renamed into place, so
// readers never observe a partially-written value. The file is tolerant of
// corruption: anything unparsable loads as absent and is overwritten by the
// next Save.
//
// Format: <score>\n
type File struct {
	mu   sync.Mutex
	path string
}

func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("high score path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create high score dir: %w", err)
	}
	return &File{path: path}, nil
}

func (f *File) Load(context.Context) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read high score: %w", err)
	}
	n, ok := parseScore(string(b))
	return n, ok, nil
}

func (f *File) Save(_ context.Context, score int) error {
	if err := validateScore(score); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if b, err := os.ReadFile(f.path); err == nil {
		if cur, ok := parseScore(string(b)); ok && cur >= score {
			return nil
		}
	}

	tmpPath := f.path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := os.WriteFile(tmpPath, []byte(strconv.Itoa(score)+"\n"), 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write high score: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename high score: %w", err)
	}
	return nil
}

func (f *File) Close() error { return nil }
