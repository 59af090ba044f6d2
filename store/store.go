// Package store persists the single high-score integer.
//
// Every backend keeps exactly one non-negative integer under one fixed key.
// A missing, unreadable or corrupt value is reported as absent rather than as
// an error, so a damaged store never stops a game from starting.
package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// DefaultKey is the identifier the browser version stored its score under.
const DefaultKey = "neonSnakeHighScore"

// HighScores is implemented by every backend. Save never lowers the stored
// value: several sessions may share one store, and each only knows the best
// score it loaded when it started.
type HighScores interface {
	Load(ctx context.Context) (int, bool, error)
	Save(ctx context.Context, score int) error
	Close() error
}

// Kind selects a backend.
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindFile   Kind = "file"
	KindMemory Kind = "memory"
)

// Open returns the backend for kind. path is ignored for the memory backend.
func Open(kind Kind, path, key string) (HighScores, error) {
	if key == "" {
		key = DefaultKey
	}
	switch kind {
	case KindSQLite:
		return OpenSQLite(path, key)
	case KindFile:
		return OpenFile(path)
	case KindMemory, "":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}

// parseScore decodes a stored value. Anything that is not a non-negative
// integer is treated as absent.
func parseScore(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func validateScore(score int) error {
	if score < 0 {
		return fmt.Errorf("negative high score %d", score)
	}
	return nil
}
