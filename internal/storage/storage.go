// Package storage remembers the last snapshot delivered for each watch target.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store keeps, per target id, the fingerprint of the last delivered snapshot.
type Store interface {
	Close() error
	// Last returns the fingerprint recorded for targetID. ok is false when
	// nothing was recorded or the record expired.
	Last(targetID string) (fingerprint string, ok bool, err error)
	// Record replaces the fingerprint kept for targetID.
	Record(targetID, fingerprint string) error
}

// Options controls retention of delivery records.
type Options struct {
	// TTL bounds how long a record is trusted. Once it lapses the next
	// snapshot of that target is delivered again.
	TTL             time.Duration
	CleanupInterval time.Duration
}

const (
	defaultTTL             = 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                      { return nil }
func (noopStore) Last(string) (string, bool, error) { return "", false, nil }
func (noopStore) Record(string, string) error       { return nil }
