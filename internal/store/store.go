// Package store persists series and trained model checkpoints in badger.
//
// Keys are laid out as
//
//	series/<name>          JSON series record with XOR+zstd columns
//	models/meta/<uuid>     JSON ModelInfo
//	models/data/<uuid>     checkpoint bytes
//
// A Store is safe for concurrent use.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is returned when a series or model does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCorrupt is returned when a stored record cannot be decoded.
	ErrCorrupt = errors.New("corrupt record")

	// ErrInvalidName is returned for empty or over-long names.
	ErrInvalidName = errors.New("invalid name")
)

// MaxNameLen bounds series and model names.
const MaxNameLen = 256

// Config holds store configuration.
type Config struct {
	Path             string `yaml:"path"`
	InMemory         bool   `yaml:"in_memory"`
	CompressionLevel int    `yaml:"compression_level"` // 1 (fastest) to 4 (best)
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		Path:             "./data",
		CompressionLevel: 2,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return fmt.Errorf("store path is required")
	}
	if c.CompressionLevel < 1 || c.CompressionLevel > 4 {
		return fmt.Errorf("compression level must be between 1 and 4")
	}
	return nil
}

// Store is a badger-backed repository of series and models.
type Store struct {
	db    *badger.DB
	codec *codec
}

// Open opens or creates the store described by cfg. logger receives
// badger's own log output; nil silences it.
func Open(cfg Config, logger *logrus.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	if logger != nil {
		opts.Logger = logger.WithField("component", "badger")
	} else {
		opts.Logger = nil
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	c, err := newCodec(cfg.CompressionLevel)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, codec: c}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	s.codec.close()
	return s.db.Close()
}

func checkName(name string) error {
	if name == "" || len(name) > MaxNameLen {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// get copies the value stored under key.
func (s *Store) get(key []byte) ([]byte, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return val, err
}

// scan calls fn with the value of every key under prefix, in key order.
func (s *Store) scan(ctx context.Context, prefix []byte, fn func(key, val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			if err := item.Value(func(val []byte) error {
				return fn(item.Key(), val)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
