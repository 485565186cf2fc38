package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/born-ml/convcast/internal/series"
)

const seriesPrefix = "series/"

// SeriesInfo describes a stored series without its values.
type SeriesInfo struct {
	Name      string    `json:"name"`
	Len       int       `json:"len"`
	Columns   []string  `json:"columns"`
	UpdatedAt time.Time `json:"updated_at"`
	Size      int       `json:"size"` // encoded bytes
}

type seriesRecord struct {
	SeriesInfo
	Data [][]byte `json:"data"` // one XOR+zstd block per column
}

func seriesKey(name string) []byte {
	return []byte(seriesPrefix + name)
}

// PutSeries stores s under name, replacing any previous version.
func (s *Store) PutSeries(ctx context.Context, name string, data *series.Series) (SeriesInfo, error) {
	if err := ctx.Err(); err != nil {
		return SeriesInfo{}, err
	}
	if err := checkName(name); err != nil {
		return SeriesInfo{}, err
	}

	rec := seriesRecord{
		SeriesInfo: SeriesInfo{
			Name:      name,
			Len:       data.Len(),
			Columns:   data.Names(),
			UpdatedAt: time.Now().UTC(),
		},
		Data: make([][]byte, data.Width()),
	}
	for j := range rec.Data {
		rec.Data[j] = s.codec.encodeValues(data.Column(j))
		rec.Size += len(rec.Data[j])
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return SeriesInfo{}, fmt.Errorf("failed to marshal series: %w", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(seriesKey(name), payload)
	}); err != nil {
		return SeriesInfo{}, fmt.Errorf("failed to write series %q: %w", name, err)
	}
	return rec.SeriesInfo, nil
}

// GetSeries loads the series stored under name.
func (s *Store) GetSeries(ctx context.Context, name string) (*series.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := s.get(seriesKey(name))
	if err != nil {
		return nil, fmt.Errorf("series %q: %w", name, err)
	}

	var rec seriesRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("%w: series %q: %v", ErrCorrupt, name, err)
	}
	if len(rec.Data) != len(rec.Columns) {
		return nil, fmt.Errorf("%w: series %q has %d columns and %d blocks", ErrCorrupt, name, len(rec.Columns), len(rec.Data))
	}

	columns := make([][]float64, len(rec.Data))
	for j, block := range rec.Data {
		if columns[j], err = s.codec.decodeValues(block, rec.Len); err != nil {
			return nil, fmt.Errorf("series %q column %d: %w", name, j, err)
		}
	}
	out, err := series.Stack(columns...)
	if err != nil {
		return nil, err
	}
	return out.WithNames(rec.Columns...)
}

// ListSeries returns every stored series, ordered by name.
func (s *Store) ListSeries(ctx context.Context) ([]SeriesInfo, error) {
	var infos []SeriesInfo
	err := s.scan(ctx, []byte(seriesPrefix), func(_, val []byte) error {
		var rec seriesRecord
		if err := json.Unmarshal(val, &rec); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		infos = append(infos, rec.SeriesInfo)
		return nil
	})
	return infos, err
}

// DeleteSeries removes the series stored under name.
func (s *Store) DeleteSeries(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.delete(seriesKey(name))
}

func (s *Store) delete(keys ...[]byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(keys[0]); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%s: %w", keys[0], ErrNotFound)
			}
			return err
		}
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}
