package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	modelMetaPrefix = "models/meta/"
	modelDataPrefix = "models/data/"
)

// ModelInfo describes a stored checkpoint.
type ModelInfo struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	CreatedAt time.Time         `json:"created_at"`
	Size      int               `json:"size"` // checkpoint bytes
	Labels    map[string]string `json:"labels,omitempty"`
}

func modelKeys(id uuid.UUID) (meta, data []byte) {
	return []byte(modelMetaPrefix + id.String()), []byte(modelDataPrefix + id.String())
}

// PutModel stores a checkpoint under a fresh id. Labels are free-form
// annotations such as the training series or the final loss.
func (s *Store) PutModel(ctx context.Context, name string, checkpoint []byte, labels map[string]string) (ModelInfo, error) {
	if err := ctx.Err(); err != nil {
		return ModelInfo{}, err
	}
	if err := checkName(name); err != nil {
		return ModelInfo{}, err
	}

	info := ModelInfo{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Size:      len(checkpoint),
		Labels:    labels,
	}
	meta, err := json.Marshal(info)
	if err != nil {
		return ModelInfo{}, fmt.Errorf("failed to marshal model info: %w", err)
	}

	metaKey, dataKey := modelKeys(info.ID)
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(dataKey, checkpoint); err != nil {
			return err
		}
		return txn.Set(metaKey, meta)
	})
	if err != nil {
		return ModelInfo{}, fmt.Errorf("failed to write model %s: %w", info.ID, err)
	}
	return info, nil
}

// GetModel returns a checkpoint and its description.
func (s *Store) GetModel(ctx context.Context, id uuid.UUID) (ModelInfo, []byte, error) {
	if err := ctx.Err(); err != nil {
		return ModelInfo{}, nil, err
	}
	metaKey, dataKey := modelKeys(id)

	var (
		info ModelInfo
		data []byte
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey)
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &info)
		}); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		item, err = txn.Get(dataKey)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ModelInfo{}, nil, fmt.Errorf("model %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return ModelInfo{}, nil, err
	}
	return info, data, nil
}

// FindModel returns the most recently stored model called name.
func (s *Store) FindModel(ctx context.Context, name string) (ModelInfo, error) {
	models, err := s.ListModels(ctx)
	if err != nil {
		return ModelInfo{}, err
	}
	var found *ModelInfo
	for i, m := range models {
		if m.Name == name && (found == nil || m.CreatedAt.After(found.CreatedAt)) {
			found = &models[i]
		}
	}
	if found == nil {
		return ModelInfo{}, fmt.Errorf("model %q: %w", name, ErrNotFound)
	}
	return *found, nil
}

// ListModels returns every stored model ordered by creation time.
func (s *Store) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var infos []ModelInfo
	err := s.scan(ctx, []byte(modelMetaPrefix), func(_, val []byte) error {
		var info ModelInfo
		if err := json.Unmarshal(val, &info); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		infos = append(infos, info)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(infos, func(a, b ModelInfo) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return infos, nil
}

// DeleteModel removes a checkpoint and its description.
func (s *Store) DeleteModel(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	metaKey, dataKey := modelKeys(id)
	return s.delete(metaKey, dataKey)
}
