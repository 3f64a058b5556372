package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/repository"
)

// StorageKey is the key the settings blob is stored under.
const StorageKey = "studyCompanionSettings"

// Store loads and saves the settings blob.
type Store struct {
	kv repository.KVRepo
}

func NewStore(kv repository.KVRepo) *Store {
	return &Store{kv: kv}
}

// Load returns the stored settings, or defaults when nothing is stored. On a
// malformed blob or read failure it returns defaults together with the error
// so callers can log it and carry on.
func (s *Store) Load(ctx context.Context) (domain.StudySettings, error) {
	raw, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.DefaultSettings(), nil
		}
		return domain.DefaultSettings(), fmt.Errorf("loading settings: %w", err)
	}
	return Decode([]byte(raw))
}

// Save validates and rewrites the whole blob.
func (s *Store) Save(ctx context.Context, settings domain.StudySettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	data, err := Encode(settings)
	if err != nil {
		return err
	}
	if err := s.kv.Put(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// Reset removes the stored blob; the next Load returns defaults.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("resetting settings: %w", err)
	}
	return nil
}
