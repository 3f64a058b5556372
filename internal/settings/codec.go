// Package settings persists StudySettings as a single JSON blob and converts
// it to and from YAML files.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/studymate/internal/domain"
)

// ErrMalformed indicates a stored blob that could not be used. Decode still
// returns usable defaults alongside it.
var ErrMalformed = errors.New("malformed settings")

// Decode parses a stored blob. Fields missing from the blob keep their default
// values, which also fills voiceSettings for blobs written before it existed.
// A blob that fails to parse or validate yields the defaults wholesale.
func Decode(data []byte) (domain.StudySettings, error) {
	s := domain.DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.DefaultSettings(), fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := s.Validate(); err != nil {
		return domain.DefaultSettings(), fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return s, nil
}

// Encode serializes the full settings object.
func Encode(s domain.StudySettings) ([]byte, error) {
	if s.Flashcards == nil {
		s.Flashcards = []domain.Flashcard{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	return data, nil
}
