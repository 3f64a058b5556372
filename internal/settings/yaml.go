package settings

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/studymate/internal/domain"
)

// ExportYAML writes s as a YAML document.
func ExportYAML(w io.Writer, s domain.StudySettings) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush settings yaml: %w", err)
	}
	return nil
}

// ImportYAML reads a YAML document. Keys that are absent keep their default
// values. Unlike Decode, invalid input is an error rather than a fallback.
func ImportYAML(r io.Reader) (domain.StudySettings, error) {
	s := domain.DefaultSettings()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return s, nil
		}
		return domain.StudySettings{}, fmt.Errorf("parse settings yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return domain.StudySettings{}, fmt.Errorf("import settings: %w", err)
	}
	return s, nil
}
