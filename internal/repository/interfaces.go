package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/studymate/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// KVRepo stores opaque string values under string keys.
type KVRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type PhaseLogRepo interface {
	Create(ctx context.Context, l *domain.PhaseLog) error
	ListSince(ctx context.Context, since time.Time) ([]*domain.PhaseLog, error)
	Summarize(ctx context.Context, since time.Time) ([]domain.PhaseSummary, error)
	DeleteAll(ctx context.Context) error
}
