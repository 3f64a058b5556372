package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/alexanderramin/studymate/internal/backend"
	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/events"
	"github.com/alexanderramin/studymate/internal/repository"
)

// Flashcards returns the deck in order.
func (c *Companion) Flashcards() []domain.Flashcard {
	return c.Settings().Flashcards
}

func (c *Companion) AddFlashcard(ctx context.Context, front, back string) (domain.Flashcard, error) {
	card := domain.Flashcard{
		ID:    uuid.NewString(),
		Front: strings.TrimSpace(front),
		Back:  strings.TrimSpace(back),
	}
	_, err := c.mutate(ctx, "add-flashcard", func(cur *domain.StudySettings) error {
		if err := domain.ValidateFlashcard(card); err != nil {
			return err
		}
		cur.Flashcards = append(cur.Flashcards, card)
		return nil
	})
	if err != nil {
		return domain.Flashcard{}, err
	}
	return card, nil
}

func (c *Companion) RemoveFlashcard(ctx context.Context, id string) error {
	_, err := c.mutate(ctx, "remove-flashcard", func(cur *domain.StudySettings) error {
		i := cur.FindFlashcard(id)
		if i < 0 {
			return fmt.Errorf("flashcard %q: %w", id, repository.ErrNotFound)
		}
		cur.Flashcards = append(cur.Flashcards[:i], cur.Flashcards[i+1:]...)
		return nil
	})
	return err
}

// ImportGeneratedFlashcards appends generated cards to the deck, skipping
// any with a blank side, and returns the cards added.
func (c *Companion) ImportGeneratedFlashcards(ctx context.Context, generated []backend.GeneratedCard) ([]domain.Flashcard, error) {
	var added []domain.Flashcard
	for _, g := range generated {
		card := domain.Flashcard{
			ID:    uuid.NewString(),
			Front: strings.TrimSpace(g.Question),
			Back:  strings.TrimSpace(g.Answer),
		}
		if domain.ValidateFlashcard(card) == nil {
			added = append(added, card)
		}
	}
	if len(added) == 0 {
		return nil, fmt.Errorf("%w: no usable generated cards", domain.ErrInvalidFlashcard)
	}

	_, err := c.mutate(ctx, "import-flashcards", func(cur *domain.StudySettings) error {
		cur.Flashcards = append(cur.Flashcards, added...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// GenerateFlashcards uploads a study file to the backend and adds the
// generated cards to the deck.
func (c *Companion) GenerateFlashcards(ctx context.Context, filename string, content io.Reader, count int) ([]domain.Flashcard, error) {
	return c.generate(ctx, func(client backend.Client) (*backend.Generation, error) {
		return client.GenerateFlashcards(ctx, filename, content, count)
	})
}

// GenerateFlashcardsFromText generates cards from pasted notes.
func (c *Companion) GenerateFlashcardsFromText(ctx context.Context, text string, count int) ([]domain.Flashcard, error) {
	return c.generate(ctx, func(client backend.Client) (*backend.Generation, error) {
		return client.GenerateFlashcardsFromText(ctx, text, count)
	})
}

func (c *Companion) generate(ctx context.Context, call func(backend.Client) (*backend.Generation, error)) (cards []domain.Flashcard, err error) {
	fields := map[string]any{}
	done := c.observe(ctx, "generate-flashcards", fields)
	defer func() { done(err) }()

	if c.backend == nil {
		return nil, backend.ErrUnavailable
	}
	gen, err := call(c.backend)
	if err != nil {
		c.publish(events.Event{Type: events.GenerationFailed, Error: err.Error()})
		return nil, err
	}
	fields["generated"] = len(gen.Flashcards)
	fields["source"] = gen.Source
	return c.ImportGeneratedFlashcards(ctx, gen.Flashcards)
}
