// Package viewer fetches notes from AnkiConnect and renders them as
// standalone HTML pages.
package viewer

import (
	"context"
	"fmt"

	"github.com/starford/ankitools/internal/apperr"
	"github.com/starford/ankitools/internal/models"
)

// DefaultListQuery matches every note in every deck.
const DefaultListQuery = "deck:*"

// NoteSource is the subset of the AnkiConnect client the viewer needs.
type NoteSource interface {
	NotesInfo(ctx context.Context, ids []int64) ([]models.Note, error)
	FindNotes(ctx context.Context, query string) ([]int64, error)
}

// Summary is one line of a note listing.
type Summary struct {
	ID      int64
	Preview string
}

// Service retrieves notes for display.
type Service struct {
	src NoteSource
}

// NewService creates a new viewer service.
func NewService(src NoteSource) *Service {
	return &Service{src: src}
}

// Note returns the note with the given id. An empty result, or the empty
// object AnkiConnect returns for unknown ids, yields apperr.ErrNotFound.
func (s *Service) Note(ctx context.Context, id int64) (*models.Note, error) {
	notes, err := s.src.NotesInfo(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 || notes[0].ID == 0 {
		return nil, fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	return &notes[0], nil
}

// List returns a preview line for every note matching query.
func (s *Service) List(ctx context.Context, query string) ([]Summary, error) {
	if query == "" {
		query = DefaultListQuery
	}
	ids, err := s.src.FindNotes(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	notes, err := s.src.NotesInfo(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(notes))
	for i := range notes {
		n := &notes[i]
		if n.ID == 0 {
			continue
		}
		front, ok := n.Field("Front")
		if !ok {
			front = n.FirstField()
		}
		out = append(out, Summary{ID: n.ID, Preview: FirstLine(front)})
	}
	return out, nil
}
