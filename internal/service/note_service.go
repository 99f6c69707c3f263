package service

import (
	"context"
	"errors"

	"note-keeper/internal/domain"
	"note-keeper/internal/repository"
)

// NoteService exposes ownership-scoped note operations.
type NoteService interface {
	List(ctx context.Context, ownerID string) ([]domain.Note, error)
	Create(ctx context.Context, ownerID, title, content string) (*domain.Note, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Note, error)
	Update(ctx context.Context, ownerID, id, title, content string) error
	Delete(ctx context.Context, ownerID, id string) error
}

type noteService struct {
	notes  repository.NoteRepository
	strict bool
}

// NewNoteService builds a NoteService. With strict set, Update and Delete
// report NotFound when no note matched; otherwise a miss is a silent success.
func NewNoteService(notes repository.NoteRepository, strict bool) NoteService {
	return &noteService{
		notes:  notes,
		strict: strict,
	}
}

func (s *noteService) List(ctx context.Context, ownerID string) ([]domain.Note, error) {
	notes, err := s.notes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, domain.Persistence("list notes", err)
	}
	return notes, nil
}

func (s *noteService) Create(ctx context.Context, ownerID, title, content string) (*domain.Note, error) {
	note, err := domain.NewNote(ownerID, title, content)
	if err != nil {
		return nil, err
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, domain.Persistence("create note", err)
	}
	return note, nil
}

func (s *noteService) Get(ctx context.Context, ownerID, id string) (*domain.Note, error) {
	note, err := s.notes.GetByOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Note not found")
		}
		return nil, domain.Persistence("get note", err)
	}
	return note, nil
}

func (s *noteService) Update(ctx context.Context, ownerID, id, title, content string) error {
	if err := domain.ValidateNoteFields(title, content); err != nil {
		return err
	}
	matched, err := s.notes.UpdateByOwner(ctx, id, ownerID, title, content)
	if err != nil {
		return domain.Persistence("update note", err)
	}
	if !matched && s.strict {
		return domain.NotFound("Note not found")
	}
	return nil
}

func (s *noteService) Delete(ctx context.Context, ownerID, id string) error {
	matched, err := s.notes.DeleteByOwner(ctx, id, ownerID)
	if err != nil {
		return domain.Persistence("delete note", err)
	}
	if !matched && s.strict {
		return domain.NotFound("Note not found")
	}
	return nil
}
