package repository

import (
	"context"

	"note-keeper/internal/domain"
)

// NoteRepository persists notes. Every lookup and mutation is scoped to an owner.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Note, error)
	GetByOwner(ctx context.Context, id, ownerID string) (*domain.Note, error)
	// UpdateByOwner reports whether a row matched (id, ownerID).
	UpdateByOwner(ctx context.Context, id, ownerID, title, content string) (bool, error)
	// DeleteByOwner reports whether a row matched (id, ownerID).
	DeleteByOwner(ctx context.Context, id, ownerID string) (bool, error)
	DeleteAll(ctx context.Context) error
}
