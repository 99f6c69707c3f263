package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"note-keeper/internal/domain"
	"note-keeper/internal/repository"
)

type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) repository.NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) error {
	now := time.Now().UTC()
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO notes (id, user_id, title, content, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		note.ID,
		note.OwnerID,
		note.Title,
		note.Content,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's notes in insertion order.
func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, title, content, created_at, updated_at
FROM notes
WHERE user_id = ?
ORDER BY rowid ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}

	return notes, rows.Err()
}

func (r *NoteRepository) GetByOwner(ctx context.Context, id, ownerID string) (*domain.Note, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, title, content, created_at, updated_at
FROM notes
WHERE id = ? AND user_id = ?`,
		id,
		ownerID,
	)
	return scanNote(row)
}

func (r *NoteRepository) UpdateByOwner(ctx context.Context, id, ownerID, title, content string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE notes
SET title = ?, content = ?, updated_at = ?
WHERE id = ? AND user_id = ?`,
		title,
		content,
		time.Now().UTC(),
		id,
		ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("update note: %w", err)
	}
	return affected(res, "update note")
}

func (r *NoteRepository) DeleteByOwner(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete note: %w", err)
	}
	return affected(res, "delete note")
}

func (r *NoteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return fmt.Errorf("delete notes: %w", err)
	}
	return nil
}

func affected(res sql.Result, op string) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s rows affected: %w", op, err)
	}
	return n > 0, nil
}

func scanNote(scanner interface {
	Scan(dest ...any) error
}) (*domain.Note, error) {
	var (
		note      domain.Note
		createdAt time.Time
		updatedAt time.Time
	)
	if err := scanner.Scan(
		&note.ID,
		&note.OwnerID,
		&note.Title,
		&note.Content,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("note: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}

	note.CreatedAt = createdAt.Local()
	note.UpdatedAt = updatedAt.Local()
	return &note, nil
}
