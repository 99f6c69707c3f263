package domain

import (
	"strings"
	"time"
)

// Note is a text note owned by exactly one user.
type Note struct {
	ID        string
	OwnerID   string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewNote validates the required fields of a note. The ID is assigned on persist.
func NewNote(ownerID, title, content string) (*Note, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, Validation("Note owner is required")
	}
	if err := ValidateNoteFields(title, content); err != nil {
		return nil, err
	}
	return &Note{
		OwnerID: ownerID,
		Title:   title,
		Content: content,
	}, nil
}

// ValidateNoteFields checks that title and content are both non-empty.
func ValidateNoteFields(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return Validation("Note title is required")
	}
	if strings.TrimSpace(content) == "" {
		return Validation("Note content is required")
	}
	return nil
}
