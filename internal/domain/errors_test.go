package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("create: %w", Persistence("insert note", cause))

	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "insert note: disk full", errors.Unwrap(err).Error())

	assert.True(t, errors.Is(Conflict("taken"), ErrConflict))
	assert.True(t, errors.Is(Auth("Incorrect email"), ErrAuth))
	assert.True(t, errors.Is(NotFound("Note not found"), ErrNotFound))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Username already taken", Message(Conflict("Username already taken"), "fallback"))
	assert.Equal(t, "fallback", Message(Persistence("insert user", errors.New("boom")), "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("raw"), "fallback"))
	assert.Equal(t, "Note not found", Message(fmt.Errorf("get: %w", NotFound("Note not found")), "x"))
}

func TestNewNote(t *testing.T) {
	n, err := NewNote("owner", "Shopping List", "Milk, Bread")
	assert.NoError(t, err)
	assert.Equal(t, "owner", n.OwnerID)

	_, err = NewNote("owner", "", "c")
	assert.Equal(t, "Note title is required", Message(err, ""))

	_, err = NewNote("owner", "t", "  ")
	assert.Equal(t, "Note content is required", Message(err, ""))

	_, err = NewNote("", "t", "c")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := &Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))
}
