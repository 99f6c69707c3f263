package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"note-keeper/internal/domain"
	"note-keeper/internal/repository"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(context.Background(), db, nil))
	return db
}

func createUser(t *testing.T, repo repository.UserRepository, username, email string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestMigrate_Idempotent(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, Migrate(context.Background(), db, nil))
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := createUser(t, repo, "alice", "a@x.com")
	require.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, "hash", byID.PasswordHash)

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "missing@x.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createUser(t, repo, "alice", "a@x.com")

	err := repo.Create(ctx, &domain.User{Username: "alice", Email: "other@x.com", PasswordHash: "h"})
	assert.True(t, errors.Is(err, repository.ErrDuplicateUsername), "got %v", err)

	err = repo.Create(ctx, &domain.User{Username: "bob", Email: "a@x.com", PasswordHash: "h"})
	assert.True(t, errors.Is(err, repository.ErrDuplicateEmail), "got %v", err)
}

func TestUserRepository_RequiredFields(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db)

	err := repo.Create(context.Background(), &domain.User{Username: "", Email: "a@x.com", PasswordHash: "h"})
	require.Error(t, err)
}

func TestUserRepository_FindByUsernameOrEmail(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := createUser(t, repo, "alice", "a@x.com")
	bob := createUser(t, repo, "bob", "b@x.com")

	got, err := repo.FindByUsernameOrEmail(ctx, "bob", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID, "username match wins")

	got, err = repo.FindByUsernameOrEmail(ctx, "carol", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = repo.FindByUsernameOrEmail(ctx, "carol", "c@x.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestNoteRepository_OwnerScoping(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	notes := NewNoteRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "a@x.com")
	bob := createUser(t, users, "bob", "b@x.com")

	note := &domain.Note{OwnerID: alice.ID, Title: "Shopping List", Content: "Milk, Bread"}
	require.NoError(t, notes.Create(ctx, note))
	require.NotEmpty(t, note.ID)

	got, err := notes.GetByOwner(ctx, note.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shopping List", got.Title)
	assert.Equal(t, "Milk, Bread", got.Content)

	_, err = notes.GetByOwner(ctx, note.ID, bob.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	list, err := notes.ListByOwner(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	matched, err := notes.UpdateByOwner(ctx, note.ID, bob.ID, "hacked", "hacked")
	require.NoError(t, err)
	assert.False(t, matched)

	matched, err = notes.DeleteByOwner(ctx, note.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, matched)

	got, err = notes.GetByOwner(ctx, note.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shopping List", got.Title)
}

func TestNoteRepository_ListInInsertionOrder(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	notes := NewNoteRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "a@x.com")
	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, notes.Create(ctx, &domain.Note{OwnerID: alice.ID, Title: title, Content: "c"}))
	}

	list, err := notes.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Title)
	assert.Equal(t, "second", list[1].Title)
	assert.Equal(t, "third", list[2].Title)
}

func TestNoteRepository_UpdateAndDelete(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	notes := NewNoteRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "a@x.com")
	note := &domain.Note{OwnerID: alice.ID, Title: "T", Content: "C"}
	require.NoError(t, notes.Create(ctx, note))

	matched, err := notes.UpdateByOwner(ctx, note.ID, alice.ID, "T2", "C2")
	require.NoError(t, err)
	assert.True(t, matched)

	got, err := notes.GetByOwner(ctx, note.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "T2", got.Title)
	assert.Equal(t, "C2", got.Content)

	matched, err = notes.DeleteByOwner(ctx, note.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = notes.DeleteByOwner(ctx, note.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestNoteRepository_RejectsEmptyTitleAndUnknownOwner(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	notes := NewNoteRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "a@x.com")
	assert.Error(t, notes.Create(ctx, &domain.Note{OwnerID: alice.ID, Title: "", Content: "C"}))
	assert.Error(t, notes.Create(ctx, &domain.Note{OwnerID: "ghost", Title: "T", Content: "C"}))
}

func TestNoteRepository_OwnerImmutable(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	notes := NewNoteRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "a@x.com")
	bob := createUser(t, users, "bob", "b@x.com")
	note := &domain.Note{OwnerID: alice.ID, Title: "T", Content: "C"}
	require.NoError(t, notes.Create(ctx, note))

	_, err := db.ExecContext(ctx, `UPDATE notes SET user_id = ? WHERE id = ?`, bob.ID, note.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "note owner is immutable")
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "a@x.com")
	now := time.Now()

	live := &domain.Session{ID: "live", UserID: alice.ID, ExpiresAt: now.Add(time.Hour)}
	stale := &domain.Session{ID: "stale", UserID: alice.ID, ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, sessions.Create(ctx, live))
	require.NoError(t, sessions.Create(ctx, stale))

	got, err := sessions.Get(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.UserID)
	assert.Equal(t, live.ExpiresAt.Unix(), got.ExpiresAt.Unix())

	n, err := sessions.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = sessions.Get(ctx, "stale")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, sessions.Delete(ctx, "live"))
	_, err = sessions.Get(ctx, "live")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDeleteAll_CascadesToNotesAndSessions(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	notes := NewNoteRepository(db)
	sessions := NewSessionRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "a@x.com")
	require.NoError(t, notes.Create(ctx, &domain.Note{OwnerID: alice.ID, Title: "T", Content: "C"}))
	require.NoError(t, sessions.Create(ctx, &domain.Session{ID: "s", UserID: alice.ID, ExpiresAt: time.Now().Add(time.Hour)}))

	require.NoError(t, users.DeleteAll(ctx))

	list, err := notes.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = sessions.Get(ctx, "s")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
