package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"note-keeper/internal/domain"
	"note-keeper/internal/repository"
	"note-keeper/internal/repository/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db, nil))
	return db
}

func newUserService(t *testing.T, db *sql.DB) UserService {
	t.Helper()
	return NewUserService(sqlite.NewUserRepository(db), bcrypt.MinCost)
}

func TestRegister_ThenAuthenticate(t *testing.T) {
	db := setupDB(t)
	users := newUserService(t, db)
	ctx := context.Background()

	u, err := users.Register(ctx, "alice", "a@x.com", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Empty(t, u.PasswordHash)

	got, err := users.Authenticate(ctx, "a@x.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Empty(t, got.PasswordHash)

	byID, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	db := setupDB(t)
	users := newUserService(t, db)
	ctx := context.Background()

	_, err := users.Register(ctx, "alice", "a@x.com", "password1")
	require.NoError(t, err)

	stored, err := sqlite.NewUserRepository(db).GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password1")))
}

func TestRegister_ShortPasswordPersistsNothing(t *testing.T) {
	db := setupDB(t)
	users := newUserService(t, db)
	ctx := context.Background()

	for _, pw := range []string{"a", "1234567", "short"} {
		_, err := users.Register(ctx, "alice", "a@x.com", pw)
		require.True(t, errors.Is(err, domain.ErrValidation), "password %q: %v", pw, err)
	}

	_, err := sqlite.NewUserRepository(db).GetByEmail(ctx, "a@x.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRegister_Conflicts(t *testing.T) {
	db := setupDB(t)
	users := newUserService(t, db)
	ctx := context.Background()

	_, err := users.Register(ctx, "alice", "a@x.com", "password1")
	require.NoError(t, err)

	_, err = users.Register(ctx, "alice", "other@x.com", "password1")
	require.True(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, "Username already taken", domain.Message(err, ""))

	_, err = users.Register(ctx, "bob", "a@x.com", "password1")
	require.True(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, "Email already registered", domain.Message(err, ""))

	// the first account still authenticates
	_, err = users.Authenticate(ctx, "a@x.com", "password1")
	assert.NoError(t, err)
}

type racingUserRepo struct {
	repository.UserRepository
	createErr error
}

func (r *racingUserRepo) FindByUsernameOrEmail(context.Context, string, string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (r *racingUserRepo) Create(context.Context, *domain.User) error { return r.createErr }

func TestRegister_UniqueConstraintBackstop(t *testing.T) {
	ctx := context.Background()

	svc := NewUserService(&racingUserRepo{createErr: repository.ErrDuplicateEmail}, bcrypt.MinCost)
	_, err := svc.Register(ctx, "alice", "a@x.com", "password1")
	assert.Equal(t, "Email already registered", domain.Message(err, ""))

	svc = NewUserService(&racingUserRepo{createErr: repository.ErrDuplicateUsername}, bcrypt.MinCost)
	_, err = svc.Register(ctx, "alice", "a@x.com", "password1")
	assert.Equal(t, "Username already taken", domain.Message(err, ""))

	svc = NewUserService(&racingUserRepo{createErr: errors.New("disk I/O error")}, bcrypt.MinCost)
	_, err = svc.Register(ctx, "alice", "a@x.com", "password1")
	assert.True(t, errors.Is(err, domain.ErrPersistence))
	assert.Equal(t, "Error signing up", domain.Message(err, "Error signing up"))
}

func TestAuthenticate_Failures(t *testing.T) {
	db := setupDB(t)
	users := newUserService(t, db)
	ctx := context.Background()

	_, err := users.Register(ctx, "alice", "a@x.com", "password1")
	require.NoError(t, err)

	tests := []struct {
		email    string
		password string
		msg      string
	}{
		{"", "password1", "Missing credentials"},
		{"a@x.com", "", "Missing credentials"},
		{"nobody@x.com", "password1", "Incorrect email"},
		{"a@x.com", "wrong-password", "Incorrect password"},
	}
	for _, tc := range tests {
		_, err := users.Authenticate(ctx, tc.email, tc.password)
		require.True(t, errors.Is(err, domain.ErrAuth), "%s/%s: %v", tc.email, tc.password, err)
		assert.Equal(t, tc.msg, domain.Message(err, ""))
	}
}

func TestGetByID_Missing(t *testing.T) {
	db := setupDB(t)
	users := newUserService(t, db)

	_, err := users.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
