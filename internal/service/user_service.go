package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"note-keeper/internal/domain"
	"note-keeper/internal/repository"
)

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type userService struct {
	users    repository.UserRepository
	hashCost int
}

// NewUserService returns a UserService hashing with hashCost (bcrypt.DefaultCost when zero).
func NewUserService(users repository.UserRepository, hashCost int) UserService {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	return &userService{
		users:    users,
		hashCost: hashCost,
	}
}

func (s *userService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	user, err := domain.NewUser(username, email, password, s.hashCost)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.FindByUsernameOrEmail(ctx, user.Username, user.Email)
	switch {
	case err == nil:
		if existing.Username == user.Username {
			return nil, domain.Conflict("Username already taken")
		}
		return nil, domain.Conflict("Email already registered")
	case !errors.Is(err, domain.ErrNotFound):
		return nil, domain.Persistence("lookup user", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, domain.Conflict("Username already taken")
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, domain.Conflict("Email already registered")
		}
		return nil, domain.Persistence("create user", err)
	}

	return user.Public(), nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.Auth("Missing credentials")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Auth("Incorrect email")
		}
		return nil, domain.Persistence("lookup user", err)
	}

	if !user.CheckPassword(password) {
		return nil, domain.Auth("Incorrect password")
	}

	return user.Public(), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, domain.Persistence("get user", err)
	}
	return user.Public(), nil
}
