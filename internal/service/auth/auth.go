package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/nkiryanov/blogz/internal/apperrors"
	"github.com/nkiryanov/blogz/internal/models"
	"github.com/nkiryanov/blogz/internal/repository"
	"github.com/nkiryanov/blogz/internal/service/validate"
)

// Interface to create or verify user password hashes
type PasswordHasher interface {
	// Generate hash from password
	Hash(password string) (string, error)

	// Verify user provided password against known hash
	Verify(password string, hashedPassword string) bool
}

type AuthService struct {
	hasher  PasswordHasher
	storage repository.Storage
}

// BcryptHasher is used when hasher is nil
func NewService(hasher PasswordHasher, storage repository.Storage) (*AuthService, error) {
	if storage == nil {
		return nil, errors.New("storage must not be nil")
	}

	if hasher == nil {
		hasher = BcryptHasher{}
	}

	return &AuthService{
		hasher:  hasher,
		storage: storage,
	}, nil
}

// Signup validates the form and creates new user.
// Checks run in order: invalid text and whitespace, taken username, username length, password length, verify match.
func (s *AuthService) Signup(ctx context.Context, username string, password string, verify string) (models.User, error) {
	if err := validate.Credentials(username, password); err != nil {
		return models.User{}, err
	}

	_, err := s.storage.User().GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return models.User{}, apperrors.ErrUserAlreadyExists
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return models.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := validate.Signup(username, password, verify); err != nil {
		return models.User{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	// Another signup may have taken the username since lookup, repo reports ErrUserAlreadyExists then
	return s.storage.User().CreateUser(ctx, username, hash)
}

// Login returns ErrUserNotFound or ErrIncorrectPassword on failed authentication
func (s *AuthService) Login(ctx context.Context, username string, password string) (models.User, error) {
	if err := validate.Login(username); err != nil {
		return models.User{}, apperrors.ErrUserNotFound
	}

	user, err := s.storage.User().GetUserByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		return models.User{}, apperrors.ErrIncorrectPassword
	}

	return user, nil
}
