package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkiryanov/blogz/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with username exists already has to return error apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, hashedPassword string) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// All users ordered by username
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Post repository interface
// Every returned post has OwnerUsername filled
type PostRepo interface {
	// Create post as is: caller sets ID, PostedAt and OwnerID
	// If owner does not exist must return apperrors.ErrUserNotFound
	CreatePost(ctx context.Context, post models.Post) (models.Post, error)

	// If post not found must return apperrors.ErrPostNotFound
	GetPostByID(ctx context.Context, postID uuid.UUID) (models.Post, error)

	// Newest first by PostedAt
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListPostsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Post, error)
}

type Storage interface {
	User() UserRepo
	Post() PostRepo

	// Run fn in transaction: commit if fn returns nil, rollback otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}
