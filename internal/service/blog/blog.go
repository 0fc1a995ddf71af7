package blog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/blogz/internal/models"
	"github.com/nkiryanov/blogz/internal/repository"
	"github.com/nkiryanov/blogz/internal/service/validate"
)

type BlogService struct {
	storage repository.Storage

	// Clock used to stamp new posts
	now func() time.Time
}

func NewService(storage repository.Storage) (*BlogService, error) {
	if storage == nil {
		return nil, errors.New("storage must not be nil")
	}

	return &BlogService{
		storage: storage,
		now:     time.Now,
	}, nil
}

// All users ordered by username
func (s *BlogService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.storage.User().ListUsers(ctx)
}

// All posts newest first
func (s *BlogService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.storage.Post().ListPosts(ctx)
}

func (s *BlogService) GetPost(ctx context.Context, id uuid.UUID) (models.Post, error) {
	return s.storage.Post().GetPostByID(ctx, id)
}

// User and their posts newest first. ErrUserNotFound if no such user
func (s *BlogService) ListPostsByUser(ctx context.Context, userID uuid.UUID) (models.User, []models.Post, error) {
	user, err := s.storage.User().GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, nil, err
	}

	posts, err := s.storage.Post().ListPostsByOwner(ctx, user.ID)
	if err != nil {
		return models.User{}, nil, err
	}

	return user, posts, nil
}

// CreatePost validates the post before anything is written.
// Owner lookup and insert happen in one transaction.
// Returns ErrPostIncomplete on empty title or body and ErrUserNotFound if owner is gone.
func (s *BlogService) CreatePost(ctx context.Context, ownerUsername string, title string, body string) (models.Post, error) {
	post := models.Post{
		ID:       uuid.New(),
		Title:    models.TruncateTitle(title),
		Body:     body,
		PostedAt: s.now().UTC().Truncate(time.Microsecond),
	}

	if err := validate.Post(post.Title, post.Body); err != nil {
		return models.Post{}, err
	}

	var created models.Post
	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		owner, err := tx.User().GetUserByUsername(ctx, ownerUsername)
		if err != nil {
			return err
		}

		post.OwnerID = owner.ID
		created, err = tx.Post().CreatePost(ctx, post)
		return err
	})
	if err != nil {
		return models.Post{}, fmt.Errorf("create post: %w", err)
	}

	return created, nil
}
