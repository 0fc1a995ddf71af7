package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkiryanov/blogz/internal/apperrors"
	"github.com/nkiryanov/blogz/internal/models"
)

type PostRepo struct {
	s *Storage
}

func (r *PostRepo) CreatePost(ctx context.Context, p models.Post) (models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t := r.s.t
	if _, ok := t.users[p.OwnerID]; !ok {
		return models.Post{}, apperrors.ErrUserNotFound
	}

	p.OwnerUsername = ""
	t.posts[p.ID] = p
	r.s.onRollback(func() { delete(t.posts, p.ID) })

	return t.withOwner(p), nil
}

func (r *PostRepo) GetPostByID(ctx context.Context, id uuid.UUID) (models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.t.posts[id]
	if !ok {
		return models.Post{}, apperrors.ErrPostNotFound
	}
	return r.s.t.withOwner(p), nil
}

func (r *PostRepo) ListPosts(ctx context.Context) ([]models.Post, error) {
	return r.list(func(models.Post) bool { return true }), nil
}

func (r *PostRepo) ListPostsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Post, error) {
	return r.list(func(p models.Post) bool { return p.OwnerID == ownerID }), nil
}

func (r *PostRepo) list(match func(models.Post) bool) []models.Post {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	posts := make([]models.Post, 0)
	for _, p := range r.s.t.posts {
		if match(p) {
			posts = append(posts, r.s.t.withOwner(p))
		}
	}
	sortNewestFirst(posts)

	return posts
}
