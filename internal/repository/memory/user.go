package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/blogz/internal/apperrors"
	"github.com/nkiryanov/blogz/internal/models"
)

type UserRepo struct {
	s *Storage
}

func (r *UserRepo) CreateUser(ctx context.Context, username string, hashedPassword string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t := r.s.t
	if _, exists := t.byUsername[username]; exists {
		return models.User{}, apperrors.ErrUserAlreadyExists
	}

	user := models.User{
		ID:             uuid.New(),
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
		Username:       username,
		HashedPassword: hashedPassword,
	}
	t.users[user.ID] = user
	t.byUsername[username] = user.ID
	r.s.onRollback(func() {
		delete(t.users, user.ID)
		delete(t.byUsername, username)
	})

	return user, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.t.users[id]
	if !ok {
		return models.User{}, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.t.byUsername[username]
	if !ok {
		return models.User{}, apperrors.ErrUserNotFound
	}
	return r.s.t.users[id], nil
}

func (r *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]models.User, 0, len(r.s.t.users))
	for _, u := range r.s.t.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })

	return users, nil
}
