// Package memory keeps users and posts in process memory.
// Used when no DATABASE_URI is configured and in handler tests.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/nkiryanov/blogz/internal/models"
	"github.com/nkiryanov/blogz/internal/repository"
)

type locker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

// Storage started by InTx already runs under the parent's write lock
type noLock struct{}

func (noLock) Lock()    {}
func (noLock) Unlock()  {}
func (noLock) RLock()   {}
func (noLock) RUnlock() {}

type tables struct {
	users      map[uuid.UUID]models.User
	byUsername map[string]uuid.UUID
	posts      map[uuid.UUID]models.Post
}

func newTables() *tables {
	return &tables{
		users:      make(map[uuid.UUID]models.User),
		byUsername: make(map[string]uuid.UUID),
		posts:      make(map[uuid.UUID]models.Post),
	}
}

// Post with owner username projected the same way the postgres join does
func (t *tables) withOwner(p models.Post) models.Post {
	p.OwnerUsername = t.users[p.OwnerID].Username
	return p
}

type Storage struct {
	mu locker
	t  *tables

	// Set inside InTx: writes register how to revert themselves
	undo *[]func()
}

func NewStorage() *Storage {
	return &Storage{
		mu: &sync.RWMutex{},
		t:  newTables(),
	}
}

func (s *Storage) User() repository.UserRepo {
	return &UserRepo{s: s}
}

func (s *Storage) Post() repository.PostRepo {
	return &PostRepo{s: s}
}

// InTx runs fn and reverts its writes if fn fails or panics.
// Transactions are serialized with all other writers.
func (s *Storage) InTx(ctx context.Context, fn func(repository.Storage) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	var undo []func()
	committed := false
	defer func() {
		if committed {
			return
		}
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}()

	tx := &Storage{mu: noLock{}, t: s.t, undo: &undo}
	if err := fn(tx); err != nil {
		return err
	}

	committed = true
	// Nested transaction: outer rollback must revert these writes too
	if s.undo != nil {
		*s.undo = append(*s.undo, undo...)
	}
	return nil
}

func (s *Storage) onRollback(fn func()) {
	if s.undo != nil {
		*s.undo = append(*s.undo, fn)
	}
}

func sortNewestFirst(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].PostedAt.Equal(posts[j].PostedAt) {
			return posts[i].PostedAt.After(posts[j].PostedAt)
		}
		return bytes.Compare(posts[i].ID[:], posts[j].ID[:]) > 0
	})
}
