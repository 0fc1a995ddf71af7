package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/blogz/internal/apperrors"
	"github.com/nkiryanov/blogz/internal/models"
	"github.com/nkiryanov/blogz/internal/repository"
	"github.com/nkiryanov/blogz/internal/testutil"
)

func Test_PostRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Postgres keeps microseconds
	postedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	newPost := func(owner models.User, title string, at time.Time) models.Post {
		return models.Post{
			ID:       uuid.New(),
			Title:    title,
			Body:     "body of " + title,
			PostedAt: at,
			OwnerID:  owner.ID,
		}
	}

	t.Run("create post ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			owner, err := (&UserRepo{DB: tx}).CreateUser(t.Context(), "alice", "pwd")
			require.NoError(t, err)
			r := PostRepo{DB: tx}

			post, err := r.CreatePost(t.Context(), newPost(owner, "first", postedAt))

			require.NoError(t, err)
			assert.Equal(t, "first", post.Title)
			assert.Equal(t, "body of first", post.Body)
			assert.Equal(t, owner.ID, post.OwnerID)
			assert.Equal(t, "alice", post.OwnerUsername)
			assert.True(t, postedAt.Equal(post.PostedAt))
		})
	})

	t.Run("create post unknown owner", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}

			_, err := r.CreatePost(t.Context(), newPost(models.User{ID: uuid.New()}, "orphan", postedAt))

			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("get post by id ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			owner, err := (&UserRepo{DB: tx}).CreateUser(t.Context(), "alice", "pwd")
			require.NoError(t, err)
			r := PostRepo{DB: tx}
			created, err := r.CreatePost(t.Context(), newPost(owner, "first", postedAt))
			require.NoError(t, err)

			got, err := r.GetPostByID(t.Context(), created.ID)

			require.NoError(t, err)
			assert.Equal(t, created, got)
		})
	})

	t.Run("get post by id not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}

			_, err := r.GetPostByID(t.Context(), uuid.New())

			require.ErrorIs(t, err, apperrors.ErrPostNotFound)
		})
	})

	t.Run("list posts newest first", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			alice, err := users.CreateUser(t.Context(), "alice", "pwd")
			require.NoError(t, err)
			bob, err := users.CreateUser(t.Context(), "bob", "pwd")
			require.NoError(t, err)
			r := PostRepo{DB: tx}

			_, err = r.CreatePost(t.Context(), newPost(alice, "old", postedAt))
			require.NoError(t, err)
			_, err = r.CreatePost(t.Context(), newPost(bob, "newest", postedAt.Add(2*time.Hour)))
			require.NoError(t, err)
			_, err = r.CreatePost(t.Context(), newPost(alice, "middle", postedAt.Add(time.Hour)))
			require.NoError(t, err)

			posts, err := r.ListPosts(t.Context())

			require.NoError(t, err)
			require.Len(t, posts, 3)
			assert.Equal(t, "newest", posts[0].Title)
			assert.Equal(t, "bob", posts[0].OwnerUsername)
			assert.Equal(t, "middle", posts[1].Title)
			assert.Equal(t, "old", posts[2].Title)
		})
	})

	t.Run("list posts by owner", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			alice, err := users.CreateUser(t.Context(), "alice", "pwd")
			require.NoError(t, err)
			bob, err := users.CreateUser(t.Context(), "bob", "pwd")
			require.NoError(t, err)
			r := PostRepo{DB: tx}

			_, err = r.CreatePost(t.Context(), newPost(alice, "a1", postedAt))
			require.NoError(t, err)
			_, err = r.CreatePost(t.Context(), newPost(bob, "b1", postedAt.Add(time.Minute)))
			require.NoError(t, err)
			_, err = r.CreatePost(t.Context(), newPost(alice, "a2", postedAt.Add(2*time.Minute)))
			require.NoError(t, err)

			posts, err := r.ListPostsByOwner(t.Context(), alice.ID)

			require.NoError(t, err)
			require.Len(t, posts, 2)
			assert.Equal(t, "a2", posts[0].Title)
			assert.Equal(t, "a1", posts[1].Title)
		})
	})

	t.Run("list posts by owner without posts", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PostRepo{DB: tx}

			posts, err := r.ListPostsByOwner(t.Context(), uuid.New())

			require.NoError(t, err)
			assert.Empty(t, posts)
		})
	})
}

func Test_Storage_InTx(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("rollback on error", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := NewStorage(tx)

			err := s.InTx(t.Context(), func(s repository.Storage) error {
				_, err := s.User().CreateUser(t.Context(), "ghost", "pwd")
				require.NoError(t, err)
				return apperrors.ErrPostIncomplete
			})

			require.ErrorIs(t, err, apperrors.ErrPostIncomplete)
			_, err = s.User().GetUserByUsername(t.Context(), "ghost")
			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("commit on success", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := NewStorage(tx)

			err := s.InTx(t.Context(), func(s repository.Storage) error {
				_, err := s.User().CreateUser(t.Context(), "kept", "pwd")
				return err
			})

			require.NoError(t, err)
			_, err = s.User().GetUserByUsername(t.Context(), "kept")
			require.NoError(t, err)
		})
	})
}
