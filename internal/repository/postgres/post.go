package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/blogz/internal/apperrors"
	"github.com/nkiryanov/blogz/internal/models"
)

type PostRepo struct {
	DB DBTX
}

const createPost = `-- name: CreatePost
WITH inserted AS (
	INSERT INTO posts (id, title, body, posted_at, owner_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, title, body, posted_at, owner_id
)
SELECT i.id, i.title, i.body, i.posted_at, i.owner_id, u.username
FROM inserted i
JOIN users u ON u.id = i.owner_id
`

func (r *PostRepo) CreatePost(ctx context.Context, p models.Post) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, createPost, p.ID, p.Title, p.Body, p.PostedAt, p.OwnerID)
	post, err := pgx.CollectOneRow(rows, rowToPost)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return post, apperrors.ErrUserNotFound
		}

		return post, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

const getPostByID = `-- name: GetPostByID
SELECT p.id, p.title, p.body, p.posted_at, p.owner_id, u.username
FROM posts p
JOIN users u ON u.id = p.owner_id
WHERE p.id = $1
`

func (r *PostRepo) GetPostByID(ctx context.Context, id uuid.UUID) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, getPostByID, id)
	post, err := pgx.CollectOneRow(rows, rowToPost)

	switch {
	case err == nil:
		return post, nil
	case errors.Is(err, pgx.ErrNoRows):
		return post, apperrors.ErrPostNotFound
	default:
		return post, fmt.Errorf("db error: %w", err)
	}
}

const listPosts = `-- name: ListPosts
SELECT p.id, p.title, p.body, p.posted_at, p.owner_id, u.username
FROM posts p
JOIN users u ON u.id = p.owner_id
ORDER BY p.posted_at DESC, p.id DESC
`

func (r *PostRepo) ListPosts(ctx context.Context) ([]models.Post, error) {
	rows, _ := r.DB.Query(ctx, listPosts)
	return collectPosts(rows)
}

const listPostsByOwner = `-- name: ListPostsByOwner
SELECT p.id, p.title, p.body, p.posted_at, p.owner_id, u.username
FROM posts p
JOIN users u ON u.id = p.owner_id
WHERE p.owner_id = $1
ORDER BY p.posted_at DESC, p.id DESC
`

func (r *PostRepo) ListPostsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Post, error) {
	rows, _ := r.DB.Query(ctx, listPostsByOwner, ownerID)
	return collectPosts(rows)
}

func collectPosts(rows pgx.Rows) ([]models.Post, error) {
	posts, err := pgx.CollectRows(rows, rowToPost)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return posts, nil
}

func rowToPost(row pgx.CollectableRow) (models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.Title, &p.Body, &p.PostedAt, &p.OwnerID, &p.OwnerUsername)
	return p, err
}
