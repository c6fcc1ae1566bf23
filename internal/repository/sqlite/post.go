package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nic96/minipress/internal/apperror"
	"github.com/nic96/minipress/internal/model"
	"github.com/nic96/minipress/internal/repository"
)

type PostStore struct {
	conn *sql.DB
}

var _ repository.PostRepository = (*PostStore)(nil)

const postColumns = `id, user_id, title, slug, excerpt, content, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*model.Post, error) {
	var p model.Post
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Slug,
		&p.Excerpt,
		&p.Content,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindAll returns every post ordered by creation time ascending.
func (db *PostStore) FindAll(ctx context.Context) ([]model.Post, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// FindByID returns the post with the given ID, or apperror.ErrNotFound.
func (db *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	p, err := scanPost(db.conn.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id.String())
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}
	return p, nil
}

// Create inserts a post and reads the stored row back inside one
// transaction, so the returned struct always reflects what was committed.
func (db *PostStore) Create(ctx context.Context, post *model.Post) error {
	now := time.Now().UTC()
	post.ID = uuid.New()
	post.CreatedAt = now
	post.UpdatedAt = now

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, title, slug, excerpt, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		post.Title,
		post.Slug,
		post.Excerpt,
		post.Content,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		if isBusy(err) {
			return apperror.Unavailable("database is busy, retry the request")
		}
		return fmt.Errorf("sqlite: inserting post %q: %w", post.Title, err)
	}

	stored, err := scanPost(tx.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ?`, post.ID))
	if err != nil {
		return fmt.Errorf("sqlite: reading back post %s: %w", post.ID, err)
	}
	*post = *stored

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing post insert: %w", err)
	}

	return nil
}

// Update replaces title, content and excerpt. The slug is deliberately left
// alone so links to the post keep working after a title change.
func (db *PostStore) Update(ctx context.Context, post *model.Post) error {
	post.UpdatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, excerpt = ?, updated_at = ?
		 WHERE id = ?`,
		post.Title,
		post.Content,
		post.Excerpt,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		if isBusy(err) {
			return apperror.Unavailable("database is busy, retry the request")
		}
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("post", post.ID.String())
	}

	return nil
}

// Delete removes a post inside a transaction and reports how many rows were
// removed (0 or 1).
func (db *PostStore) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: committing post delete: %w", err)
	}

	return affected, nil
}
