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

type UserStore struct {
	conn *sql.DB
}

var _ repository.UserRepository = (*UserStore)(nil)

const userColumns = `id, username, email, password, name, avatar_url,
	gravatar_id, github_id, github_token, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Password,
		&u.Name,
		&u.AvatarURL,
		&u.GravatarID,
		&u.GitHubID,
		&u.GitHubToken,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindAll returns every user ordered by creation time ascending.
func (db *UserStore) FindAll(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// FindByID returns the user with the given ID, or apperror.ErrNotFound.
func (db *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id.String())
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return u, nil
}

// FindByGitHubID returns the user whose external GitHub ID matches.
func (db *UserStore) FindByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE github_id = ?`, githubID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprintf("github:%d", githubID))
		}
		return nil, fmt.Errorf("sqlite: getting user by github_id %d: %w", githubID, err)
	}
	return u, nil
}

// Create inserts a new user, assigning the ID and timestamps server-side.
// A username or github_id collision surfaces as apperror.ErrConflict.
func (db *UserStore) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = uuid.New()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password, name, avatar_url,
			gravatar_id, github_id, github_token, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.Password,
		user.Name,
		user.AvatarURL,
		user.GravatarID,
		user.GitHubID,
		user.GitHubToken,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", "username or github_id already registered")
		}
		if isBusy(err) {
			return apperror.Unavailable("database is busy, retry the request")
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

// Update replaces the mutable fields of an existing user. The GitHub ID and
// creation timestamp never change after insert.
func (db *UserStore) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, password = ?, name = ?,
			avatar_url = ?, gravatar_id = ?, github_token = ?, role = ?,
			updated_at = ?
		 WHERE id = ?`,
		user.Username,
		user.Email,
		user.Password,
		user.Name,
		user.AvatarURL,
		user.GravatarID,
		user.GitHubToken,
		user.Role,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", "username already taken")
		}
		if isBusy(err) {
			return apperror.Unavailable("database is busy, retry the request")
		}
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("user", user.ID.String())
	}

	return nil
}

// Delete removes a user and reports how many rows were removed (0 or 1).
func (db *UserStore) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return affected, nil
}
