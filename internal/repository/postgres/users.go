package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, username, password_hash, role, name, email, picture_url, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = "user"
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.Name,
		user.Email,
		user.PictureURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create user", zap.Error(err))
		return err
	}

	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "user", ID: username}
	}
	if err != nil {
		r.logger.Error("Failed to get user by username", zap.Error(err))
		return nil, err
	}

	return user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*domain.User, error) {
	query := `
		UPDATE users SET role = $2, updated_at = $3 WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, role, time.Now()))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "user", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to update user role", zap.Error(err))
		return nil, err
	}

	return user, nil
}

// UpsertFacebookUser keys on username, which holds the Facebook user ID for accounts
// created through the Facebook login flow. Role is preserved on conflict so a promoted
// account keeps its role across logins.
func (r *userRepository) UpsertFacebookUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (username) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email, picture_url = EXCLUDED.picture_url,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + userColumns

	now := time.Now()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = "user"
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	saved, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.Name,
		user.Email,
		user.PictureURL,
		user.CreatedAt,
		user.UpdatedAt,
	))
	if err != nil {
		r.logger.Error("Failed to upsert facebook user", zap.Error(err))
		return nil, err
	}

	return saved, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.Name,
		&user.Email,
		&user.PictureURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
