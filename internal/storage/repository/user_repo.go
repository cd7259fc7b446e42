package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magicdecks/tracker/internal/storage/models"
)

// DefaultUserID is the id of the seeded single-user owner row.
const DefaultUserID = 1

// UserRepository handles database operations for users.
type UserRepository interface {
	// Create inserts a new user and returns its generated id.
	Create(ctx context.Context, name string, email *string) (int64, error)

	// GetByID retrieves a user by id, or nil if no row matches.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// List retrieves all users ordered by name.
	List(ctx context.Context) ([]*models.User, error)

	// EnsureDefault inserts the default owner row if it does not exist.
	EnsureDefault(ctx context.Context) error
}

// userRepository is the concrete implementation of UserRepository.
type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user and returns its generated id.
func (r *userRepository) Create(ctx context.Context, name string, email *string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email) VALUES (?, ?)`,
		name, email,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get user id: %w", err)
	}

	return id, nil
}

// GetByID retrieves a user by id.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at, updated_at FROM users WHERE id = ?`,
		id,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// List retrieves all users ordered by name.
func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, created_at, updated_at FROM users ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// EnsureDefault inserts the default owner row if it does not exist.
func (r *userRepository) EnsureDefault(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (id, name, email) VALUES (?, 'Default User', 'user@example.com')`,
		DefaultUserID,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure default user: %w", err)
	}
	return nil
}
