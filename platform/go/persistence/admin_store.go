package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const AdminUsersTable = "admin_users"

// AdminUser represents a row in the admin_users profile table. The row mirrors
// the identity store: user_id is the identity-store UID and role must match
// the role claim held there.
type AdminUser struct {
	UserID    string    `db:"user_id" json:"userId"`
	Email     string    `db:"email" json:"email"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

var (
	// ErrAdminNotFound indicates a missing admin profile row.
	ErrAdminNotFound = errors.New("admin not found")
	// ErrAdminConflict indicates a uniqueness violation (duplicate user_id or email).
	ErrAdminConflict = errors.New("admin conflict")
)

// AdminStore exposes persistence helpers for the admin_users table.
type AdminStore struct {
	pool *pgxpool.Pool
}

// NewAdminStore returns a store instance bound to the shared pool.
func NewAdminStore(pool *pgxpool.Pool) (*AdminStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &AdminStore{pool: pool}, nil
}

// InsertAdmin records the profile row for a freshly provisioned identity user.
func (s *AdminStore) InsertAdmin(ctx context.Context, userID, email, role string) (AdminUser, error) {
	if strings.TrimSpace(userID) == "" {
		return AdminUser{}, errors.New("user id is required")
	}

	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        INSERT INTO %s (user_id, email, role)
        VALUES ($1, $2, $3)
        RETURNING user_id, email, role, created_at
    `, AdminUsersTable), userID, strings.TrimSpace(email), role)

	admin, err := scanAdmin(row)
	if err != nil {
		if isUniqueViolation(err) {
			return AdminUser{}, ErrAdminConflict
		}
		return AdminUser{}, err
	}

	return admin, nil
}

// UpdateAdminRole flips the role column for the given user id.
func (s *AdminStore) UpdateAdminRole(ctx context.Context, userID, role string) (AdminUser, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        UPDATE %s SET role = $1 WHERE user_id = $2
        RETURNING user_id, email, role, created_at
    `, AdminUsersTable), role, userID)

	admin, err := scanAdmin(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AdminUser{}, ErrAdminNotFound
		}
		return AdminUser{}, err
	}

	return admin, nil
}

// GetAdmin returns the profile row for a user id.
func (s *AdminStore) GetAdmin(ctx context.Context, userID string) (AdminUser, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT user_id, email, role, created_at FROM %s WHERE user_id = $1
    `, AdminUsersTable), userID)

	admin, err := scanAdmin(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AdminUser{}, ErrAdminNotFound
		}
		return AdminUser{}, err
	}

	return admin, nil
}

// ListAdmins returns every profile row, oldest account first.
func (s *AdminStore) ListAdmins(ctx context.Context) ([]AdminUser, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
        SELECT user_id, email, role, created_at FROM %s ORDER BY created_at ASC
    `, AdminUsersTable))
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	admins := make([]AdminUser, 0)
	for rows.Next() {
		admin, scanErr := scanAdmin(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan admin: %w", scanErr)
		}
		admins = append(admins, admin)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admins: %w", err)
	}

	return admins, nil
}

// DeleteAdmin removes the profile row for a user id.
func (s *AdminStore) DeleteAdmin(ctx context.Context, userID string) error {
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, AdminUsersTable), userID)
	if err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrAdminNotFound
	}

	return nil
}

func scanAdmin(row pgx.Row) (AdminUser, error) {
	var a AdminUser

	if err := row.Scan(&a.UserID, &a.Email, &a.Role, &a.CreatedAt); err != nil {
		return AdminUser{}, err
	}

	return a, nil
}
