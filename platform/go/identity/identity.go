package identity

import (
	"context"
	"errors"
)

// Store is the identity-store contract the admin role workflow depends on.
// Role metadata written here must always match the admin profile table; the
// workflow owns that invariant, the store just executes single writes.
type Store interface {
	// CreateUser provisions a credentialed user with the given role metadata
	// and returns its stable user id.
	CreateUser(ctx context.Context, email, password, role string) (string, error)
	// SetRole replaces the role metadata on an existing user.
	SetRole(ctx context.Context, userID, role string) error
	// DeleteUser removes the user and its credentials. Irreversible.
	DeleteUser(ctx context.Context, userID string) error
	// EmailByID resolves the account email for a user id.
	EmailByID(ctx context.Context, userID string) (string, error)
	// SendPasswordReset dispatches a password-reset message to email, with the
	// reset flow landing on redirectTo.
	SendPasswordReset(ctx context.Context, email, redirectTo string) error
}

// ErrUserNotFound indicates the user id is unknown to the identity store.
var ErrUserNotFound = errors.New("identity user not found")
