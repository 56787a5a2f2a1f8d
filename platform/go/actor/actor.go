package actor

import (
	"context"
	"errors"

	platformauth "github.com/RidgelineRealtyCo/broker-portal/platform/go/auth"
)

// Role is the back-office role attached to an authenticated actor.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Valid reports whether the role is one of the two known back-office roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// Actor identifies who performs a workflow invocation. It is captured once at
// the HTTP boundary and passed explicitly into every service call so that
// workflows never read ambient session state.
type Actor struct {
	UserID string
	Email  string
	Role   Role
}

type ctxKey struct{}

// ErrMissingActor is returned when a request reaches a workflow without an
// authenticated actor on its context.
var ErrMissingActor = errors.New("actor missing from context")

// IntoContext stores the actor on the provided context.
func IntoContext(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext extracts the actor from context, returning false when not present.
func FromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}

// FromCredentials builds an Actor from verified token credentials.
// Returns an error when creds are nil or carry no user id.
func FromCredentials(creds *platformauth.UserCredentials) (Actor, error) {
	if creds == nil {
		return Actor{}, errors.New("credentials are required to build an actor")
	}
	if creds.Id == "" {
		return Actor{}, errors.New("user id is required to build an actor")
	}

	role := Role(creds.Role)
	if !role.Valid() {
		role = RoleAdmin
	}

	return Actor{
		UserID: creds.Id,
		Email:  creds.Email,
		Role:   role,
	}, nil
}

// System builds an Actor for maintenance operations that run outside a user session.
func System() Actor {
	return Actor{UserID: "system", Email: "system", Role: RoleSuperadmin}
}
