package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RidgelineRealtyCo/broker-portal/domains/admins/be/repo"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/actor"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/identity"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/persistence"
)

// FieldErrors maps request fields to validation issues.
type FieldErrors map[string][]string

func (f FieldErrors) add(field, message string) {
	f[field] = append(f[field], message)
}

// ValidationError is returned when the input payload is invalid.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	return "validation error"
}

// Domain sentinel errors.
var (
	ErrNotFound = errors.New("admin not found")
	ErrConflict = errors.New("admin conflict")
	// ErrConsistency signals that the identity store and the profile table
	// disagree about an account's role and need reconciliation.
	ErrConsistency = errors.New("identity store and profile table out of sync")
)

// Admin is the domain view of an administrator account.
type Admin struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	Role      actor.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateInput carries the payload for provisioning a new admin account.
// When Password is empty a temporary one is generated; either way the
// operator is expected to trigger a password reset for the new account.
type CreateInput struct {
	Email    string
	Password string
}

// Service defines the superadmin-only account management operations. Every
// mutation writes the identity store first and the profile table second,
// keyed by the same user_id.
type Service interface {
	Create(ctx context.Context, act actor.Actor, input CreateInput) (Admin, error)
	Promote(ctx context.Context, act actor.Actor, userID string) (Admin, error)
	Demote(ctx context.Context, act actor.Actor, userID string) (Admin, error)
	Remove(ctx context.Context, act actor.Actor, userID string) error
	ResetPassword(ctx context.Context, act actor.Actor, userID string) error
	List(ctx context.Context) ([]Admin, error)
}

type service struct {
	repo          repo.Repository
	identities    identity.Store
	resetRedirect string
	logger        *zap.Logger
}

// New constructs an admins Service instance. resetRedirect is the URL the
// password-reset flow lands on after the user follows the emailed link.
func New(r repo.Repository, identities identity.Store, resetRedirect string, logger *zap.Logger) Service {
	if r == nil {
		panic("admins repository is required")
	}
	if identities == nil {
		panic("identity store is required")
	}
	if logger == nil {
		panic("logger is required")
	}

	return &service{repo: r, identities: identities, resetRedirect: resetRedirect, logger: logger}
}

// Create provisions the identity user first, then the matching profile row.
// An identity failure means no profile insert; the reverse gap (identity
// created, profile insert failed) leaves an orphaned identity and is
// reported, not hidden.
func (s *service) Create(ctx context.Context, act actor.Actor, input CreateInput) (Admin, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	fieldErrors := FieldErrors{}
	if email == "" {
		fieldErrors.add("email", "email is required")
	} else if !strings.Contains(email, "@") {
		fieldErrors.add("email", "email must contain '@'")
	}
	if len(fieldErrors) > 0 {
		return Admin{}, &ValidationError{Fields: fieldErrors}
	}

	password := input.Password
	if password == "" {
		var err error
		password, err = temporaryPassword()
		if err != nil {
			return Admin{}, fmt.Errorf("generate temporary password: %w", err)
		}
	}

	userID, err := s.identities.CreateUser(ctx, email, password, string(actor.RoleAdmin))
	if err != nil {
		return Admin{}, fmt.Errorf("create identity user: %w", err)
	}

	record, err := s.repo.Insert(ctx, userID, email, string(actor.RoleAdmin))
	if err != nil {
		s.logger.Error("identity user created but profile insert failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return Admin{}, mapPersistenceError(err)
	}

	return mapAdmin(record), nil
}

// Promote raises an admin to superadmin.
func (s *service) Promote(ctx context.Context, act actor.Actor, userID string) (Admin, error) {
	return s.changeRole(ctx, userID, actor.RoleAdmin, actor.RoleSuperadmin)
}

// Demote lowers a superadmin back to admin.
func (s *service) Demote(ctx context.Context, act actor.Actor, userID string) (Admin, error) {
	return s.changeRole(ctx, userID, actor.RoleSuperadmin, actor.RoleAdmin)
}

// changeRole performs the two-store role transition: identity metadata
// first, profile row second. When the second write fails it attempts to
// revert the identity write and reports ErrConsistency either way.
func (s *service) changeRole(ctx context.Context, userID string, from, to actor.Role) (Admin, error) {
	if userID == "" {
		return Admin{}, ErrNotFound
	}

	current, err := s.repo.Get(ctx, userID)
	if err != nil {
		return Admin{}, mapPersistenceError(err)
	}
	if current.Role != string(from) {
		return Admin{}, fmt.Errorf("%w: account role is %q, expected %q", ErrConflict, current.Role, from)
	}

	if err := s.identities.SetRole(ctx, userID, string(to)); err != nil {
		return Admin{}, mapIdentityError(err)
	}

	record, err := s.repo.UpdateRole(ctx, userID, string(to))
	if err != nil {
		if revertErr := s.identities.SetRole(ctx, userID, string(from)); revertErr != nil {
			s.logger.Error("role revert failed, stores disagree",
				zap.String("user_id", userID),
				zap.String("identity_role", string(to)),
				zap.String("profile_role", string(from)),
				zap.Error(revertErr),
			)
			return Admin{}, fmt.Errorf("%w: profile update and identity revert both failed: %v", ErrConsistency, err)
		}
		return Admin{}, fmt.Errorf("%w: profile update failed, identity write reverted: %v", ErrConsistency, err)
	}

	return mapAdmin(record), nil
}

// Remove deletes the identity user first, then the profile row.
func (s *service) Remove(ctx context.Context, act actor.Actor, userID string) error {
	if userID == "" {
		return ErrNotFound
	}

	if _, err := s.repo.Get(ctx, userID); err != nil {
		return mapPersistenceError(err)
	}

	if err := s.identities.DeleteUser(ctx, userID); err != nil {
		return mapIdentityError(err)
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		s.logger.Error("identity user deleted but profile row remains",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: identity deleted, profile row remains: %v", ErrConsistency, err)
	}

	return nil
}

// ResetPassword resolves the account email from the identity store and
// dispatches the reset message. Role state is untouched.
func (s *service) ResetPassword(ctx context.Context, act actor.Actor, userID string) error {
	if userID == "" {
		return ErrNotFound
	}

	email, err := s.identities.EmailByID(ctx, userID)
	if err != nil {
		return mapIdentityError(err)
	}

	if err := s.identities.SendPasswordReset(ctx, email, s.resetRedirect); err != nil {
		return fmt.Errorf("send password reset: %w", err)
	}

	return nil
}

func (s *service) List(ctx context.Context) ([]Admin, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	admins := make([]Admin, 0, len(records))
	for _, record := range records {
		admins = append(admins, mapAdmin(record))
	}

	return admins, nil
}

func temporaryPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func mapAdmin(record persistence.AdminUser) Admin {
	return Admin{
		UserID:    record.UserID,
		Email:     record.Email,
		Role:      actor.Role(record.Role),
		CreatedAt: record.CreatedAt,
	}
}

func mapPersistenceError(err error) error {
	switch {
	case errors.Is(err, persistence.ErrAdminNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrAdminConflict):
		return ErrConflict
	default:
		return err
	}
}

func mapIdentityError(err error) error {
	if errors.Is(err, identity.ErrUserNotFound) {
		return ErrNotFound
	}
	return err
}
