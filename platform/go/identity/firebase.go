package identity

import (
	"context"
	"fmt"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"
)

// ResetMailer delivers the password-reset link. Firebase Admin only mints
// links; the actual email goes out through a mail provider.
type ResetMailer interface {
	SendResetLink(ctx context.Context, email, link string) error
}

// FirebaseStore implements Store on top of Firebase Auth. The back-office role
// lives in custom claims so it is present on every verified ID token.
type FirebaseStore struct {
	client *firebaseauth.Client
	mailer ResetMailer
}

func NewFirebaseStore(client *firebaseauth.Client, mailer ResetMailer) *FirebaseStore {
	if client == nil {
		panic("firebase store requires auth client")
	}
	if mailer == nil {
		panic("firebase store requires reset mailer")
	}
	return &FirebaseStore{client: client, mailer: mailer}
}

func (s *FirebaseStore) CreateUser(ctx context.Context, email, password, role string) (string, error) {
	params := (&firebaseauth.UserToCreate{}).
		Email(strings.TrimSpace(email)).
		Password(password).
		EmailVerified(true)

	record, err := s.client.CreateUser(ctx, params)
	if err != nil {
		return "", fmt.Errorf("create identity user: %w", err)
	}

	if err := s.client.SetCustomUserClaims(ctx, record.UID, map[string]interface{}{"role": role}); err != nil {
		return "", fmt.Errorf("set role claim: %w", err)
	}

	return record.UID, nil
}

func (s *FirebaseStore) SetRole(ctx context.Context, userID, role string) error {
	if err := s.client.SetCustomUserClaims(ctx, userID, map[string]interface{}{"role": role}); err != nil {
		if firebaseauth.IsUserNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("set role claim: %w", err)
	}
	return nil
}

func (s *FirebaseStore) DeleteUser(ctx context.Context, userID string) error {
	if err := s.client.DeleteUser(ctx, userID); err != nil {
		if firebaseauth.IsUserNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete identity user: %w", err)
	}
	return nil
}

func (s *FirebaseStore) EmailByID(ctx context.Context, userID string) (string, error) {
	record, err := s.client.GetUser(ctx, userID)
	if err != nil {
		if firebaseauth.IsUserNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("get identity user: %w", err)
	}
	return record.Email, nil
}

func (s *FirebaseStore) SendPasswordReset(ctx context.Context, email, redirectTo string) error {
	settings := &firebaseauth.ActionCodeSettings{URL: redirectTo}

	link, err := s.client.PasswordResetLinkWithSettings(ctx, email, settings)
	if err != nil {
		return fmt.Errorf("mint password reset link: %w", err)
	}

	if err := s.mailer.SendResetLink(ctx, email, link); err != nil {
		return fmt.Errorf("dispatch password reset mail: %w", err)
	}

	return nil
}

var _ Store = (*FirebaseStore)(nil)
