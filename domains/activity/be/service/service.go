package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/RidgelineRealtyCo/broker-portal/domains/activity/be/repo"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/actor"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/persistence"
)

// Entry is the domain view of one audit record.
type Entry struct {
	ID        uuid.UUID
	UserID    string
	UserEmail string
	Action    Action
	Details   string
	CreatedAt time.Time
}

// Service is the audit trail: an append-only recorder plus a read side for
// the superadmin console. Entries are never mutated or deleted.
type Service interface {
	// Record appends one entry attributed to the acting admin. It runs only
	// after the primary mutation has succeeded; a failure here must not roll
	// that mutation back.
	Record(ctx context.Context, act actor.Actor, details Details) (Entry, error)
	// List returns the full trail, newest first.
	List(ctx context.Context) ([]Entry, error)
}

type service struct {
	repo repo.Repository
}

// New constructs the activity Service backed by the provided repository.
func New(r repo.Repository) Service {
	if r == nil {
		panic("activity repository is required")
	}
	return &service{repo: r}
}

func (s *service) Record(ctx context.Context, act actor.Actor, details Details) (Entry, error) {
	if details == nil {
		return Entry{}, errors.New("details are required")
	}
	if act.UserID == "" {
		return Entry{}, errors.New("actor user id is required")
	}

	record, err := s.repo.Insert(ctx, persistence.InsertEntryParams{
		UserID:    act.UserID,
		UserEmail: act.Email,
		Action:    string(details.Action()),
		Details:   details.Render(),
	})
	if err != nil {
		return Entry{}, err
	}

	return mapEntry(record), nil
}

func (s *service) List(ctx context.Context) ([]Entry, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, mapEntry(record))
	}

	return entries, nil
}

func mapEntry(record persistence.ActivityLogEntry) Entry {
	return Entry{
		ID:        record.ID,
		UserID:    record.UserID,
		UserEmail: record.UserEmail,
		Action:    Action(record.Action),
		Details:   record.Details,
		CreatedAt: record.CreatedAt,
	}
}
