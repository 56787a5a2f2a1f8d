package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ActivityLogsTable = "activity_logs"

// ActivityLogEntry represents a row in the activity_logs table. The trail is
// append-only: this store deliberately has no update or delete helpers.
type ActivityLogEntry struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	UserEmail string    `db:"user_email" json:"userEmail"`
	Action    string    `db:"action" json:"action"`
	Details   string    `db:"details" json:"details"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ActivityLogStore exposes persistence helpers for the activity_logs table.
type ActivityLogStore struct {
	pool *pgxpool.Pool
}

// NewActivityLogStore returns a store instance bound to the shared pool.
func NewActivityLogStore(pool *pgxpool.Pool) (*ActivityLogStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &ActivityLogStore{pool: pool}, nil
}

// InsertEntryParams captures one audit record. The actor's email is stored by
// value so the entry stays attributable after the account is removed.
type InsertEntryParams struct {
	UserID    string
	UserEmail string
	Action    string
	Details   string
}

// InsertEntry appends one audit record and returns it with server-assigned
// id and timestamp.
func (s *ActivityLogStore) InsertEntry(ctx context.Context, params InsertEntryParams) (ActivityLogEntry, error) {
	if strings.TrimSpace(params.Action) == "" {
		return ActivityLogEntry{}, errors.New("action is required")
	}

	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        INSERT INTO %s (user_id, user_email, action, details)
        VALUES ($1, $2, $3, $4)
        RETURNING id, user_id, user_email, action, details, created_at
    `, ActivityLogsTable),
		params.UserID,
		params.UserEmail,
		params.Action,
		params.Details,
	)

	return scanActivityLogEntry(row)
}

// ListEntries returns the full trail, newest first.
func (s *ActivityLogStore) ListEntries(ctx context.Context) ([]ActivityLogEntry, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
        SELECT id, user_id, user_email, action, details, created_at
        FROM %s ORDER BY created_at DESC
    `, ActivityLogsTable))
	if err != nil {
		return nil, fmt.Errorf("list activity log: %w", err)
	}
	defer rows.Close()

	entries := make([]ActivityLogEntry, 0)
	for rows.Next() {
		entry, scanErr := scanActivityLogEntry(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan activity log entry: %w", scanErr)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity log: %w", err)
	}

	return entries, nil
}

func scanActivityLogEntry(row pgx.Row) (ActivityLogEntry, error) {
	var e ActivityLogEntry

	if err := row.Scan(&e.ID, &e.UserID, &e.UserEmail, &e.Action, &e.Details, &e.CreatedAt); err != nil {
		return ActivityLogEntry{}, err
	}

	return e, nil
}
