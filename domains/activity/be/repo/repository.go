package repo

import (
	"context"

	"github.com/RidgelineRealtyCo/broker-portal/platform/go/persistence"
)

// Repository defines the persistence operations required by the activity service.
// The audit trail is append-only, so there is no update or delete.
type Repository interface {
	Insert(ctx context.Context, params persistence.InsertEntryParams) (persistence.ActivityLogEntry, error)
	List(ctx context.Context) ([]persistence.ActivityLogEntry, error)
}

type postgresRepository struct {
	store *persistence.ActivityLogStore
}

// NewPostgresRepository constructs a repository backed by the shared persistence layer.
func NewPostgresRepository(store *persistence.ActivityLogStore) Repository {
	if store == nil {
		panic("activity log store is required")
	}
	return &postgresRepository{store: store}
}

func (r *postgresRepository) Insert(ctx context.Context, params persistence.InsertEntryParams) (persistence.ActivityLogEntry, error) {
	return r.store.InsertEntry(ctx, params)
}

func (r *postgresRepository) List(ctx context.Context) ([]persistence.ActivityLogEntry, error) {
	return r.store.ListEntries(ctx)
}
