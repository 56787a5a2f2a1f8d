package repo

import (
	"context"

	"github.com/RidgelineRealtyCo/broker-portal/platform/go/persistence"
)

// Repository defines the profile-table operations required by the admins service.
type Repository interface {
	Insert(ctx context.Context, userID, email, role string) (persistence.AdminUser, error)
	UpdateRole(ctx context.Context, userID, role string) (persistence.AdminUser, error)
	Get(ctx context.Context, userID string) (persistence.AdminUser, error)
	List(ctx context.Context) ([]persistence.AdminUser, error)
	Delete(ctx context.Context, userID string) error
}

type postgresRepository struct {
	store *persistence.AdminStore
}

// NewPostgresRepository constructs a repository backed by the shared persistence layer.
func NewPostgresRepository(store *persistence.AdminStore) Repository {
	if store == nil {
		panic("admin store is required")
	}
	return &postgresRepository{store: store}
}

func (r *postgresRepository) Insert(ctx context.Context, userID, email, role string) (persistence.AdminUser, error) {
	return r.store.InsertAdmin(ctx, userID, email, role)
}

func (r *postgresRepository) UpdateRole(ctx context.Context, userID, role string) (persistence.AdminUser, error) {
	return r.store.UpdateAdminRole(ctx, userID, role)
}

func (r *postgresRepository) Get(ctx context.Context, userID string) (persistence.AdminUser, error) {
	return r.store.GetAdmin(ctx, userID)
}

func (r *postgresRepository) List(ctx context.Context) ([]persistence.AdminUser, error) {
	return r.store.ListAdmins(ctx)
}

func (r *postgresRepository) Delete(ctx context.Context, userID string) error {
	return r.store.DeleteAdmin(ctx, userID)
}
