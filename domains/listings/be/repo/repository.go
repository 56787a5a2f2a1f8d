package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/RidgelineRealtyCo/broker-portal/platform/go/persistence"
)

// Repository defines the persistence operations required by the listings service.
type Repository interface {
	Create(ctx context.Context, params persistence.CreateListingParams) (persistence.Listing, error)
	Update(ctx context.Context, id uuid.UUID, params persistence.UpdateListingParams) (persistence.Listing, error)
	Get(ctx context.Context, id uuid.UUID) (persistence.Listing, error)
	List(ctx context.Context) ([]persistence.Listing, error)
	Search(ctx context.Context, params persistence.SearchListingsParams) ([]persistence.Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	store *persistence.ListingStore
}

// NewPostgresRepository constructs a repository backed by the shared persistence layer.
func NewPostgresRepository(store *persistence.ListingStore) Repository {
	if store == nil {
		panic("listing store is required")
	}
	return &postgresRepository{store: store}
}

func (r *postgresRepository) Create(ctx context.Context, params persistence.CreateListingParams) (persistence.Listing, error) {
	return r.store.CreateListing(ctx, params)
}

func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, params persistence.UpdateListingParams) (persistence.Listing, error) {
	return r.store.UpdateListing(ctx, id, params)
}

func (r *postgresRepository) Get(ctx context.Context, id uuid.UUID) (persistence.Listing, error) {
	return r.store.GetListing(ctx, id)
}

func (r *postgresRepository) List(ctx context.Context) ([]persistence.Listing, error) {
	return r.store.ListListings(ctx)
}

func (r *postgresRepository) Search(ctx context.Context, params persistence.SearchListingsParams) ([]persistence.Listing, error) {
	return r.store.SearchListings(ctx, params)
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.DeleteListing(ctx, id)
}
