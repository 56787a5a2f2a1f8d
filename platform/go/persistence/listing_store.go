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

const ListingsTable = "listings"

// Listing represents a row in the listings table.
type Listing struct {
	ID                uuid.UUID `db:"id" json:"id"`
	MLSID             string    `db:"mls_id" json:"mlsId"`
	Compensation      string    `db:"compensation" json:"compensation"`
	Address           string    `db:"address" json:"address"`
	BrokerName        string    `db:"broker_name" json:"brokerName"`
	BrokerEmail       string    `db:"broker_email" json:"brokerEmail"`
	BrokerPhone       string    `db:"broker_phone" json:"brokerPhone"`
	ListingAgent      string    `db:"listing_agent" json:"listingAgent"`
	ListingAgentPhone string    `db:"listing_agent_phone" json:"listingAgentPhone"`
	ListingAgentEmail string    `db:"listing_agent_email" json:"listingAgentEmail"`
	PDFPath           string    `db:"pdf_path" json:"pdfPath"`
	UploadedAt        time.Time `db:"uploaded_at" json:"uploadedAt"`
}

var (
	// ErrListingNotFound indicates a missing listing record.
	ErrListingNotFound = errors.New("listing not found")
	// ErrListingConflict indicates a uniqueness violation.
	ErrListingConflict = errors.New("listing conflict")
)

// ListingStore exposes persistence helpers for the listings table.
type ListingStore struct {
	pool *pgxpool.Pool
}

// NewListingStore returns a store instance bound to the shared pool.
func NewListingStore(pool *pgxpool.Pool) (*ListingStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &ListingStore{pool: pool}, nil
}

// CreateListingParams captures the fields required to insert a new listing.
type CreateListingParams struct {
	ID                uuid.UUID
	MLSID             string
	Compensation      string
	Address           string
	BrokerName        string
	BrokerEmail       string
	BrokerPhone       string
	ListingAgent      string
	ListingAgentPhone string
	ListingAgentEmail string
	PDFPath           string
}

const listingColumns = `id, mls_id, compensation, address, broker_name, broker_email, broker_phone,
        listing_agent, listing_agent_phone, listing_agent_email, pdf_path, uploaded_at`

// CreateListing inserts a new listing and returns the persisted record.
func (s *ListingStore) CreateListing(ctx context.Context, params CreateListingParams) (Listing, error) {
	if params.ID == uuid.Nil {
		return Listing{}, errors.New("listing id is required")
	}

	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        INSERT INTO %s (id, mls_id, compensation, address, broker_name, broker_email, broker_phone,
            listing_agent, listing_agent_phone, listing_agent_email, pdf_path)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING %s
    `, ListingsTable, listingColumns),
		params.ID,
		strings.TrimSpace(params.MLSID),
		params.Compensation,
		params.Address,
		params.BrokerName,
		params.BrokerEmail,
		params.BrokerPhone,
		params.ListingAgent,
		params.ListingAgentPhone,
		params.ListingAgentEmail,
		params.PDFPath,
	)

	listing, err := scanListing(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Listing{}, ErrListingConflict
		}
		return Listing{}, err
	}

	return listing, nil
}

// UpdateListingParams carries every mutable listing field; the workflow always
// submits the full edited record in one write. pdf_path is intentionally
// absent: it is fixed at create time.
type UpdateListingParams struct {
	MLSID             string
	Compensation      string
	Address           string
	BrokerName        string
	BrokerEmail       string
	BrokerPhone       string
	ListingAgent      string
	ListingAgentPhone string
	ListingAgentEmail string
}

// UpdateListing applies the provided fields and returns the updated record.
func (s *ListingStore) UpdateListing(ctx context.Context, id uuid.UUID, params UpdateListingParams) (Listing, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        UPDATE %s
        SET mls_id = $1, compensation = $2, address = $3, broker_name = $4, broker_email = $5,
            broker_phone = $6, listing_agent = $7, listing_agent_phone = $8, listing_agent_email = $9
        WHERE id = $10
        RETURNING %s
    `, ListingsTable, listingColumns),
		strings.TrimSpace(params.MLSID),
		params.Compensation,
		params.Address,
		params.BrokerName,
		params.BrokerEmail,
		params.BrokerPhone,
		params.ListingAgent,
		params.ListingAgentPhone,
		params.ListingAgentEmail,
		id,
	)

	listing, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Listing{}, ErrListingNotFound
		}
		if isUniqueViolation(err) {
			return Listing{}, ErrListingConflict
		}
		return Listing{}, err
	}

	return listing, nil
}

// GetListing returns a single listing by identifier.
func (s *ListingStore) GetListing(ctx context.Context, id uuid.UUID) (Listing, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT %s FROM %s WHERE id = $1
    `, listingColumns, ListingsTable), id)

	listing, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Listing{}, ErrListingNotFound
		}
		return Listing{}, err
	}

	return listing, nil
}

// ListListings returns every listing ordered newest first.
func (s *ListingStore) ListListings(ctx context.Context) ([]Listing, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
        SELECT %s FROM %s ORDER BY uploaded_at DESC
    `, listingColumns, ListingsTable))
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

// SearchListingsParams captures the public search inputs.
type SearchListingsParams struct {
	Query         string
	SortField     string // "mls_id" or "address"
	SortAscending bool
}

// SearchListings pattern-matches the query against mls_id and address.
func (s *ListingStore) SearchListings(ctx context.Context, params SearchListingsParams) ([]Listing, error) {
	column, err := searchSortColumn(params.SortField)
	if err != nil {
		return nil, err
	}

	direction := "DESC"
	if params.SortAscending {
		direction = "ASC"
	}

	pattern := "%" + strings.TrimSpace(params.Query) + "%"

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
        SELECT %s FROM %s
        WHERE mls_id ILIKE $1 OR address ILIKE $1
        ORDER BY %s %s
    `, listingColumns, ListingsTable, column, direction), pattern)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

// DeleteListing removes a listing by identifier.
func (s *ListingStore) DeleteListing(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrListingNotFound
	}

	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, ListingsTable), id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrListingNotFound
	}

	return nil
}

func searchSortColumn(field string) (string, error) {
	switch field {
	case "", "mls_id":
		return "mls_id", nil
	case "address":
		return "address", nil
	default:
		return "", fmt.Errorf("unsupported sort field %q", field)
	}
}

func collectListings(rows pgx.Rows) ([]Listing, error) {
	listings := make([]Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}

	return listings, nil
}

func scanListing(row pgx.Row) (Listing, error) {
	var l Listing

	if err := row.Scan(
		&l.ID,
		&l.MLSID,
		&l.Compensation,
		&l.Address,
		&l.BrokerName,
		&l.BrokerEmail,
		&l.BrokerPhone,
		&l.ListingAgent,
		&l.ListingAgentPhone,
		&l.ListingAgentEmail,
		&l.PDFPath,
		&l.UploadedAt,
	); err != nil {
		return Listing{}, err
	}

	return l, nil
}
