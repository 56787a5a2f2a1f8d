package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RidgelineRealtyCo/broker-portal/domains/activity/be/diff"
	activityservice "github.com/RidgelineRealtyCo/broker-portal/domains/activity/be/service"
	"github.com/RidgelineRealtyCo/broker-portal/domains/listings/be/repo"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/actor"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/persistence"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/storage"
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
	ErrNotFound = errors.New("listing not found")
	ErrConflict = errors.New("listing conflict")
)

// minSearchLength is the shortest public search query that hits the store.
const minSearchLength = 3

// Listing is the domain view of a listing record.
type Listing struct {
	ID                uuid.UUID `json:"id"`
	MLSID             string    `json:"mls_id"`
	Compensation      string    `json:"compensation"`
	Address           string    `json:"address"`
	BrokerName        string    `json:"broker_name"`
	BrokerEmail       string    `json:"broker_email"`
	BrokerPhone       string    `json:"broker_phone"`
	ListingAgent      string    `json:"listing_agent"`
	ListingAgentPhone string    `json:"listing_agent_phone"`
	ListingAgentEmail string    `json:"listing_agent_email"`
	PDFPath           string    `json:"pdf_path"`
	PDFURL            string    `json:"pdf_url"`
	UploadedAt        time.Time `json:"uploaded_at"`
}

// Fields carries the operator-editable listing fields, shared by create and
// update payloads.
type Fields struct {
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

// SearchInput captures the public search parameters.
type SearchInput struct {
	Query         string
	SortField     string
	SortAscending bool
}

// Service defines the business operations for the listings domain.
//
// The mutating operations take the acting admin so the audit trail can
// attribute every change; audit failures never roll back a completed
// mutation.
type Service interface {
	Create(ctx context.Context, act actor.Actor, input Fields, pdf io.Reader) (Listing, error)
	Update(ctx context.Context, act actor.Actor, id uuid.UUID, input Fields, pdf io.Reader) (Listing, error)
	Delete(ctx context.Context, act actor.Actor, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (Listing, error)
	List(ctx context.Context) ([]Listing, error)
	Search(ctx context.Context, input SearchInput) ([]Listing, error)
}

type service struct {
	repo    repo.Repository
	objects storage.ObjectStore
	audit   activityservice.Service
	logger  *zap.Logger
}

// New constructs a listings Service instance.
func New(r repo.Repository, objects storage.ObjectStore, audit activityservice.Service, logger *zap.Logger) Service {
	if r == nil {
		panic("listings repository is required")
	}
	if objects == nil {
		panic("object store is required")
	}
	if audit == nil {
		panic("activity service is required")
	}
	if logger == nil {
		panic("logger is required")
	}

	return &service{repo: r, objects: objects, audit: audit, logger: logger}
}

// Create stores the agreement document under "<mls_id>.pdf", inserts the
// listing row pointing at it, then records the audit entry.
func (s *service) Create(ctx context.Context, act actor.Actor, input Fields, pdf io.Reader) (Listing, error) {
	input = trimFields(input)

	fieldErrors := validateFields(input)
	if pdf == nil {
		fieldErrors.add("pdf", "agreement PDF is required")
	}
	if len(fieldErrors) > 0 {
		return Listing{}, &ValidationError{Fields: fieldErrors}
	}

	pdfPath := input.MLSID + ".pdf"
	if err := s.objects.Upload(ctx, pdfPath, pdf); err != nil {
		return Listing{}, err
	}

	record, err := s.repo.Create(ctx, persistence.CreateListingParams{
		ID:                uuid.New(),
		MLSID:             input.MLSID,
		Compensation:      input.Compensation,
		Address:           input.Address,
		BrokerName:        input.BrokerName,
		BrokerEmail:       input.BrokerEmail,
		BrokerPhone:       input.BrokerPhone,
		ListingAgent:      input.ListingAgent,
		ListingAgentPhone: input.ListingAgentPhone,
		ListingAgentEmail: input.ListingAgentEmail,
		PDFPath:           pdfPath,
	})
	if err != nil {
		return Listing{}, mapPersistenceError(err)
	}

	s.record(ctx, act, activityservice.CreateSummary{
		MLSID:             record.MLSID,
		Address:           record.Address,
		Compensation:      record.Compensation,
		BrokerName:        record.BrokerName,
		BrokerEmail:       record.BrokerEmail,
		BrokerPhone:       record.BrokerPhone,
		ListingAgent:      record.ListingAgent,
		ListingAgentPhone: record.ListingAgentPhone,
		ListingAgentEmail: record.ListingAgentEmail,
		PDFPath:           record.PDFPath,
	})

	return s.mapListing(record), nil
}

// Update rewrites every editable field and, when a replacement document is
// provided, overwrites the object at the listing's existing pdf_path. The
// path itself is never recomputed, even when mls_id changes.
func (s *service) Update(ctx context.Context, act actor.Actor, id uuid.UUID, input Fields, pdf io.Reader) (Listing, error) {
	if id == uuid.Nil {
		return Listing{}, ErrNotFound
	}

	input = trimFields(input)
	if fieldErrors := validateFields(input); len(fieldErrors) > 0 {
		return Listing{}, &ValidationError{Fields: fieldErrors}
	}

	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return Listing{}, mapPersistenceError(err)
	}

	if pdf != nil {
		if err := s.objects.Upload(ctx, before.PDFPath, pdf); err != nil {
			return Listing{}, err
		}
	}

	after, err := s.repo.Update(ctx, id, persistence.UpdateListingParams{
		MLSID:             input.MLSID,
		Compensation:      input.Compensation,
		Address:           input.Address,
		BrokerName:        input.BrokerName,
		BrokerEmail:       input.BrokerEmail,
		BrokerPhone:       input.BrokerPhone,
		ListingAgent:      input.ListingAgent,
		ListingAgentPhone: input.ListingAgentPhone,
		ListingAgentEmail: input.ListingAgentEmail,
	})
	if err != nil {
		return Listing{}, mapPersistenceError(err)
	}

	beforeSnap := snapshotOf(before)
	afterSnap := snapshotOf(after)
	s.record(ctx, act, activityservice.UpdateDiff{
		ListingID: id.String(),
		Changes:   diff.Compare(beforeSnap, afterSnap),
		Before:    beforeSnap,
		After:     afterSnap,
	})

	return s.mapListing(after), nil
}

// Delete removes the listing row first, then its agreement object.
func (s *service) Delete(ctx context.Context, act actor.Actor, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrNotFound
	}

	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return mapPersistenceError(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapPersistenceError(err)
	}

	if err := s.objects.Remove(ctx, record.PDFPath); err != nil {
		s.logger.Warn("failed to remove agreement object",
			zap.String("pdf_path", record.PDFPath),
			zap.Error(err),
		)
	}

	s.record(ctx, act, activityservice.DeleteRef{MLSID: record.MLSID})

	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (Listing, error) {
	if id == uuid.Nil {
		return Listing{}, ErrNotFound
	}

	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return Listing{}, mapPersistenceError(err)
	}

	return s.mapListing(record), nil
}

func (s *service) List(ctx context.Context) ([]Listing, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return s.mapListings(records), nil
}

// Search serves the public lookup. Queries shorter than three characters
// return no results without touching the store.
func (s *service) Search(ctx context.Context, input SearchInput) ([]Listing, error) {
	query := strings.TrimSpace(input.Query)
	if len(query) < minSearchLength {
		return []Listing{}, nil
	}

	records, err := s.repo.Search(ctx, persistence.SearchListingsParams{
		Query:         query,
		SortField:     input.SortField,
		SortAscending: input.SortAscending,
	})
	if err != nil {
		return nil, err
	}

	return s.mapListings(records), nil
}

// record appends an audit entry for a completed mutation. Failures are
// logged, never propagated.
func (s *service) record(ctx context.Context, act actor.Actor, details activityservice.Details) {
	if _, err := s.audit.Record(ctx, act, details); err != nil {
		s.logger.Error("failed to record activity log entry",
			zap.String("action", string(details.Action())),
			zap.String("user_id", act.UserID),
			zap.Error(err),
		)
	}
}

func trimFields(input Fields) Fields {
	return Fields{
		MLSID:             strings.TrimSpace(input.MLSID),
		Compensation:      strings.TrimSpace(input.Compensation),
		Address:           strings.TrimSpace(input.Address),
		BrokerName:        strings.TrimSpace(input.BrokerName),
		BrokerEmail:       strings.TrimSpace(input.BrokerEmail),
		BrokerPhone:       strings.TrimSpace(input.BrokerPhone),
		ListingAgent:      strings.TrimSpace(input.ListingAgent),
		ListingAgentPhone: strings.TrimSpace(input.ListingAgentPhone),
		ListingAgentEmail: strings.TrimSpace(input.ListingAgentEmail),
	}
}

func validateFields(input Fields) FieldErrors {
	fieldErrors := FieldErrors{}

	if input.MLSID == "" {
		fieldErrors.add("mls_id", "mls_id is required")
	}
	if input.Compensation == "" {
		fieldErrors.add("compensation", "compensation is required")
	}
	if input.Address == "" {
		fieldErrors.add("address", "address is required")
	}
	if input.BrokerName == "" {
		fieldErrors.add("broker_name", "broker_name is required")
	}
	if input.BrokerEmail == "" {
		fieldErrors.add("broker_email", "broker_email is required")
	} else if !strings.Contains(input.BrokerEmail, "@") {
		fieldErrors.add("broker_email", "broker_email must contain '@'")
	}
	if input.BrokerPhone == "" {
		fieldErrors.add("broker_phone", "broker_phone is required")
	}
	if input.ListingAgentEmail != "" && !strings.Contains(input.ListingAgentEmail, "@") {
		fieldErrors.add("listing_agent_email", "listing_agent_email must contain '@'")
	}

	return fieldErrors
}

func (s *service) mapListing(record persistence.Listing) Listing {
	return Listing{
		ID:                record.ID,
		MLSID:             record.MLSID,
		Compensation:      record.Compensation,
		Address:           record.Address,
		BrokerName:        record.BrokerName,
		BrokerEmail:       record.BrokerEmail,
		BrokerPhone:       record.BrokerPhone,
		ListingAgent:      record.ListingAgent,
		ListingAgentPhone: record.ListingAgentPhone,
		ListingAgentEmail: record.ListingAgentEmail,
		PDFPath:           record.PDFPath,
		PDFURL:            s.objects.PublicURL(record.PDFPath),
		UploadedAt:        record.UploadedAt,
	}
}

func (s *service) mapListings(records []persistence.Listing) []Listing {
	listings := make([]Listing, 0, len(records))
	for _, record := range records {
		listings = append(listings, s.mapListing(record))
	}
	return listings
}

func mapPersistenceError(err error) error {
	switch {
	case errors.Is(err, persistence.ErrListingNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrListingConflict):
		return ErrConflict
	default:
		return err
	}
}
