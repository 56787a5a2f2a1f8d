package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	activityservice "github.com/RidgelineRealtyCo/broker-portal/domains/activity/be/service"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/actor"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/persistence"
)

// memoryActivityRepo keeps the audit trail in memory so the full
// mutation-to-log pipeline can run without a database.
type memoryActivityRepo struct {
	entries []persistence.ActivityLogEntry
}

func (m *memoryActivityRepo) Insert(_ context.Context, params persistence.InsertEntryParams) (persistence.ActivityLogEntry, error) {
	entry := persistence.ActivityLogEntry{
		ID:        uuid.New(),
		UserID:    params.UserID,
		UserEmail: params.UserEmail,
		Action:    params.Action,
		Details:   params.Details,
		CreatedAt: time.Now(),
	}
	m.entries = append(m.entries, entry)
	return entry, nil
}

func (m *memoryActivityRepo) List(context.Context) ([]persistence.ActivityLogEntry, error) {
	listed := make([]persistence.ActivityLogEntry, len(m.entries))
	copy(listed, m.entries)
	return listed, nil
}

// memoryListingRepo backs the workflow with a single mutable record.
type memoryListingRepo struct {
	record persistence.Listing
	stored bool
}

func (m *memoryListingRepo) Create(_ context.Context, params persistence.CreateListingParams) (persistence.Listing, error) {
	m.record = persistence.Listing{
		ID:                params.ID,
		MLSID:             params.MLSID,
		Compensation:      params.Compensation,
		Address:           params.Address,
		BrokerName:        params.BrokerName,
		BrokerEmail:       params.BrokerEmail,
		BrokerPhone:       params.BrokerPhone,
		ListingAgent:      params.ListingAgent,
		ListingAgentPhone: params.ListingAgentPhone,
		ListingAgentEmail: params.ListingAgentEmail,
		PDFPath:           params.PDFPath,
		UploadedAt:        time.Now(),
	}
	m.stored = true
	return m.record, nil
}

func (m *memoryListingRepo) Update(_ context.Context, id uuid.UUID, params persistence.UpdateListingParams) (persistence.Listing, error) {
	if !m.stored || m.record.ID != id {
		return persistence.Listing{}, persistence.ErrListingNotFound
	}
	m.record.MLSID = params.MLSID
	m.record.Compensation = params.Compensation
	m.record.Address = params.Address
	m.record.BrokerName = params.BrokerName
	m.record.BrokerEmail = params.BrokerEmail
	m.record.BrokerPhone = params.BrokerPhone
	m.record.ListingAgent = params.ListingAgent
	m.record.ListingAgentPhone = params.ListingAgentPhone
	m.record.ListingAgentEmail = params.ListingAgentEmail
	return m.record, nil
}

func (m *memoryListingRepo) Get(_ context.Context, id uuid.UUID) (persistence.Listing, error) {
	if !m.stored || m.record.ID != id {
		return persistence.Listing{}, persistence.ErrListingNotFound
	}
	return m.record, nil
}

func (m *memoryListingRepo) List(context.Context) ([]persistence.Listing, error) {
	if !m.stored {
		return []persistence.Listing{}, nil
	}
	return []persistence.Listing{m.record}, nil
}

func (m *memoryListingRepo) Search(context.Context, persistence.SearchListingsParams) ([]persistence.Listing, error) {
	return m.List(context.Background())
}

func (m *memoryListingRepo) Delete(_ context.Context, id uuid.UUID) error {
	if !m.stored || m.record.ID != id {
		return persistence.ErrListingNotFound
	}
	m.stored = false
	return nil
}

type memoryObjectStore struct {
	objects map[string][]byte
}

func newMemoryObjectStore() *memoryObjectStore {
	return &memoryObjectStore{objects: map[string][]byte{}}
}

func (m *memoryObjectStore) Upload(_ context.Context, path string, contents io.Reader) error {
	body, err := io.ReadAll(contents)
	if err != nil {
		return err
	}
	m.objects[path] = body
	return nil
}

func (m *memoryObjectStore) Remove(_ context.Context, path string) error {
	delete(m.objects, path)
	return nil
}

func (m *memoryObjectStore) PublicURL(path string) string {
	return "https://files.test/" + path
}

func TestCreateThenUpdateProducesOrderedAuditTrail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	auditRepo := &memoryActivityRepo{}
	audit := activityservice.New(auditRepo)
	objects := newMemoryObjectStore()
	svc := New(&memoryListingRepo{}, objects, audit, zaptest.NewLogger(t))

	act := actor.Actor{UserID: "uid-1", Email: "sofia@example.com", Role: actor.RoleAdmin}

	fields := Fields{
		MLSID:        "M1",
		Compensation: "2%",
		Address:      "1 Main St",
		BrokerName:   "Jordan Realty",
		BrokerEmail:  "jordan@example.com",
		BrokerPhone:  "555-0100",
	}

	created, err := svc.Create(ctx, act, fields, strings.NewReader("agreement"))
	require.NoError(t, err)
	require.Equal(t, "M1.pdf", created.PDFPath)
	require.Contains(t, objects.objects, "M1.pdf")

	fields.Address = "2 Main St"
	_, err = svc.Update(ctx, act, created.ID, fields, nil)
	require.NoError(t, err)

	trail, err := audit.List(ctx)
	require.NoError(t, err)
	require.Len(t, trail, 2)

	require.Equal(t, activityservice.ActionCreatedListing, trail[0].Action)
	require.Equal(t, "sofia@example.com", trail[0].UserEmail)
	require.Contains(t, trail[0].Details, "MLS: M1")
	require.Contains(t, trail[0].Details, "Listing Agent: N/A")

	require.Equal(t, activityservice.ActionUpdatedListing, trail[1].Action)
	require.Contains(t, trail[1].Details, `address: "1 Main St" → "2 Main St"`)
	require.Contains(t, trail[1].Details, "Full Before:")
	require.Contains(t, trail[1].Details, "Full After:")
}

func TestMLSRenameLeavesPDFPathBehind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	objects := newMemoryObjectStore()
	svc := New(&memoryListingRepo{}, objects, activityservice.New(&memoryActivityRepo{}), zaptest.NewLogger(t))

	act := actor.Actor{UserID: "uid-1", Email: "sofia@example.com", Role: actor.RoleAdmin}

	fields := Fields{
		MLSID:        "123",
		Compensation: "2%",
		Address:      "1 Main St",
		BrokerName:   "Jordan Realty",
		BrokerEmail:  "jordan@example.com",
		BrokerPhone:  "555-0100",
	}

	created, err := svc.Create(ctx, act, fields, strings.NewReader("agreement"))
	require.NoError(t, err)
	require.Equal(t, "123.pdf", created.PDFPath)

	fields.MLSID = "456"
	updated, err := svc.Update(ctx, act, created.ID, fields, nil)
	require.NoError(t, err)

	require.Equal(t, "456", updated.MLSID)
	require.Equal(t, "123.pdf", updated.PDFPath)
	require.Contains(t, objects.objects, "123.pdf")
	require.NotContains(t, objects.objects, "456.pdf")
}

func TestDeleteRemovesObjectAndLogsBusinessKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	auditRepo := &memoryActivityRepo{}
	audit := activityservice.New(auditRepo)
	objects := newMemoryObjectStore()
	svc := New(&memoryListingRepo{}, objects, audit, zaptest.NewLogger(t))

	act := actor.Actor{UserID: "uid-1", Email: "sofia@example.com", Role: actor.RoleAdmin}

	fields := Fields{
		MLSID:        "M1",
		Compensation: "2%",
		Address:      "1 Main St",
		BrokerName:   "Jordan Realty",
		BrokerEmail:  "jordan@example.com",
		BrokerPhone:  "555-0100",
	}

	created, err := svc.Create(ctx, act, fields, strings.NewReader("agreement"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, act, created.ID))
	require.NotContains(t, objects.objects, "M1.pdf")

	trail, err := audit.List(ctx)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	require.Equal(t, activityservice.ActionDeletedListing, trail[1].Action)
	require.Equal(t, "MLS: M1", trail[1].Details)
}
