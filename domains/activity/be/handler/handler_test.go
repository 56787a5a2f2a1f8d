package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/RidgelineRealtyCo/broker-portal/domains/activity/be/service"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/actor"
)

type mockService struct {
	recordFn func(ctx context.Context, act actor.Actor, details service.Details) (service.Entry, error)
	listFn   func(ctx context.Context) ([]service.Entry, error)
}

func (m *mockService) Record(ctx context.Context, act actor.Actor, details service.Details) (service.Entry, error) {
	if m.recordFn == nil {
		panic("recordFn not configured")
	}
	return m.recordFn(ctx, act, details)
}

func (m *mockService) List(ctx context.Context) ([]service.Entry, error) {
	if m.listFn == nil {
		panic("listFn not configured")
	}
	return m.listFn(ctx)
}

func newRouter(t *testing.T, svc service.Service) chi.Router {
	t.Helper()

	h := New(svc, zaptest.NewLogger(t))
	r := chi.NewRouter()
	h.Routes(r)
	return r
}

type logsResponse struct {
	Logs []struct {
		ID        string    `json:"id"`
		UserEmail string    `json:"user_email"`
		Action    string    `json:"action"`
		Details   string    `json:"details"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"logs"`
}

func trailFixture() []service.Entry {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	return []service.Entry{
		{ID: uuid.New(), UserEmail: "marcus@example.com", Action: service.ActionDeletedListing, Details: "MLS: A100", CreatedAt: base.Add(48 * time.Hour)},
		{ID: uuid.New(), UserEmail: "sofia@example.com", Action: service.ActionCreatedListing, Details: "MLS: A100", CreatedAt: base},
	}
}

func TestListReturnsTrail(t *testing.T) {
	t.Parallel()

	r := newRouter(t, &mockService{
		listFn: func(context.Context) ([]service.Entry, error) { return trailFixture(), nil },
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logs", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body logsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Logs, 2)
	require.Equal(t, "Deleted Listing", body.Logs[0].Action)
	require.Equal(t, "sofia@example.com", body.Logs[1].UserEmail)
}

func TestListAppliesQueryFilter(t *testing.T) {
	t.Parallel()

	r := newRouter(t, &mockService{
		listFn: func(context.Context) ([]service.Entry, error) { return trailFixture(), nil },
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logs?action=Created+Listing", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body logsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Logs, 1)
	require.Equal(t, "Created Listing", body.Logs[0].Action)
}

func TestListDateRangeIncludesEndOfDay(t *testing.T) {
	t.Parallel()

	endOfDay := time.Date(2025, time.March, 12, 23, 59, 30, 0, time.UTC)
	r := newRouter(t, &mockService{
		listFn: func(context.Context) ([]service.Entry, error) {
			return []service.Entry{
				{ID: uuid.New(), Action: service.ActionCreatedListing, CreatedAt: endOfDay},
				{ID: uuid.New(), Action: service.ActionDeletedListing, CreatedAt: endOfDay.Add(time.Minute)},
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logs?start=2025-03-12&end=2025-03-12", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body logsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Logs, 1)
	require.Equal(t, "Created Listing", body.Logs[0].Action)
}

func TestListRejectsMalformedDate(t *testing.T) {
	t.Parallel()

	r := newRouter(t, &mockService{
		listFn: func(context.Context) ([]service.Entry, error) { return nil, nil },
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logs?start=03-12-2025", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid start date")
}

func TestListServiceFailure(t *testing.T) {
	t.Parallel()

	r := newRouter(t, &mockService{
		listFn: func(context.Context) ([]service.Entry, error) { return nil, errors.New("db down") },
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logs", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Failed to fetch logs")
}
