package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/RidgelineRealtyCo/broker-portal/domains/listings/be/service"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/actor"
)

type mockService struct {
	createFn func(ctx context.Context, act actor.Actor, input service.Fields, pdf io.Reader) (service.Listing, error)
	updateFn func(ctx context.Context, act actor.Actor, id uuid.UUID, input service.Fields, pdf io.Reader) (service.Listing, error)
	deleteFn func(ctx context.Context, act actor.Actor, id uuid.UUID) error
	getFn    func(ctx context.Context, id uuid.UUID) (service.Listing, error)
	listFn   func(ctx context.Context) ([]service.Listing, error)
	searchFn func(ctx context.Context, input service.SearchInput) ([]service.Listing, error)
}

func (m *mockService) Create(ctx context.Context, act actor.Actor, input service.Fields, pdf io.Reader) (service.Listing, error) {
	if m.createFn == nil {
		panic("createFn not configured")
	}
	return m.createFn(ctx, act, input, pdf)
}

func (m *mockService) Update(ctx context.Context, act actor.Actor, id uuid.UUID, input service.Fields, pdf io.Reader) (service.Listing, error) {
	if m.updateFn == nil {
		panic("updateFn not configured")
	}
	return m.updateFn(ctx, act, id, input, pdf)
}

func (m *mockService) Delete(ctx context.Context, act actor.Actor, id uuid.UUID) error {
	if m.deleteFn == nil {
		panic("deleteFn not configured")
	}
	return m.deleteFn(ctx, act, id)
}

func (m *mockService) Get(ctx context.Context, id uuid.UUID) (service.Listing, error) {
	if m.getFn == nil {
		panic("getFn not configured")
	}
	return m.getFn(ctx, id)
}

func (m *mockService) List(ctx context.Context) ([]service.Listing, error) {
	if m.listFn == nil {
		panic("listFn not configured")
	}
	return m.listFn(ctx)
}

func (m *mockService) Search(ctx context.Context, input service.SearchInput) ([]service.Listing, error) {
	if m.searchFn == nil {
		panic("searchFn not configured")
	}
	return m.searchFn(ctx, input)
}

func newRouter(t *testing.T, svc service.Service) chi.Router {
	t.Helper()

	h := New(svc, zaptest.NewLogger(t))
	r := chi.NewRouter()
	r.Group(h.PublicRoutes)
	r.Route("/admin", h.AdminRoutes)
	return r
}

func withActor(r *http.Request) *http.Request {
	act := actor.Actor{UserID: "uid-1", Email: "admin@example.com", Role: actor.RoleAdmin}
	return r.WithContext(actor.IntoContext(r.Context(), act))
}

func listingForm(t *testing.T, fields map[string]string, pdf []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	if pdf != nil {
		part, err := mw.CreateFormFile("pdf", "agreement.pdf")
		require.NoError(t, err)
		_, err = part.Write(pdf)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func validForm() map[string]string {
	return map[string]string{
		"mls_id":       "MLS123",
		"compensation": "2.5%",
		"address":      "1 Main St",
		"broker_name":  "Jordan Realty",
		"broker_email": "jordan@example.com",
		"broker_phone": "555-0100",
	}
}

func TestCreateListing(t *testing.T) {
	t.Parallel()

	var gotFields service.Fields
	var gotPDF []byte
	r := newRouter(t, &mockService{
		createFn: func(_ context.Context, act actor.Actor, input service.Fields, pdf io.Reader) (service.Listing, error) {
			require.Equal(t, "uid-1", act.UserID)
			gotFields = input
			body, err := io.ReadAll(pdf)
			require.NoError(t, err)
			gotPDF = body
			return service.Listing{ID: uuid.New(), MLSID: input.MLSID, PDFPath: input.MLSID + ".pdf"}, nil
		},
	})

	body, contentType := listingForm(t, validForm(), []byte("pdf-bytes"))
	req := withActor(httptest.NewRequest(http.MethodPost, "/admin/listings", body))
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "MLS123", gotFields.MLSID)
	require.Equal(t, "pdf-bytes", string(gotPDF))

	var created service.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "MLS123.pdf", created.PDFPath)
}

func TestCreateListingRequiresPDFPart(t *testing.T) {
	t.Parallel()

	r := newRouter(t, &mockService{})

	body, contentType := listingForm(t, validForm(), nil)
	req := withActor(httptest.NewRequest(http.MethodPost, "/admin/listings", body))
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "agreement PDF is required")
}

func TestCreateListingRequiresActor(t *testing.T) {
	t.Parallel()

	r := newRouter(t, &mockService{})

	body, contentType := listingForm(t, validForm(), []byte("pdf"))
	req := httptest.NewRequest(http.MethodPost, "/admin/listings", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateListingValidationError(t *testing.T) {
	t.Parallel()

	r := newRouter(t, &mockService{
		createFn: func(context.Context, actor.Actor, service.Fields, io.Reader) (service.Listing, error) {
			fields := service.FieldErrors{}
			fields["mls_id"] = []string{"mls_id is required"}
			return service.Listing{}, &service.ValidationError{Fields: fields}
		},
	})

	body, contentType := listingForm(t, map[string]string{}, []byte("pdf"))
	req := withActor(httptest.NewRequest(http.MethodPost, "/admin/listings", body))
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "mls_id is required")
}

func TestUpdateListingWithoutPDF(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	var called bool
	var gotPDF io.Reader
	r := newRouter(t, &mockService{
		updateFn: func(_ context.Context, _ actor.Actor, gotID uuid.UUID, input service.Fields, pdf io.Reader) (service.Listing, error) {
			require.Equal(t, id, gotID)
			called = true
			gotPDF = pdf
			return service.Listing{ID: gotID, MLSID: input.MLSID}, nil
		},
	})

	body, contentType := listingForm(t, validForm(), nil)
	req := withActor(httptest.NewRequest(http.MethodPatch, "/admin/listings/"+id.String(), body))
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, called)
	require.Nil(t, gotPDF)
}

func TestUpdateListingNotFound(t *testing.T) {
	t.Parallel()

	r := newRouter(t, &mockService{
		updateFn: func(context.Context, actor.Actor, uuid.UUID, service.Fields, io.Reader) (service.Listing, error) {
			return service.Listing{}, service.ErrNotFound
		},
	})

	body, contentType := listingForm(t, validForm(), nil)
	req := withActor(httptest.NewRequest(http.MethodPatch, "/admin/listings/"+uuid.NewString(), body))
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteListing(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	r := newRouter(t, &mockService{
		deleteFn: func(_ context.Context, _ actor.Actor, gotID uuid.UUID) error {
			require.Equal(t, id, gotID)
			return nil
		},
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withActor(httptest.NewRequest(http.MethodDelete, "/admin/listings/"+id.String(), nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestDeleteListingRejectsBadID(t *testing.T) {
	t.Parallel()

	r := newRouter(t, &mockService{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withActor(httptest.NewRequest(http.MethodDelete, "/admin/listings/not-a-uuid", nil)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchListings(t *testing.T) {
	t.Parallel()

	var gotInput service.SearchInput
	r := newRouter(t, &mockService{
		searchFn: func(_ context.Context, input service.SearchInput) ([]service.Listing, error) {
			gotInput = input
			return []service.Listing{{ID: uuid.New(), MLSID: "MLS123"}}, nil
		},
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings/search?q=main&sort=address&dir=asc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "main", gotInput.Query)
	require.Equal(t, "address", gotInput.SortField)
	require.True(t, gotInput.SortAscending)

	var payload struct {
		Listings []service.Listing `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Listings, 1)
}

func TestListListings(t *testing.T) {
	t.Parallel()

	r := newRouter(t, &mockService{
		listFn: func(context.Context) ([]service.Listing, error) {
			return []service.Listing{{ID: uuid.New()}, {ID: uuid.New()}}, nil
		},
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withActor(httptest.NewRequest(http.MethodGet, "/admin/listings", nil)))

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Listings []service.Listing `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Listings, 2)
}
