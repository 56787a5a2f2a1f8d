package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RidgelineRealtyCo/broker-portal/domains/listings/be/service"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/actor"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/httpx"
	platformlogging "github.com/RidgelineRealtyCo/broker-portal/platform/go/logging"
)

// maxUploadBytes caps the multipart form size for agreement uploads.
const maxUploadBytes = 20 << 20

// Handler wires the listings service to its public and admin endpoints.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("listings service is required")
	}
	if logger == nil {
		panic("logger is required")
	}

	return &Handler{svc: svc, logger: logger}
}

// PublicRoutes registers the unauthenticated endpoints.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Get("/listings/search", h.Search)
}

// AdminRoutes registers the role-gated management endpoints.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/listings", h.List)
	r.Post("/listings", h.Create)
	r.Get("/listings/{id}", h.Get)
	r.Patch("/listings/{id}", h.Update)
	r.Delete("/listings/{id}", h.Delete)
}

// Search serves the public lookup of broker compensation by MLS id or address.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := service.SearchInput{
		Query:         q.Get("q"),
		SortField:     q.Get("sort"),
		SortAscending: q.Get("dir") == "asc",
	}

	listings, err := h.svc.Search(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to search listings")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"listings": listings})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	listings, err := h.svc.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to list listings")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"listings": listings})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	listing, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch listing")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, listing)
}

// Create handles the multipart listing form; the agreement document travels
// in the "pdf" file part.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	act, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	fields, pdf, ok := h.parseForm(w, r, true)
	if !ok {
		return
	}
	if pdf != nil {
		defer pdf.Close()
	}

	listing, err := h.svc.Create(r.Context(), act, fields, pdf)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to create listing")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, listing)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	act, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	fields, pdf, ok := h.parseForm(w, r, false)
	if !ok {
		return
	}
	if pdf != nil {
		defer pdf.Close()
	}

	listing, err := h.svc.Update(r.Context(), act, id, fields, pdf)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to update listing")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, listing)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	act, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), act, id); err != nil {
		h.writeServiceError(w, r, err, "Failed to delete listing")
		return
	}

	httpx.WriteSuccess(w)
}

func (h *Handler) requireActor(w http.ResponseWriter, r *http.Request) (actor.Actor, bool) {
	act, ok := actor.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return actor.Actor{}, false
	}
	return act, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid listing id")
		return uuid.Nil, false
	}
	return id, true
}

// parseForm reads the multipart listing payload. The returned file is nil
// when no "pdf" part was sent and pdfRequired is false.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request, pdfRequired bool) (service.Fields, multipart.File, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return service.Fields{}, nil, false
	}

	fields := service.Fields{
		MLSID:             r.FormValue("mls_id"),
		Compensation:      r.FormValue("compensation"),
		Address:           r.FormValue("address"),
		BrokerName:        r.FormValue("broker_name"),
		BrokerEmail:       r.FormValue("broker_email"),
		BrokerPhone:       r.FormValue("broker_phone"),
		ListingAgent:      r.FormValue("listing_agent"),
		ListingAgentPhone: r.FormValue("listing_agent_phone"),
		ListingAgentEmail: r.FormValue("listing_agent_email"),
	}

	pdf, _, err := r.FormFile("pdf")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			if pdfRequired {
				httpx.WriteError(w, http.StatusBadRequest, "agreement PDF is required")
				return service.Fields{}, nil, false
			}
			return fields, nil, true
		}
		httpx.WriteError(w, http.StatusBadRequest, "invalid agreement PDF")
		return service.Fields{}, nil, false
	}

	return fields, pdf, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation error",
			"fields": validationErr.Fields,
		})
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Listing not found")
	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, "Listing already exists")
	default:
		platformlogging.FromRequest(r, h.logger).Error("listings request failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, fallback)
	}
}
