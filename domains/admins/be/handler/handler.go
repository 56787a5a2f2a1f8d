package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/RidgelineRealtyCo/broker-portal/domains/admins/be/service"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/actor"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/httpx"
	platformlogging "github.com/RidgelineRealtyCo/broker-portal/platform/go/logging"
)

// Handler exposes the superadmin account-management endpoints. Every
// mutation answers {"success":true} or {"error":"..."}; the console keys
// off that envelope.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("admins service is required")
	}
	if logger == nil {
		panic("logger is required")
	}

	return &Handler{svc: svc, logger: logger}
}

// Routes registers the account-management endpoints. The surrounding router
// group enforces the superadmin role.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/admins/create", h.Create)
	r.Get("/admins/list", h.List)
	r.Post("/admins/promote", h.Promote)
	r.Post("/admins/demote", h.Demote)
	r.Post("/admins/remove", h.Remove)
	r.Post("/admins/reset-password", h.ResetPassword)
}

type createRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userIDRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	act, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.svc.Create(r.Context(), act, service.CreateInput{Email: req.Email, Password: req.Password}); err != nil {
		h.writeServiceError(w, r, err, "Failed to create admin")
		return
	}

	httpx.WriteSuccess(w)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := h.svc.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to list admins")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"admins": admins})
}

func (h *Handler) Promote(w http.ResponseWriter, r *http.Request) {
	h.roleTransition(w, r, h.svc.Promote, "Failed to promote admin")
}

func (h *Handler) Demote(w http.ResponseWriter, r *http.Request) {
	h.roleTransition(w, r, h.svc.Demote, "Failed to demote admin")
}

func (h *Handler) roleTransition(
	w http.ResponseWriter,
	r *http.Request,
	transition func(ctx context.Context, act actor.Actor, userID string) (service.Admin, error),
	fallback string,
) {
	act, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	userID, ok := h.decodeUserID(w, r)
	if !ok {
		return
	}

	if _, err := transition(r.Context(), act, userID); err != nil {
		h.writeServiceError(w, r, err, fallback)
		return
	}

	httpx.WriteSuccess(w)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	act, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	userID, ok := h.decodeUserID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Remove(r.Context(), act, userID); err != nil {
		h.writeServiceError(w, r, err, "Failed to remove admin")
		return
	}

	httpx.WriteSuccess(w)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	act, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	userID, ok := h.decodeUserID(w, r)
	if !ok {
		return
	}

	if err := h.svc.ResetPassword(r.Context(), act, userID); err != nil {
		h.writeServiceError(w, r, err, "Failed to send password reset")
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

func (h *Handler) decodeUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req userIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	if req.UserID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "user_id is required")
		return "", false
	}
	return req.UserID, true
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
		httpx.WriteError(w, http.StatusNotFound, "Admin not found")
	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrConsistency):
		platformlogging.FromRequest(r, h.logger).Error("admin stores out of sync", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "Account stores are out of sync, reconciliation required")
	default:
		platformlogging.FromRequest(r, h.logger).Error("admins request failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, fallback)
	}
}
