package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/RidgelineRealtyCo/broker-portal/domains/activity/be/service"
	"github.com/RidgelineRealtyCo/broker-portal/platform/go/httpx"
	platformlogging "github.com/RidgelineRealtyCo/broker-portal/platform/go/logging"
)

const dateLayout = "2006-01-02"

// Handler exposes the audit trail to the superadmin console.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("activity service is required")
	}
	if logger == nil {
		panic("logger is required")
	}

	return &Handler{svc: svc, logger: logger}
}

// Routes registers the activity endpoints on the given router. Role gating
// happens in the surrounding router group.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/logs", h.List)
}

type logEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserEmail string    `json:"user_email"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// List returns the audit trail, newest first, narrowed by the optional
// search, action, start and end query parameters. Dates are calendar days;
// the end bound is inclusive through the last second of that day.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.svc.List(r.Context())
	if err != nil {
		platformlogging.FromRequest(r, h.logger).Error("failed to list activity logs", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to fetch logs")
		return
	}

	entries = service.ApplyFilter(entries, filter)

	items := make([]logEntry, 0, len(entries))
	for _, entry := range entries {
		items = append(items, logEntry{
			ID:        entry.ID.String(),
			UserID:    entry.UserID,
			UserEmail: entry.UserEmail,
			Action:    string(entry.Action),
			Details:   entry.Details,
			CreatedAt: entry.CreatedAt,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"logs": items})
}

func parseFilter(r *http.Request) (service.Filter, error) {
	q := r.URL.Query()
	filter := service.Filter{
		Search: q.Get("search"),
		Action: q.Get("action"),
	}

	if raw := q.Get("start"); raw != "" {
		start, err := time.Parse(dateLayout, raw)
		if err != nil {
			return service.Filter{}, &badDateError{param: "start", value: raw}
		}
		filter.Start = &start
	}
	if raw := q.Get("end"); raw != "" {
		day, err := time.Parse(dateLayout, raw)
		if err != nil {
			return service.Filter{}, &badDateError{param: "end", value: raw}
		}
		// Inclusive through the end of the named day.
		end := day.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		filter.End = &end
	}

	return filter, nil
}

type badDateError struct {
	param string
	value string
}

func (e *badDateError) Error() string {
	return "invalid " + e.param + " date " + e.value + ", expected YYYY-MM-DD"
}
