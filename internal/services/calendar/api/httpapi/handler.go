// Package httpapi exposes the calendar service as a JSON HTTP API.
//
// Caller identity arrives in the X-User-ID header; the handlers thread it
// explicitly into every operation. Errors render as {"message": ...} with
// the status derived from the domain error code.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/calshare/calshare/internal/platform/errors"
	"github.com/calshare/calshare/internal/services/calendar/domain"
)

// CalendarService is the domain surface the HTTP API dispatches to.
type CalendarService interface {
	CreateCalendar(ctx context.Context, input domain.CreateCalendarInput) (domain.Calendar, error)
	UpdateCalendar(ctx context.Context, input domain.UpdateCalendarInput) (domain.Calendar, error)
	DeleteCalendar(ctx context.Context, calendarID string) error
	InviteHelpers(ctx context.Context, input domain.InviteHelpersInput) error
	AcceptInvitation(ctx context.Context, token string, acceptingUserID string) (domain.AcceptResult, error)
	RemoveHelper(ctx context.Context, calendarID string, userID string) error
	IngestTargets(ctx context.Context, calendarID string, payload []byte) error

	GetCalendar(ctx context.Context, calendarID string) (domain.Calendar, error)
	ListOwnedCalendars(ctx context.Context, ownerUserID string) ([]domain.Calendar, error)
	ListHelperCalendars(ctx context.Context, userID string) ([]domain.Calendar, error)
	ListAllCalendars(ctx context.Context, userID string) ([]domain.Calendar, error)
	ListCalendarEvents(ctx context.Context, calendarID string, from time.Time, to time.Time) ([]domain.Event, error)
	ListHelpers(ctx context.Context, calendarID string, ownerUserID string) ([]domain.User, error)
	GetUser(ctx context.Context, userID string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// Handler serves the calendar JSON API.
type Handler struct {
	service CalendarService
	mux     *http.ServeMux
}

// NewHandler builds the API handler around the given service.
func NewHandler(service CalendarService) *Handler {
	h := &Handler{service: service}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/users", h.handleUsers)
	mux.HandleFunc("/users/me", h.handleMe)
	mux.HandleFunc("/calendars", h.handleCalendars)
	mux.HandleFunc("/calendars/", h.handleCalendarPath)
	mux.HandleFunc("/invitations/accept", h.handleAcceptInvitation)
	h.mux = mux
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.NotFound(w, r)
		return
	}
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Message string `json:"message"`
}

// userIdentity returns the caller's user id from the X-User-ID header, or
// writes an Unauthorized response and reports false.
func userIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "user identity is required"})
		return "", false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		writeJSON(w, domainErr.Code.HTTPStatus(), errorResponse{Message: domainErr.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
}

func writeMethodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "method not allowed"})
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return false
	}
	return true
}

// splitPathParts splits a URL path remainder into its non-empty segments.
func splitPathParts(path string) []string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	cleaned := parts[:0]
	for _, part := range parts {
		if part != "" {
			cleaned = append(cleaned, part)
		}
	}
	return cleaned
}
