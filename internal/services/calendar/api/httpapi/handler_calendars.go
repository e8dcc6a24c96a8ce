package httpapi

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/calshare/calshare/internal/services/calendar/domain"
)

// maxTargetPayloadBytes caps uploaded target lists.
const maxTargetPayloadBytes = 1 << 20

type calendarView struct {
	ID                 string     `json:"id"`
	OwnerUserID        string     `json:"owner_user_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	ExternalCalendarID string     `json:"external_calendar_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func toCalendarView(cal domain.Calendar) calendarView {
	view := calendarView{
		ID:                 cal.ID,
		OwnerUserID:        cal.OwnerUserID,
		Title:              cal.Title,
		Description:        cal.Description,
		ExternalCalendarID: cal.ExternalCalendarID,
		CreatedAt:          cal.CreatedAt,
		UpdatedAt:          cal.UpdatedAt,
	}
	if !cal.StartDate.IsZero() {
		start := cal.StartDate
		view.StartDate = &start
	}
	if !cal.EndDate.IsZero() {
		end := cal.EndDate
		view.EndDate = &end
	}
	return view
}

func toCalendarViews(calendars []domain.Calendar) []calendarView {
	views := make([]calendarView, 0, len(calendars))
	for _, cal := range calendars {
		views = append(views, toCalendarView(cal))
	}
	return views
}

type eventView struct {
	ID          string    `json:"id"`
	CalendarID  string    `json:"calendar_id"`
	UserID      string    `json:"user_id"`
	UserEmail   string    `json:"user_email"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

type createCalendarRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type updateCalendarRequest struct {
	Title       *string    `json:"title"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type inviteHelpersRequest struct {
	Emails  []string `json:"emails"`
	Subject string   `json:"subject"`
}

func (h *Handler) handleCalendars(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIdentity(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.listCalendars(w, r, userID)
	case http.MethodPost:
		h.createCalendar(w, r, userID)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *Handler) listCalendars(w http.ResponseWriter, r *http.Request, userID string) {
	var (
		calendars []domain.Calendar
		err       error
	)
	switch r.URL.Query().Get("filter") {
	case "", "all":
		calendars, err = h.service.ListAllCalendars(r.Context(), userID)
	case "owned":
		calendars, err = h.service.ListOwnedCalendars(r.Context(), userID)
	case "helping":
		calendars, err = h.service.ListHelperCalendars(r.Context(), userID)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "unknown calendar filter"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCalendarViews(calendars))
}

func (h *Handler) createCalendar(w http.ResponseWriter, r *http.Request, userID string) {
	var req createCalendarRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	input := domain.CreateCalendarInput{
		OwnerUserID: userID,
		Title:       req.Title,
		Description: req.Description,
	}
	if req.StartDate != nil {
		input.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		input.EndDate = *req.EndDate
	}
	cal, err := h.service.CreateCalendar(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCalendarView(cal))
}

func (h *Handler) handleCalendarPath(w http.ResponseWriter, r *http.Request) {
	parts := splitPathParts(strings.TrimPrefix(r.URL.Path, "/calendars/"))
	switch {
	case len(parts) == 1:
		h.handleCalendarDetail(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "events":
		h.handleCalendarEvents(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "helpers":
		h.handleCalendarHelpers(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "helpers":
		h.handleCalendarHelper(w, r, parts[0], parts[2])
	case len(parts) == 2 && parts[1] == "targets":
		h.handleCalendarTargets(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleCalendarDetail(w http.ResponseWriter, r *http.Request, calendarID string) {
	if _, ok := userIdentity(w, r); !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		cal, err := h.service.GetCalendar(r.Context(), calendarID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCalendarView(cal))
	case http.MethodPut, http.MethodPatch:
		var req updateCalendarRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		cal, err := h.service.UpdateCalendar(r.Context(), domain.UpdateCalendarInput{
			CalendarID:  calendarID,
			Description: req.Description,
			Title:       req.Title,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCalendarView(cal))
	case http.MethodDelete:
		if err := h.service.DeleteCalendar(r.Context(), calendarID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

func (h *Handler) handleCalendarEvents(w http.ResponseWriter, r *http.Request, calendarID string) {
	if _, ok := userIdentity(w, r); !ok {
		return
	}
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	from, ok := parseTimeParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(w, r, "to")
	if !ok {
		return
	}
	events, err := h.service.ListCalendarEvents(r.Context(), calendarID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]eventView, 0, len(events))
	for _, event := range events {
		views = append(views, eventView{
			ID:          event.ID,
			CalendarID:  event.CalendarID,
			UserID:      event.UserID,
			UserEmail:   event.UserEmail,
			Title:       event.Title,
			Description: event.Description,
			StartsAt:    event.StartsAt,
			EndsAt:      event.EndsAt,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) handleCalendarHelpers(w http.ResponseWriter, r *http.Request, calendarID string) {
	userID, ok := userIdentity(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		helpers, err := h.service.ListHelpers(r.Context(), calendarID, userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserViews(helpers))
	case http.MethodPost:
		var req inviteHelpersRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		err := h.service.InviteHelpers(r.Context(), domain.InviteHelpersInput{
			CalendarID:      calendarID,
			InviterUserID:   userID,
			RecipientEmails: req.Emails,
			Subject:         req.Subject,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "invitations sent"})
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *Handler) handleCalendarHelper(w http.ResponseWriter, r *http.Request, calendarID string, helperUserID string) {
	if _, ok := userIdentity(w, r); !ok {
		return
	}
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w, http.MethodDelete)
		return
	}
	if err := h.service.RemoveHelper(r.Context(), calendarID, helperUserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *Handler) handleCalendarTargets(w http.ResponseWriter, r *http.Request, calendarID string) {
	if _, ok := userIdentity(w, r); !ok {
		return
	}
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxTargetPayloadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}
	if err := h.service.IngestTargets(r.Context(), calendarID, payload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "targets ingested"})
}

// parseTimeParam reads an optional RFC 3339 timestamp or 2006-01-02 date
// query parameter. A missing parameter yields the zero time.
func parseTimeParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return time.Time{}, true
	}
	if at, err := time.Parse(time.RFC3339, value); err == nil {
		return at, true
	}
	if at, err := time.Parse("2006-01-02", value); err == nil {
		return at, true
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid " + name + " parameter"})
	return time.Time{}, false
}
