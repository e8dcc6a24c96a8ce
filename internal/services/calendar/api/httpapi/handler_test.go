package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "github.com/calshare/calshare/internal/platform/errors"
	"github.com/calshare/calshare/internal/services/calendar/domain"
)

func TestHandler_RequiresUserIdentity(t *testing.T) {
	t.Parallel()

	handler := NewHandler(&fakeService{})
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/calendars"},
		{http.MethodPost, "/calendars"},
		{http.MethodGet, "/calendars/cal-1"},
		{http.MethodGet, "/users"},
		{http.MethodGet, "/users/me"},
		{http.MethodPost, "/invitations/accept"},
	}
	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s status = %d, want %d", tc.method, tc.path, rec.Code, http.StatusUnauthorized)
		}
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp["message"] == "" {
			t.Fatalf("expected message field in %q", rec.Body.String())
		}
	}
}

func TestHandler_CreateCalendar(t *testing.T) {
	t.Parallel()

	service := &fakeService{
		calendar: domain.Calendar{ID: "cal-1", OwnerUserID: "user-1", Title: "Family Calendar"},
	}
	handler := NewHandler(service)

	body := `{"title": "Family Calendar", "description": "Summer plans"}`
	req := httptest.NewRequest(http.MethodPost, "/calendars", strings.NewReader(body))
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if service.createInput.OwnerUserID != "user-1" {
		t.Fatalf("owner user id = %q, want from identity header", service.createInput.OwnerUserID)
	}
	if service.createInput.Title != "Family Calendar" || service.createInput.Description != "Summer plans" {
		t.Fatalf("unexpected create input: %+v", service.createInput)
	}
	var view calendarView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.ID != "cal-1" {
		t.Fatalf("calendar id = %q, want %q", view.ID, "cal-1")
	}
}

func TestHandler_UpdateCalendarKeepsAbsentFields(t *testing.T) {
	t.Parallel()

	service := &fakeService{calendar: domain.Calendar{ID: "cal-1"}}
	handler := NewHandler(service)

	req := httptest.NewRequest(http.MethodPatch, "/calendars/cal-1", strings.NewReader(`{"description": ""}`))
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if service.updateInput.CalendarID != "cal-1" {
		t.Fatalf("calendar id = %q, want from path", service.updateInput.CalendarID)
	}
	if service.updateInput.Title != nil || service.updateInput.StartDate != nil || service.updateInput.EndDate != nil {
		t.Fatalf("absent fields should stay nil: %+v", service.updateInput)
	}
	if service.updateInput.Description != "" {
		t.Fatalf("description = %q, want empty overwrite", service.updateInput.Description)
	}
}

func TestHandler_ErrorRendering(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: domain.ErrCalendarNotFound, wantStatus: http.StatusNotFound},
		{name: "sync failed", err: apperrors.New(apperrors.CodeExternalSyncFailed, "external calendar sync failed"), wantStatus: http.StatusInternalServerError},
		{name: "plain error hides cause", err: context.DeadlineExceeded, wantStatus: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			service := &fakeService{getCalendarErr: tc.err}
			handler := NewHandler(service)

			req := httptest.NewRequest(http.MethodGet, "/calendars/cal-1", nil)
			req.Header.Set("X-User-ID", "user-1")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp["message"] == "" {
				t.Fatalf("expected message field in %q", rec.Body.String())
			}
			if strings.Contains(resp["message"], "deadline") {
				t.Fatalf("internal cause leaked: %q", resp["message"])
			}
		})
	}
}

func TestHandler_ListCalendarFilters(t *testing.T) {
	t.Parallel()

	service := &fakeService{}
	handler := NewHandler(service)

	cases := []struct {
		query    string
		wantCall string
	}{
		{query: "", wantCall: "all"},
		{query: "?filter=all", wantCall: "all"},
		{query: "?filter=owned", wantCall: "owned"},
		{query: "?filter=helping", wantCall: "helping"},
	}
	for _, tc := range cases {
		service.lastListCall = ""
		req := httptest.NewRequest(http.MethodGet, "/calendars"+tc.query, nil)
		req.Header.Set("X-User-ID", "user-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if service.lastListCall != tc.wantCall {
			t.Fatalf("list call = %q, want %q", service.lastListCall, tc.wantCall)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/calendars?filter=bogus", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandler_CalendarEventsParsesRange(t *testing.T) {
	t.Parallel()

	service := &fakeService{
		events: []domain.Event{{ID: "evt-1", CalendarID: "cal-1", UserEmail: "owner@example.com"}},
	}
	handler := NewHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/calendars/cal-1/events?from=2026-06-01&to=2026-07-01T00:00:00Z", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	wantFrom := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if !service.eventsFrom.Equal(wantFrom) {
		t.Fatalf("from = %v, want %v", service.eventsFrom, wantFrom)
	}
	wantTo := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	if !service.eventsTo.Equal(wantTo) {
		t.Fatalf("to = %v, want %v", service.eventsTo, wantTo)
	}

	bad := httptest.NewRequest(http.MethodGet, "/calendars/cal-1/events?from=yesterday", nil)
	bad.Header.Set("X-User-ID", "user-1")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, bad)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandler_InviteHelpers(t *testing.T) {
	t.Parallel()

	service := &fakeService{}
	handler := NewHandler(service)

	body := `{"emails": ["bob@example.com"], "subject": "Join my calendar"}`
	req := httptest.NewRequest(http.MethodPost, "/calendars/cal-1/helpers", strings.NewReader(body))
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusAccepted, rec.Body.String())
	}
	if service.inviteInput.CalendarID != "cal-1" || service.inviteInput.InviterUserID != "user-1" {
		t.Fatalf("unexpected invite input: %+v", service.inviteInput)
	}
	if len(service.inviteInput.RecipientEmails) != 1 || service.inviteInput.Subject != "Join my calendar" {
		t.Fatalf("unexpected invite input: %+v", service.inviteInput)
	}
}

func TestHandler_RemoveHelper(t *testing.T) {
	t.Parallel()

	service := &fakeService{}
	handler := NewHandler(service)

	req := httptest.NewRequest(http.MethodDelete, "/calendars/cal-1/helpers/user-2", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if service.removedCalendarID != "cal-1" || service.removedUserID != "user-2" {
		t.Fatalf("remove helper call = (%q, %q)", service.removedCalendarID, service.removedUserID)
	}
}

func TestHandler_IngestTargetsPassesRawPayload(t *testing.T) {
	t.Parallel()

	service := &fakeService{}
	handler := NewHandler(service)

	payload := `{"targets": ["bob@example.com", 42]}`
	req := httptest.NewRequest(http.MethodPost, "/calendars/cal-1/targets", strings.NewReader(payload))
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if string(service.ingestPayload) != payload {
		t.Fatalf("ingest payload = %q, want raw body", service.ingestPayload)
	}
}

func TestHandler_AcceptInvitation(t *testing.T) {
	t.Parallel()

	service := &fakeService{
		acceptResult: domain.AcceptResult{
			Calendar:      domain.Calendar{ID: "cal-1", Title: "Family Calendar"},
			AlreadyHelper: true,
		},
	}
	handler := NewHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/invitations/accept", strings.NewReader(`{"token": "tok-1"}`))
	req.Header.Set("X-User-ID", "user-2")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if service.acceptToken != "tok-1" || service.acceptUserID != "user-2" {
		t.Fatalf("accept call = (%q, %q)", service.acceptToken, service.acceptUserID)
	}
	var resp acceptInvitationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != acceptStatusAlreadyHelper {
		t.Fatalf("status = %q, want %q", resp.Status, acceptStatusAlreadyHelper)
	}
	if resp.Calendar.ID != "cal-1" {
		t.Fatalf("calendar id = %q, want %q", resp.Calendar.ID, "cal-1")
	}
}

func TestHandler_AcceptInvitationTokenFromQuery(t *testing.T) {
	t.Parallel()

	service := &fakeService{}
	handler := NewHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/invitations/accept?token=tok-9", nil)
	req.Header.Set("X-User-ID", "user-2")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if service.acceptToken != "tok-9" {
		t.Fatalf("accept token = %q, want from query", service.acceptToken)
	}
}

func TestHandler_AcceptInvitationRequiresToken(t *testing.T) {
	t.Parallel()

	handler := NewHandler(&fakeService{})
	req := httptest.NewRequest(http.MethodPost, "/invitations/accept", strings.NewReader(`{}`))
	req.Header.Set("X-User-ID", "user-2")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandler_Me(t *testing.T) {
	t.Parallel()

	service := &fakeService{user: domain.User{ID: "user-1", Email: "owner@example.com"}}
	handler := NewHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var view userView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.ID != "user-1" || view.Email != "owner@example.com" {
		t.Fatalf("unexpected user view: %+v", view)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	handler := NewHandler(&fakeService{})
	req := httptest.NewRequest(http.MethodDelete, "/users", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if got := rec.Header().Get("Allow"); got != http.MethodGet {
		t.Fatalf("Allow header = %q, want %q", got, http.MethodGet)
	}
}

type fakeService struct {
	calendar     domain.Calendar
	calendars    []domain.Calendar
	events       []domain.Event
	helpers      []domain.User
	user         domain.User
	users        []domain.User
	acceptResult domain.AcceptResult

	getCalendarErr error

	createInput       domain.CreateCalendarInput
	updateInput       domain.UpdateCalendarInput
	inviteInput       domain.InviteHelpersInput
	deletedCalendarID string
	removedCalendarID string
	removedUserID     string
	ingestCalendarID  string
	ingestPayload     []byte
	acceptToken       string
	acceptUserID      string
	lastListCall      string
	eventsFrom        time.Time
	eventsTo          time.Time
}

func (f *fakeService) CreateCalendar(ctx context.Context, input domain.CreateCalendarInput) (domain.Calendar, error) {
	f.createInput = input
	return f.calendar, nil
}

func (f *fakeService) UpdateCalendar(ctx context.Context, input domain.UpdateCalendarInput) (domain.Calendar, error) {
	f.updateInput = input
	return f.calendar, nil
}

func (f *fakeService) DeleteCalendar(ctx context.Context, calendarID string) error {
	f.deletedCalendarID = calendarID
	return nil
}

func (f *fakeService) InviteHelpers(ctx context.Context, input domain.InviteHelpersInput) error {
	f.inviteInput = input
	return nil
}

func (f *fakeService) AcceptInvitation(ctx context.Context, token string, acceptingUserID string) (domain.AcceptResult, error) {
	f.acceptToken = token
	f.acceptUserID = acceptingUserID
	return f.acceptResult, nil
}

func (f *fakeService) RemoveHelper(ctx context.Context, calendarID string, userID string) error {
	f.removedCalendarID = calendarID
	f.removedUserID = userID
	return nil
}

func (f *fakeService) IngestTargets(ctx context.Context, calendarID string, payload []byte) error {
	f.ingestCalendarID = calendarID
	f.ingestPayload = append([]byte(nil), payload...)
	return nil
}

func (f *fakeService) GetCalendar(ctx context.Context, calendarID string) (domain.Calendar, error) {
	if f.getCalendarErr != nil {
		return domain.Calendar{}, f.getCalendarErr
	}
	return f.calendar, nil
}

func (f *fakeService) ListOwnedCalendars(ctx context.Context, ownerUserID string) ([]domain.Calendar, error) {
	f.lastListCall = "owned"
	return f.calendars, nil
}

func (f *fakeService) ListHelperCalendars(ctx context.Context, userID string) ([]domain.Calendar, error) {
	f.lastListCall = "helping"
	return f.calendars, nil
}

func (f *fakeService) ListAllCalendars(ctx context.Context, userID string) ([]domain.Calendar, error) {
	f.lastListCall = "all"
	return f.calendars, nil
}

func (f *fakeService) ListCalendarEvents(ctx context.Context, calendarID string, from time.Time, to time.Time) ([]domain.Event, error) {
	f.eventsFrom = from
	f.eventsTo = to
	return f.events, nil
}

func (f *fakeService) ListHelpers(ctx context.Context, calendarID string, ownerUserID string) ([]domain.User, error) {
	return f.helpers, nil
}

func (f *fakeService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	return f.user, nil
}

func (f *fakeService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return f.users, nil
}
