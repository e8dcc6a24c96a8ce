package domain

import (
	"strings"
	"time"

	apperrors "github.com/calshare/calshare/internal/platform/errors"
)

var (
	// ErrCalendarNotFound indicates a missing calendar.
	ErrCalendarNotFound = apperrors.New(apperrors.CodeNotFound, "calendar not found")
	// ErrUserNotFound indicates a missing user.
	ErrUserNotFound = apperrors.New(apperrors.CodeNotFound, "user not found")
	// ErrMissingParameters indicates required operation inputs are absent.
	ErrMissingParameters = apperrors.New(apperrors.CodeMissingParameters, "missing parameters")
	// ErrInvalidUser indicates a missing or blank user id.
	ErrInvalidUser = apperrors.New(apperrors.CodeInvalidUser, "user id is required")
)

// User represents one registered account.
type User struct {
	ID        string
	Email     string
	FullName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Calendar represents one user-owned calendar. A non-empty
// ExternalCalendarID means the calendar is mirrored to an external
// calendar service and mutations must keep the mirror consistent.
type Calendar struct {
	ID                 string
	OwnerUserID        string
	Title              string
	Description        string
	StartDate          time.Time
	EndDate            time.Time
	ExternalCalendarID string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Target represents one external sharing recipient of a calendar.
type Target struct {
	ID         string
	CalendarID string
	Email      string
	CreatedAt  time.Time
}

// Event represents one calendar event together with the email of the user
// who created it.
type Event struct {
	ID          string
	CalendarID  string
	UserID      string
	UserEmail   string
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
}

// CreateCalendarInput describes one calendar creation request.
type CreateCalendarInput struct {
	OwnerUserID string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

// NormalizeCreateCalendarInput trims and validates calendar creation input.
func NormalizeCreateCalendarInput(input CreateCalendarInput) (CreateCalendarInput, error) {
	input.OwnerUserID = strings.TrimSpace(input.OwnerUserID)
	if input.OwnerUserID == "" {
		return CreateCalendarInput{}, ErrMissingParameters
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return CreateCalendarInput{}, ErrMissingParameters
	}
	return input, nil
}

// UpdateCalendarInput describes one partial calendar update. Description is
// always applied, even when empty; nil pointer fields keep their previous
// values.
type UpdateCalendarInput struct {
	CalendarID  string
	Description string
	Title       *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// apply overlays the patch onto cal and returns the patched copy.
func (input UpdateCalendarInput) apply(cal Calendar) Calendar {
	cal.Description = input.Description
	if input.Title != nil {
		cal.Title = *input.Title
	}
	if input.StartDate != nil {
		cal.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		cal.EndDate = *input.EndDate
	}
	return cal
}

// InviteHelpersInput describes one helper invitation batch.
type InviteHelpersInput struct {
	CalendarID      string
	InviterUserID   string
	RecipientEmails []string
	Subject         string // optional subject override
}

// AcceptResult reports the outcome of one invitation acceptance.
// AlreadyHelper means the user was a helper before the call; the operation
// is idempotent and this is not an error.
type AcceptResult struct {
	Calendar      Calendar
	AlreadyHelper bool
}
