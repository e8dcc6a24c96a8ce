// Package storage defines the persistence boundary for calendar state.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a write conflicts with uniqueness constraints.
	ErrConflict = errors.New("record conflict")
)

// UserRecord stores one registered user.
type UserRecord struct {
	ID        string
	Email     string
	FullName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CalendarRecord stores one calendar owned by a user.
//
// ExternalCalendarID is empty unless the calendar is mirrored to a
// third-party calendar service.
type CalendarRecord struct {
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

// TargetRecord stores one external sharing recipient of a calendar.
// Targets are unique per (calendar, email).
type TargetRecord struct {
	ID         string
	CalendarID string
	Email      string
	CreatedAt  time.Time
}

// EventRecord stores one calendar event with its creating user.
type EventRecord struct {
	ID          string
	CalendarID  string
	UserID      string
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventWithUserEmail joins an event with its creating user's email.
type EventWithUserEmail struct {
	EventRecord
	UserEmail string
}

// UserStore persists registered users.
type UserStore interface {
	PutUser(ctx context.Context, record UserRecord) error
	GetUser(ctx context.Context, userID string) (UserRecord, error)
	ListUsers(ctx context.Context) ([]UserRecord, error)
}

// CalendarStore persists calendars and helper associations.
type CalendarStore interface {
	PutCalendar(ctx context.Context, record CalendarRecord) error
	GetCalendar(ctx context.Context, calendarID string) (CalendarRecord, error)
	UpdateCalendar(ctx context.Context, record CalendarRecord) error
	// DeleteCalendar removes the calendar row and its cascaded targets,
	// helper associations, and events inside one transaction. When
	// preCommit is non-nil it runs after the local delete and before the
	// commit; a preCommit error rolls the whole delete back and is
	// returned to the caller.
	DeleteCalendar(ctx context.Context, calendarID string, preCommit func(CalendarRecord) error) error
	ListCalendarsByOwner(ctx context.Context, ownerUserID string) ([]CalendarRecord, error)
	ListCalendarsByHelper(ctx context.Context, userID string) ([]CalendarRecord, error)
}

// HelperStore persists calendar helper associations.
type HelperStore interface {
	AttachHelper(ctx context.Context, calendarID string, userID string, at time.Time) error
	DetachHelper(ctx context.Context, calendarID string, userID string) error
	IsHelper(ctx context.Context, calendarID string, userID string) (bool, error)
	ListHelpers(ctx context.Context, calendarID string) ([]UserRecord, error)
}

// TargetStore persists calendar sharing targets.
type TargetStore interface {
	// UpsertTargets inserts the given target emails for one calendar
	// inside one transaction, skipping rows that already exist for the
	// same (calendar, email) key. When preCommit is non-nil it runs after
	// the upserts and before the commit; any error rolls the whole batch
	// back.
	UpsertTargets(ctx context.Context, calendarID string, records []TargetRecord, preCommit func() error) error
	ListTargets(ctx context.Context, calendarID string) ([]TargetRecord, error)
}

// EventStore persists calendar events.
type EventStore interface {
	PutEvent(ctx context.Context, record EventRecord) error
	// ListEventsByCalendar returns events in [from, to), joined with each
	// creating user's email. Zero bounds disable the respective limit.
	ListEventsByCalendar(ctx context.Context, calendarID string, from, to time.Time) ([]EventWithUserEmail, error)
}
