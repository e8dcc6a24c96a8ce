package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/calshare/calshare/internal/services/calendar/domain"
	"github.com/calshare/calshare/internal/services/calendar/storage"
)

func TestDomainStoreAdapter_MapsMissingRecords(t *testing.T) {
	t.Parallel()

	adapter := newDomainStoreAdapter(&fakeStorage{}, &fakeStorage{}, &fakeStorage{}, &fakeStorage{}, &fakeStorage{})

	if _, err := adapter.GetUser(context.Background(), "user-missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := adapter.GetCalendar(context.Background(), "cal-missing"); !errors.Is(err, domain.ErrCalendarNotFound) {
		t.Fatalf("expected ErrCalendarNotFound, got %v", err)
	}
	if err := adapter.DeleteCalendar(context.Background(), "cal-missing", nil); !errors.Is(err, domain.ErrCalendarNotFound) {
		t.Fatalf("expected ErrCalendarNotFound, got %v", err)
	}
	if err := adapter.UpsertTargets(context.Background(), "cal-missing", nil, nil); !errors.Is(err, domain.ErrCalendarNotFound) {
		t.Fatalf("expected ErrCalendarNotFound, got %v", err)
	}
}

func TestDomainStoreAdapter_AttachHelperIgnoresConflict(t *testing.T) {
	t.Parallel()

	fake := &fakeStorage{attachErr: storage.ErrConflict}
	adapter := newDomainStoreAdapter(fake, fake, fake, fake, fake)

	if err := adapter.AttachHelper(context.Background(), "cal-1", "user-2", time.Now()); err != nil {
		t.Fatalf("attach helper: %v", err)
	}
}

func TestDomainStoreAdapter_DeleteCalendarConvertsPreCommitRecord(t *testing.T) {
	t.Parallel()

	fake := &fakeStorage{
		calendar: storage.CalendarRecord{
			ID:                 "cal-1",
			OwnerUserID:        "user-1",
			Title:              "Family Calendar",
			ExternalCalendarID: "ext-1",
		},
	}
	adapter := newDomainStoreAdapter(fake, fake, fake, fake, fake)

	var seen domain.Calendar
	err := adapter.DeleteCalendar(context.Background(), "cal-1", func(cal domain.Calendar) error {
		seen = cal
		return nil
	})
	if err != nil {
		t.Fatalf("delete calendar: %v", err)
	}
	if seen.ID != "cal-1" || seen.ExternalCalendarID != "ext-1" {
		t.Fatalf("unexpected preCommit calendar: %+v", seen)
	}
}

func TestDomainStoreAdapter_ListEventsCarriesUserEmail(t *testing.T) {
	t.Parallel()

	fake := &fakeStorage{
		events: []storage.EventWithUserEmail{
			{
				EventRecord: storage.EventRecord{ID: "evt-1", CalendarID: "cal-1", UserID: "user-1", Title: "Checkup"},
				UserEmail:   "owner@example.com",
			},
		},
	}
	adapter := newDomainStoreAdapter(fake, fake, fake, fake, fake)

	events, err := adapter.ListEvents(context.Background(), "cal-1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].UserEmail != "owner@example.com" || events[0].Title != "Checkup" {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

// fakeStorage implements the storage interfaces over fixed records.
type fakeStorage struct {
	calendar storage.CalendarRecord
	events   []storage.EventWithUserEmail

	attachErr error
}

func (f *fakeStorage) PutUser(ctx context.Context, record storage.UserRecord) error { return nil }

func (f *fakeStorage) GetUser(ctx context.Context, userID string) (storage.UserRecord, error) {
	return storage.UserRecord{}, storage.ErrNotFound
}

func (f *fakeStorage) ListUsers(ctx context.Context) ([]storage.UserRecord, error) {
	return nil, nil
}

func (f *fakeStorage) PutCalendar(ctx context.Context, record storage.CalendarRecord) error {
	return nil
}

func (f *fakeStorage) GetCalendar(ctx context.Context, calendarID string) (storage.CalendarRecord, error) {
	if f.calendar.ID == calendarID {
		return f.calendar, nil
	}
	return storage.CalendarRecord{}, storage.ErrNotFound
}

func (f *fakeStorage) UpdateCalendar(ctx context.Context, record storage.CalendarRecord) error {
	return nil
}

func (f *fakeStorage) DeleteCalendar(ctx context.Context, calendarID string, preCommit func(storage.CalendarRecord) error) error {
	if f.calendar.ID != calendarID {
		return storage.ErrNotFound
	}
	if preCommit != nil {
		return preCommit(f.calendar)
	}
	return nil
}

func (f *fakeStorage) ListCalendarsByOwner(ctx context.Context, ownerUserID string) ([]storage.CalendarRecord, error) {
	return nil, nil
}

func (f *fakeStorage) ListCalendarsByHelper(ctx context.Context, userID string) ([]storage.CalendarRecord, error) {
	return nil, nil
}

func (f *fakeStorage) AttachHelper(ctx context.Context, calendarID string, userID string, at time.Time) error {
	return f.attachErr
}

func (f *fakeStorage) DetachHelper(ctx context.Context, calendarID string, userID string) error {
	return nil
}

func (f *fakeStorage) IsHelper(ctx context.Context, calendarID string, userID string) (bool, error) {
	return false, nil
}

func (f *fakeStorage) ListHelpers(ctx context.Context, calendarID string) ([]storage.UserRecord, error) {
	return nil, nil
}

func (f *fakeStorage) UpsertTargets(ctx context.Context, calendarID string, records []storage.TargetRecord, preCommit func() error) error {
	if f.calendar.ID != calendarID {
		return storage.ErrNotFound
	}
	if preCommit != nil {
		return preCommit()
	}
	return nil
}

func (f *fakeStorage) ListTargets(ctx context.Context, calendarID string) ([]storage.TargetRecord, error) {
	return nil, nil
}

func (f *fakeStorage) PutEvent(ctx context.Context, record storage.EventRecord) error { return nil }

func (f *fakeStorage) ListEventsByCalendar(ctx context.Context, calendarID string, from, to time.Time) ([]storage.EventWithUserEmail, error) {
	return f.events, nil
}
