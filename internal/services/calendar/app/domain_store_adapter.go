package server

import (
	"context"
	"errors"
	"time"

	"github.com/calshare/calshare/internal/services/calendar/domain"
	"github.com/calshare/calshare/internal/services/calendar/storage"
)

type domainStoreAdapter struct {
	users     storage.UserStore
	calendars storage.CalendarStore
	helpers   storage.HelperStore
	targets   storage.TargetStore
	events    storage.EventStore
}

func newDomainStoreAdapter(
	users storage.UserStore,
	calendars storage.CalendarStore,
	helpers storage.HelperStore,
	targets storage.TargetStore,
	events storage.EventStore,
) *domainStoreAdapter {
	return &domainStoreAdapter{
		users:     users,
		calendars: calendars,
		helpers:   helpers,
		targets:   targets,
		events:    events,
	}
}

func (a *domainStoreAdapter) GetUser(ctx context.Context, userID string) (domain.User, error) {
	if a == nil || a.users == nil {
		return domain.User{}, domain.ErrStoreNotConfigured
	}
	record, err := a.users.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, mapUserError(err)
	}
	return toDomainUser(record), nil
}

func (a *domainStoreAdapter) ListUsers(ctx context.Context) ([]domain.User, error) {
	if a == nil || a.users == nil {
		return nil, domain.ErrStoreNotConfigured
	}
	records, err := a.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(records))
	for _, record := range records {
		users = append(users, toDomainUser(record))
	}
	return users, nil
}

func (a *domainStoreAdapter) GetCalendar(ctx context.Context, calendarID string) (domain.Calendar, error) {
	if a == nil || a.calendars == nil {
		return domain.Calendar{}, domain.ErrStoreNotConfigured
	}
	record, err := a.calendars.GetCalendar(ctx, calendarID)
	if err != nil {
		return domain.Calendar{}, mapCalendarError(err)
	}
	return toDomainCalendar(record), nil
}

func (a *domainStoreAdapter) PutCalendar(ctx context.Context, cal domain.Calendar) error {
	if a == nil || a.calendars == nil {
		return domain.ErrStoreNotConfigured
	}
	return a.calendars.PutCalendar(ctx, toStorageCalendar(cal))
}

func (a *domainStoreAdapter) UpdateCalendar(ctx context.Context, cal domain.Calendar) error {
	if a == nil || a.calendars == nil {
		return domain.ErrStoreNotConfigured
	}
	return mapCalendarError(a.calendars.UpdateCalendar(ctx, toStorageCalendar(cal)))
}

func (a *domainStoreAdapter) DeleteCalendar(ctx context.Context, calendarID string, preCommit func(domain.Calendar) error) error {
	if a == nil || a.calendars == nil {
		return domain.ErrStoreNotConfigured
	}
	var storagePreCommit func(storage.CalendarRecord) error
	if preCommit != nil {
		storagePreCommit = func(record storage.CalendarRecord) error {
			return preCommit(toDomainCalendar(record))
		}
	}
	err := a.calendars.DeleteCalendar(ctx, calendarID, storagePreCommit)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.ErrCalendarNotFound
	}
	return err
}

func (a *domainStoreAdapter) ListCalendarsByOwner(ctx context.Context, ownerUserID string) ([]domain.Calendar, error) {
	if a == nil || a.calendars == nil {
		return nil, domain.ErrStoreNotConfigured
	}
	records, err := a.calendars.ListCalendarsByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	return toDomainCalendars(records), nil
}

func (a *domainStoreAdapter) ListCalendarsByHelper(ctx context.Context, userID string) ([]domain.Calendar, error) {
	if a == nil || a.calendars == nil {
		return nil, domain.ErrStoreNotConfigured
	}
	records, err := a.calendars.ListCalendarsByHelper(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toDomainCalendars(records), nil
}

func (a *domainStoreAdapter) IsHelper(ctx context.Context, calendarID string, userID string) (bool, error) {
	if a == nil || a.helpers == nil {
		return false, domain.ErrStoreNotConfigured
	}
	return a.helpers.IsHelper(ctx, calendarID, userID)
}

func (a *domainStoreAdapter) AttachHelper(ctx context.Context, calendarID string, userID string, at time.Time) error {
	if a == nil || a.helpers == nil {
		return domain.ErrStoreNotConfigured
	}
	err := a.helpers.AttachHelper(ctx, calendarID, userID, at)
	if errors.Is(err, storage.ErrConflict) {
		// Concurrent accept of the same invitation; the association exists.
		return nil
	}
	return mapCalendarError(err)
}

func (a *domainStoreAdapter) DetachHelper(ctx context.Context, calendarID string, userID string) error {
	if a == nil || a.helpers == nil {
		return domain.ErrStoreNotConfigured
	}
	return a.helpers.DetachHelper(ctx, calendarID, userID)
}

func (a *domainStoreAdapter) ListHelpers(ctx context.Context, calendarID string) ([]domain.User, error) {
	if a == nil || a.helpers == nil {
		return nil, domain.ErrStoreNotConfigured
	}
	records, err := a.helpers.ListHelpers(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(records))
	for _, record := range records {
		users = append(users, toDomainUser(record))
	}
	return users, nil
}

func (a *domainStoreAdapter) UpsertTargets(ctx context.Context, calendarID string, targets []domain.Target, preCommit func() error) error {
	if a == nil || a.targets == nil {
		return domain.ErrStoreNotConfigured
	}
	records := make([]storage.TargetRecord, 0, len(targets))
	for _, target := range targets {
		records = append(records, storage.TargetRecord{
			ID:         target.ID,
			CalendarID: target.CalendarID,
			Email:      target.Email,
			CreatedAt:  target.CreatedAt,
		})
	}
	err := a.targets.UpsertTargets(ctx, calendarID, records, preCommit)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.ErrCalendarNotFound
	}
	return err
}

func (a *domainStoreAdapter) ListEvents(ctx context.Context, calendarID string, from time.Time, to time.Time) ([]domain.Event, error) {
	if a == nil || a.events == nil {
		return nil, domain.ErrStoreNotConfigured
	}
	records, err := a.events.ListEventsByCalendar(ctx, calendarID, from, to)
	if err != nil {
		return nil, mapCalendarError(err)
	}
	events := make([]domain.Event, 0, len(records))
	for _, record := range records {
		events = append(events, domain.Event{
			ID:          record.ID,
			CalendarID:  record.CalendarID,
			UserID:      record.UserID,
			UserEmail:   record.UserEmail,
			Title:       record.Title,
			Description: record.Description,
			StartsAt:    record.StartsAt,
			EndsAt:      record.EndsAt,
		})
	}
	return events, nil
}

func mapUserError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return domain.ErrUserNotFound
	}
	return err
}

func mapCalendarError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return domain.ErrCalendarNotFound
	}
	return err
}

func toDomainUser(record storage.UserRecord) domain.User {
	return domain.User{
		ID:        record.ID,
		Email:     record.Email,
		FullName:  record.FullName,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func toDomainCalendar(record storage.CalendarRecord) domain.Calendar {
	return domain.Calendar{
		ID:                 record.ID,
		OwnerUserID:        record.OwnerUserID,
		Title:              record.Title,
		Description:        record.Description,
		StartDate:          record.StartDate,
		EndDate:            record.EndDate,
		ExternalCalendarID: record.ExternalCalendarID,
		CreatedAt:          record.CreatedAt,
		UpdatedAt:          record.UpdatedAt,
	}
}

func toDomainCalendars(records []storage.CalendarRecord) []domain.Calendar {
	calendars := make([]domain.Calendar, 0, len(records))
	for _, record := range records {
		calendars = append(calendars, toDomainCalendar(record))
	}
	return calendars
}

func toStorageCalendar(cal domain.Calendar) storage.CalendarRecord {
	return storage.CalendarRecord{
		ID:                 cal.ID,
		OwnerUserID:        cal.OwnerUserID,
		Title:              cal.Title,
		Description:        cal.Description,
		StartDate:          cal.StartDate,
		EndDate:            cal.EndDate,
		ExternalCalendarID: cal.ExternalCalendarID,
		CreatedAt:          cal.CreatedAt,
		UpdatedAt:          cal.UpdatedAt,
	}
}
