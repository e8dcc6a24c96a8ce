// Package seed populates a local calendar database with demo data so the
// HTTP API can be exercised without a registration flow.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/calshare/calshare/internal/services/calendar/storage"
	calendarsqlite "github.com/calshare/calshare/internal/services/calendar/storage/sqlite"
)

// Config holds seed parameters.
type Config struct {
	DBPath string
}

// Run inserts the demo dataset into the database at cfg.DBPath. Re-running
// against an already seeded database is safe; existing rows are kept.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	store, err := calendarsqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open calendar store: %w", err)
	}
	defer store.Close()

	now := time.Now().UTC()

	users := []storage.UserRecord{
		{ID: "usr-ana", Email: "ana@calshare.test", FullName: "Ana Souza", CreatedAt: now, UpdatedAt: now},
		{ID: "usr-bruno", Email: "bruno@calshare.test", FullName: "Bruno Lima", CreatedAt: now, UpdatedAt: now},
		{ID: "usr-carla", Email: "carla@calshare.test", FullName: "Carla Mendes", CreatedAt: now, UpdatedAt: now},
	}
	for _, user := range users {
		if err := store.PutUser(ctx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", user.ID, err)
		}
	}
	fmt.Fprintf(out, "seeded %d users\n", len(users))

	calendars := []storage.CalendarRecord{
		{
			ID:          "cal-family",
			OwnerUserID: "usr-ana",
			Title:       "Family Calendar",
			Description: "Appointments and school events",
			StartDate:   now,
			EndDate:     now.AddDate(0, 6, 0),
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "cal-care",
			OwnerUserID: "usr-bruno",
			Title:       "Care Schedule",
			StartDate:   now,
			EndDate:     now.AddDate(0, 3, 0),
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	seeded := 0
	for _, cal := range calendars {
		err := store.PutCalendar(ctx, cal)
		if errors.Is(err, storage.ErrConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed calendar %s: %w", cal.ID, err)
		}
		seeded++
	}
	fmt.Fprintf(out, "seeded %d calendars\n", seeded)

	if err := store.AttachHelper(ctx, "cal-family", "usr-carla", now); err != nil && !errors.Is(err, storage.ErrConflict) {
		return fmt.Errorf("seed helper: %w", err)
	}

	targets := []storage.TargetRecord{
		{ID: "tgt-grandma", CalendarID: "cal-family", Email: "grandma@calshare.test", CreatedAt: now},
		{ID: "tgt-school", CalendarID: "cal-family", Email: "office@school.test", CreatedAt: now},
	}
	if err := store.UpsertTargets(ctx, "cal-family", targets, nil); err != nil {
		return fmt.Errorf("seed targets: %w", err)
	}

	events := []storage.EventRecord{
		{
			ID:         "evt-dentist",
			CalendarID: "cal-family",
			UserID:     "usr-ana",
			Title:      "Dentist",
			StartsAt:   now.AddDate(0, 0, 7),
			EndsAt:     now.AddDate(0, 0, 7).Add(time.Hour),
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:          "evt-school-play",
			CalendarID:  "cal-family",
			UserID:      "usr-carla",
			Title:       "School play",
			Description: "Bring the camera",
			StartsAt:    now.AddDate(0, 1, 0),
			EndsAt:      now.AddDate(0, 1, 0).Add(2 * time.Hour),
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	for _, event := range events {
		if err := store.PutEvent(ctx, event); err != nil {
			return fmt.Errorf("seed event %s: %w", event.ID, err)
		}
	}
	fmt.Fprintf(out, "seeded %d events\n", len(events))
	return nil
}
