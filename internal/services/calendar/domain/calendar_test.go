package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeCreateCalendarInput_TrimsFields(t *testing.T) {
	t.Parallel()

	input, err := NormalizeCreateCalendarInput(CreateCalendarInput{
		OwnerUserID: "  user-1  ",
		Title:       "  Family Calendar  ",
	})
	if err != nil {
		t.Fatalf("normalize input: %v", err)
	}
	if input.OwnerUserID != "user-1" {
		t.Fatalf("owner user id = %q, want %q", input.OwnerUserID, "user-1")
	}
	if input.Title != "Family Calendar" {
		t.Fatalf("title = %q, want %q", input.Title, "Family Calendar")
	}
}

func TestNormalizeCreateCalendarInput_RequiresOwnerAndTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input CreateCalendarInput
	}{
		{name: "missing owner", input: CreateCalendarInput{Title: "Family Calendar"}},
		{name: "missing title", input: CreateCalendarInput{OwnerUserID: "user-1"}},
		{name: "blank title", input: CreateCalendarInput{OwnerUserID: "user-1", Title: "   "}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NormalizeCreateCalendarInput(tc.input); !errors.Is(err, ErrMissingParameters) {
				t.Fatalf("expected ErrMissingParameters, got %v", err)
			}
		})
	}
}

func TestUpdateCalendarInput_ApplyOverlaysPatch(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	cal := Calendar{
		ID:          "cal-1",
		OwnerUserID: "user-1",
		Title:       "Family Calendar",
		Description: "Planning the summer",
		StartDate:   start,
		EndDate:     end,
	}

	newTitle := "Summer Calendar"
	newEnd := end.AddDate(0, 1, 0)
	patched := UpdateCalendarInput{
		CalendarID:  "cal-1",
		Description: "",
		Title:       &newTitle,
		EndDate:     &newEnd,
	}.apply(cal)

	if patched.Description != "" {
		t.Fatalf("description = %q, want cleared", patched.Description)
	}
	if patched.Title != newTitle {
		t.Fatalf("title = %q, want %q", patched.Title, newTitle)
	}
	if !patched.StartDate.Equal(start) {
		t.Fatalf("start date = %v, want unchanged %v", patched.StartDate, start)
	}
	if !patched.EndDate.Equal(newEnd) {
		t.Fatalf("end date = %v, want %v", patched.EndDate, newEnd)
	}
	if patched.OwnerUserID != cal.OwnerUserID || patched.ID != cal.ID {
		t.Fatalf("identity fields changed: %+v", patched)
	}
}
