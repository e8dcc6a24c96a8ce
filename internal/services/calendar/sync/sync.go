// Package sync mirrors calendar mutations to an external calendar service.
//
// Mirror failures carry the *Error type so workflows can tell them apart
// from local storage failures and apply the right rollback policy.
package sync

import (
	"context"
	"fmt"
	"time"
)

// Calendar is the mirror-facing view of one local calendar.
type Calendar struct {
	ID          string
	ExternalID  string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

// Mirror keeps an external calendar consistent with local state.
type Mirror interface {
	// Update pushes the calendar's current fields to its external mirror.
	Update(ctx context.Context, cal Calendar) error
	// Destroy removes the external mirror.
	Destroy(ctx context.Context, cal Calendar) error
	// ShareTargets grants the given emails read access to the mirror.
	ShareTargets(ctx context.Context, cal Calendar, emails []string) error
}

// Error marks a failure of the external mirror, distinct from storage errors.
type Error struct {
	Op    string
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("calendar sync %s failed", e.Op)
	}
	return fmt.Sprintf("calendar sync %s failed: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

func wrapErr(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Op: op, Cause: cause}
}

// NopMirror satisfies Mirror without any external integration. It backs
// deployments where calendars are never mirrored.
type NopMirror struct{}

// Update is a no-op.
func (NopMirror) Update(ctx context.Context, cal Calendar) error { return ctx.Err() }

// Destroy is a no-op.
func (NopMirror) Destroy(ctx context.Context, cal Calendar) error { return ctx.Err() }

// ShareTargets is a no-op.
func (NopMirror) ShareTargets(ctx context.Context, cal Calendar, emails []string) error {
	return ctx.Err()
}
