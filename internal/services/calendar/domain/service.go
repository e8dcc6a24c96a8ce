package domain

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/calshare/calshare/internal/platform/errors"
	"github.com/calshare/calshare/internal/platform/id"
	"github.com/calshare/calshare/internal/services/calendar/invite"
	"github.com/calshare/calshare/internal/services/calendar/mail"
	"github.com/calshare/calshare/internal/services/calendar/sync"
)

var (
	// ErrStoreNotConfigured indicates the service is missing persistence wiring.
	ErrStoreNotConfigured = errors.New("calendar store is not configured")
	// ErrTokensNotConfigured indicates the service is missing the invitation token wiring.
	ErrTokensNotConfigured = errors.New("invitation token service is not configured")
	// ErrMailerNotConfigured indicates the service is missing the notification wiring.
	ErrMailerNotConfigured = errors.New("invitation mail sender is not configured")
)

// Store is the domain persistence boundary for calendar lifecycle behavior.
// Lookups return ErrCalendarNotFound or ErrUserNotFound for missing rows.
type Store interface {
	GetUser(ctx context.Context, userID string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)

	GetCalendar(ctx context.Context, calendarID string) (Calendar, error)
	PutCalendar(ctx context.Context, cal Calendar) error
	UpdateCalendar(ctx context.Context, cal Calendar) error
	// DeleteCalendar removes the calendar inside one transaction and invokes
	// preCommit with the deleted record before committing. A preCommit error
	// rolls the deletion back.
	DeleteCalendar(ctx context.Context, calendarID string, preCommit func(Calendar) error) error
	ListCalendarsByOwner(ctx context.Context, ownerUserID string) ([]Calendar, error)
	ListCalendarsByHelper(ctx context.Context, userID string) ([]Calendar, error)

	IsHelper(ctx context.Context, calendarID string, userID string) (bool, error)
	AttachHelper(ctx context.Context, calendarID string, userID string, at time.Time) error
	DetachHelper(ctx context.Context, calendarID string, userID string) error
	ListHelpers(ctx context.Context, calendarID string) ([]User, error)

	// UpsertTargets inserts the targets that are new for the calendar inside
	// one transaction and invokes preCommit before committing. A preCommit
	// error rolls the inserts back.
	UpsertTargets(ctx context.Context, calendarID string, targets []Target, preCommit func() error) error

	ListEvents(ctx context.Context, calendarID string, from time.Time, to time.Time) ([]Event, error)
}

// TokenService mints and verifies helper invitation tokens.
type TokenService interface {
	Issue(calendarID string, invitedEmail string) (string, error)
	Verify(token string) (invite.Claims, error)
}

// Service orchestrates calendar lifecycle, helper invitation, and target
// ingestion behavior, keeping the external mirror consistent with local state.
type Service struct {
	store         Store
	mirror        sync.Mirror
	tokens        TokenService
	mailer        mail.Sender
	localizer     mail.Localizer
	acceptURLBase string
	clock         func() time.Time
	newID         func() (string, error)
	logf          func(format string, args ...any)
}

// Deps carries the collaborators of one Service. Mirror, Localizer, Clock,
// NewID, and Logf may be nil and fall back to defaults.
type Deps struct {
	Store         Store
	Mirror        sync.Mirror
	Tokens        TokenService
	Mailer        mail.Sender
	Localizer     mail.Localizer
	AcceptURLBase string
	Clock         func() time.Time
	NewID         func() (string, error)
	Logf          func(format string, args ...any)
}

// NewService constructs calendar domain use-cases.
func NewService(deps Deps) *Service {
	if deps.Mirror == nil {
		deps.Mirror = sync.NopMirror{}
	}
	if deps.Localizer == nil {
		deps.Localizer = mail.NewLocalizer()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = id.NewID
	}
	if deps.Logf == nil {
		deps.Logf = log.Printf
	}
	return &Service{
		store:         deps.Store,
		mirror:        deps.Mirror,
		tokens:        deps.Tokens,
		mailer:        deps.Mailer,
		localizer:     deps.Localizer,
		acceptURLBase: deps.AcceptURLBase,
		clock:         deps.Clock,
		newID:         deps.NewID,
		logf:          deps.Logf,
	}
}

// CreateCalendar stores one new calendar owned by the given user.
func (s *Service) CreateCalendar(ctx context.Context, input CreateCalendarInput) (Calendar, error) {
	if s == nil || s.store == nil {
		return Calendar{}, ErrStoreNotConfigured
	}
	input, err := NormalizeCreateCalendarInput(input)
	if err != nil {
		return Calendar{}, err
	}
	calendarID, err := s.newID()
	if err != nil {
		return Calendar{}, apperrors.Wrap(apperrors.CodeCalendarCreateFailed, "calendar could not be created", err)
	}
	now := s.clock().UTC()
	cal := Calendar{
		ID:          calendarID,
		OwnerUserID: input.OwnerUserID,
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.PutCalendar(ctx, cal); err != nil {
		return Calendar{}, apperrors.Wrap(apperrors.CodeCalendarCreateFailed, "calendar could not be created", err)
	}
	return cal, nil
}

// UpdateCalendar applies a partial update. The description is overwritten
// unconditionally; title and dates keep their previous values when absent.
// A mirrored calendar is synced before the local save; if the save then
// fails, a best-effort compensating sync restores the mirror to the previous
// snapshot.
func (s *Service) UpdateCalendar(ctx context.Context, input UpdateCalendarInput) (Calendar, error) {
	if s == nil || s.store == nil {
		return Calendar{}, ErrStoreNotConfigured
	}
	input.CalendarID = strings.TrimSpace(input.CalendarID)
	if input.CalendarID == "" {
		return Calendar{}, ErrMissingParameters
	}
	previous, err := s.store.GetCalendar(ctx, input.CalendarID)
	if err != nil {
		return Calendar{}, apperrors.Wrap(apperrors.CodeCalendarUpdateFailed, "calendar could not be updated", err)
	}
	updated := input.apply(previous)
	updated.UpdatedAt = s.clock().UTC()

	mirrored := previous.ExternalCalendarID != ""
	if mirrored {
		if err := s.mirror.Update(ctx, syncView(updated)); err != nil {
			return Calendar{}, apperrors.Wrap(apperrors.CodeExternalSyncFailed, "external calendar sync failed", err)
		}
	}
	if err := s.store.UpdateCalendar(ctx, updated); err != nil {
		if mirrored {
			if compErr := s.mirror.Update(ctx, syncView(previous)); compErr != nil {
				s.logf("calendar %s: compensating sync failed: %v", previous.ID, compErr)
			}
		}
		return Calendar{}, apperrors.Wrap(apperrors.CodeCalendarUpdateFailed, "calendar could not be updated", err)
	}
	return updated, nil
}

// DeleteCalendar removes the calendar and its external mirror. The external
// destroy runs inside the local delete transaction; a destroy failure leaves
// the calendar in place.
func (s *Service) DeleteCalendar(ctx context.Context, calendarID string) error {
	if s == nil || s.store == nil {
		return ErrStoreNotConfigured
	}
	calendarID = strings.TrimSpace(calendarID)
	if calendarID == "" {
		return ErrMissingParameters
	}
	err := s.store.DeleteCalendar(ctx, calendarID, func(cal Calendar) error {
		if cal.ExternalCalendarID == "" {
			return nil
		}
		return s.mirror.Destroy(ctx, syncView(cal))
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCalendarNotFound) {
		return ErrCalendarNotFound
	}
	var syncErr *sync.Error
	if errors.As(err, &syncErr) {
		return apperrors.Wrap(apperrors.CodeExternalDeleteFailed, "external calendar could not be removed", err)
	}
	return apperrors.Wrap(apperrors.CodeCalendarDeleteFailed, "calendar could not be deleted", err)
}

// InviteHelpers mints one invitation token per recipient and emails the
// accept link. Sending stops at the first delivery failure; earlier sends
// are not undone.
func (s *Service) InviteHelpers(ctx context.Context, input InviteHelpersInput) error {
	if s == nil || s.store == nil {
		return ErrStoreNotConfigured
	}
	if s.tokens == nil {
		return ErrTokensNotConfigured
	}
	if s.mailer == nil {
		return ErrMailerNotConfigured
	}
	input.CalendarID = strings.TrimSpace(input.CalendarID)
	input.InviterUserID = strings.TrimSpace(input.InviterUserID)
	if input.CalendarID == "" || input.InviterUserID == "" {
		return ErrMissingParameters
	}
	recipients := make([]string, 0, len(input.RecipientEmails))
	for _, email := range input.RecipientEmails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		recipients = append(recipients, email)
	}
	if len(recipients) == 0 {
		return ErrMissingParameters
	}
	cal, err := s.store.GetCalendar(ctx, input.CalendarID)
	if err != nil {
		return err
	}
	inviter, err := s.store.GetUser(ctx, input.InviterUserID)
	if err != nil {
		return err
	}
	for _, recipient := range recipients {
		token, err := s.tokens.Issue(cal.ID, recipient)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeInviteDeliveryFailed, "invitation could not be issued", err)
		}
		msg := mail.RenderInvitation(s.localizer, recipient, mail.InvitationData{
			CalendarTitle: cal.Title,
			OwnerName:     inviter.FullName,
			AcceptURL:     s.acceptURL(token),
			Subject:       input.Subject,
		})
		if err := s.mailer.Send(ctx, msg); err != nil {
			return apperrors.Wrap(apperrors.CodeInviteDeliveryFailed, "invitation email could not be delivered", err)
		}
	}
	return nil
}

func (s *Service) acceptURL(token string) string {
	return s.acceptURLBase + "?token=" + url.QueryEscape(token)
}

// AcceptInvitation verifies the token against the accepting user and attaches
// the user as a helper. Re-accepting is idempotent and reported through
// AcceptResult.AlreadyHelper.
func (s *Service) AcceptInvitation(ctx context.Context, token string, acceptingUserID string) (AcceptResult, error) {
	if s == nil || s.store == nil {
		return AcceptResult{}, ErrStoreNotConfigured
	}
	if s.tokens == nil {
		return AcceptResult{}, ErrTokensNotConfigured
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return AcceptResult{}, err
	}
	acceptingUserID = strings.TrimSpace(acceptingUserID)
	if acceptingUserID == "" {
		return AcceptResult{}, ErrInvalidUser
	}
	user, err := s.store.GetUser(ctx, acceptingUserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return AcceptResult{}, apperrors.New(apperrors.CodeUnauthorized, "invitation does not match the signed in user")
		}
		return AcceptResult{}, err
	}
	if !strings.EqualFold(user.Email, claims.InvitedEmail) {
		return AcceptResult{}, apperrors.New(apperrors.CodeUnauthorized, "invitation does not match the signed in user")
	}
	cal, err := s.store.GetCalendar(ctx, claims.CalendarID)
	if err != nil {
		return AcceptResult{}, err
	}
	already, err := s.store.IsHelper(ctx, cal.ID, user.ID)
	if err != nil {
		return AcceptResult{}, err
	}
	if already {
		return AcceptResult{Calendar: cal, AlreadyHelper: true}, nil
	}
	if err := s.store.AttachHelper(ctx, cal.ID, user.ID, s.clock().UTC()); err != nil {
		return AcceptResult{}, err
	}
	return AcceptResult{Calendar: cal}, nil
}

// RemoveHelper detaches the user from the calendar. Detaching a user who is
// not a helper is a no-op.
func (s *Service) RemoveHelper(ctx context.Context, calendarID string, userID string) error {
	if s == nil || s.store == nil {
		return ErrStoreNotConfigured
	}
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidUser
	}
	calendarID = strings.TrimSpace(calendarID)
	if calendarID == "" {
		return ErrMissingParameters
	}
	if _, err := s.store.GetCalendar(ctx, calendarID); err != nil {
		return err
	}
	return s.store.DetachHelper(ctx, calendarID, strings.TrimSpace(userID))
}

// IngestTargets parses a target-list payload and records every new recipient
// for the calendar. The owner's own email is skipped. The inserts and the
// external share grant commit or roll back together.
func (s *Service) IngestTargets(ctx context.Context, calendarID string, payload []byte) error {
	if s == nil || s.store == nil {
		return ErrStoreNotConfigured
	}
	calendarID = strings.TrimSpace(calendarID)
	if calendarID == "" {
		return ErrMissingParameters
	}
	values, err := ParseTargetUpload(payload)
	if err != nil {
		return err
	}
	cal, err := s.store.GetCalendar(ctx, calendarID)
	if err != nil {
		return err
	}
	owner, err := s.store.GetUser(ctx, cal.OwnerUserID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTargetIngestFailed, "targets could not be ingested", err)
	}
	now := s.clock().UTC()
	targets := make([]Target, 0, len(values))
	emails := make([]string, 0, len(values))
	for _, value := range values {
		email := strings.TrimSpace(value)
		if email == "" || strings.EqualFold(email, owner.Email) {
			continue
		}
		targetID, err := s.newID()
		if err != nil {
			return apperrors.Wrap(apperrors.CodeTargetIngestFailed, "targets could not be ingested", err)
		}
		targets = append(targets, Target{
			ID:         targetID,
			CalendarID: cal.ID,
			Email:      email,
			CreatedAt:  now,
		})
		emails = append(emails, email)
	}
	if len(targets) == 0 {
		return nil
	}
	err = s.store.UpsertTargets(ctx, cal.ID, targets, func() error {
		if cal.ExternalCalendarID == "" {
			return nil
		}
		return s.mirror.ShareTargets(ctx, syncView(cal), emails)
	})
	if err != nil {
		if errors.Is(err, ErrCalendarNotFound) {
			return ErrCalendarNotFound
		}
		return apperrors.Wrap(apperrors.CodeTargetIngestFailed, "targets could not be ingested", err)
	}
	return nil
}

// GetCalendar returns one calendar by id.
func (s *Service) GetCalendar(ctx context.Context, calendarID string) (Calendar, error) {
	if s == nil || s.store == nil {
		return Calendar{}, ErrStoreNotConfigured
	}
	calendarID = strings.TrimSpace(calendarID)
	if calendarID == "" {
		return Calendar{}, ErrMissingParameters
	}
	return s.store.GetCalendar(ctx, calendarID)
}

// ListOwnedCalendars returns the calendars owned by the user.
func (s *Service) ListOwnedCalendars(ctx context.Context, ownerUserID string) ([]Calendar, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidUser
	}
	return s.store.ListCalendarsByOwner(ctx, ownerUserID)
}

// ListHelperCalendars returns the calendars the user helps with.
func (s *Service) ListHelperCalendars(ctx context.Context, userID string) ([]Calendar, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidUser
	}
	return s.store.ListCalendarsByHelper(ctx, userID)
}

// ListAllCalendars returns the calendars the user helps with followed by the
// calendars the user owns, without duplicates.
func (s *Service) ListAllCalendars(ctx context.Context, userID string) ([]Calendar, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidUser
	}
	helping, err := s.store.ListCalendarsByHelper(ctx, userID)
	if err != nil {
		return nil, err
	}
	owned, err := s.store.ListCalendarsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(helping))
	all := make([]Calendar, 0, len(helping)+len(owned))
	for _, cal := range helping {
		seen[cal.ID] = struct{}{}
		all = append(all, cal)
	}
	for _, cal := range owned {
		if _, ok := seen[cal.ID]; ok {
			continue
		}
		all = append(all, cal)
	}
	return all, nil
}

// ListCalendarEvents returns the calendar's events in the given range, each
// carrying the email of the user who created it. Zero bounds leave that side
// of the range open.
func (s *Service) ListCalendarEvents(ctx context.Context, calendarID string, from time.Time, to time.Time) ([]Event, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	calendarID = strings.TrimSpace(calendarID)
	if calendarID == "" {
		return nil, ErrMissingParameters
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, ErrMissingParameters
	}
	if _, err := s.store.GetCalendar(ctx, calendarID); err != nil {
		return nil, err
	}
	return s.store.ListEvents(ctx, calendarID, from, to)
}

// ListHelpers returns the calendar's helpers. Only the owner may list them.
func (s *Service) ListHelpers(ctx context.Context, calendarID string, ownerUserID string) ([]User, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidUser
	}
	calendarID = strings.TrimSpace(calendarID)
	if calendarID == "" {
		return nil, ErrMissingParameters
	}
	cal, err := s.store.GetCalendar(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	if cal.OwnerUserID != ownerUserID {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "only the calendar owner may list helpers")
	}
	return s.store.ListHelpers(ctx, calendarID)
}

// GetUser returns one user by id.
func (s *Service) GetUser(ctx context.Context, userID string) (User, error) {
	if s == nil || s.store == nil {
		return User{}, ErrStoreNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return User{}, ErrInvalidUser
	}
	return s.store.GetUser(ctx, userID)
}

// ListUsers returns every registered user.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	return s.store.ListUsers(ctx)
}

func syncView(cal Calendar) sync.Calendar {
	return sync.Calendar{
		ID:          cal.ID,
		ExternalID:  cal.ExternalCalendarID,
		Title:       cal.Title,
		Description: cal.Description,
		StartDate:   cal.StartDate,
		EndDate:     cal.EndDate,
	}
}
