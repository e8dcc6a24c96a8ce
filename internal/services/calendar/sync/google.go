package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleConfig configures the Google Calendar mirror.
type GoogleConfig struct {
	ClientID     string `env:"CALSHARE_GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"CALSHARE_GOOGLE_CLIENT_SECRET"`
	// TokenJSON holds an OAuth2 token in its JSON wire form, as produced
	// by the standard three-legged flow.
	TokenJSON string `env:"CALSHARE_GOOGLE_TOKEN_JSON"`
}

// Enabled reports whether the config carries Google credentials.
func (c GoogleConfig) Enabled() bool {
	return strings.TrimSpace(c.ClientID) != "" && strings.TrimSpace(c.TokenJSON) != ""
}

// GoogleMirror mirrors calendars to Google Calendar.
type GoogleMirror struct {
	service *calendar.Service
}

// NewGoogleMirror builds an authenticated Google Calendar mirror.
func NewGoogleMirror(ctx context.Context, cfg GoogleConfig) (*GoogleMirror, error) {
	if !cfg.Enabled() {
		return nil, errors.New("google mirror credentials are not configured")
	}

	var token oauth2.Token
	if err := json.Unmarshal([]byte(cfg.TokenJSON), &token); err != nil {
		return nil, fmt.Errorf("parse google token json: %w", err)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
		Scopes: []string{calendar.CalendarScope},
	}
	client := oauthCfg.Client(ctx, &token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create google calendar service: %w", err)
	}
	return &GoogleMirror{service: service}, nil
}

// Update patches the external calendar's summary, description, and window.
func (m *GoogleMirror) Update(ctx context.Context, cal Calendar) error {
	if m == nil || m.service == nil {
		return wrapErr("update", errors.New("google mirror is not configured"))
	}
	if strings.TrimSpace(cal.ExternalID) == "" {
		return wrapErr("update", errors.New("external calendar id is required"))
	}

	patch := &calendar.Calendar{
		Summary:     cal.Title,
		Description: describeWindow(cal),
	}
	_, err := m.service.Calendars.Patch(cal.ExternalID, patch).Context(ctx).Do()
	return wrapErr("update", err)
}

// Destroy deletes the external calendar.
func (m *GoogleMirror) Destroy(ctx context.Context, cal Calendar) error {
	if m == nil || m.service == nil {
		return wrapErr("destroy", errors.New("google mirror is not configured"))
	}
	if strings.TrimSpace(cal.ExternalID) == "" {
		return wrapErr("destroy", errors.New("external calendar id is required"))
	}
	return wrapErr("destroy", m.service.Calendars.Delete(cal.ExternalID).Context(ctx).Do())
}

// ShareTargets grants each email read access to the external calendar. Sends
// are sequential; the first failure aborts and is reported.
func (m *GoogleMirror) ShareTargets(ctx context.Context, cal Calendar, emails []string) error {
	if m == nil || m.service == nil {
		return wrapErr("share targets", errors.New("google mirror is not configured"))
	}
	if strings.TrimSpace(cal.ExternalID) == "" {
		return wrapErr("share targets", errors.New("external calendar id is required"))
	}

	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		rule := &calendar.AclRule{
			Role: "reader",
			Scope: &calendar.AclRuleScope{
				Type:  "user",
				Value: email,
			},
		}
		if _, err := m.service.Acl.Insert(cal.ExternalID, rule).Context(ctx).Do(); err != nil {
			return wrapErr("share targets", fmt.Errorf("grant %s: %w", email, err))
		}
	}
	return nil
}

// describeWindow renders the calendar description plus its active window.
func describeWindow(cal Calendar) string {
	window := fmt.Sprintf("%s - %s",
		cal.StartDate.UTC().Format(time.DateOnly),
		cal.EndDate.UTC().Format(time.DateOnly),
	)
	if strings.TrimSpace(cal.Description) == "" {
		return window
	}
	return cal.Description + "\n" + window
}
