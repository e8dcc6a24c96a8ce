package mail

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Localizer is the minimal message-printer contract required by the renderer.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// NewLocalizer returns the default English message printer.
func NewLocalizer() Localizer {
	return message.NewPrinter(language.English)
}

// InvitationData carries the variables of one helper invitation email.
type InvitationData struct {
	CalendarTitle string
	OwnerName     string
	AcceptURL     string
	Subject       string // optional override of the default subject
}

// RenderInvitation returns the localized invitation message for one recipient.
func RenderInvitation(loc Localizer, recipient string, data InvitationData) Message {
	subject := strings.TrimSpace(data.Subject)
	if subject == "" {
		subject = loc.Sprintf("invitation.subject")
	}
	body := loc.Sprintf("invitation.body", data.OwnerName, data.CalendarTitle, data.AcceptURL)
	return Message{
		To:      recipient,
		Subject: subject,
		Body:    body,
	}
}
