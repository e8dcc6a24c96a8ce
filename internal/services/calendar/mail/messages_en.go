package mail

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, "invitation.subject", "Invitation to be part of a calendar")
	message.SetString(lang, "invitation.body",
		"%s has invited you to help with the calendar %q.\n\n"+
			"Open the link below to accept the invitation:\n%s\n\n"+
			"If you were not expecting this invitation you can ignore this email.")
}
