package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/campus-events/pkg/mailer"
	mailtpl "github.com/oksasatya/campus-events/pkg/mailer/templates"
)

// SubjectFor returns the default subject of a templated email.
func SubjectFor(template string) string {
	switch strings.ToLower(template) {
	case mailtpl.RegistrationConfirmation:
		return "Event Registration Confirmation"
	case mailtpl.Welcome:
		return "Welcome to the campus events portal"
	default:
		return "Notification"
	}
}

// EnsureRecipientAndEmail copies job.To into the template data when the
// publisher left the recipient fields empty.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}
