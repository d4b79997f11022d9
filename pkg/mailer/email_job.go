package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Text/HTML or Template with Data is set; Subject overrides the
// template subject when present.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "registration_confirmation", "welcome"
	Data     map[string]any `json:"data,omitempty"`
}
