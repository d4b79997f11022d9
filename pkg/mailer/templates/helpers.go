package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/campus-events/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

// WithEvent sets the event block shown in the mail.
func WithEvent(title, venue string, at time.Time) Option {
	return func(d *EmailData) {
		d.EventTitle = title
		d.EventVenue = venue
		if !at.IsZero() {
			d.EventDate = at.Format("Mon, 02 Jan 2006 15:04 MST")
		}
	}
}

// WithPass links the mail to the QR pass of a registration.
func WithPass(token string) Option {
	return func(d *EmailData) {
		d.PassToken = token
		if d.PortalURL != "" && token != "" {
			d.PassURL = strings.TrimRight(d.PortalURL, "/") + "/qr/" + token
		}
	}
}

// NewBaseEmailData fills the common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		AppName:      cfg.AppName,
		PortalURL:    cfg.PortalURL,
		SupportEmail: cfg.SupportEmail,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewRegistrationConfirmationData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, RegistrationConfirmation, name, email, opts...))
}

func NewWelcomeData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, Welcome, name, email, opts...))
}
