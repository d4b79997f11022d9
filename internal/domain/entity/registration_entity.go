package entity

import "time"

// Registration is a ledger row: one user holding one seat at one event.
// Token is the pass identifier encoded in the QR code; it is distinct from ID.
type Registration struct {
	ID         int64
	UserID     string
	EventID    int64
	Token      string
	Attended   bool
	VerifiedAt *time.Time
	VerifiedBy *string
	CreatedAt  time.Time
}

// RegistrationDetail is a registration joined with its user, event, optional
// profile and verifying staff member.
type RegistrationDetail struct {
	Registration
	Username           string
	UserEmail          string
	Event              Event
	Profile            *StudentProfile
	VerifiedByUsername string
}
