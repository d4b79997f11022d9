package entity

import (
	"time"
)

// User is an account of the portal. Staff accounts can verify passes and
// read reports; everybody else is a student.
//
// Passwords are stored as bcrypt hashes in Password field
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	IsStaff   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
