package repository

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEventFull is returned when an event has no seat left.
	ErrEventFull = errors.New("event is full")
	// ErrAlreadyRegistered is returned when the (user, event) pair already exists.
	ErrAlreadyRegistered = errors.New("already registered for this event")
	// ErrDuplicateRegistrationNumber is returned when another profile holds the registration number.
	ErrDuplicateRegistrationNumber = errors.New("registration number already in use")
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")
)
