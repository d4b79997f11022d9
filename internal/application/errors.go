package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")

	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("staff access required")

	ErrEventNotFound     = errors.New("event not found")
	ErrEventFull         = errors.New("event is full")
	ErrAlreadyRegistered = errors.New("you are already registered for this event")

	ErrInvalidPassFormat = errors.New("invalid QR format. UUID not found")
	ErrPassNotFound      = errors.New("registration not found")

	ErrNoChartData = errors.New("no events to chart")
)

// ValidationError carries field level messages keyed by the JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
