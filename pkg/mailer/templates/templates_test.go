package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/campus-events/config"
)

func TestRenderRegistrationConfirmation(t *testing.T) {
	cfg := &config.Config{AppName: "Campus Events", PortalURL: "https://events.example.edu/", SupportEmail: "help@example.edu"}
	data := NewRegistrationConfirmationData(cfg, "alice", "alice@example.com",
		WithEvent("Go Workshop", "Hall A", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)),
		WithPass("123e4567-e89b-12d3-a456-426614174000"),
	)

	subject, text, html, err := Render(RegistrationConfirmation, data)
	require.NoError(t, err)
	assert.Equal(t, "Event Registration Confirmation", subject)
	assert.Contains(t, text, "You have successfully registered for Go Workshop")
	assert.Contains(t, text, "https://events.example.edu/qr/123e4567-e89b-12d3-a456-426614174000")
	assert.Contains(t, html, "<strong>Go Workshop</strong>")
	assert.Contains(t, html, "Hall A")
}

func TestRenderWelcome(t *testing.T) {
	cfg := &config.Config{PortalURL: "http://localhost:8080"}
	subject, text, _, err := Render(Welcome, NewWelcomeData(cfg, "bob", "bob@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Campus Events", subject)
	assert.Contains(t, text, "Hello bob")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}

func TestDefaultFn(t *testing.T) {
	assert.Equal(t, "x", defaultFn("x", "  "))
	assert.Equal(t, "x", defaultFn("x", nil))
	assert.Equal(t, "x", defaultFn("x", 0))
	assert.Equal(t, 5, defaultFn("x", 5))
	assert.Equal(t, "v", defaultFn("x", "v"))
}
