package application

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-events/internal/domain/entity"
	repo "github.com/oksasatya/campus-events/internal/domain/repository"
)

type VerifyStatus string

const (
	StatusVerified        VerifyStatus = "verified_success"
	StatusAlreadyVerified VerifyStatus = "already_verified"
)

// passPattern finds a pass token anywhere in scanner output, e.g. inside a URL.
var passPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// ExtractPassToken returns the first UUID in raw, lowercased.
func ExtractPassToken(raw string) (string, bool) {
	m := passPattern.FindString(strings.TrimSpace(raw))
	if m == "" {
		return "", false
	}
	return strings.ToLower(m), true
}

type VerifyResult struct {
	Status       VerifyStatus
	Message      string
	Registration *entity.RegistrationDetail
}

// VerificationService checks attendees in. A pass can be verified once.
type VerificationService struct {
	Registrations repo.RegistrationRepository
	Logger        *logrus.Logger
	Now           func() time.Time
}

func NewVerificationService(regs repo.RegistrationRepository, logger *logrus.Logger) *VerificationService {
	return &VerificationService{Registrations: regs, Logger: logger, Now: time.Now}
}

func (s *VerificationService) Verify(ctx context.Context, p *Principal, raw string) (*VerifyResult, error) {
	if err := requireStaff(p); err != nil {
		return nil, err
	}
	token, ok := ExtractPassToken(raw)
	if !ok {
		return nil, ErrInvalidPassFormat
	}

	updated, err := s.Registrations.MarkAttended(ctx, token, p.UserID, s.now())
	if err != nil {
		return nil, err
	}

	reg, err := s.Registrations.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPassNotFound
		}
		return nil, err
	}

	if !updated {
		return &VerifyResult{
			Status:       StatusAlreadyVerified,
			Message:      "Already verified for " + reg.Event.Title + ".",
			Registration: reg,
		}, nil
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"registration_id": token,
			"event_id":        reg.EventID,
			"staff_id":        p.UserID,
		}).Info("pass verified")
	}
	return &VerifyResult{
		Status:       StatusVerified,
		Message:      "Attendance verified for " + reg.Username + " at " + reg.Event.Title + ".",
		Registration: reg,
	}, nil
}

func (s *VerificationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
