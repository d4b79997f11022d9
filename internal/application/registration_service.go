package application

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-events/config"
	"github.com/oksasatya/campus-events/internal/domain/entity"
	repo "github.com/oksasatya/campus-events/internal/domain/repository"
	"github.com/oksasatya/campus-events/pkg/mailer"
	mailtpl "github.com/oksasatya/campus-events/pkg/mailer/templates"
	"github.com/oksasatya/campus-events/pkg/validation"
)

type Outcome string

const (
	OutcomeRegistered      Outcome = "registered"
	OutcomeProfileRequired Outcome = "profile_required"
	OutcomeReady           Outcome = "ready"
)

const (
	msgRegistered        = "Successfully registered! Confirmation email sent."
	msgProfileRegistered = "Profile saved and event registered successfully!"
	msgProfileRequired   = "Please complete your profile to register."
	msgReady             = "You can register for this event."
	registrationRedirect = "/"
)

// ProfileInput is the profile form submitted together with a registration.
type ProfileInput struct {
	CollegeEmail       string `json:"college_email" form:"college_email" validate:"required,email,max=254"`
	RegistrationNumber string `json:"registration_number" form:"registration_number" validate:"required,max=30"`
	Branch             string `json:"branch" form:"branch" validate:"required,max=100"`
	Department         string `json:"department" form:"department" validate:"required,max=100"`
	YearOfStudy        int    `json:"year_of_study" form:"year_of_study" validate:"studyyear"`
	Interests          string `json:"interests" form:"interests" validate:"max=200"`
}

// RegistrationResult describes what happened to a registration attempt.
// Profile and MissingFields are set when the outcome is profile_required.
type RegistrationResult struct {
	Outcome       Outcome
	Message       string
	Redirect      string
	Event         *entity.Event
	Registration  *entity.Registration
	Profile       *entity.StudentProfile
	MissingFields []string
}

type RegistrationService struct {
	Events        repo.EventRepository
	Profiles      repo.ProfileRepository
	Registrations repo.RegistrationRepository
	Notifier      Notifier
	Cfg           *config.Config
	Logger        *logrus.Logger

	NewToken func() string
	validate *validator.Validate
}

func NewRegistrationService(events repo.EventRepository, profiles repo.ProfileRepository, regs repo.RegistrationRepository, n Notifier, cfg *config.Config, logger *logrus.Logger) *RegistrationService {
	return &RegistrationService{
		Events:        events,
		Profiles:      profiles,
		Registrations: regs,
		Notifier:      n,
		Cfg:           cfg,
		Logger:        logger,
		NewToken:      uuid.NewString,
		validate:      newValidator(),
	}
}

// Preview runs the registration checks without writing anything.
func (s *RegistrationService) Preview(ctx context.Context, p *Principal, eventID int64) (*RegistrationResult, error) {
	ev, profile, err := s.precheck(ctx, p, eventID)
	if err != nil {
		return nil, err
	}
	if !profile.IsComplete() {
		return s.profileRequired(ev, profile), nil
	}
	return &RegistrationResult{Outcome: OutcomeReady, Message: msgReady, Event: ev, Profile: profile}, nil
}

// Register books a seat for p at eventID. An incomplete profile without
// input yields OutcomeProfileRequired and no error. With a complete stored
// profile the input is ignored.
func (s *RegistrationService) Register(ctx context.Context, p *Principal, eventID int64, in *ProfileInput) (*RegistrationResult, error) {
	ev, profile, err := s.precheck(ctx, p, eventID)
	if err != nil {
		return nil, err
	}

	reg := &entity.Registration{UserID: p.UserID, EventID: ev.ID, Token: s.token()}
	msg := msgRegistered

	switch {
	case profile.IsComplete():
		err = s.Registrations.Create(ctx, reg)
	case in == nil:
		return s.profileRequired(ev, profile), nil
	default:
		var np *entity.StudentProfile
		if np, err = s.normalizeProfile(p.UserID, in); err != nil {
			return nil, err
		}
		err = s.Registrations.CreateWithProfile(ctx, np, reg)
		msg = msgProfileRegistered
	}
	if err != nil {
		return nil, mapLedgerError(err)
	}

	ev.RegisteredCount++
	s.sendConfirmation(ctx, p, ev, reg)

	return &RegistrationResult{
		Outcome:      OutcomeRegistered,
		Message:      msg,
		Redirect:     registrationRedirect,
		Event:        ev,
		Registration: reg,
	}, nil
}

// precheck applies the ordered gates: event exists, seat left, not yet
// registered. It returns the caller's stored profile, nil if none.
func (s *RegistrationService) precheck(ctx context.Context, p *Principal, eventID int64) (*entity.Event, *entity.StudentProfile, error) {
	if err := requireUser(p); err != nil {
		return nil, nil, err
	}
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrEventNotFound
		}
		return nil, nil, err
	}
	if ev.IsFull() {
		return nil, nil, ErrEventFull
	}
	dup, err := s.Registrations.Exists(ctx, p.UserID, ev.ID)
	if err != nil {
		return nil, nil, err
	}
	if dup {
		return nil, nil, ErrAlreadyRegistered
	}

	profile, err := s.Profiles.GetByUserID(ctx, p.UserID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, nil, err
	}
	return ev, profile, nil
}

func (s *RegistrationService) profileRequired(ev *entity.Event, profile *entity.StudentProfile) *RegistrationResult {
	return &RegistrationResult{
		Outcome:       OutcomeProfileRequired,
		Message:       msgProfileRequired,
		Event:         ev,
		Profile:       profile,
		MissingFields: profile.MissingFields(),
	}
}

// normalizeProfile trims and validates the form. Errors are keyed by the
// JSON field name.
func (s *RegistrationService) normalizeProfile(userID string, in *ProfileInput) (*entity.StudentProfile, error) {
	clean := ProfileInput{
		CollegeEmail:       strings.ToLower(strings.TrimSpace(in.CollegeEmail)),
		RegistrationNumber: strings.TrimSpace(in.RegistrationNumber),
		Branch:             strings.TrimSpace(in.Branch),
		Department:         strings.TrimSpace(in.Department),
		YearOfStudy:        in.YearOfStudy,
		Interests:          strings.TrimSpace(in.Interests),
	}

	fields := map[string]string{}
	if err := s.validator().Struct(clean); err != nil {
		for k, v := range validation.ToDetails(err) {
			fields[k] = v
		}
	}
	domain := s.collegeDomain()
	if _, bad := fields["college_email"]; !bad && !strings.HasSuffix(clean.CollegeEmail, "@"+domain) {
		fields["college_email"] = "Please use your college email (@" + domain + ")."
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return &entity.StudentProfile{
		UserID:             userID,
		CollegeEmail:       clean.CollegeEmail,
		RegistrationNumber: clean.RegistrationNumber,
		Branch:             clean.Branch,
		Department:         clean.Department,
		YearOfStudy:        clean.YearOfStudy,
		Interests:          clean.Interests,
	}, nil
}

func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrEventNotFound
	case errors.Is(err, repo.ErrEventFull):
		return ErrEventFull
	case errors.Is(err, repo.ErrAlreadyRegistered):
		return ErrAlreadyRegistered
	case errors.Is(err, repo.ErrDuplicateRegistrationNumber):
		return fieldError("registration_number", "This registration number is already in use.")
	}
	return err
}

func (s *RegistrationService) sendConfirmation(ctx context.Context, p *Principal, ev *entity.Event, reg *entity.Registration) {
	if s.Cfg == nil || !s.Cfg.MailSendEnabled || p.Email == "" {
		return
	}
	publishEmail(ctx, s.Notifier, s.Logger, mailer.EmailJob{
		To:       p.Email,
		Template: mailtpl.RegistrationConfirmation,
		Data: mailtpl.NewRegistrationConfirmationData(s.Cfg, p.Username, p.Email,
			mailtpl.WithEvent(ev.Title, ev.Venue, ev.Date),
			mailtpl.WithPass(reg.Token),
			mailtpl.WithTime(reg.CreatedAt),
		),
	})
}

func (s *RegistrationService) token() string {
	if s.NewToken != nil {
		return s.NewToken()
	}
	return uuid.NewString()
}

func (s *RegistrationService) validator() *validator.Validate {
	if s.validate == nil {
		s.validate = newValidator()
	}
	return s.validate
}

func newValidator() *validator.Validate {
	v := validator.New()
	validation.Configure(v)
	return v
}

func (s *RegistrationService) collegeDomain() string {
	if s.Cfg != nil && s.Cfg.CollegeEmailDomain != "" {
		return s.Cfg.CollegeEmailDomain
	}
	return "mvgrce.edu.in"
}
