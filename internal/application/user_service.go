package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-events/config"
	"github.com/oksasatya/campus-events/internal/domain/entity"
	repo "github.com/oksasatya/campus-events/internal/domain/repository"
	"github.com/oksasatya/campus-events/pkg/helpers"
	"github.com/oksasatya/campus-events/pkg/mailer"
	mailtpl "github.com/oksasatya/campus-events/pkg/mailer/templates"
)

// UserService owns accounts and their Redis-backed sessions.
type UserService struct {
	Repo     repo.UserRepository
	JWT      *helpers.JWTManager
	Redis    *redis.Client
	Notifier Notifier
	Cfg      *config.Config
	Logger   *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewUserService(repo repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, n Notifier, cfg *config.Config, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, JWT: jwt, Redis: rdb, Notifier: n, Cfg: cfg, Logger: logger}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

// Signup creates a student account and signs it in.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*entity.User, TokenPair, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	u := &entity.User{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: hash,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrUsernameTaken) {
			return nil, TokenPair{}, ErrUsernameTaken
		}
		return nil, TokenPair{}, err
	}

	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}

	if s.Cfg != nil && s.Cfg.MailSendEnabled {
		publishEmail(ctx, s.Notifier, s.Logger, mailer.EmailJob{
			To:       u.Email,
			Template: mailtpl.Welcome,
			Data:     mailtpl.NewWelcomeData(s.Cfg, u.Username, u.Email),
		})
	}
	return u, pair, nil
}

// Authenticate validates username/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// IssueTokens starts a new session for u, replacing any previous one.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.tokens(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		}
		return TokenPair{}, err
	}
	if s.Redis != nil {
		sess := helpers.Session{UserID: u.ID, Username: u.Username, Email: u.Email, IsStaff: u.IsStaff, SessionID: sid}
		if err := helpers.SaveSession(ctx, s.Redis, sess, s.sessionTTL()); err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("user_id", u.ID).Error("save session failed")
			}
			return TokenPair{}, err
		}
	}
	return pair, nil
}

// Refresh rotates the session of a valid refresh token. The user row is
// reloaded so staff changes take effect.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if s.Redis != nil {
		sess, ok, rErr := helpers.LoadSession(ctx, s.Redis, u.ID)
		if rErr != nil || !ok || sess.SessionID != claims.SessionID {
			return TokenPair{}, ErrInvalidCredentials
		}
	}
	return s.IssueTokens(ctx, u)
}

// Logout drops the session so outstanding tokens stop working.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if s.Redis == nil || userID == "" {
		return nil
	}
	return helpers.DeleteSession(ctx, s.Redis, userID)
}

// SetStaff grants or revokes staff rights and ends the user's session so the
// new flag is picked up on next login.
func (s *UserService) SetStaff(ctx context.Context, username string, staff bool) (*entity.User, error) {
	u, err := s.Repo.SetStaff(ctx, username, staff)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := s.Logout(ctx, u.ID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("drop session failed")
	}
	return u, nil
}

func (s *UserService) tokens(userID, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) sessionTTL() time.Duration {
	if s.Cfg != nil && s.Cfg.SessionTTL > 0 {
		return s.Cfg.SessionTTL
	}
	return 24 * time.Hour
}
