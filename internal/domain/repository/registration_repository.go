package repository

import (
	"context"
	"time"

	"github.com/oksasatya/campus-events/internal/domain/entity"
)

// RegistrationRepository owns the ledger.
//
// Create and CreateWithProfile enforce capacity and the one-registration-per
// (user, event) rule inside the database, returning ErrEventFull or
// ErrAlreadyRegistered. MarkAttended flips attendance only if it is unset and
// reports whether this call performed the transition.
type RegistrationRepository interface {
	Exists(ctx context.Context, userID string, eventID int64) (bool, error)
	Create(ctx context.Context, reg *entity.Registration) error
	CreateWithProfile(ctx context.Context, p *entity.StudentProfile, reg *entity.Registration) error
	GetByToken(ctx context.Context, token string) (*entity.RegistrationDetail, error)
	GetByTokenForUser(ctx context.Context, token, userID string) (*entity.RegistrationDetail, error)
	ListByUser(ctx context.Context, userID string) ([]entity.RegistrationDetail, error)
	ListAll(ctx context.Context) ([]entity.RegistrationDetail, error)
	MarkAttended(ctx context.Context, token, staffID string, at time.Time) (bool, error)
}
