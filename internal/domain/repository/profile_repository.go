package repository

import (
	"context"

	"github.com/oksasatya/campus-events/internal/domain/entity"
)

// ProfileRepository reads student profiles. Profiles are written together
// with a registration, see RegistrationRepository.CreateWithProfile.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*entity.StudentProfile, error)
}
