package repository

import (
	"context"

	"github.com/oksasatya/campus-events/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	SetStaff(ctx context.Context, username string, staff bool) (*entity.User, error)
}
