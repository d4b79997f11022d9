package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/campus-events/internal/domain/entity"
	repo "github.com/oksasatya/campus-events/internal/domain/repository"
	"github.com/oksasatya/campus-events/pkg/helpers"
)

const defaultQRSize = 256

// Pass is a rendered QR pass together with the registration it encodes.
type Pass struct {
	PNG          []byte
	Registration *entity.RegistrationDetail
}

// DataURI returns the PNG as a data URI for embedding in JSON.
func (p *Pass) DataURI() string {
	return helpers.PNGDataURI(p.PNG)
}

// PassService renders QR passes. It never mutates the ledger.
type PassService struct {
	Registrations repo.RegistrationRepository
	Size          int
}

func NewPassService(regs repo.RegistrationRepository, size int) *PassService {
	if size <= 0 {
		size = defaultQRSize
	}
	return &PassService{Registrations: regs, Size: size}
}

// Issue renders the pass identified by token. Passes owned by someone else
// are reported as not found.
func (s *PassService) Issue(ctx context.Context, p *Principal, token string) (*Pass, error) {
	if err := requireUser(p); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(strings.TrimSpace(token))
	if err != nil {
		return nil, ErrPassNotFound
	}
	canonical := id.String()

	reg, err := s.Registrations.GetByTokenForUser(ctx, canonical, p.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPassNotFound
		}
		return nil, err
	}

	size := s.Size
	if size <= 0 {
		size = defaultQRSize
	}
	png, err := helpers.QRCodePNG(reg.Token, size)
	if err != nil {
		return nil, err
	}
	return &Pass{PNG: png, Registration: reg}, nil
}
