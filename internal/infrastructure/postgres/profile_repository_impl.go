package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/campus-events/internal/domain/entity"
	"github.com/oksasatya/campus-events/internal/domain/repository"
)

type ProfileRepository struct {
	db DB
}

func NewProfileRepository(db DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.StudentProfile, error) {
	p := &entity.StudentProfile{}
	err := r.db.QueryRow(ctx, `
		SELECT user_id::text, COALESCE(college_email, ''), COALESCE(registration_number, ''),
		       COALESCE(branch, ''), COALESCE(department, ''), COALESCE(year_of_study, 0),
		       interests, updated_at
		FROM student_profiles
		WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.CollegeEmail, &p.RegistrationNumber, &p.Branch, &p.Department,
		&p.YearOfStudy, &p.Interests, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// upsertProfile writes p inside tx. Empty fields are stored as NULL so that
// the registration number uniqueness only applies to filled-in values.
func upsertProfile(ctx context.Context, tx pgx.Tx, p *entity.StudentProfile) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO student_profiles
			(user_id, college_email, registration_number, branch, department, year_of_study, interests, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, 0), $7, now())
		ON CONFLICT (user_id) DO UPDATE SET
			college_email       = EXCLUDED.college_email,
			registration_number = EXCLUDED.registration_number,
			branch              = EXCLUDED.branch,
			department          = EXCLUDED.department,
			year_of_study       = EXCLUDED.year_of_study,
			interests           = EXCLUDED.interests,
			updated_at          = now()
	`, p.UserID, p.CollegeEmail, p.RegistrationNumber, p.Branch, p.Department, p.YearOfStudy, p.Interests)
	if err != nil {
		if name, ok := uniqueConstraint(err); ok && name == "student_profiles_registration_number_key" {
			return repository.ErrDuplicateRegistrationNumber
		}
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
