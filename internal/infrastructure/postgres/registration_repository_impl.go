package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/campus-events/internal/domain/entity"
	"github.com/oksasatya/campus-events/internal/domain/repository"
)

// RegistrationRepository is the ledger. Capacity and the (user, event)
// uniqueness are decided while the event row is locked, and the unique
// constraint on the table backs the duplicate check.
type RegistrationRepository struct {
	db DB
}

func NewRegistrationRepository(db DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func (r *RegistrationRepository) Exists(ctx context.Context, userID string, eventID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM registrations WHERE user_id = $1 AND event_id = $2)`,
		userID, eventID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return ok, nil
}

// Create books a seat for reg.UserID at reg.EventID. reg.Token must be set by
// the caller; ID and CreatedAt are filled in.
func (r *RegistrationRepository) Create(ctx context.Context, reg *entity.Registration) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = insertRegistration(ctx, tx, reg); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// CreateWithProfile saves the profile and books the seat in one transaction,
// so a failed booking leaves the stored profile untouched.
func (r *RegistrationRepository) CreateWithProfile(ctx context.Context, p *entity.StudentProfile, reg *entity.Registration) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = upsertProfile(ctx, tx, p); err != nil {
		return err
	}
	if err = insertRegistration(ctx, tx, reg); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertRegistration(ctx context.Context, tx pgx.Tx, reg *entity.Registration) error {
	var capacity int
	err := tx.QueryRow(ctx,
		`SELECT capacity FROM events WHERE id = $1 FOR UPDATE`,
		reg.EventID,
	).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("lock event row: %w", err)
	}

	var taken int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1`,
		reg.EventID,
	).Scan(&taken); err != nil {
		return fmt.Errorf("count registrations: %w", err)
	}
	if taken >= capacity {
		return repository.ErrEventFull
	}

	var dup bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM registrations WHERE user_id = $1 AND event_id = $2)`,
		reg.UserID, reg.EventID,
	).Scan(&dup); err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	if dup {
		return repository.ErrAlreadyRegistered
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO registrations (user_id, event_id, registration_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, reg.UserID, reg.EventID, reg.Token).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		if name, ok := uniqueConstraint(err); ok && name == "registrations_user_event_key" {
			return repository.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

const detailSelect = `
	SELECT r.id, r.user_id::text, r.event_id, r.registration_id::text, r.attended,
	       r.verified_at, r.verified_by::text, r.created_at,
	       u.username, u.email,
	       e.title, e.description, e.date, e.venue, e.category, e.capacity,
	       COALESCE(e.image_url, ''), e.created_at,
	       (SELECT COUNT(*) FROM registrations x WHERE x.event_id = e.id),
	       p.user_id IS NOT NULL,
	       COALESCE(p.college_email, ''), COALESCE(p.registration_number, ''),
	       COALESCE(p.branch, ''), COALESCE(p.department, ''),
	       COALESCE(p.year_of_study, 0), COALESCE(p.interests, ''),
	       COALESCE(v.username, '')
	FROM registrations r
	JOIN users u ON u.id = r.user_id
	JOIN events e ON e.id = r.event_id
	LEFT JOIN student_profiles p ON p.user_id = r.user_id
	LEFT JOIN users v ON v.id = r.verified_by`

func scanDetail(row pgx.Row) (entity.RegistrationDetail, error) {
	var (
		d          entity.RegistrationDetail
		p          entity.StudentProfile
		cat        string
		hasProfile bool
	)
	err := row.Scan(
		&d.ID, &d.UserID, &d.EventID, &d.Token, &d.Attended,
		&d.VerifiedAt, &d.VerifiedBy, &d.CreatedAt,
		&d.Username, &d.UserEmail,
		&d.Event.Title, &d.Event.Description, &d.Event.Date, &d.Event.Venue, &cat, &d.Event.Capacity,
		&d.Event.ImageURL, &d.Event.CreatedAt,
		&d.Event.RegisteredCount,
		&hasProfile,
		&p.CollegeEmail, &p.RegistrationNumber,
		&p.Branch, &p.Department,
		&p.YearOfStudy, &p.Interests,
		&d.VerifiedByUsername,
	)
	if err != nil {
		return d, err
	}
	d.Event.ID = d.EventID
	d.Event.Category = entity.Category(cat)
	if hasProfile {
		p.UserID = d.UserID
		d.Profile = &p
	}
	return d, nil
}

func (r *RegistrationRepository) getOne(ctx context.Context, sql string, args ...any) (*entity.RegistrationDetail, error) {
	d, err := scanDetail(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return &d, nil
}

func (r *RegistrationRepository) list(ctx context.Context, sql string, args ...any) ([]entity.RegistrationDetail, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var out []entity.RegistrationDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetByToken looks a pass up by its token regardless of owner.
func (r *RegistrationRepository) GetByToken(ctx context.Context, token string) (*entity.RegistrationDetail, error) {
	return r.getOne(ctx, detailSelect+` WHERE r.registration_id = $1`, token)
}

// GetByTokenForUser is GetByToken restricted to passes owned by userID.
func (r *RegistrationRepository) GetByTokenForUser(ctx context.Context, token, userID string) (*entity.RegistrationDetail, error) {
	return r.getOne(ctx, detailSelect+` WHERE r.registration_id = $1 AND r.user_id = $2`, token, userID)
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]entity.RegistrationDetail, error) {
	return r.list(ctx, detailSelect+` WHERE r.user_id = $1 ORDER BY e.date, r.id`, userID)
}

func (r *RegistrationRepository) ListAll(ctx context.Context) ([]entity.RegistrationDetail, error) {
	return r.list(ctx, detailSelect+` ORDER BY r.id`)
}

// MarkAttended stamps the pass as verified by staffID. It returns false when
// the pass does not exist or was already verified; the stored stamp is never
// overwritten.
func (r *RegistrationRepository) MarkAttended(ctx context.Context, token, staffID string, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE registrations
		SET attended = true, verified_at = $3, verified_by = $2
		WHERE registration_id = $1 AND attended = false
	`, token, staffID, at)
	if err != nil {
		return false, fmt.Errorf("mark attended: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

var _ repository.RegistrationRepository = (*RegistrationRepository)(nil)
