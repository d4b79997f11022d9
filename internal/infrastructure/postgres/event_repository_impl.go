package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/campus-events/internal/domain/entity"
	"github.com/oksasatya/campus-events/internal/domain/repository"
)

// EventRepository handles persistence for the catalog.
type EventRepository struct {
	db DB
}

func NewEventRepository(db DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventSelect = `
	SELECT e.id, e.title, e.description, e.date, e.venue, e.category, e.capacity,
	       COALESCE(e.image_url, ''), e.created_at,
	       (SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id)
	FROM events e`

func scanEvent(row pgx.Row) (entity.Event, error) {
	var (
		e   entity.Event
		cat string
	)
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Venue, &cat, &e.Capacity,
		&e.ImageURL, &e.CreatedAt, &e.RegisteredCount)
	e.Category = entity.Category(cat)
	return e, err
}

func collectEvents(rows pgx.Rows) ([]entity.Event, error) {
	defer rows.Close()
	var events []entity.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Create inserts a new event and fills in its generated id.
func (r *EventRepository) Create(ctx context.Context, e *entity.Event) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO events (title, description, date, venue, category, capacity, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		RETURNING id, created_at
	`, e.Title, e.Description, e.Date, e.Venue, string(e.Category), e.Capacity, e.ImageURL).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*entity.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx, eventSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// List returns events ordered by date, optionally filtered by a
// case-insensitive title substring and an exact category.
func (r *EventRepository) List(ctx context.Context, f entity.EventFilter) ([]entity.Event, error) {
	rows, err := r.db.Query(ctx, eventSelect+`
		WHERE ($1 = '' OR e.title ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR e.category = $2)
		ORDER BY e.date, e.id`,
		escapeLike(strings.TrimSpace(f.Title)), string(f.Category))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return collectEvents(rows)
}

// ListByIDs returns the events with the given ids ordered by date.
func (r *EventRepository) ListByIDs(ctx context.Context, ids []int64) ([]entity.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, eventSelect+` WHERE e.id = ANY($1) ORDER BY e.date, e.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list events by id: %w", err)
	}
	return collectEvents(rows)
}

// CategoryCounts returns the number of events per category. Categories
// without events are absent.
func (r *EventRepository) CategoryCounts(ctx context.Context) (map[entity.Category]int, error) {
	rows, err := r.db.Query(ctx, `SELECT category, COUNT(*) FROM events GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.Category]int)
	for rows.Next() {
		var (
			cat string
			n   int
		)
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts[entity.Category(cat)] = n
	}
	return counts, rows.Err()
}

func (r *EventRepository) Stats(ctx context.Context) (entity.CatalogStats, error) {
	var s entity.CatalogStats
	err := r.db.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM events),
		       (SELECT COALESCE(SUM(capacity), 0) FROM events),
		       (SELECT COUNT(*) FROM registrations),
		       (SELECT COUNT(*) FROM registrations WHERE attended)
	`).Scan(&s.TotalEvents, &s.TotalCapacity, &s.TotalRegistrations, &s.TotalAttended)
	if err != nil {
		return s, fmt.Errorf("catalog stats: %w", err)
	}
	return s, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ repository.EventRepository = (*EventRepository)(nil)
