package application

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-events/config"
	"github.com/oksasatya/campus-events/internal/domain/entity"
	repo "github.com/oksasatya/campus-events/internal/domain/repository"
)

// EventSearcher is an external full text index over the catalog.
type EventSearcher interface {
	SearchIDs(ctx context.Context, f entity.EventFilter) ([]int64, error)
	Index(ctx context.Context, e *entity.Event) error
}

// ImageStore uploads event images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// CatalogView is everything the home page shows.
type CatalogView struct {
	Events           []entity.Event
	Stats            entity.CatalogStats
	Recommendations  []entity.Event
	Categories       []entity.Category
	Query            string
	SelectedCategory entity.Category
}

type CatalogService struct {
	Events        repo.EventRepository
	Registrations repo.RegistrationRepository
	Search        EventSearcher
	Images        ImageStore
	Cfg           *config.Config
	Logger        *logrus.Logger
}

func NewCatalogService(events repo.EventRepository, regs repo.RegistrationRepository, search EventSearcher, images ImageStore, cfg *config.Config, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Events: events, Registrations: regs, Search: search, Images: images, Cfg: cfg, Logger: logger}
}

// List returns the filtered catalog with the site totals. Recommendations
// are only computed for a signed-in caller.
func (s *CatalogService) List(ctx context.Context, p *Principal, f entity.EventFilter) (*CatalogView, error) {
	f.Title = strings.TrimSpace(f.Title)
	events, err := s.find(ctx, f)
	if err != nil {
		return nil, err
	}
	stats, err := s.Events.Stats(ctx)
	if err != nil {
		return nil, err
	}
	view := &CatalogView{
		Events:           events,
		Stats:            stats,
		Categories:       entity.Categories,
		Query:            f.Title,
		SelectedCategory: f.Category,
	}
	if p != nil && p.UserID != "" {
		if view.Recommendations, err = s.Recommendations(ctx, p); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// find uses the search index for title queries and falls back to SQL when
// the index is missing or failing.
func (s *CatalogService) find(ctx context.Context, f entity.EventFilter) ([]entity.Event, error) {
	if s.Search == nil || f.Title == "" {
		return s.Events.List(ctx, f)
	}
	ids, err := s.Search.SearchIDs(ctx, f)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("query", f.Title).Warn("event search failed, using database")
		}
		return s.Events.List(ctx, f)
	}
	events, err := s.Events.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if f.Category == "" {
		return events, nil
	}
	out := events[:0]
	for _, e := range events {
		if e.Category == f.Category {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *CatalogService) Recommendations(ctx context.Context, p *Principal) ([]entity.Event, error) {
	if err := requireUser(p); err != nil {
		return nil, err
	}
	regs, err := s.Registrations.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if len(regs) == 0 {
		return nil, nil
	}
	history := make([]entity.Category, 0, len(regs))
	registered := make(map[int64]bool, len(regs))
	for _, r := range regs {
		history = append(history, r.Event.Category)
		registered[r.EventID] = true
	}
	catalog, err := s.Events.List(ctx, entity.EventFilter{})
	if err != nil {
		return nil, err
	}
	limit := defaultRecommendationLimit
	if s.Cfg != nil && s.Cfg.RecommendationLimit > 0 {
		limit = s.Cfg.RecommendationLimit
	}
	return Recommend(catalog, history, registered, limit), nil
}

const (
	maxTitleLen = 200
	maxVenueLen = 200
)

type EventInput struct {
	Title       string
	Description string
	Date        time.Time
	Venue       string
	Category    entity.Category
	Capacity    int
}

// Image is an optional upload attached to a new event.
type Image struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// CreateEvent adds an event to the catalog. Missing category and capacity
// default to seminar and 100.
func (s *CatalogService) CreateEvent(ctx context.Context, p *Principal, in EventInput, img *Image) (*entity.Event, error) {
	if err := requireStaff(p); err != nil {
		return nil, err
	}
	e := &entity.Event{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date.UTC(),
		Venue:       strings.TrimSpace(in.Venue),
		Category:    in.Category,
		Capacity:    in.Capacity,
	}
	if e.Category == "" {
		e.Category = entity.CategorySeminar
	}
	if e.Capacity == 0 {
		e.Capacity = 100
	}

	fields := map[string]string{}
	if e.Title == "" {
		fields["title"] = "is required"
	} else if utf8.RuneCountInString(e.Title) > maxTitleLen {
		fields["title"] = "must be at most 200 characters long"
	}
	if e.Venue == "" {
		fields["venue"] = "is required"
	} else if utf8.RuneCountInString(e.Venue) > maxVenueLen {
		fields["venue"] = "must be at most 200 characters long"
	}
	if in.Date.IsZero() {
		fields["date"] = "is required"
	}
	if !e.Category.Valid() {
		fields["category"] = "must be one of: seminar, workshop, cultural, sports"
	}
	if e.Capacity < 1 {
		fields["capacity"] = "must be at least 1"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if img != nil && img.Body != nil && s.Images != nil {
		object := "events/" + uuid.NewString() + strings.ToLower(path.Ext(img.Filename))
		url, err := s.Images.Upload(ctx, object, img.ContentType, img.Body)
		if err != nil {
			return nil, err
		}
		e.ImageURL = url
	}

	if err := s.Events.Create(ctx, e); err != nil {
		return nil, err
	}

	if s.Search != nil {
		if err := s.Search.Index(ctx, e); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("event_id", e.ID).Warn("index event failed")
		}
	}
	return e, nil
}
