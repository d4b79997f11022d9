package repository

import (
	"context"

	"github.com/oksasatya/campus-events/internal/domain/entity"
)

// EventRepository reads and writes the catalog. Every returned event carries
// its current RegisteredCount.
type EventRepository interface {
	Create(ctx context.Context, e *entity.Event) error
	GetByID(ctx context.Context, id int64) (*entity.Event, error)
	List(ctx context.Context, f entity.EventFilter) ([]entity.Event, error)
	ListByIDs(ctx context.Context, ids []int64) ([]entity.Event, error)
	CategoryCounts(ctx context.Context) (map[entity.Category]int, error)
	Stats(ctx context.Context) (entity.CatalogStats, error)
}
