package entity

import (
	"strings"
	"time"
)

// Category classifies an event in the catalog.
type Category string

const (
	CategorySeminar  Category = "seminar"
	CategoryWorkshop Category = "workshop"
	CategoryCultural Category = "cultural"
	CategorySports   Category = "sports"
)

// Categories lists every category in display order.
var Categories = []Category{CategorySeminar, CategoryWorkshop, CategoryCultural, CategorySports}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Label is the human readable name of the category.
func (c Category) Label() string {
	s := string(c)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Event is a catalog entry. RegisteredCount is derived from the ledger when
// the event is loaded and is never persisted.
type Event struct {
	ID              int64
	Title           string
	Description     string
	Date            time.Time
	Venue           string
	Category        Category
	Capacity        int
	ImageURL        string
	RegisteredCount int
	CreatedAt       time.Time
}

// SeatsLeft is capacity minus current registrations. It may be negative if
// capacity was lowered after people registered.
func (e *Event) SeatsLeft() int {
	return e.Capacity - e.RegisteredCount
}

// IsFull reports whether no seat is left.
func (e *Event) IsFull() bool {
	return e.SeatsLeft() <= 0
}

// EventFilter narrows a catalog listing. Both fields are optional.
type EventFilter struct {
	Title    string
	Category Category
}

// CatalogStats are the aggregate numbers shown on the catalog and analytics pages.
type CatalogStats struct {
	TotalEvents        int
	TotalCapacity      int
	TotalRegistrations int
	TotalAttended      int
}
