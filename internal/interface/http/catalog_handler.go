package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-events/internal/application"
	"github.com/oksasatya/campus-events/internal/domain/entity"
	"github.com/oksasatya/campus-events/internal/interface/middleware"
	"github.com/oksasatya/campus-events/pkg/response"
	"github.com/oksasatya/campus-events/pkg/validation"
)

type CatalogService interface {
	List(ctx context.Context, p *application.Principal, f entity.EventFilter) (*application.CatalogView, error)
	CreateEvent(ctx context.Context, p *application.Principal, in application.EventInput, img *application.Image) (*entity.Event, error)
}

type CatalogHandler struct {
	Svc    CatalogService
	Logger *logrus.Logger
}

func NewCatalogHandler(svc CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

// Home lists the catalog. ?q= filters by title, ?category= by category.
func (h *CatalogHandler) Home(c *gin.Context) {
	f := entity.EventFilter{
		Title:    c.Query("q"),
		Category: entity.Category(strings.ToLower(strings.TrimSpace(c.Query("category")))),
	}
	view, err := h.Svc.List(c.Request.Context(), middleware.PrincipalFrom(c), f)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}

	choices := make([]gin.H, 0, len(view.Categories))
	for _, cat := range view.Categories {
		choices = append(choices, gin.H{"value": cat, "label": cat.Label()})
	}
	response.Success(c, http.StatusOK, gin.H{
		"events":            eventsJSON(view.Events),
		"recommendations":   eventsJSON(view.Recommendations),
		"total_events":      view.Stats.TotalEvents,
		"total_capacity":    view.Stats.TotalCapacity,
		"total_registered":  view.Stats.TotalRegistrations,
		"category_choices":  choices,
		"selected_category": view.SelectedCategory,
		"query":             view.Query,
	}, "events", nil)
}

type createEventRequest struct {
	Title       string    `json:"title" form:"title" binding:"required,max=200"`
	Description string    `json:"description" form:"description"`
	Date        time.Time `json:"date" form:"date" time_format:"2006-01-02T15:04:05Z07:00" binding:"required"`
	Venue       string    `json:"venue" form:"venue" binding:"required,max=200"`
	Category    string    `json:"category" form:"category" binding:"omitempty,category"`
	Capacity    int       `json:"capacity" form:"capacity" binding:"omitempty,min=1"`
}

const maxImageBytes = 5 << 20

// CreateEvent accepts JSON or a multipart form with an optional "image" file.
func (h *CatalogHandler) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	var img *application.Image
	if fh, err := c.FormFile("image"); err == nil {
		if fh.Size > maxImageBytes {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "must be at most 5MB"})
			return
		}
		ct := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "image/") {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "must be an image"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeError(c, h.Logger, err)
			return
		}
		defer func() { _ = f.Close() }()
		img = &application.Image{Filename: fh.Filename, ContentType: ct, Body: f}
	}

	e, err := h.Svc.CreateEvent(c.Request.Context(), middleware.PrincipalFrom(c), application.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Venue:       req.Venue,
		Category:    entity.Category(req.Category),
		Capacity:    req.Capacity,
	}, img)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, eventJSON(e), "event created", nil)
}
