package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-events/internal/application"
	"github.com/oksasatya/campus-events/internal/domain/entity"
	"github.com/oksasatya/campus-events/internal/interface/middleware"
	"github.com/oksasatya/campus-events/pkg/response"
	"github.com/oksasatya/campus-events/pkg/validation"
)

type RegistrationService interface {
	Preview(ctx context.Context, p *application.Principal, eventID int64) (*application.RegistrationResult, error)
	Register(ctx context.Context, p *application.Principal, eventID int64, in *application.ProfileInput) (*application.RegistrationResult, error)
}

// MyEventsFunc lists the registrations of the caller.
type MyEventsFunc func(ctx context.Context, p *application.Principal) ([]entity.RegistrationDetail, error)

type RegistrationHandler struct {
	Svc       RegistrationService
	MyEvents  MyEventsFunc
	AppName   string
	PortalURL string
	Logger    *logrus.Logger
}

func NewRegistrationHandler(svc RegistrationService, myEvents MyEventsFunc, appName, portalURL string, logger *logrus.Logger) *RegistrationHandler {
	return &RegistrationHandler{Svc: svc, MyEvents: myEvents, AppName: appName, PortalURL: portalURL, Logger: logger}
}

func eventIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("eventId"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusNotFound, "Event not found.", nil)
		return 0, false
	}
	return id, true
}

func resultJSON(res *application.RegistrationResult) gin.H {
	out := gin.H{
		"outcome": res.Outcome,
		"message": res.Message,
	}
	if res.Event != nil {
		out["event"] = eventJSON(res.Event)
	}
	if res.Redirect != "" {
		out["redirect"] = res.Redirect
	}
	if res.Registration != nil {
		out["registration_id"] = res.Registration.Token
		out["qr_url"] = "/qr/" + res.Registration.Token
	}
	if res.Outcome != application.OutcomeRegistered {
		out["profile"] = profileJSON(res.Profile)
		out["missing_fields"] = res.MissingFields
		out["profile_fields"] = []string{"college_email", "registration_number", "branch", "department", "year_of_study", "interests"}
	}
	return out
}

// Preview reports whether the caller can register and which profile fields
// are still needed. It never writes.
func (h *RegistrationHandler) Preview(c *gin.Context) {
	id, ok := eventIDParam(c)
	if !ok {
		return
	}
	res, err := h.Svc.Preview(c.Request.Context(), middleware.PrincipalFrom(c), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, resultJSON(res), res.Message, nil)
}

// Register books a seat. An optional profile form (JSON or form encoded)
// completes the profile in the same step.
func (h *RegistrationHandler) Register(c *gin.Context) {
	id, ok := eventIDParam(c)
	if !ok {
		return
	}
	var in *application.ProfileInput
	if c.Request.ContentLength != 0 {
		var body application.ProfileInput
		if err := c.ShouldBind(&body); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
		if body != (application.ProfileInput{}) {
			in = &body
		}
	}

	res, err := h.Svc.Register(c.Request.Context(), middleware.PrincipalFrom(c), id, in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if res.Outcome == application.OutcomeProfileRequired {
		response.Error[any](c, http.StatusUnprocessableEntity, res.Message, resultJSON(res))
		return
	}
	response.Success(c, http.StatusCreated, resultJSON(res), res.Message, nil)
}

func (h *RegistrationHandler) List(c *gin.Context) {
	regs, err := h.MyEvents(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]gin.H, 0, len(regs))
	for i := range regs {
		out = append(out, registrationJSON(&regs[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"registrations": out}, "my events", nil)
}

// Calendar serves the caller's registrations as an iCalendar feed.
func (h *RegistrationHandler) Calendar(c *gin.Context) {
	regs, err := h.MyEvents(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	body := application.CalendarFeed(h.AppName, h.PortalURL, regs, time.Now())
	c.Header("Content-Disposition", `attachment; filename="my-events.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
