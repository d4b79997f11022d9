package handlers

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-events/internal/application"
	"github.com/oksasatya/campus-events/internal/interface/middleware"
	"github.com/oksasatya/campus-events/pkg/response"
	"github.com/oksasatya/campus-events/pkg/validation"
)

type ReportService interface {
	Analytics(ctx context.Context, p *application.Principal) (*application.Analytics, error)
	Chart(ctx context.Context, p *application.Principal) ([]byte, error)
	ExportCSV(ctx context.Context, p *application.Principal) ([]byte, error)
	ExportXLSX(ctx context.Context, p *application.Principal) ([]byte, error)
}

type VerificationService interface {
	Verify(ctx context.Context, p *application.Principal, raw string) (*application.VerifyResult, error)
}

// StaffHandler serves the staff-only reports and the pass scanner.
type StaffHandler struct {
	Reports  ReportService
	Verifier VerificationService
	Logger   *logrus.Logger
}

func NewStaffHandler(reports ReportService, verifier VerificationService, logger *logrus.Logger) *StaffHandler {
	return &StaffHandler{Reports: reports, Verifier: verifier, Logger: logger}
}

func (h *StaffHandler) Analytics(c *gin.Context) {
	a, err := h.Reports.Analytics(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	cats := make([]gin.H, 0, len(a.Categories))
	for _, cc := range a.Categories {
		cats = append(cats, gin.H{"category": cc.Category, "label": cc.Category.Label(), "count": cc.Count})
	}
	graph := ""
	if len(a.ChartPNG) > 0 {
		graph = base64.StdEncoding.EncodeToString(a.ChartPNG)
	}
	response.Success(c, http.StatusOK, gin.H{
		"total_events":        a.Stats.TotalEvents,
		"total_registrations": a.Stats.TotalRegistrations,
		"total_capacity":      a.Stats.TotalCapacity,
		"total_attended":      a.Stats.TotalAttended,
		"categories":          cats,
		"chart_title":         application.ChartTitle,
		"graph":               graph,
	}, "analytics", nil)
}

func (h *StaffHandler) Chart(c *gin.Context) {
	png, err := h.Reports.Chart(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *StaffHandler) ExportCSV(c *gin.Context) {
	body, err := h.Reports.ExportCSV(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="registrations.csv"`)
	c.Data(http.StatusOK, "text/csv", body)
}

func (h *StaffHandler) ExportXLSX(c *gin.Context) {
	body, err := h.Reports.ExportXLSX(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="registrations.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", body)
}

// VerifyForm describes the scanner form.
func (h *StaffHandler) VerifyForm(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"fields": []string{"registration_id"}}, "verify form", nil)
}

type verifyRequest struct {
	RegistrationID string `json:"registration_id" form:"registration_id" binding:"required"`
}

func (h *StaffHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Verifier.Verify(c.Request.Context(), middleware.PrincipalFrom(c), req.RegistrationID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"status":       res.Status,
		"message":      res.Message,
		"registration": registrationJSON(res.Registration),
	}, res.Message, nil)
}
