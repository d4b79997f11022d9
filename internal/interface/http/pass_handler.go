package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-events/internal/application"
	"github.com/oksasatya/campus-events/internal/interface/middleware"
	"github.com/oksasatya/campus-events/pkg/response"
)

type PassService interface {
	Issue(ctx context.Context, p *application.Principal, token string) (*application.Pass, error)
}

type PassHandler struct {
	Svc    PassService
	Logger *logrus.Logger
}

func NewPassHandler(svc PassService, logger *logrus.Logger) *PassHandler {
	return &PassHandler{Svc: svc, Logger: logger}
}

// QR serves the caller's pass as a PNG, or as JSON with a data URI when
// ?format=datauri.
func (h *PassHandler) QR(c *gin.Context) {
	pass, err := h.Svc.Issue(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("token"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if c.Query("format") == "datauri" {
		response.Success(c, http.StatusOK, gin.H{
			"qr":           pass.DataURI(),
			"registration": registrationJSON(pass.Registration),
		}, "qr pass", nil)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "image/png", pass.PNG)
}
