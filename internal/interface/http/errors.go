package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-events/internal/application"
	"github.com/oksasatya/campus-events/pkg/response"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

var errorTable = []errorMapping{
	{application.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
	{application.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{application.ErrForbidden, http.StatusForbidden, "staff access required"},
	{application.ErrUsernameTaken, http.StatusConflict, "A user with that username already exists."},
	{application.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{application.ErrEventNotFound, http.StatusNotFound, "Event not found."},
	{application.ErrEventFull, http.StatusConflict, "Event is full."},
	{application.ErrAlreadyRegistered, http.StatusConflict, "You have already registered for this event."},
	{application.ErrInvalidPassFormat, http.StatusBadRequest, "Invalid QR format. UUID not found."},
	{application.ErrPassNotFound, http.StatusNotFound, "Invalid QR / Registration ID not found."},
	{application.ErrNoChartData, http.StatusNotFound, "No events to chart."},
}

// writeError maps a service error onto the response envelope. Unknown
// errors are logged and reported as 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *application.ValidationError
	if errors.As(err, &verr) {
		response.Error[any](c, http.StatusBadRequest, "validation failed", verr.Fields)
		return
	}
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			response.Error[any](c, m.status, m.message, nil)
			return
		}
	}
	if logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		}).Error("request failed")
	}
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}
