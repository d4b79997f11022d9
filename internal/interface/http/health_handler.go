package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/campus-events/pkg/response"
)

// Healthz runs every named check and reports 503 if any fails.
func Healthz(checks map[string]func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		out := gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				out[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			out[name] = "ok"
		}
		if status != http.StatusOK {
			response.Error[any](c, status, "unhealthy", out)
			return
		}
		response.Success(c, status, out, "healthy", nil)
	}
}
