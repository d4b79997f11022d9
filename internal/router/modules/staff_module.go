package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/campus-events/internal/interface/http"
	"github.com/oksasatya/campus-events/internal/interface/middleware"
	"github.com/oksasatya/campus-events/pkg/helpers"
)

// StaffModule serves analytics, exports and the pass scanner. Every route
// is rejected with 403 for non-staff before any data is read.
type StaffModule struct {
	Handler *handlers.StaffHandler
	Redis   *redis.Client
	JWT     *helpers.JWTManager
}

func NewStaffModule(h *handlers.StaffHandler, rdb *redis.Client, jwt *helpers.JWTManager) *StaffModule {
	return &StaffModule{Handler: h, Redis: rdb, JWT: jwt}
}

func (m *StaffModule) Register(rg *gin.RouterGroup) {
	staff := rg.Group("/")
	staff.Use(middleware.Auth(m.Redis, m.JWT), middleware.RequireStaff())
	{
		staff.GET("/analytics", m.Handler.Analytics)
		staff.GET("/analytics/chart.png", m.Handler.Chart)
		staff.GET("/export-csv", m.Handler.ExportCSV)
		staff.GET("/export-xlsx", m.Handler.ExportXLSX)
		staff.GET("/verify-qr", m.Handler.VerifyForm)

		// scanners at the venue sit on the campus network and may submit in bursts
		scanLimiter := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP())
		staff.POST("/verify-qr", scanLimiter, m.Handler.Verify)
	}
}
