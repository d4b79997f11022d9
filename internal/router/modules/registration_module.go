package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/campus-events/internal/interface/http"
	"github.com/oksasatya/campus-events/internal/interface/middleware"
	"github.com/oksasatya/campus-events/pkg/helpers"
)

// RegistrationModule serves registration, the caller's events and their QR passes.
type RegistrationModule struct {
	Handler *handlers.RegistrationHandler
	Passes  *handlers.PassHandler
	Redis   *redis.Client
	JWT     *helpers.JWTManager
}

func NewRegistrationModule(h *handlers.RegistrationHandler, passes *handlers.PassHandler, rdb *redis.Client, jwt *helpers.JWTManager) *RegistrationModule {
	return &RegistrationModule{Handler: h, Passes: passes, Redis: rdb, JWT: jwt}
}

func (m *RegistrationModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Redis, m.JWT))
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/register/:eventId", m.Handler.Preview)
		auth.POST("/register/:eventId", m.Handler.Register)
		auth.GET("/my-events", m.Handler.List)
		auth.GET("/my-events.ics", m.Handler.Calendar)
		auth.GET("/qr/:token", m.Passes.QR)
	}
}
