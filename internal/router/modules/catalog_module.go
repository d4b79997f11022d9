package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/campus-events/internal/interface/http"
	"github.com/oksasatya/campus-events/internal/interface/middleware"
	"github.com/oksasatya/campus-events/pkg/helpers"
)

// CatalogModule serves the event list and staff event creation.
type CatalogModule struct {
	Handler *handlers.CatalogHandler
	Redis   *redis.Client
	JWT     *helpers.JWTManager
}

func NewCatalogModule(h *handlers.CatalogHandler, rdb *redis.Client, jwt *helpers.JWTManager) *CatalogModule {
	return &CatalogModule{Handler: h, Redis: rdb, JWT: jwt}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	// anonymous visitors see the catalog; signed in students also get recommendations
	rg.GET("/", middleware.OptionalAuth(m.Redis, m.JWT), m.Handler.Home)

	staff := rg.Group("/")
	staff.Use(middleware.Auth(m.Redis, m.JWT), middleware.RequireStaff())
	staff.Use(middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		staff.POST("/events", m.Handler.CreateEvent)
	}
}
