package modules

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/campus-events/internal/interface/http"
	"github.com/oksasatya/campus-events/internal/interface/middleware"
)

// PublicModule serves the chatbot and the health probe.
type PublicModule struct {
	Redis  *redis.Client
	Checks map[string]func(ctx context.Context) error
}

func NewPublicModule(rdb *redis.Client, checks map[string]func(ctx context.Context) error) *PublicModule {
	return &PublicModule{Redis: rdb, Checks: checks}
}

func (m *PublicModule) Register(rg *gin.RouterGroup) {
	chatLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/chatbot", chatLimiter, handlers.Chatbot)
	rg.GET("/healthz", handlers.Healthz(m.Checks))
}
