package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/campus-events/internal/interface/http"
	"github.com/oksasatya/campus-events/internal/interface/middleware"
	"github.com/oksasatya/campus-events/pkg/helpers"
)

// AuthModule serves signup, login, token refresh and logout.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Redis   *redis.Client
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, Redis: rdb, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/signup", m.Handler.SignupForm)
	rg.POST("/signup", signupLimiter, m.Handler.Signup)
	rg.GET("/login", m.Handler.LoginForm)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	rg.POST("/logout", middleware.Auth(m.Redis, m.JWT), m.Handler.Logout)
}
