package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/campus-events/internal/application"
	"github.com/oksasatya/campus-events/pkg/helpers"
	"github.com/oksasatya/campus-events/pkg/response"
)

// PrincipalKey is the gin context key holding *application.Principal.
const PrincipalKey = "principal"

// PrincipalFrom returns the caller resolved by Auth or OptionalAuth, or nil.
func PrincipalFrom(c *gin.Context) *application.Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(*application.Principal); ok {
			return p
		}
	}
	return nil
}

func accessToken(c *gin.Context) string {
	if token, err := c.Cookie(helpers.AccessCookie); err == nil && token != "" {
		return token
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// resolve validates the access token against the session stored in Redis.
// The message is empty on success.
func resolve(c *gin.Context, rdb *redis.Client, jwt *helpers.JWTManager) (*application.Principal, string) {
	token := accessToken(c)
	if token == "" {
		return nil, "missing access token"
	}
	claims, err := jwt.ParseAccessToken(token)
	if err != nil {
		return nil, "invalid access token"
	}

	sess, ok, err := helpers.LoadSession(c.Request.Context(), rdb, claims.UserID)
	if err != nil || !ok {
		return nil, "session not found"
	}
	// a newer login replaced the session this token was issued for
	if sess.SessionID != claims.SessionID {
		return nil, "session expired"
	}
	return &application.Principal{
		UserID:   sess.UserID,
		Username: sess.Username,
		Email:    sess.Email,
		IsStaff:  sess.IsStaff,
	}, ""
}

func setPrincipal(c *gin.Context, p *application.Principal) {
	c.Set(PrincipalKey, p)
	c.Set("userID", p.UserID) // used by KeyByUserID
}

// Auth validates access token and ensures an active session exists in Redis.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, msg := resolve(c, rdb, jwt)
		if p == nil {
			response.Error[any](c, http.StatusUnauthorized, msg, nil)
			c.Abort()
			return
		}
		setPrincipal(c, p)
		c.Next()
	}
}

// OptionalAuth resolves the caller when possible and never rejects.
func OptionalAuth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p, _ := resolve(c, rdb, jwt); p != nil {
			setPrincipal(c, p)
		}
		c.Next()
	}
}

// RequireStaff must run after Auth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalFrom(c)
		if p == nil {
			response.Error[any](c, http.StatusUnauthorized, "authentication required", nil)
			c.Abort()
			return
		}
		if !p.IsStaff {
			response.Error[any](c, http.StatusForbidden, "staff access required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
