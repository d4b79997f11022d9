package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handlers "github.com/oksasatya/campus-events/internal/interface/http"
	"github.com/oksasatya/campus-events/internal/router/modules"
	"github.com/oksasatya/campus-events/pkg/helpers"
)

func newTestRegistry(t *testing.T) (*Registry, *redis.Client, *helpers.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRegistry(gin.New()), rdb, helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
}

func serve(r http.Handler, method, target string, cookie *http.Cookie) int {
	req := httptest.NewRequest(method, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

// staff routes must reject before the handler touches its services, which
// are nil here.
func TestStaffRoutesRejectNonStaff(t *testing.T) {
	reg, rdb, jwt := newTestRegistry(t)
	reg.Add(modules.NewStaffModule(handlers.NewStaffHandler(nil, nil, nil), rdb, jwt))
	reg.RegisterAll()

	require.NoError(t, helpers.SaveSession(context.Background(), rdb, helpers.Session{
		UserID: "u1", Username: "asha", SessionID: "sid",
	}, time.Hour))
	tok, _, err := jwt.GenerateAccessToken("u1", "sid")
	require.NoError(t, err)
	student := &http.Cookie{Name: helpers.AccessCookie, Value: tok}

	routes := []struct{ method, path string }{
		{http.MethodGet, "/analytics"},
		{http.MethodGet, "/analytics/chart.png"},
		{http.MethodGet, "/export-csv"},
		{http.MethodGet, "/export-xlsx"},
		{http.MethodGet, "/verify-qr"},
		{http.MethodPost, "/verify-qr"},
	}
	for _, rt := range routes {
		assert.Equal(t, http.StatusUnauthorized, serve(reg.Engine, rt.method, rt.path, nil), rt.path)
		assert.Equal(t, http.StatusForbidden, serve(reg.Engine, rt.method, rt.path, student), rt.path)
	}
}

func TestPublicRoutes(t *testing.T) {
	reg, rdb, _ := newTestRegistry(t)
	reg.Add(modules.NewPublicModule(rdb, map[string]func(context.Context) error{
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}))
	reg.Add(modules.NewDebugModule(rdb))
	reg.RegisterAll()

	assert.Equal(t, http.StatusOK, serve(reg.Engine, http.MethodGet, "/chatbot?message=hello", nil))
	assert.Equal(t, http.StatusOK, serve(reg.Engine, http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, serve(reg.Engine, http.MethodGet, "/debug/vars", nil))
}

func TestRegistryMiddlewareRunsFirst(t *testing.T) {
	reg, rdb, _ := newTestRegistry(t)
	var seen string
	reg.Use(func(c *gin.Context) {
		seen = c.Request.URL.Path
		c.Next()
	})
	reg.Add(modules.NewPublicModule(rdb, nil))
	reg.RegisterAll()

	assert.Equal(t, http.StatusOK, serve(reg.Engine, http.MethodGet, "/chatbot", nil))
	assert.Equal(t, "/chatbot", seen)
}
