package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-events/internal/application"
	"github.com/oksasatya/campus-events/internal/domain/entity"
	"github.com/oksasatya/campus-events/internal/interface/middleware"
	"github.com/oksasatya/campus-events/pkg/helpers"
	"github.com/oksasatya/campus-events/pkg/response"
	"github.com/oksasatya/campus-events/pkg/validation"
)

type AccountService interface {
	Signup(ctx context.Context, in application.SignupInput) (*entity.User, application.TokenPair, error)
	Login(ctx context.Context, username, password string) (*entity.User, application.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (application.TokenPair, error)
	Logout(ctx context.Context, userID string) error
}

type AuthHandler struct {
	Svc     AccountService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc AccountService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type signupRequest struct {
	Username        string `json:"username" form:"username" binding:"required,username"`
	Email           string `json:"email" form:"email" binding:"required,email,max=254"`
	Password        string `json:"password" form:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" binding:"required,eqfield=Password"`
}

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

func tokenMeta(pair application.TokenPair) map[string]any {
	return map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry}
}

// SignupForm describes the signup form fields.
func (h *AuthHandler) SignupForm(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"fields": []string{"username", "email", "password", "password_confirm"},
	}, "signup form", nil)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusCreated, gin.H{"user": userJSON(u), "redirect": "/"}, "account created", tokenMeta(pair))
}

// LoginForm describes the login form fields.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"fields": []string{"username", "password"}}, "login form", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{"user": userJSON(u), "redirect": "/"}, "login successful", tokenMeta(pair))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookie)
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", tokenMeta(pair))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if p := middleware.PrincipalFrom(c); p != nil {
		if err := h.Svc.Logout(c.Request.Context(), p.UserID); err != nil && h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", p.UserID).Warn("delete session failed")
		}
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true, "redirect": "/login"}, "logged out", nil)
}
