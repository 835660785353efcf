package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matforge/catalog/internal/catalog/service"
	"github.com/matforge/catalog/internal/config"
	"github.com/matforge/catalog/internal/middleware"
	"github.com/matforge/catalog/internal/shared/cognito"
)

type AuthHandler struct {
	svc      *service.AuthService
	sessions *service.SessionService
	cfg      *config.Config
}

func NewAuthHandler(svc *service.AuthService, sessions *service.SessionService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{svc: svc, sessions: sessions, cfg: cfg}
}

// Register POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	if err := h.svc.Register(c.Request.Context(), req); err != nil {
		InternalError(c, "Registration failed")
		return
	}
	Created(c, gin.H{"email": req.Email})
}

// Confirm POST /api/v1/auth/confirm
func (h *AuthHandler) Confirm(c *gin.Context) {
	var req service.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	if err := h.svc.Confirm(c.Request.Context(), req); err != nil {
		BadRequest(c, "Confirmation failed")
		return
	}
	Success(c, gin.H{"email": req.Email})
}

// Login POST /api/v1/auth/login
// Issues the tokens in the body and a session cookie for browser clients.
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, cognito.ErrNotAuthorized) {
			Unauthorized(c, "Invalid credentials")
			return
		}
		InternalError(c, "Login failed")
		return
	}

	sessionID, err := h.sessions.Create(c.Request.Context(), result.Tokens.AccessToken)
	if err != nil {
		InternalError(c, "Login failed")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, h.sessions.CookieValue(sessionID), int(h.sessions.TTL().Seconds()), "/", "", h.cfg.Session.Secure, true)

	Success(c, result)
}

// Logout POST /api/v1/auth/logout
// Revokes the token, drops the session, and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := c.GetString("access_token"); token != "" {
		h.svc.Logout(c.Request.Context(), token)
	}
	if value, err := c.Cookie(middleware.SessionCookie); err == nil && value != "" {
		if sessionID, err := h.sessions.ParseCookie(value); err == nil {
			_ = h.sessions.Delete(c.Request.Context(), sessionID)
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cfg.Session.Secure, true)

	Success(c, nil)
}

// Me GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	Success(c, gin.H{"username": GetUsername(c)})
}
