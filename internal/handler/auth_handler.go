package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tukyboy007/hospital-back/internal/dto"
	"github.com/Tukyboy007/hospital-back/internal/service"
	"github.com/Tukyboy007/hospital-back/internal/session"
	"github.com/Tukyboy007/hospital-back/pkg/response"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	auth      service.AuthService
	transport *session.Transport
	log       *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth service.AuthService, transport *session.Transport, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, transport: transport, log: log}
}

// Register creates a doctor account and opens a session
// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if ok, msg := req.ValidatePassword(); !ok {
		response.BadRequest(c, msg)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrDoctorExists) {
			response.Conflict(c, "registration number already in use")
			return
		}
		h.log.Error("register failed", zap.Error(err))
		response.Internal(c)
		return
	}

	h.setSession(c, result.Tokens)
	c.JSON(http.StatusCreated, result)
}

// Login authenticates a doctor and opens a session
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid credentials")
			return
		}
		h.log.Error("login failed", zap.Error(err))
		response.Internal(c)
		return
	}

	h.setSession(c, result.Tokens)
	c.JSON(http.StatusOK, result)
}

// Refresh rotates the refresh token from its cookie
// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw, ok := session.ExtractRefreshToken(c)
	if !ok {
		response.Unauthorized(c, "invalid token")
		return
	}

	result, err := h.auth.Refresh(c.Request.Context(), raw)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			response.Unauthorized(c, "invalid token")
			return
		}
		h.log.Error("refresh failed", zap.Error(err))
		response.Internal(c)
		return
	}

	h.transport.SetRefreshCookie(c, result.RefreshToken)
	c.JSON(http.StatusOK, dto.RefreshResponse{AccessToken: result.AccessToken})
}

// Logout revokes the session best-effort and clears all cookies
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if raw, ok := session.ExtractRefreshToken(c); ok {
		h.auth.Logout(c.Request.Context(), raw)
	}
	h.transport.ClearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// setSession writes the freshly issued tokens as cookies next to the JSON
// body. CSRF generation failure downgrades to a cookie-less response rather
// than failing an otherwise successful login.
func (h *AuthHandler) setSession(c *gin.Context, tokens dto.TokensResponse) {
	csrfToken, err := session.NewCSRFToken()
	if err != nil {
		h.log.Error("csrf token generation failed", zap.Error(err))
		return
	}
	h.transport.SetSessionCookies(c, tokens.Access, tokens.Refresh, csrfToken)
}
