package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Tukyboy007/hospital-back/internal/domain"
	"github.com/Tukyboy007/hospital-back/internal/dto"
	"github.com/Tukyboy007/hospital-back/internal/service"
	"github.com/Tukyboy007/hospital-back/internal/session"
)

// MockAuthService is a scripted implementation of AuthService
type MockAuthService struct {
	registerErr error
	loginErr    error
	refreshErr  error
	loggedOut   []string
}

func (m *MockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return authResponse(req.RegNo), nil
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return authResponse(req.RegNo), nil
}

func (m *MockAuthService) Refresh(ctx context.Context, rawToken string) (*service.RotationResult, error) {
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	return &service.RotationResult{
		AccessToken:  "access-rotated",
		RefreshToken: "refresh-rotated",
		JTI:          "jti-rotated",
	}, nil
}

func (m *MockAuthService) Logout(ctx context.Context, rawToken string) {
	m.loggedOut = append(m.loggedOut, rawToken)
}

func (m *MockAuthService) Identify(tokenString string) (domain.Identity, error) {
	return domain.Identity{DoctorID: "doctor-1", Role: domain.RoleDoctor}, nil
}

func authResponse(regNo string) *dto.AuthResponse {
	return &dto.AuthResponse{
		Doctor: dto.DoctorResponse{ID: "doctor-1", RegNo: regNo, FirstName: "Bat", LastName: "Erdene"},
		Tokens: dto.TokensResponse{Access: "access-1", Refresh: "refresh-1", JTI: "jti-1"},
	}
}

func newAuthRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	transport := session.NewTransport("localhost", false, 15*time.Minute, 7*24*time.Hour)
	h := NewAuthHandler(svc, transport, zap.NewNop())

	router := gin.New()
	router.POST("/auth/register", h.Register)
	router.POST("/auth/login", h.Login)
	router.POST("/auth/refresh", h.Refresh)
	router.POST("/auth/logout", h.Logout)
	return router
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func cookieNames(w *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, c := range w.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestAuthHandler_Register(t *testing.T) {
	router := newAuthRouter(&MockAuthService{})

	w := postJSON(router, "/auth/register", dto.RegisterRequest{
		RegNo: "A-1001", FirstName: "Bat", LastName: "Erdene", Password: "long enough pass",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var body dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "A-1001", body.Doctor.RegNo)
	assert.Equal(t, "access-1", body.Tokens.Access)

	cookies := cookieNames(w)
	require.Contains(t, cookies, session.AccessCookie)
	require.Contains(t, cookies, session.RefreshCookie)
	require.Contains(t, cookies, session.CSRFCookie)
	assert.True(t, cookies[session.AccessCookie].HttpOnly)
	assert.True(t, cookies[session.RefreshCookie].HttpOnly)
	assert.False(t, cookies[session.CSRFCookie].HttpOnly)
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	router := newAuthRouter(&MockAuthService{})

	tests := []struct {
		name string
		body any
	}{
		{name: "missing fields", body: gin.H{"reg_no": "A-1001"}},
		{name: "short password", body: dto.RegisterRequest{RegNo: "A-1001", FirstName: "B", LastName: "E", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	router := newAuthRouter(&MockAuthService{registerErr: service.ErrDoctorExists})

	w := postJSON(router, "/auth/register", dto.RegisterRequest{
		RegNo: "A-1001", FirstName: "Bat", LastName: "Erdene", Password: "long enough pass",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	router := newAuthRouter(&MockAuthService{loginErr: service.ErrInvalidCredentials})

	w := postJSON(router, "/auth/login", dto.LoginRequest{RegNo: "A-1001", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Refresh(t *testing.T) {
	router := newAuthRouter(&MockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: session.RefreshCookie, Value: "refresh-1"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body dto.RefreshResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "access-rotated", body.AccessToken)

	// The rotated refresh token travels back only as a cookie
	cookies := cookieNames(w)
	require.Contains(t, cookies, session.RefreshCookie)
	assert.Equal(t, "refresh-rotated", cookies[session.RefreshCookie].Value)
	assert.NotContains(t, w.Body.String(), "refresh-rotated")
}

func TestAuthHandler_Refresh_Unauthorized(t *testing.T) {
	t.Run("missing cookie", func(t *testing.T) {
		router := newAuthRouter(&MockAuthService{})
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		router := newAuthRouter(&MockAuthService{refreshErr: service.ErrInvalidToken})
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: session.RefreshCookie, Value: "stale"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &MockAuthService{}
	router := newAuthRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.RefreshCookie, Value: "refresh-1"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"refresh-1"}, svc.loggedOut)

	// All three cookies are cleared
	cookies := cookieNames(w)
	for _, name := range []string{session.AccessCookie, session.RefreshCookie, session.CSRFCookie} {
		require.Contains(t, cookies, name)
		assert.Empty(t, cookies[name].Value)
		assert.Negative(t, cookies[name].MaxAge)
	}
}

func TestAuthHandler_Logout_WithoutSession(t *testing.T) {
	svc := &MockAuthService{}
	router := newAuthRouter(svc)

	// Logout without any cookies still succeeds and clears cookies
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.loggedOut)
}
