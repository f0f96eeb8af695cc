package session

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Cookie and header names shared with the frontend.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
	CSRFCookie    = "csrf_token"
	CSRFHeader    = "X-CSRF-Token"

	bearerPrefix = "Bearer "
)

// ErrCSRF is returned when the CSRF cookie/header pair is absent or does not
// match. The check fails closed.
var ErrCSRF = errors.New("csrf validation failed")

// Transport maps tokens to and from HTTP cookies and headers. Extraction is
// the only way request identity is established; there is no session-id
// indirection.
type Transport struct {
	cookieDomain string
	cookieSecure bool
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

// NewTransport creates a Transport with the configured cookie scope.
func NewTransport(cookieDomain string, cookieSecure bool, accessTTL, refreshTTL time.Duration) *Transport {
	return &Transport{
		cookieDomain: cookieDomain,
		cookieSecure: cookieSecure,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}
}

// ExtractAccessToken reads the access token from the Authorization header,
// falling back to the access cookie.
func ExtractAccessToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, bearerPrefix) && len(header) > len(bearerPrefix) {
		return header[len(bearerPrefix):], true
	}
	if value, err := c.Cookie(AccessCookie); err == nil && value != "" {
		return value, true
	}
	return "", false
}

// ExtractRefreshToken reads the refresh token from its dedicated cookie.
// Refresh tokens are never accepted from headers: the cookie is HTTP-only,
// so the raw token stays out of reach of page script.
func ExtractRefreshToken(c *gin.Context) (string, bool) {
	value, err := c.Cookie(RefreshCookie)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

// CheckCSRF requires the CSRF cookie and the echoed header to both be present
// and byte-equal. The cookie is set by the server; only same-origin script
// can read it back into the header, which cross-origin requests cannot forge.
func CheckCSRF(c *gin.Context) error {
	cookie, err := c.Cookie(CSRFCookie)
	if err != nil || cookie == "" {
		return ErrCSRF
	}
	header := c.GetHeader(CSRFHeader)
	if header == "" {
		return ErrCSRF
	}
	if subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
		return ErrCSRF
	}
	return nil
}

// NewCSRFToken generates a random token to be duplicated into the CSRF
// cookie and echoed back in the header.
func NewCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// SetSessionCookies writes the access, refresh and CSRF cookies for a fresh
// session. Access and refresh cookies are HTTP-only; the CSRF cookie must be
// readable by script so it can be echoed as a header.
func (t *Transport) SetSessionCookies(c *gin.Context, accessToken, refreshToken, csrfToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, accessToken, int(t.accessTTL.Seconds()), "/", t.cookieDomain, t.cookieSecure, true)
	c.SetCookie(RefreshCookie, refreshToken, int(t.refreshTTL.Seconds()), "/", t.cookieDomain, t.cookieSecure, true)
	c.SetCookie(CSRFCookie, csrfToken, int(t.refreshTTL.Seconds()), "/", t.cookieDomain, t.cookieSecure, false)
}

// SetRefreshCookie rotates only the refresh cookie; the previous value is
// superseded by this Set-Cookie.
func (t *Transport) SetRefreshCookie(c *gin.Context, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookie, refreshToken, int(t.refreshTTL.Seconds()), "/", t.cookieDomain, t.cookieSecure, true)
}

// ClearSessionCookies issues all three cookies with empty values and negative
// max-age to force immediate client-side expiry.
func (t *Transport) ClearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, "", -1, "/", t.cookieDomain, t.cookieSecure, true)
	c.SetCookie(RefreshCookie, "", -1, "/", t.cookieDomain, t.cookieSecure, true)
	c.SetCookie(CSRFCookie, "", -1, "/", t.cookieDomain, t.cookieSecure, false)
}
