package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Tukyboy007/hospital-back/internal/domain"
)

// ErrInvalidToken is returned for every verification failure: bad signature,
// malformed structure, or expiry. Causes are collapsed into one opaque error
// so the response never acts as an oracle.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed claim set carried by both access and refresh tokens.
type Claims struct {
	Subject   string      `json:"sub"`
	Role      domain.Role `json:"role"`
	IssuedAt  int64       `json:"iat"`
	ExpiresAt int64       `json:"exp"`
	JTI       string      `json:"jti"`
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

func (c Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.IssuedAt, 0)), nil
}

func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c Claims) GetIssuer() (string, error)              { return "", nil }
func (c Claims) GetSubject() (string, error)             { return c.Subject, nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

// Codec signs and verifies compact HS256 token strings with a shared secret.
// It holds no state beyond the secret, so verification stays stateless and
// cheap on every request; revocation is layered on top for refresh tokens
// only. Access tokens are intentionally unrevocable within their short TTL.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec creates a Codec around the process-wide signing secret. The
// secret is injected at startup, not read from a global.
func NewCodec(secret string) *Codec {
	return &Codec{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// NewJTI returns 128 bits of randomness, URL-safe encoded. Used as the
// refresh ledger's primary lookup key.
func NewJTI() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate jti: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Sign builds claims with iat = now, exp = iat + ttl and a fresh jti, then
// produces the compact signed representation.
func (c *Codec) Sign(subject string, role domain.Role, ttl time.Duration) (string, Claims, error) {
	jti, err := NewJTI()
	if err != nil {
		return "", Claims{}, err
	}

	iat := c.now().Unix()
	claims := Claims{
		Subject:   subject,
		Role:      role,
		IssuedAt:  iat,
		ExpiresAt: iat + int64(ttl.Seconds()),
		JTI:       jti,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify checks MAC integrity and expiry. Revocation is not checked here;
// that is the ledger's job and applies to refresh tokens only.
func (c *Codec) Verify(tokenString string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject == "" || claims.JTI == "" {
		return Claims{}, ErrInvalidToken
	}
	return *claims, nil
}
