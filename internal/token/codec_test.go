package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tukyboy007/hospital-back/internal/domain"
)

func TestCodec_SignAndVerify(t *testing.T) {
	c := NewCodec("test-secret")

	signed, claims, err := c.Sign("doctor-1", domain.RoleDoctor, 15*time.Minute)
	require.NoError(t, err)
	assert.Len(t, strings.Split(signed, "."), 3)
	assert.Equal(t, "doctor-1", claims.Subject)
	assert.Equal(t, domain.RoleDoctor, claims.Role)
	assert.NotEmpty(t, claims.JTI)
	assert.Equal(t, claims.IssuedAt+900, claims.ExpiresAt)

	verified, err := c.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, claims, verified)
}

func TestCodec_JTIUnique(t *testing.T) {
	c := NewCodec("test-secret")

	_, first, err := c.Sign("doctor-1", domain.RoleDoctor, time.Minute)
	require.NoError(t, err)
	_, second, err := c.Sign("doctor-1", domain.RoleDoctor, time.Minute)
	require.NoError(t, err)

	assert.NotEqual(t, first.JTI, second.JTI)
}

func TestCodec_VerifyFailsAtExpiry(t *testing.T) {
	c := NewCodec("test-secret")
	issued := time.Now()
	c.now = func() time.Time { return issued }

	signed, _, err := c.Sign("doctor-1", domain.RoleDoctor, time.Minute)
	require.NoError(t, err)

	// Strictly before exp: valid.
	c.now = func() time.Time { return issued.Add(59 * time.Second) }
	_, err = c.Verify(signed)
	require.NoError(t, err)

	// At/after exp: invalid, same opaque error as any other failure.
	c.now = func() time.Time { return issued.Add(61 * time.Second) }
	_, err = c.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_VerifyRejectsTampering(t *testing.T) {
	c := NewCodec("test-secret")

	signed, _, err := c.Sign("doctor-1", domain.RoleDoctor, time.Minute)
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	_, err = c.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = c.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = c.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_VerifyRejectsForeignSecret(t *testing.T) {
	signed, _, err := NewCodec("secret-a").Sign("doctor-1", domain.RoleDoctor, time.Minute)
	require.NoError(t, err)

	_, err = NewCodec("secret-b").Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
