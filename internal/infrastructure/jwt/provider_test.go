package jwtinfra

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/snapcloud/identity-api/internal/config"
	"github.com/snapcloud/identity-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestProvider generates a fresh RSA key pair, writes them to temp files,
// and returns a *Provider. The temp directory is cleaned up automatically
// by t.TempDir() when the test completes.
func newTestProvider(t *testing.T, expiry time.Duration) *Provider {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privKey)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))

	cfg := &config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		JWTExpiry:         expiry,
	}
	p, err := NewProvider(cfg)
	require.NoError(t, err)
	return p
}

func TestSignAndVerify_RoundTrip(t *testing.T) {
	p := newTestProvider(t, 12*time.Hour)

	signed, err := p.Sign("a@x.com", domain.RoleUser)
	require.NoError(t, err)

	claims, err := p.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, domain.RoleUser.Authorities(), claims.Authorities)
}

func TestExpiryOf_MatchesIssuanceWindow(t *testing.T) {
	p := newTestProvider(t, 12*time.Hour)

	before := time.Now()
	signed, err := p.Sign("a@x.com", domain.RoleAdmin)
	require.NoError(t, err)
	after := time.Now()

	exp, err := p.ExpiryOf(signed)
	require.NoError(t, err)

	// NumericDate truncates to seconds; bound the expiry by the window
	// observed around issuance.
	assert.False(t, exp.Before(before.Add(12*time.Hour).Truncate(time.Second)))
	assert.False(t, exp.After(after.Add(12*time.Hour)))
}

func TestExpiryOf_EqualsVerifyExpiry(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	signed, err := p.Sign("b@x.com", domain.RoleUser)
	require.NoError(t, err)

	claims, err := p.Verify(signed)
	require.NoError(t, err)
	exp, err := p.ExpiryOf(signed)
	require.NoError(t, err)

	assert.True(t, exp.Equal(claims.ExpiresAt.Time))
}

func TestVerify_WrongKey_Fails(t *testing.T) {
	p1 := newTestProvider(t, time.Hour)
	p2 := newTestProvider(t, time.Hour)

	signed, err := p1.Sign("a@x.com", domain.RoleUser)
	require.NoError(t, err)

	_, err = p2.Verify(signed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestVerify_Tampered_Fails(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	signed, err := p.Sign("a@x.com", domain.RoleUser)
	require.NoError(t, err)

	_, err = p.Verify(signed + "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))

	_, err = p.ExpiryOf("not-a-token")
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestVerify_RejectsNonRSA(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "a@x.com"})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = p.Verify(signed)
	assert.Error(t, err)
}
