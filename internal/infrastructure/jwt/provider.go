package jwtinfra

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/snapcloud/identity-api/internal/config"
	"github.com/snapcloud/identity-api/internal/domain"
)

// Claims holds the JWT payload. The subject is the identity's email; the
// authority labels are resolved from the role at issuance time.
type Claims struct {
	Role        domain.Role `json:"role"`
	Authorities []string    `json:"authorities"`
	jwt.RegisteredClaims
}

// Provider signs and verifies RS256 JWTs. The key pair is loaded once at
// startup and never rotated for the life of the process.
type Provider struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	expiry     time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	privBytes, err := os.ReadFile(cfg.JWTPrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privBytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	pubBytes, err := os.ReadFile(cfg.JWTPublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubBytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	return &Provider{privateKey: privKey, publicKey: pubKey, expiry: cfg.JWTExpiry}, nil
}

// Sign issues a token for (email, role). Expiry is a pure function of the
// issuance instant and the configured validity window.
func (p *Provider) Sign(email string, role domain.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:        role,
		Authorities: role.Authorities(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(p.privateKey)
}

// Verify parses the token, checks its signature and returns the claims.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidToken)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims: %w", domain.ErrInvalidToken)
	}
	return claims, nil
}

// ExpiryOf verifies the token and returns its embedded expiry instant.
// For any token this Provider issued, the result equals the expires_at
// computed at issuance to the second (JWT NumericDate resolution).
func (p *Provider) ExpiryOf(tokenStr string) (time.Time, error) {
	claims, err := p.Verify(tokenStr)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("token has no expiry: %w", domain.ErrInvalidToken)
	}
	return claims.ExpiresAt.Time, nil
}
