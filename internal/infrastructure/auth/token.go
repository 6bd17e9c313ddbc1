// Package auth issues and verifies dashboard tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roofleads/backend/internal/domain"
)

const issuer = "roofleads"

type claims struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	Slug        string `json:"slug"`
	CompanyName string `json:"companyName"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 dashboard tokens
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewTokenService creates a token service. The key must not be empty.
func NewTokenService(signingKey string, ttl time.Duration) (*TokenService, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("JWT signing key cannot be empty")
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &TokenService{signingKey: []byte(signingKey), ttl: ttl, now: time.Now}, nil
}

// Issue creates a signed token for the principal
func (s *TokenService) Issue(p domain.Principal) (string, error) {
	now := s.now()
	c := &claims{
		UserID:      p.UserID,
		Email:       p.Email,
		Slug:        p.Slug,
		CompanyName: p.CompanyName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns its principal.
// Any failure, expiry included, is reported as domain.ErrUnauthorized.
func (s *TokenService) Verify(tokenString string) (*domain.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Slug == "" {
		return nil, domain.ErrUnauthorized
	}

	return &domain.Principal{
		UserID:      c.UserID,
		Email:       c.Email,
		Slug:        c.Slug,
		CompanyName: c.CompanyName,
	}, nil
}
