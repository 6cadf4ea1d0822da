package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token fails signature, expiry, or
	// shape checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSigning is returned when signing fails. It propagates to the caller.
	ErrSigning = errors.New("token signing failed")
)

// RefreshTokenTTL is the default refresh token lifetime.
const RefreshTokenTTL = 7 * 24 * time.Hour

// TokenService signs and verifies HS256 bearer tokens. Rotating the secret
// invalidates every outstanding token.
type TokenService struct {
	secret     []byte
	refreshTTL time.Duration
}

// NewTokenService creates a token service. A refreshTTL of 0 falls back to
// RefreshTokenTTL.
func NewTokenService(secret string, refreshTTL time.Duration) *TokenService {
	if refreshTTL == 0 {
		refreshTTL = RefreshTokenTTL
	}
	return &TokenService{secret: []byte(secret), refreshTTL: refreshTTL}
}

// Issue signs the given claims. If ttl > 0 an absolute expiration is
// embedded; otherwise the token never expires.
func (s *TokenService) Issue(claims map[string]interface{}, ttl time.Duration) (string, error) {
	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	if ttl > 0 {
		mc["exp"] = jwt.NewNumericDate(time.Now().Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return signed, nil
}

// IssuePair issues the sign-in token pair for a subject: an access token
// without expiration and a refresh token bounded by the configured TTL.
func (s *TokenService) IssuePair(subject string) (access, refresh string, err error) {
	access, err = s.Issue(map[string]interface{}{"sub": subject}, 0)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.Issue(map[string]interface{}{"sub": subject}, s.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Validate parses and verifies a token, returning its subject. Expired or
// tampered tokens are rejected with ErrInvalidToken.
func (s *TokenService) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}
