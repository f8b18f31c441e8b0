package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonathan/skill-monitor/internal/config"
	"github.com/jonathan/skill-monitor/internal/server/middleware"
)

// Claims are the registered claims of an API token; the profile id travels as the subject.
type Claims struct {
	jwt.RegisteredClaims
}

// GetUserID implements middleware.UserIDGetter.
func (c *Claims) GetUserID() string {
	return c.Subject
}

// JWTService signs and verifies HS256 bearer tokens.
type JWTService struct {
	cfg *config.JWTConfig
	now func() time.Time
}

// NewJWTService returns a service for cfg.
func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg: cfg, now: time.Now}
}

// GenerateToken issues a token whose subject is userID.
func (s *JWTService) GenerateToken(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("cannot issue token: empty user id")
	}

	issued := s.now()
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    s.cfg.Issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(issued),
		NotBefore: jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(s.cfg.TTL)),
	}}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token for %s: %w", userID, err)
	}
	return signed, nil
}

// ValidateToken verifies signature, issuer and expiry of raw and returns its claims.
func (s *JWTService) ValidateToken(raw string) (*Claims, error) {
	if raw == "" {
		return nil, errors.New("missing token")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	if _, err := parser.ParseWithClaims(raw, claims, s.key); err != nil {
		return nil, classifyTokenError(err)
	}
	if claims.Subject == "" {
		return nil, errors.New("invalid token: no subject")
	}
	return claims, nil
}

func (s *JWTService) key(*jwt.Token) (any, error) {
	return s.cfg.Secret, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("token expired: %w", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("invalid token signature: %w", err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("malformed token: %w", err)
	default:
		return fmt.Errorf("invalid token: %w", err)
	}
}

// tokenValidator lets the middleware package verify tokens without importing server.
type tokenValidator struct{ svc *JWTService }

func (v tokenValidator) ValidateToken(raw string) (middleware.UserIDGetter, error) {
	claims, err := v.svc.ValidateToken(raw)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// AsTokenValidator adapts s to middleware.TokenValidator.
func (s *JWTService) AsTokenValidator() middleware.TokenValidator {
	return tokenValidator{svc: s}
}
