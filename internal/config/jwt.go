package config

import (
	"fmt"
	"time"
)

const (
	// TokenIssuer is the iss claim of every token the API signs
	TokenIssuer = "skill-monitor"
	// MinJWTSecretLength is the shortest accepted HS256 secret
	MinJWTSecretLength = 16
	// DefaultTokenTTL applies when no expiration is configured
	DefaultTokenTTL = 24 * time.Hour
)

// JWTConfig is the bearer-token setup of the API server.
type JWTConfig struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

// NewJWTConfig builds a token setup from the raw config keys. Zero hours means DefaultTokenTTL.
func NewJWTConfig(secret string, expirationHours int) (*JWTConfig, error) {
	switch {
	case len(secret) < MinJWTSecretLength:
		return nil, fmt.Errorf("config error: 'jwt_secret' must be at least %d bytes, got %d", MinJWTSecretLength, len(secret))
	case expirationHours < 0:
		return nil, fmt.Errorf("config error: 'jwt_expiration_hours' must not be negative, got %d", expirationHours)
	}

	ttl := time.Duration(expirationHours) * time.Hour
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTConfig{Secret: []byte(secret), TTL: ttl, Issuer: TokenIssuer}, nil
}
