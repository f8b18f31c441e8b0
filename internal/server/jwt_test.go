package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-monitor/internal/config"
)

const testSecret = "server-test-secret-0123456789"

func newTestJWTService(t *testing.T, ttl time.Duration) *JWTService {
	t.Helper()
	return NewJWTService(&config.JWTConfig{Secret: []byte(testSecret), TTL: ttl, Issuer: config.TokenIssuer})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWTService(t, 24*time.Hour)

	token, err := svc.GenerateToken("ana_perez")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ana_perez", claims.GetUserID())
	assert.Equal(t, config.TokenIssuer, claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
}

func TestJWTService_GenerateToken_EmptyUserID(t *testing.T) {
	_, err := newTestJWTService(t, time.Hour).GenerateToken("")
	assert.Error(t, err)
}

func TestJWTService_DistinctSubjects(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)

	for _, id := range []string{"ana", "luis"} {
		token, err := svc.GenerateToken(id)
		require.NoError(t, err)
		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, id, claims.GetUserID())
	}
}

func TestJWTService_ValidateToken_Rejects(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)
	now := time.Now()

	sign := func(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, &Claims{RegisteredClaims: claims}).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := jwt.RegisteredClaims{
		Issuer:    config.TokenIssuer,
		Subject:   "ana",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr string
	}{
		{name: "empty", token: func(*testing.T) string { return "" }, wantErr: "missing"},
		{name: "one part", token: func(*testing.T) string { return "invalid" }, wantErr: "malformed"},
		{name: "garbage parts", token: func(*testing.T) string { return "invalid.base64.signature" }, wantErr: "malformed"},
		{
			name: "other secret",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte("another-secret-0123456789"), valid)
			},
			wantErr: "signature",
		},
		{
			name: "other algorithm",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS512, []byte(testSecret), valid)
			},
			wantErr: "invalid token",
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				c := valid
				c.Issuer = "someone-else"
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: "invalid token",
		},
		{
			name: "no expiry",
			token: func(t *testing.T) string {
				c := valid
				c.ExpiresAt = nil
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: "invalid token",
		},
		{
			name: "no subject",
			token: func(t *testing.T) string {
				c := valid
				c.Subject = ""
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: "no subject",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token(t))
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestJWTService_Expiry(t *testing.T) {
	for _, ttl := range []time.Duration{time.Hour, 12 * time.Hour, 48 * time.Hour} {
		svc := newTestJWTService(t, ttl)
		issued := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return issued }

		token, err := svc.GenerateToken("ana")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, issued.Add(ttl), claims.ExpiresAt.Time.UTC())

		svc.now = func() time.Time { return issued.Add(ttl + time.Minute) }
		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expired")
	}
}
