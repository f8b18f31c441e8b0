// Package middleware holds the bearer-token guards of the HTTP API.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type ctxKey struct{}

// ErrNoUser is returned by UserID outside an authenticated request.
var ErrNoUser = errors.New("no authenticated user in request context")

// TokenValidator verifies a raw bearer token.
type TokenValidator interface {
	ValidateToken(raw string) (UserIDGetter, error)
}

// UserIDGetter exposes the profile id a token was issued for.
type UserIDGetter interface {
	GetUserID() string
}

// Authenticate rejects requests without a valid bearer token and stores the token's user id in the context.
func Authenticate(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}
			claims, err := tokens.ValidateToken(raw)
			if err != nil {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.GetUserID())))
		})
	}
}

// RequireSelf only lets through requests whose token user matches the {id} path value.
// Wrap it with Authenticate.
func RequireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := UserID(r.Context())
		switch {
		case err != nil:
			unauthorized(w)
		case id != r.PathValue("id"):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID returns the authenticated user id stored by Authenticate.
func UserID(ctx context.Context) (string, error) {
	id, _ := ctx.Value(ctxKey{}).(string)
	if id == "" {
		return "", ErrNoUser
	}
	return id, nil
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != "" && !strings.ContainsAny(token, " \t")
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="skill-monitor"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
