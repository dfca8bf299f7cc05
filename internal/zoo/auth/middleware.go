package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// HTTPMiddleware requires a valid bearer token on requests that change
// records. With an empty secret every request passes.
func HTTPMiddleware(next http.Handler, jwtSecret string, logger *zap.Logger) http.Handler {
	if jwtSecret == "" {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("auth")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isProtectedRequest(r) {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, err := extractTokenFromHeader(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := validateToken(tokenString, jwtSecret)
		if err != nil {
			logger.Debug("rejected token",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		sub, _ := claims.GetSubject()
		next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), sub)))
	})
}

// WithSubject stores the authenticated user on ctx.
func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, userContextKey, sub)
}

// Subject returns the user stored by HTTPMiddleware, if any.
func Subject(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(userContextKey).(string)
	return sub, ok && sub != ""
}

func extractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("invalid authorization format: missing Bearer prefix")
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if tokenString == "" {
		return "", fmt.Errorf("invalid authorization format: empty token")
	}

	return tokenString, nil
}

// isProtectedRequest reports whether r writes to the record API.
func isProtectedRequest(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return strings.HasPrefix(r.URL.Path, "/v1/")
	}
	return false
}
