package ui

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"healthmini/internal"
	"healthmini/internal/auth"
	"healthmini/internal/errors"
)

type contextKey string

const (
	ctxKeyUserID    contextKey = "userID"
	ctxKeyRole      contextKey = "role"
	ctxKeyRequestID contextKey = "requestID"
)

// requestID tags every request with a fresh id for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, id)))
	})
}

// requestLogger logs method, path, and duration at debug level.
func requestLogger(log *internal.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug("%s %s (%s) in %s", r.Method, r.URL.Path, requestIDFrom(r.Context()), time.Since(start))
		})
	}
}

// authenticate verifies the bearer token and stores the caller identity in
// the request context. Everything downstream sees only the integer user id.
func (a *App) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, errors.Unauthorized("missing bearer token"))
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		userID, role, err := auth.VerifyToken(tokenString, a.c.Config.Auth.JWTSecret)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
		ctx = context.WithValue(ctx, ctxKeyRole, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin gates the operator endpoints.
func (a *App) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if roleFrom(r.Context()) != "admin" {
			writeError(w, errors.Unauthorized("admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(ctxKeyUserID).(int64)
	return id
}

func roleFrom(ctx context.Context) string {
	role, _ := ctx.Value(ctxKeyRole).(string)
	return role
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}
