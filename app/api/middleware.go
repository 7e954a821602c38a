package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/s4m/pharmacy/models"
)

const RequestIDHeader = "X-Request-ID"

const (
	MsgAuthRequired  = "Authentication required"
	MsgAdminRequired = "Administrator role required"
)

type requestIDKey struct{}

// SessionReader exposes the signed-in user.
type SessionReader interface {
	Current() (*models.User, bool)
}

// RequestID tags every request with an id, reusing the caller's X-Request-ID when present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestIDFrom returns the id set by RequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging writes one line per request once the handler returns.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.LogAttrs(r.Context(), slog.LevelInfo, "request",
				slog.String("request_id", RequestIDFrom(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("elapsed", time.Since(start)),
			)
		})
	}
}

// RequireSession answers 401 while nobody is signed in.
func RequireSession(sessions SessionReader, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := sessions.Current(); !ok {
			WriteError(w, http.StatusUnauthorized, MsgAuthRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin answers 401 without a session and 403 for non-admin users.
func RequireAdmin(sessions SessionReader, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := sessions.Current()
		if !ok {
			WriteError(w, http.StatusUnauthorized, MsgAuthRequired)
			return
		}
		if !user.IsAdmin() {
			WriteError(w, http.StatusForbidden, MsgAdminRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}
