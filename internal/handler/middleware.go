package handler

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mbeckett/carworth/internal/domain"
	"github.com/mbeckett/carworth/internal/service"
	"github.com/mbeckett/carworth/internal/session"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// UserFromContext extracts the resolved current user from the request
// context. Returns nil if no user is signed in (or the resolver did not run,
// which downstream gates treat the same way).
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// Authenticated reports whether the request context carries a resolved user.
// It never queries storage; it trusts that CurrentUser already ran.
func Authenticated(ctx context.Context) bool {
	return UserFromContext(ctx) != nil
}

// IsAdmin reports whether the resolved user exists and has the admin flag.
// An absent user is a plain denial, not an error.
func IsAdmin(ctx context.Context) bool {
	user := UserFromContext(ctx)
	return user != nil && user.IsAdmin
}

// CurrentUser resolves the session's userId to a user record once per
// request and injects it into the context, before any gate or handler runs.
// A missing userId, or one pointing at a deleted account, leaves the request
// unauthenticated rather than failing it.
func CurrentUser(sessions *session.Manager, users domain.UserRepository, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sessions.Read(r)
		if id, ok := sess.UserID(); ok {
			user, err := users.GetByID(r.Context(), id)
			switch {
			case err == nil:
				ctx := context.WithValue(r.Context(), userContextKey, user)
				r = r.WithContext(ctx)
			case errors.Is(err, domain.ErrNotFound):
				// Stale session; proceed unauthenticated.
			default:
				slog.Error("resolve current user", "error", err, "user_id", id)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth gates a route on a resolved user. Denial ends the request with
// 401 before the handler body runs.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !Authenticated(r.Context()) {
			writeError(w, http.StatusUnauthorized, "Not authenticated.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin gates a route on a resolved admin user.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !Authenticated(r.Context()) {
			writeError(w, http.StatusUnauthorized, "Not authenticated.")
			return
		}
		if !IsAdmin(r.Context()) {
			writeError(w, http.StatusForbidden, "Admin access required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit throttles a route per client IP using the given token bucket.
func RateLimit(limiter *service.TokenBucket, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "Too many requests. Try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SecurityHeaders sets baseline security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs each request with a generated request id, method, path,
// status and duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		slog.Info("request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"remote", clientIP(r),
		)
	})
}
