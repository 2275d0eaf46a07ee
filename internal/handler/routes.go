package handler

import (
	"net/http"

	"github.com/mbeckett/carworth/internal/domain"
	"github.com/mbeckett/carworth/internal/service"
	"github.com/mbeckett/carworth/internal/session"
)

// Services bundles everything the route table needs.
type Services struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Reports  *service.ReportService
	Messages domain.MessageRepository

	// UserRepo backs the current-user resolver directly; the resolver must
	// not go through a service that could add behavior to the lookup.
	UserRepo domain.UserRepository

	Sessions *session.Manager

	// AuthLimiter throttles the credential endpoints per client IP.
	AuthLimiter *service.TokenBucket
}

// RegisterRoutes sets up all HTTP routes on the given mux. Middleware is
// composed explicitly per route: the current-user resolver always wraps the
// gates, so a gate can never observe a not-yet-resolved state.
func RegisterRoutes(mux *http.ServeMux, svc Services, metrics *Metrics) {
	authHandler := NewAuthHandler(svc.Auth, svc.Sessions)
	usersHandler := NewUsersHandler(svc.Users)
	reportsHandler := NewReportsHandler(svc.Reports)
	messagesHandler := NewMessagesHandler(svc.Messages)

	resolve := func(h http.Handler) http.Handler {
		return CurrentUser(svc.Sessions, svc.UserRepo, h)
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return resolve(RequireAuth(h))
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return resolve(RequireAdmin(h))
	}
	throttled := func(h http.HandlerFunc) http.Handler {
		return RateLimit(svc.AuthLimiter, h)
	}

	// Authentication.
	mux.Handle("POST /api/auth/signup", throttled(authHandler.HandleSignup))
	mux.Handle("POST /api/auth/signin", throttled(authHandler.HandleSignin))
	mux.HandleFunc("POST /api/auth/signout", authHandler.HandleSignout)
	mux.Handle("GET /api/auth/whoami", protected(authHandler.HandleWhoami))

	// User lookup and maintenance.
	mux.HandleFunc("GET /api/auth/{id}", usersHandler.HandleGetUser)
	mux.HandleFunc("GET /api/auth", usersHandler.HandleListUsers)
	mux.Handle("PATCH /api/auth/{id}", protected(usersHandler.HandleUpdateUser))
	mux.Handle("DELETE /api/auth/{id}", protected(usersHandler.HandleDeleteUser))

	// Reports.
	mux.Handle("POST /api/reports", protected(reportsHandler.HandleCreateReport))
	mux.Handle("PATCH /api/reports/{id}", adminOnly(reportsHandler.HandleApproveReport))
	mux.Handle("GET /api/reports/mine", protected(reportsHandler.HandleMyReports))
	mux.HandleFunc("GET /api/reports", reportsHandler.HandleEstimate)

	// Messages.
	mux.HandleFunc("GET /api/messages", messagesHandler.HandleListMessages)
	mux.HandleFunc("GET /api/messages/{id}", messagesHandler.HandleGetMessage)
	mux.HandleFunc("POST /api/messages", messagesHandler.HandleCreateMessage)

	// Operational endpoints.
	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /metrics", metrics.Handler())
}
