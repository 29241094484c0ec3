package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"healthmini/internal"
	"healthmini/internal/container"
)

// App is the HTTP surface over the application services.
type App struct {
	router *chi.Mux
	c      *container.Container
	log    *internal.Logger
}

// Config holds HTTP application configuration
type Config struct {
	Port string
}

// NewApp wires the router over an initialized container.
func NewApp(c *container.Container) *App {
	app := &App{
		router: chi.NewRouter(),
		c:      c,
		log:    c.Logger,
	}
	app.setupRoutes()
	return app
}

func (a *App) setupRoutes() {
	a.router.Use(middleware.Recoverer)
	a.router.Use(requestID)
	a.router.Use(requestLogger(a.log))

	// Public account endpoints.
	a.router.Post("/api/users/signup", a.handleSignUp)
	a.router.Post("/api/users/verify-otp", a.handleVerifyOTP)
	a.router.Post("/api/users/login", a.handleLogin)

	// Authenticated endpoints.
	a.router.Group(func(r chi.Router) {
		r.Use(a.authenticate)

		r.Post("/api/assist/advice", a.handleAdvice)
		r.Post("/api/assist/prediction", a.handlePrediction)
		r.Get("/api/chat/history", a.handleAllHistory)
		r.Get("/api/chat/sessions/{sessionID}", a.handleSessionHistory)
		r.Get("/api/chat/sessions/{sessionID}/html", a.handleSessionHistoryHTML)
		r.Delete("/api/users/me", a.handleDeleteAccount)
		r.Post("/api/users/me/plan", a.handleChangePlan)
	})

	// Operator endpoints.
	a.router.Group(func(r chi.Router) {
		r.Use(a.authenticate)
		r.Use(a.requireAdmin)

		r.Post("/api/admin/users", a.handleCreateAdmin)
		r.Get("/api/admin/users", a.handleListUsers)
		r.Get("/api/admin/usage", a.handleUsageSummary)
		r.Get("/api/admin/users/export", a.handleExportUsers)
	})
}

// Router exposes the mux for the HTTP server.
func (a *App) Router() http.Handler {
	return a.router
}
