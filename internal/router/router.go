// Package router sets up all HTTP routes and middleware chains for the
// LeadPress API. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"leadpress/internal/handlers"
	"leadpress/internal/middleware"
	"leadpress/internal/session"
)

// Intake rate limit: 5 submissions per IP per minute.
const (
	intakeLimit  = 5
	intakeWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	intakeLimiter := middleware.NewRateLimiter(intakeLimit, intakeWindow)

	r.Route("/api", func(r chi.Router) {
		// Public blog reads.
		r.Route("/blog", func(r chi.Router) {
			r.Get("/", public.ListPosts)
			r.Get("/search", public.SearchPosts)
			r.Get("/sidebar", public.Sidebar)
			r.Get("/{slug}", public.GetPost)
		})

		// Intake forms — rate-limited per IP.
		r.Group(func(r chi.Router) {
			r.Use(intakeLimiter.Middleware)
			r.Post("/contact", public.Contact)
			r.Post("/houzez-apply", public.Apply)
		})

		// Admin API.
		r.Route("/admin", func(r chi.Router) {
			// Auth endpoints — accessible without a session.
			r.Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)
			r.Get("/session", auth.Session)

			// 2FA — requires a session but NOT completed 2FA.
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)

			// Authenticated admin area.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)

				r.Get("/stats", admin.Stats)

				r.Route("/blog", func(r chi.Router) {
					r.Get("/", admin.ListPosts)
					r.Post("/", admin.CreatePost)
					r.Get("/{id}", admin.GetPost)
					r.Patch("/{id}", admin.UpdatePost)
					r.Put("/{id}", admin.UpdatePost)
					r.Delete("/{id}", admin.DeletePost)
					r.Post("/{id}/duplicate", admin.DuplicatePost)
				})

				r.Route("/categories", func(r chi.Router) {
					r.Get("/", admin.ListCategories)
					r.Post("/", admin.CreateCategory)
					r.Patch("/{id}", admin.UpdateCategory)
					r.Put("/{id}", admin.UpdateCategory)
					r.Delete("/{id}", admin.DeleteCategory)
				})

				r.Route("/tags", func(r chi.Router) {
					r.Get("/", admin.ListTags)
					r.Post("/", admin.CreateTag)
					r.Post("/bulk", admin.CreateTagsBulk)
					r.Patch("/{id}", admin.UpdateTag)
					r.Put("/{id}", admin.UpdateTag)
					r.Delete("/{id}", admin.DeleteTag)
				})

				r.Route("/leads", func(r chi.Router) {
					r.Get("/", admin.ListLeads)
					r.Get("/{id}", admin.GetLead)
					r.Patch("/{id}", admin.UpdateLead)
					r.Put("/{id}", admin.UpdateLead)
					r.Delete("/{id}", admin.DeleteLead)
				})

				r.Route("/applications", func(r chi.Router) {
					r.Get("/", admin.ListApplications)
					r.Get("/{id}", admin.GetApplication)
					r.Patch("/{id}", admin.UpdateApplication)
					r.Put("/{id}", admin.UpdateApplication)
					r.Delete("/{id}", admin.DeleteApplication)
				})

				r.Route("/media", func(r chi.Router) {
					r.Post("/", admin.MediaUpload)
					r.Delete("/", admin.MediaDelete)
				})
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
