package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/ratelimit"
	_ "github.com/vncsmyrnk/teknikoz-api/internal/docs"
)

type RouterConfig struct {
	AllowedOrigins []string
	// GoogleSignIn mounts POST /api/auth/google.
	GoogleSignIn bool
}

type Handlers struct {
	Auth      *AuthHandler
	Contacts  *ContactHandler
	Brochures *BrochureHandler
}

func NewHandler(cfg RouterConfig, h Handlers, mw *Middleware) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(RequestContext)

	limit := mw.RateLimit
	admin := func(r chi.Router, p ratelimit.Policy) chi.Router {
		return r.With(limit(p), mw.Authenticate, RequireAdmin)
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to Teknikoz University API"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "OK", "message": "Teknikoz University API is running"})
		})

		r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/api/docs/index.html", http.StatusMovedPermanently)
		})
		r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/api/docs/doc.json")))

		r.Route("/auth", func(r chi.Router) {
			r.With(limit(ratelimit.Auth)).Post("/signup", h.Auth.Signup)
			r.With(limit(ratelimit.Auth)).Post("/login", h.Auth.Login)
			if cfg.GoogleSignIn {
				r.With(limit(ratelimit.Auth)).Post("/google", h.Auth.GoogleLogin)
			}
			r.With(limit(ratelimit.General)).Post("/refresh-token", h.Auth.RefreshToken)
			r.With(limit(ratelimit.General)).Post("/revoke-token", h.Auth.RevokeToken)
			r.With(limit(ratelimit.General)).Post("/logout", h.Auth.Logout)
			r.With(limit(ratelimit.General), mw.Authenticate).Get("/profile", h.Auth.Profile)
			r.With(limit(ratelimit.Auth), mw.Authenticate).Post("/revoke-all-tokens", h.Auth.RevokeAllTokens)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.With(limit(ratelimit.ContactForm)).Post("/", h.Contacts.Create)
			admin(r, ratelimit.Admin).Get("/", h.Contacts.List)
			admin(r, ratelimit.Admin).Get("/email/{email}", h.Contacts.ListByEmail)
			admin(r, ratelimit.General).Get("/{id}", h.Contacts.Get)
			admin(r, ratelimit.Admin).Put("/{id}", h.Contacts.Update)
			admin(r, ratelimit.Admin).Delete("/{id}", h.Contacts.Delete)
		})

		r.Route("/brochure-requests", func(r chi.Router) {
			r.With(limit(ratelimit.BrochureForm)).Post("/", h.Brochures.Create)
			admin(r, ratelimit.Admin).Get("/", h.Brochures.List)
			admin(r, ratelimit.Admin).Get("/pending/email-delivery", h.Brochures.Pending)
			admin(r, ratelimit.Admin).Get("/stats/email-delivery", h.Brochures.Stats)
			admin(r, ratelimit.General).Get("/contact/{contactId}", h.Brochures.ListByContact)
			admin(r, ratelimit.General).Get("/{id}", h.Brochures.Get)
			admin(r, ratelimit.Admin).Post("/{id}/resend", h.Brochures.Resend)
			admin(r, ratelimit.Admin).Delete("/{id}", h.Brochures.Delete)
		})
	})

	return r
}
