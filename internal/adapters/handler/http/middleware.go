package http

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vncsmyrnk/teknikoz-api/internal/adapters/ratelimit"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
	"github.com/vncsmyrnk/teknikoz-api/internal/logging"
)

type principalKey struct{}

func withPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the identity set by Middleware.Authenticate.
func PrincipalFrom(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*domain.Principal)
	return p, ok && p != nil
}

func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// RequestContext copies chi's request id into the logging context.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(logging.WithRequestID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

type Middleware struct {
	auth    ports.AuthService
	limiter ratelimit.Limiter
	logger  logging.Logger
}

func NewMiddleware(auth ports.AuthService, limiter ratelimit.Limiter, logger logging.Logger) *Middleware {
	return &Middleware{auth: auth, limiter: limiter, logger: logger}
}

// Authenticate requires a valid bearer access token and an active account.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !found || token == "" {
			respondError(w, http.StatusUnauthorized, "Access token is required")
			return
		}

		principal, err := m.auth.Authenticate(r.Context(), token)
		switch {
		case errors.Is(err, domain.ErrAccountDeactivated):
			respondError(w, http.StatusUnauthorized, "Account is deactivated")
			return
		case errors.Is(err, domain.ErrInvalidAccessToken):
			respondError(w, http.StatusUnauthorized, "Invalid or expired access token")
			return
		case err != nil:
			writeError(w, r, m.logger, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
	})
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFrom(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "Access token is required")
			return
		}
		if !principal.IsAdmin() {
			respondError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit counts requests per client IP under policy. Limiter failures let
// the request through.
func (m *Middleware) RateLimit(policy ratelimit.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := m.limiter.Allow(r.Context(), clientIP(r), policy)
			if err != nil {
				m.logger.Warn(r.Context(), "rate limiter unavailable", "policy", policy.Name, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			reset := strconv.Itoa(int(math.Ceil(decision.Reset.Seconds())))
			w.Header().Set("RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			w.Header().Set("RateLimit-Reset", reset)

			if !decision.Allowed {
				w.Header().Set("Retry-After", reset)
				respondError(w, http.StatusTooManyRequests, policy.Message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP expects middleware.RealIP to have run.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
