package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/easebox-25/easebox-backend/internal/infrastructure/http/handlers"
	"github.com/easebox-25/easebox-backend/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	OAuthHandler        *handlers.OAuthHandler
	VerificationHandler *handlers.VerificationHandler
	UsersHandler        *handlers.UsersHandler
	HealthHandler       *handlers.HealthHandler
	RequireJWT          func(http.Handler) http.Handler
	Log                 zerolog.Logger
	Secure              func(http.Handler) http.Handler
	CORS                func(http.Handler) http.Handler
	IPRateLimit         func(http.Handler) http.Handler
	Metrics             bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.RegisterIndividual)
		r.Post("/register/company", cfg.AuthHandler.RegisterCompany)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/verify-email", cfg.AuthHandler.VerifyEmail)
		r.Post("/refresh", cfg.AuthHandler.Refresh)

		if cfg.OAuthHandler != nil {
			// Callback route first so /{provider} does not shadow it.
			r.Get("/{provider}/callback", cfg.OAuthHandler.Callback)
			r.Get("/{provider}", cfg.OAuthHandler.Begin)
		}

		if cfg.OAuthHandler != nil && cfg.RequireJWT != nil {
			r.Group(func(r chi.Router) {
				r.Use(cfg.RequireJWT)
				r.Get("/link", cfg.OAuthHandler.ListLinks)
				r.Delete("/link/{provider}", cfg.OAuthHandler.Unlink)
			})
		}
	})

	if cfg.VerificationHandler != nil && cfg.RequireJWT != nil {
		r.Route("/verify", func(r chi.Router) {
			r.Use(cfg.RequireJWT)
			r.Post("/id", cfg.VerificationHandler.VerifyID)
		})
	}

	if cfg.UsersHandler != nil && cfg.RequireJWT != nil {
		r.Route("/users", func(r chi.Router) {
			r.Use(cfg.RequireJWT)
			r.Get("/me", cfg.UsersHandler.Me)
		})
	}

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
