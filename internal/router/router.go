package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/handlers"
	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/metrics"
	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	activitySessionHandler *handlers.ActivitySessionHandler,
	lifecycleHandler *handlers.AccountLifecycleHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware. RequestLogger redacts query tokens, so the beacon
	// close route never leaks credentials into logs.
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))
	r.Use(metrics.Middleware)

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Activity Session Routes ────
		r.Route("/activity-sessions", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/start", activitySessionHandler.Start)
				r.Post("/{id}/background", activitySessionHandler.Background)
				r.Post("/{id}/foreground", activitySessionHandler.Foreground)
			})

			// Close is also hit by sendBeacon during page teardown, which
			// cannot set an Authorization header.
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.BeaconMiddleware)
				r.Post("/{id}/close", activitySessionHandler.Close)
			})
		})

		// ──── Account Lifecycle Routes ────
		r.Route("/account", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/delete", lifecycleHandler.SoftDelete)
			r.Post("/restore", lifecycleHandler.Restore)
		})

		// ──── Admin Routes ────
		// Role enforcement happens in the service against explicit grants;
		// the middleware only resolves identity.
		r.Route("/admin", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/purge", lifecycleHandler.AdminPurge)
			r.Post("/identities/purge", lifecycleHandler.AdminPurgeIdentities)
		})
	})

	return r
}
