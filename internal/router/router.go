package router

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/authgate-dev/authgate/internal/middleware"
	"github.com/authgate-dev/authgate/internal/middleware/metrics"
	rl "github.com/authgate-dev/authgate/internal/middleware/ratelimiter"
	"github.com/authgate-dev/authgate/internal/setup"
)

// New creates and configures a mux router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints combined in that subrouter
func New(deps *setup.Dependencies) *mux.Router {
	r := mux.NewRouter()

	// Enable gzip compression for all responses
	r.Use(handlers.CompressHandler)

	// setup CORS for browser clients
	r.Use(handlers.CORS(
		handlers.AllowedOrigins(deps.Config.Public.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	))

	// Strict CSP: JSON API only, no scripts/styles needed
	apiCSP := "default-src 'none'; frame-ancestors 'none'"
	r.Use(mw.SecurityHeadersWithCSP(deps.Config.Public.SecureCookies, apiCSP))

	r.Use(metrics.Middleware)

	// Wildcard OPTIONS handler to avoid 404s for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := deps.Handler

	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Signup: slow per-IP to discourage mass account creation
	signup := r.NewRoute().Subrouter()
	signup.Use(mw.RateLimit(rl.New(1.0/2, 5, 1*time.Hour), mw.GetIP)) // 1 per 2 sec by IP, burst of 5
	signup.Use(mw.GlobalRateLimit(rl.Rps100()))
	signup.HandleFunc("/signup", h.Signup).Methods("POST")

	// Login: stricter per-IP limit to slow credential stuffing
	login := r.NewRoute().Subrouter()
	login.Use(mw.RateLimit(rl.OnceInSecond(), mw.GetIP)) // 1 per second by IP
	login.Use(mw.GlobalRateLimit(rl.Rps1000()))
	login.HandleFunc("/login", h.Login).Methods("POST")

	// Logout and verification carry their own token checks, no rate limits
	r.HandleFunc("/logout", h.Logout).Methods("POST")
	r.HandleFunc("/verify-token", h.VerifyToken).Methods("POST")

	return r
}
