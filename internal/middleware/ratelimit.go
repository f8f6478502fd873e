package middleware

import (
	"net/http"

	"github.com/authgate-dev/authgate/internal/middleware/ratelimiter"
	"github.com/authgate-dev/authgate/internal/utils"
)

// RateLimit limits requests per identity produced by getIdentity.
func RateLimit(rl *ratelimiter.KeyedRateLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GlobalRateLimit applies one shared bucket to every request.
func GlobalRateLimit(rl *ratelimiter.KeyedRateLimiter) func(http.Handler) http.Handler {
	return RateLimit(rl, func(r *http.Request) (string, error) { return "global", nil })
}

// GetIP is the rate-limit identity function for unauthenticated routes.
func GetIP(r *http.Request) (string, error) {
	return utils.GetIP(r)
}
