package middleware

import (
	"net"
	"net/http"
	"strconv"

	"holocron/pkg/errors"
	"holocron/pkg/ratelimit"

	"go.uber.org/zap"
)

// RateLimit rejects clients that exceed their per-IP request budget with
// 429. It expects RealIP to have run first.
func RateLimit(limiter *ratelimit.IPRateLimiter, retryAfterSeconds int, errHandler *errors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				// A broken limiter must not take the API down with it.
				logger.Warn("Rate limiter failed", zap.String("ip", ip), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
				errHandler.HandleStatus(w, r, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
