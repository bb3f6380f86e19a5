package middleware

import (
	"net"
	"net/http"
	"shareit/shared"
	"shareit/shared/constant"
	"shareit/transport/http/response"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"
	unknownUserAgent  = "unknown"
)

// RateLimit allows MaxRequests per fixed window and per caller. A failing
// counter store lets the request through.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limits := a.config.App.RateLimiter
			if !limits.Enable {
				next.ServeHTTP(w, r)

				return
			}

			key := a.limiterKey(r)

			count, err := a.cache.Increment(r.Context(), key, limits.WindowSeconds)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, letting request through")
				next.ServeHTTP(w, r)

				return
			}

			header := w.Header()
			header.Set(constant.RequestHeaderRateLimit, strconv.Itoa(limits.MaxRequests))
			header.Set(constant.RequestHeaderRateLimitRemaining, strconv.FormatInt(max(0, int64(limits.MaxRequests)-count), 10))
			header.Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limits.WindowSeconds))

			if count > int64(limits.MaxRequests) {
				log.Debug().Str("key", key).Int64("count", count).Msg("rate limit exceeded")
				response.WithRequestLimitExceeded(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// limiterKey counts per sharer when the caller identified itself and per client otherwise.
func (a *appMiddleware) limiterKey(r *http.Request) string {
	if userID, ok := r.Context().Value(constant.ContextKeyUserID).(string); ok && userID != "" {
		return shared.BuildCacheKey(cacheKeyRateLimit, "user", userID)
	}

	userAgent := r.Header.Get(constant.RequestHeaderUserAgent)
	if userAgent == "" {
		userAgent = unknownUserAgent
	}

	return shared.BuildCacheKey(cacheKeyRateLimit, clientIP(r), userAgent)
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the socket peer.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get(constant.RequestHeaderForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")

		return strings.TrimSpace(first)
	}

	if realIP := strings.TrimSpace(r.Header.Get(constant.RequestHeaderRealIP)); realIP != "" {
		return realIP
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
