package middlewares

import (
	"errors"
	"math"
	"net"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/janhq/rooms-api/internal/infrastructure/metrics"
	"github.com/janhq/rooms-api/internal/infrastructure/ratelimit"
	"github.com/janhq/rooms-api/internal/utils/platformerrors"
)

// Admitter decides whether a request for key may proceed.
type Admitter interface {
	Admit(key string) error
}

// KeyFunc derives the rate-limit key of a request.
type KeyFunc func(c *gin.Context) string

// KeyOptions controls how ForwardedKey attributes a request.
type KeyOptions struct {
	// TrustRemoteAddr keys header-less requests by the connection address.
	TrustRemoteAddr bool
	// TrustedProxies restricts forwarded headers to these peers. Requests
	// from any other peer are keyed by their connection address.
	TrustedProxies []*net.IPNet
}

// ForwardedKey keys requests by the first X-Forwarded-For hop, then
// X-Real-Ip. Unattributable requests share ratelimit.UnknownKey unless
// TrustRemoteAddr is set, in which case the connection address is used.
func ForwardedKey(opts KeyOptions) KeyFunc {
	return func(c *gin.Context) string {
		if len(opts.TrustedProxies) > 0 {
			remote := normalizeIP(c.RemoteIP())
			if !inNetworks(remote, opts.TrustedProxies) {
				if remote == "" {
					return ratelimit.UnknownKey
				}
				return remote
			}
		}
		if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if ip := normalizeIP(first); ip != "" {
				return ip
			}
		}
		if ip := normalizeIP(c.GetHeader("X-Real-Ip")); ip != "" {
			return ip
		}
		if opts.TrustRemoteAddr {
			if ip := normalizeIP(c.RemoteIP()); ip != "" {
				return ip
			}
		}
		return ratelimit.UnknownKey
	}
}

// RateLimit rejects requests over quota with 429 and a Retry-After header.
func RateLimit(limiter Admitter, keyFn KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := limiter.Admit(keyFn(c))
		if err == nil {
			c.Next()
			return
		}

		var exceeded *ratelimit.ExceededError
		if errors.As(err, &exceeded) {
			seconds := int(math.Ceil(exceeded.RetryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
		}
		metrics.RateLimitRejections.Inc()

		platformErr := platformerrors.NewError(c.Request.Context(), platformerrors.LayerRoute,
			platformerrors.ErrorTypeRateLimited, "too many requests, try again later", err)
		platformerrors.WriteHTTPError(c, platformErr, log.Logger)
		c.Abort()
	}
}

func normalizeIP(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if ip := net.ParseIP(raw); ip != nil {
		return ip.String()
	}
	return raw
}

func inNetworks(raw string, networks []*net.IPNet) bool {
	ip := net.ParseIP(raw)
	if ip == nil {
		return false
	}
	for _, network := range networks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
