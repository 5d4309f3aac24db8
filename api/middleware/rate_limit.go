package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/artvia/artvia-backend/api/responses"
	pkgerrors "github.com/artvia/artvia-backend/pkg/errors"
	"github.com/artvia/artvia-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// CounterRateLimitPolicy throttles the like/view counter endpoints,
// which are cheap to spam and directly feed the trending ranking.
type CounterRateLimitPolicy struct {
	name   string
	window time.Duration
	limit  int
}

// NewCounterRateLimitPolicy builds a policy with the supplied window and limit.
func NewCounterRateLimitPolicy(name string, window time.Duration, limit int) CounterRateLimitPolicy {
	return CounterRateLimitPolicy{
		name:   strings.ToLower(strings.TrimSpace(name)),
		window: window,
		limit:  limit,
	}
}

func (p CounterRateLimitPolicy) enabled() bool {
	return p.window > 0 && p.limit > 0
}

func (p CounterRateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "counter"
	}
	return p.name
}

// Keys are per caller: the user id when present, the client IP otherwise.
func (p CounterRateLimitPolicy) key(caller string) string {
	if caller == "" {
		return ""
	}
	return fmt.Sprintf("rl:%s:%s", p.normalizedName(), caller)
}

// CounterRateLimit enforces a fixed-window per-caller counter.
func CounterRateLimit(policy CounterRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			caller := UserIDFromContext(ctx)
			if caller == "" {
				caller = clientIP(r)
			}
			key := policy.key(caller)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			count, err := store.IncrWithTTL(ctx, key, policy.window)
			if err != nil {
				// Redis outage must not take the counters down with it.
				if logg != nil {
					logg.Error(ctx, "rate_limit.store_unavailable", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			if count > int64(policy.limit) {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"policy":         policy.normalizedName(),
						"attempts":       count,
						"limit":          policy.limit,
						"window_seconds": int(policy.window.Seconds()),
					})
					logg.Warn(logCtx, "counter.rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
