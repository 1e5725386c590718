package middleware

import (
	"net"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewIPLimiter создает ограничитель по IP в памяти процесса.
// rate задается в формате ulule/limiter, например "300-M".
func NewIPLimiter(rate string) (*limiter.Limiter, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), parsed), nil
}

// RateLimit ограничивает частоту запросов с одного IP адреса
func RateLimit(l *limiter.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			lctx, err := l.Get(r.Context(), ip)
			if err != nil {
				zerolog.Ctx(r.Context()).Error().Err(err).Str("ip", ip).Msg("failed to get rate limit context")
				writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

			if lctx.Reached {
				zerolog.Ctx(r.Context()).Warn().
					Str("ip", ip).
					Int64("limit", lctx.Limit).
					Msg("rate limit exceeded")
				writeError(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP берет адрес из RemoteAddr, который chimiddleware.RealIP уже заменил на реальный
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
