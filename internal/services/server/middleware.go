package server

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/temirov/skel/internal/ratelimit"
)

const (
	headerRequestID  = "X-Request-ID"
	headerRetryAfter = "Retry-After"
	errorRateLimited = "rate limit exceeded"
)

// requestIdentifier tags every response with an X-Request-ID, reusing a valid incoming one.
func requestIdentifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestID := request.Header.Get(headerRequestID)
		if _, parseError := uuid.Parse(requestID); parseError != nil {
			requestID = uuid.NewString()
		}
		writer.Header().Set(headerRequestID, requestID)
		next.ServeHTTP(writer, request)
	})
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			started := time.Now()
			wrapped := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)
			next.ServeHTTP(wrapped, request)
			logger.Debug("request",
				zap.String("method", request.Method),
				zap.String("path", request.URL.Path),
				zap.Int("status", wrapped.Status()),
				zap.Int("bytes", wrapped.BytesWritten()),
				zap.Duration("duration", time.Since(started)),
				zap.String("request_id", writer.Header().Get(headerRequestID)),
			)
		})
	}
}

// rateLimited rejects requests once the client address exhausts its window.
func (server Server) rateLimited(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			allowed, retryAfter := limiter.Allow(clientKey(request))
			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				writer.Header().Set(headerRetryAfter, strconv.Itoa(seconds))
				server.writeJSON(writer, http.StatusTooManyRequests, map[string]string{errorFieldName: errorRateLimited})
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

func clientKey(request *http.Request) string {
	host, _, splitError := net.SplitHostPort(request.RemoteAddr)
	if splitError != nil {
		return request.RemoteAddr
	}
	return host
}
