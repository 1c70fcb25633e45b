package httpx

import (
	"fmt"
	"net/http"
	"time"

	"github.com/campusdesk/campusdesk/internal/common"
	"github.com/campusdesk/campusdesk/internal/logging"
	"github.com/oklog/ulid/v2"
)

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so that the first one is outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID propagates the caller's X-Request-ID or assigns a new ULID, echoes
// it in the response and stores it in the request context for logging.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(common.RequestIDHeaderName)
			if requestID == "" || len(requestID) > 128 {
				requestID = ulid.Make().String()
			}

			w.Header().Set(common.RequestIDHeaderName, requestID)
			ctx := logging.WithRequestID(r.Context(), requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Recover turns a panic into a generic JSON 500.
func Recover(logger logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					logger.Error(r.Context(), "panic recovered", "error", fmt.Sprint(p), "path", r.URL.Path)
					WriteError(w, http.StatusInternalServerError, "Internal server error.")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog logs one line per request with its status and duration.
func AccessLog(logger logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.status,
				"duration_ms", time.Since(start).Milliseconds(),
			}

			switch {
			case wrapped.status >= 500:
				logger.Error(r.Context(), "request completed with error", attrs...)
			case wrapped.status >= 400:
				logger.Warn(r.Context(), "request completed with client error", attrs...)
			default:
				logger.Info(r.Context(), "request completed", attrs...)
			}
		})
	}
}

// CORS allows browser clients on any origin to call the API.
func CORS() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			h.Set("Access-Control-Expose-Headers", "X-Request-ID")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}
