package middleware

import (
	"context"
	"net/http"
	"time"

	"fusefi/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionFrom returns the session resolved by the Identity middleware.
func SessionFrom(ctx context.Context) model.Session {
	if sess, ok := ctx.Value(sessionContextKey).(model.Session); ok {
		return sess
	}
	return model.Session{}
}

// WithSession attaches a session to the context, the same way the
// Identity middleware does.
func WithSession(ctx context.Context, sess model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// CORS adds CORS headers to the response.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-ID, X-User-Name, X-User-Email, X-Session-ID")
		w.Header().Set("Access-Control-Expose-Headers", "X-Session-ID")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Identity resolves the caller's session from headers set by the
// upstream identity gate: X-User-ID for authenticated traffic, else
// X-Session-ID for returning guests. A caller with neither gets a
// fresh guest id, echoed back in the X-Session-ID response header so
// the storefront can stick to it.
func Identity(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Health checks carry no identity
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			var sess model.Session

			if rawUserID := r.Header.Get("X-User-ID"); rawUserID != "" {
				userID, err := uuid.Parse(rawUserID)
				if err != nil {
					logger.Warn().
						Str("path", r.URL.Path).
						Str("user_id", rawUserID).
						Msg("malformed user id header")
					http.Error(w, "unauthorised: malformed user id", http.StatusUnauthorized)
					return
				}
				sess.UserID = &userID
				sess.Name = r.Header.Get("X-User-Name")
				sess.Email = r.Header.Get("X-User-Email")
			} else {
				sess.GuestID = r.Header.Get("X-Session-ID")
				if sess.GuestID == "" {
					sess.GuestID = uuid.NewString()
				}
				w.Header().Set("X-Session-ID", sess.GuestID)
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logging logs HTTP requests with timing information.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.statusCode).
				Dur("duration", duration).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		})
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error().
						Interface("panic", err).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Msg("panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error": "internal server error"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
