package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"qr-dine/order-svc/internal/domain"
	"qr-dine/order-svc/internal/service"
	"qr-dine/pkg/logger"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

// authenticate resolves a Bearer token into a principal. A missing, malformed
// or rejected token leaves the request anonymous, so only routes that require
// a signed-in caller answer 401.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			h.log.Debug("authenticate", logger.RequestID(r.Context()), "ignoring malformed authorization header")
			next.ServeHTTP(w, r)
			return
		}

		p, err := h.Auth.Authenticate(r.Context(), token)
		if errors.Is(err, domain.ErrUnauthenticated) {
			h.log.Debug("authenticate", logger.RequestID(r.Context()), "token rejected, continuing anonymously",
				slog.String("reason", err.Error()))
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(service.WithPrincipal(r.Context(), p)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		h.log.Debug("http_request", logger.RequestID(r.Context()), "request served",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)))
	})
}
