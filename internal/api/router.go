package api

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jbweber/homelab/northwind/internal/auth"
	"github.com/jbweber/homelab/northwind/internal/envelope"
	"github.com/jbweber/homelab/northwind/internal/logging"
	"github.com/jbweber/homelab/northwind/internal/metrics"
)

// Router builds the full HTTP stack: request ids, logging, metrics, panic
// recovery, token authentication and every route. m may be nil.
func (a *API) Router(logger *slog.Logger, m *metrics.Metrics) chi.Router {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(logger))
	if m != nil {
		r.Use(m.Middleware)
	}
	r.Use(recoverer)
	if a.tokens != nil {
		r.Use(auth.Authenticate(a.tokens))
	}

	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}
	a.RegisterRoutes(r)
	return r
}

// recoverer turns a handler panic into a 500 envelope
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				logging.FromContext(r.Context()).Error("panic recovered",
					"panic", rvr,
					"stack", string(debug.Stack()))
				envelope.WriteError(w, http.StatusInternalServerError, internalErrorMessage)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
