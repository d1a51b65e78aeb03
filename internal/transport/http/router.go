package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	dErrors "shareholder/pkg/domain-errors"
	"shareholder/pkg/platform/httputil"
	"shareholder/pkg/platform/locale"
	localemw "shareholder/pkg/platform/middleware/locale"
	"shareholder/pkg/platform/middleware/metadata"
	"shareholder/pkg/platform/middleware/request"
	"shareholder/pkg/platform/middleware/requesttime"
)

// Registrar is implemented by every feature handler.
type Registrar interface {
	Register(r chi.Router)
}

// Deps are the collaborators the router needs. Observer and Metrics may be
// nil.
type Deps struct {
	Logger    *slog.Logger
	Observer  request.Observer
	Localizer *locale.Localizer
	// Metrics serves /metrics when set.
	Metrics  http.Handler
	Handlers []Registrar
}

// NewRouter wires the shared middleware chain, the process endpoints and
// every feature handler.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(localemw.Negotiate(d.Localizer))
	r.Use(request.AccessLog(d.Logger, d.Observer))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no such endpoint"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{
			Error:            "method_not_allowed",
			ErrorDescription: "method not allowed for this endpoint",
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}

	for _, h := range d.Handlers {
		h.Register(r)
	}
	return r
}

// MetricsHandler serves the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
