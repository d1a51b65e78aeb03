package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"shareholder/internal/holdings/models"
	"shareholder/internal/holdings/service"
	"shareholder/pkg/domain"
	dErrors "shareholder/pkg/domain-errors"
	"shareholder/pkg/platform/httputil"
	"shareholder/pkg/platform/locale"
	"shareholder/pkg/platform/middleware/request"
	"shareholder/pkg/requestcontext"
)

// Service defines the holdings operations the handler exposes.
type Service interface {
	Search(ctx context.Context, nationalID domain.NationalID) (*service.SearchResult, error)
	List(ctx context.Context, limit int) (*service.ListResult, error)
	Status(ctx context.Context) service.Status
}

// Handler serves holder lookups and the administrative list view.
type Handler struct {
	service   Service
	localizer *locale.Localizer
	logger    *slog.Logger

	searchMiddleware []func(http.Handler) http.Handler
	adminMiddleware  []func(http.Handler) http.Handler
}

type Option func(*Handler)

func WithLocalizer(l *locale.Localizer) Option {
	return func(h *Handler) {
		h.localizer = l
	}
}

// WithSearchMiddleware wraps the search routes, e.g. with a rate limiter.
func WithSearchMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.searchMiddleware = append(h.searchMiddleware, mw...)
	}
}

// WithAdminMiddleware guards the list view.
func WithAdminMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.adminMiddleware = append(h.adminMiddleware, mw...)
	}
}

func New(svc Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service:   svc,
		localizer: locale.Default,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the holdings routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.searchMiddleware...)
		r.Post("/holdings/search", h.HandleSearch)
		r.Get("/holdings/search", h.HandleSearchQuery)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.adminMiddleware...)
		r.Get("/holdings", h.HandleList)
	})
	r.Get("/status", h.HandleStatus)
}

// HandleSearch looks up holdings for the national ID in the JSON body.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.SearchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	h.search(w, r, req.NationalID)
}

// HandleSearchQuery is the GET form of HandleSearch.
func (h *Handler) HandleSearchQuery(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, r.URL.Query().Get("national_id"))
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, raw string) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	tag := h.tag(ctx)

	nationalID, err := domain.ParseNationalID(raw)
	if err != nil {
		h.logger.InfoContext(ctx, "rejected national id",
			"request_id", requestID,
			"length", len(raw),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidNationalID,
			h.localizer.Text(tag, locale.MsgInvalidNationalID)))
		return
	}

	result, err := h.service.Search(ctx, nationalID)
	if err != nil {
		h.logFailure(ctx, "holdings search failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	msg := h.localizer.Text(tag, locale.MsgFound, result.TotalFound)
	if result.TotalFound == 0 {
		msg = h.localizer.Text(tag, locale.MsgNotFound)
	}
	httputil.WriteJSON(w, http.StatusOK, SearchResponse{
		Holdings:   toHoldingResponses(h.localizer, tag, result.Holdings),
		TotalFound: result.TotalFound,
		Message:    msg,
		Source:     result.Source,
		FetchedAt:  result.FetchedAt,
		Stale:      result.Stale,
	})
}

// HandleList returns the register truncated to ?limit= (default all).
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	tag := h.tag(ctx)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	result, err := h.service.List(ctx, limit)
	if err != nil {
		h.logFailure(ctx, "holdings list failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ListResponse{
		Holdings:      toHoldingResponses(h.localizer, tag, result.Holdings),
		Returned:      len(result.Holdings),
		TotalInSource: result.TotalInSource,
		Message:       h.localizer.Text(tag, locale.MsgListed, len(result.Holdings)),
		Source:        result.Source,
		FetchedAt:     result.FetchedAt,
		Stale:         result.Stale,
	})
}

// HandleStatus reports whether the record source is reachable.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := h.service.Status(ctx)

	resp := StatusResponse{
		Online:    status.Online,
		Source:    status.Source,
		Breaker:   status.Breaker,
		CheckedAt: status.CheckedAt,
	}
	if !status.Online {
		resp.Message = h.localizer.Text(h.tag(ctx), locale.MsgSourceOffline)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) tag(ctx context.Context) language.Tag {
	tag := requestcontext.Locale(ctx)
	if tag == language.Und {
		return h.localizer.Fallback()
	}
	return tag
}

func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error) {
	if de, ok := dErrors.As(err); ok && httputil.StatusFor(de.Code) < http.StatusInternalServerError {
		h.logger.InfoContext(ctx, msg, "request_id", requestID, "error", err)
		return
	}
	h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
}
