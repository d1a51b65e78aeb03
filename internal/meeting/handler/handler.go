package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"shareholder/internal/meeting"
	"shareholder/pkg/platform/audit"
	"shareholder/pkg/platform/httputil"
	"shareholder/pkg/platform/middleware/metadata"
	"shareholder/pkg/platform/middleware/request"
	"shareholder/pkg/requestcontext"
)

// Catalog is the read side of the meeting configuration.
type Catalog interface {
	Info() meeting.Info
	Links() []meeting.Link
	Resolve(code string) string
	Known(code string) bool
}

type Handler struct {
	catalog Catalog
	emitter audit.Emitter
	logger  *slog.Logger
}

func New(catalog Catalog, emitter audit.Emitter, logger *slog.Logger) *Handler {
	if emitter == nil {
		emitter = audit.NopEmitter{}
	}
	return &Handler{catalog: catalog, emitter: emitter, logger: logger}
}

// Register registers the meeting routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/meeting", h.HandleInfo)
	r.Get("/debentures", h.HandleLinks)
	r.Get("/debentures/{code}", h.HandleSelect)
}

type InfoResponse struct {
	meeting.Info
	// Title and Remark are in the negotiated language.
	Title  string `json:"title"`
	Remark string `json:"remark"`
}

type LinksResponse struct {
	Debentures []meeting.Link `json:"debentures"`
}

func (h *Handler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	info := h.catalog.Info()
	resp := InfoResponse{Info: info, Title: info.TitleTH, Remark: info.RemarkTH}
	if isEnglish(r.Context()) {
		resp.Title = info.TitleEN
		resp.Remark = info.RemarkEN
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleLinks(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LinksResponse{Debentures: h.catalog.Links()})
}

// HandleSelect records the choice and redirects to the series' request form.
// Unknown codes go to the default form.
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "code")
	target := h.catalog.Resolve(code)

	outcome := audit.OutcomeOK
	if !h.catalog.Known(code) {
		outcome = audit.OutcomeNotFound
	}
	if err := h.emitter.Emit(ctx, audit.Event{
		Action:    string(audit.EventDebentureSelected),
		Subject:   code,
		Outcome:   outcome,
		Timestamp: requestcontext.Now(ctx),
		RequestID: request.GetRequestID(ctx),
		ClientIP:  metadata.GetClientIP(ctx),
		Client:    metadata.DescribeClient(metadata.GetUserAgent(ctx)),
	}); err != nil {
		h.logger.WarnContext(ctx, "failed to emit activity event",
			"action", audit.EventDebentureSelected,
			"error", err,
		)
	}

	http.Redirect(w, r, target, http.StatusFound)
}

func isEnglish(ctx context.Context) bool {
	base, _ := requestcontext.Locale(ctx).Base()
	english, _ := language.English.Base()
	return base == english
}
