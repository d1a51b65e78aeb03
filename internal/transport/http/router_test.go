package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareholder/pkg/platform/httputil"
	"shareholder/pkg/platform/middleware/request"
	"shareholder/pkg/requestcontext"
	"shareholder/pkg/testutil"
)

type echoHandler struct{}

func (echoHandler) Register(r chi.Router) {
	r.Get("/echo", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"request_id": requestcontext.RequestID(ctx),
			"locale":     requestcontext.Locale(ctx).String(),
		})
	})
}

type recordingObserver struct {
	routes []string
}

func (o *recordingObserver) ObserveRequest(route, _ string, _ float64) {
	o.routes = append(o.routes, route)
}

func newTestRouter(obs request.Observer) http.Handler {
	return NewRouter(Deps{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Observer: obs,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
		Handlers: []Registrar{echoHandler{}},
	})
}

func TestNewRouter(t *testing.T) {
	t.Run("health", func(t *testing.T) {
		rr := testutil.DoRequest(newTestRouter(nil), testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
		assert.NotEmpty(t, rr.Header().Get(request.HeaderRequestID))
	})

	t.Run("metrics", func(t *testing.T) {
		rr := testutil.DoRequest(newTestRouter(nil), testutil.NewRequest(t, http.MethodGet, "/metrics"))
		testutil.AssertStatusOK(t, rr)
		assert.Equal(t, "# metrics", rr.Body.String())
	})

	t.Run("feature handlers see request context", func(t *testing.T) {
		obs := &recordingObserver{}
		req := testutil.NewRequest(t, http.MethodGet, "/echo?lang=en")
		req.Header.Set(request.HeaderRequestID, "req-123")
		rr := testutil.DoRequest(newTestRouter(obs), req)

		testutil.AssertStatusOK(t, rr)
		body := testutil.UnmarshalResponse[map[string]string](t, rr)
		assert.Equal(t, "req-123", (*body)["request_id"])
		assert.Equal(t, "en", (*body)["locale"])
		assert.Equal(t, "en", rr.Header().Get("Content-Language"))
		require.Len(t, obs.routes, 1)
		assert.Equal(t, "/echo", obs.routes[0])
	})

	t.Run("unknown routes return a JSON error", func(t *testing.T) {
		rr := testutil.DoRequest(newTestRouter(nil), testutil.NewRequest(t, http.MethodGet, "/nope"))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})

	t.Run("wrong method", func(t *testing.T) {
		rr := testutil.DoRequest(newTestRouter(nil), testutil.NewRequest(t, http.MethodDelete, "/health"))
		testutil.AssertStatusAndError(t, rr, http.StatusMethodNotAllowed, "method_not_allowed")
	})
}
