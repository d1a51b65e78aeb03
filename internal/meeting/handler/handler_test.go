package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareholder/internal/meeting"
	"shareholder/pkg/platform/audit"
	"shareholder/pkg/platform/audit/publisher"
	"shareholder/pkg/platform/audit/store/memory"
	localemw "shareholder/pkg/platform/middleware/locale"
	"shareholder/pkg/testutil"
)

func newTestRouter(t *testing.T) (http.Handler, *memory.InMemoryStore) {
	t.Helper()
	events := memory.NewInMemoryStore()
	pub := publisher.NewPublisher(events)
	t.Cleanup(pub.Close)

	h := New(meeting.Default(), pub, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Use(localemw.Negotiate(nil))
	h.Register(r)
	return r, events
}

func TestHandleInfo(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("thai by default", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/meeting"))
		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[InfoResponse](t, rr)
		assert.Equal(t, "กรุณาติดต่อฝ่ายนักลงทุนสัมพันธ์ หากมีข้อสงสัย", resp.Remark)
		assert.Equal(t, "Please contact Investor Relations if you have any questions", resp.RemarkEN)
		assert.NotEmpty(t, resp.LogoURL)
	})

	t.Run("english on request", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/meeting")
		req.Header.Set("Accept-Language", "en-GB")
		rr := testutil.DoRequest(router, req)
		resp := testutil.UnmarshalResponse[InfoResponse](t, rr)
		assert.Equal(t, "Please contact Investor Relations if you have any questions", resp.Remark)
		assert.Equal(t, "Debentureholders Meeting", resp.Title)
	})
}

func TestHandleLinks(t *testing.T) {
	router, _ := newTestRouter(t)
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/debentures"))
	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[LinksResponse](t, rr)
	require.Len(t, resp.Debentures, 10)
	assert.Equal(t, "rq1", resp.Debentures[0].Code)
}

func TestHandleSelect(t *testing.T) {
	testutil.Given(t, "a known debenture code", func(t *testing.T) {
		router, events := newTestRouter(t)
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/debentures/rq2"))

		testutil.Then(t, "the holder is redirected to its form", func(t *testing.T) {
			testutil.AssertRedirect(t, rr, "https://example.com/form/rq2")
		})
		testutil.Then(t, "the selection is recorded", func(t *testing.T) {
			got, err := events.ListByAction(context.Background(), audit.EventDebentureSelected)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "rq2", got[0].Subject)
			assert.Equal(t, audit.OutcomeOK, got[0].Outcome)
		})
	})

	testutil.Given(t, "an unknown code", func(t *testing.T) {
		router, events := newTestRouter(t)
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/debentures/zz9"))

		testutil.Then(t, "the default form is used", func(t *testing.T) {
			testutil.AssertRedirect(t, rr, "https://example.com/form/default")
			got, err := events.ListByAction(context.Background(), audit.EventDebentureSelected)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, audit.OutcomeNotFound, got[0].Outcome)
		})
	})
}
