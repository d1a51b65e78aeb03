package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "shareholder/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "bad_request" {
			t.Fatalf("expected error code bad_request, got %q", body["error"])
		}
		if body["error_description"] != "invalid input" {
			t.Fatalf("expected error_description to be returned for bad request")
		}
	})
}

func TestStatusFor(t *testing.T) {
	tests := map[dErrors.Code]int{
		dErrors.CodeInvalidNationalID: http.StatusBadRequest,
		dErrors.CodeValidation:        http.StatusBadRequest,
		dErrors.CodeUnauthorized:      http.StatusUnauthorized,
		dErrors.CodeRateLimited:       http.StatusTooManyRequests,
		dErrors.CodeInvalidCollection: http.StatusBadGateway,
		dErrors.CodeUnavailable:       http.StatusServiceUnavailable,
		dErrors.CodeInternal:          http.StatusInternalServerError,
		dErrors.Code("unmapped"):      http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, StatusFor(code), string(code))
	}
}

func TestWriteError_PlainErrorIsInternal(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal_error"}`, w.Body.String())
}

type lookupRequest struct {
	NationalID string `json:"national_id"`
}

func (r *lookupRequest) Validate() error {
	r.NationalID = strings.TrimSpace(r.NationalID)
	if r.NationalID == "" {
		return dErrors.New(dErrors.CodeValidation, "national_id is required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	decode := func(body string) (*lookupRequest, bool, *httptest.ResponseRecorder) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req, ok := DecodeAndPrepare[lookupRequest](w, r, nil, context.Background(), "req-1")
		return req, ok, w
	}

	t.Run("valid body is normalized", func(t *testing.T) {
		req, ok, _ := decode(`{"national_id":"  1101001535259 "}`)
		require.True(t, ok)
		assert.Equal(t, "1101001535259", req.NationalID)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, ok, w := decode(`{"national_id":`)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid JSON body")
	})

	t.Run("empty body", func(t *testing.T) {
		_, ok, w := decode(``)
		assert.False(t, ok)
		assert.Contains(t, w.Body.String(), "request body is required")
	})

	t.Run("validation failure", func(t *testing.T) {
		_, ok, w := decode(`{"national_id":"   "}`)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "validation_error")
	})
}
