package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	audit "shareholder/pkg/platform/audit"
	"shareholder/pkg/platform/middleware/metadata"
	request "shareholder/pkg/platform/middleware/request"
)

// HeaderAdminToken carries the operator token for admin-only routes.
const HeaderAdminToken = "X-Admin-Token"

// RequireAdminToken guards admin routes. An empty expectedToken disables the
// routes entirely rather than leaving them open.
func RequireAdminToken(expectedToken string, emitter audit.Emitter, logger *slog.Logger) func(http.Handler) http.Handler {
	if emitter == nil {
		emitter = audit.NopEmitter{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderAdminToken)
			if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				requestID := request.GetRequestID(ctx)
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestID,
				)
				if err := emitter.Emit(ctx, audit.Event{
					Action:    string(audit.EventAdminTokenDenied),
					Subject:   r.URL.Path,
					Outcome:   audit.OutcomeRejected,
					RequestID: requestID,
					ClientIP:  metadata.GetClientIP(ctx),
					Client:    metadata.DescribeClient(metadata.GetUserAgent(ctx)),
				}); err != nil {
					logger.WarnContext(ctx, "failed to emit audit event", "error", err, "request_id", requestID)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
