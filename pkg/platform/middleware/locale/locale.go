// Package locale negotiates the response language for each request.
package locale

import (
	"net/http"

	platformlocale "shareholder/pkg/platform/locale"
	"shareholder/pkg/requestcontext"
)

// QueryParam overrides Accept-Language when present, e.g. ?lang=en.
const QueryParam = "lang"

// Negotiate stores the best supported language in the request context and
// sets Content-Language on the response.
func Negotiate(l *platformlocale.Localizer) func(http.Handler) http.Handler {
	if l == nil {
		l = platformlocale.Default
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag := l.Match(r.Header.Get("Accept-Language"))
			if q := r.URL.Query().Get(QueryParam); q != "" {
				tag = l.Parse(q)
			}
			w.Header().Set("Content-Language", tag.String())
			next.ServeHTTP(w, r.WithContext(requestcontext.WithLocale(r.Context(), tag)))
		})
	}
}
