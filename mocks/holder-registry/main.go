// Command holder-registry serves a fixed, mixed-vintage holder register on
// GET /home for local development and end-to-end tests.
//
// Query parameters:
//
//	shape=single   return the first record as a bare object
//	envelope=false return the payload without the {"success","data"} wrapper
//	status=503     respond with the given status and no records
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

func main() {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8082"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           newMux(os.Getenv("API_KEY")),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("holder-registry listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func newMux(apiKey string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /home", func(w http.ResponseWriter, r *http.Request) {
		if apiKey != "" && r.Header.Get("X-API-Key") != apiKey {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "invalid api key"})
			return
		}
		q := r.URL.Query()
		if s := q.Get("status"); s != "" {
			code, err := strconv.Atoi(s)
			if err == nil && code >= 400 && code <= 599 {
				writeJSON(w, code, map[string]any{"success": false, "error": http.StatusText(code)})
				return
			}
		}

		var payload any = records
		if q.Get("shape") == "single" {
			payload = records[0]
		}
		if q.Get("envelope") != "false" {
			payload = map[string]any{"success": true, "data": payload}
		}
		writeJSON(w, http.StatusOK, payload)
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
