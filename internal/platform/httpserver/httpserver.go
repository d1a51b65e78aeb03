// Package httpserver builds the process HTTP server.
package httpserver

import (
	"net/http"
	"time"

	"shareholder/internal/platform/config"
)

const readHeaderTimeout = 5 * time.Second

// New returns a server for handler using the timeouts in cfg. Zero timeouts
// are left unset.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
