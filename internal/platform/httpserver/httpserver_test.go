package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shareholder/internal/platform/config"
)

func TestNew(t *testing.T) {
	h := http.NotFoundHandler()
	srv := New(config.Server{
		Addr:         ":9090",
		ReadTimeout:  time.Second,
		WriteTimeout: 2 * time.Second,
	}, h)

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, readHeaderTimeout, srv.ReadHeaderTimeout)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, srv.WriteTimeout)
	assert.Zero(t, srv.IdleTimeout)
}
