package httpserver

import (
	"net/http"
	"time"

	"rental-app-go/internal/config"
)

const readHeaderTimeout = 5 * time.Second

// New builds the HTTP server. WriteTimeout must exceed the router's 30s
// request timeout.
func New(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
