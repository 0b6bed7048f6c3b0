package adapter

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corvidhttp/corvid"
)

// ServerConfig configures the http.Server a Bridge is served behind —
// grounded directly on the teacher's App.Run family, generalized from
// App's embedded config fields to a standalone struct since the
// listener is now the adapter's concern, not the router's.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Logger          corvid.Logger
}

// DefaultServerConfig mirrors the teacher's DefaultConfig.
func DefaultServerConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:            addr,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		Logger:          corvid.NopLogger{},
	}
}

// Serve runs b behind a plain http.Server until it returns an error.
func Serve(b *Bridge, cfg ServerConfig) error {
	srv := newServer(b, cfg)
	cfg.Logger.Info("starting server on %s", cfg.Addr)
	return srv.ListenAndServe()
}

// ServeTLS runs b behind an HTTPS http.Server.
func ServeTLS(b *Bridge, cfg ServerConfig, certFile, keyFile string) error {
	srv := newServer(b, cfg)
	cfg.Logger.Info("starting TLS server on %s", cfg.Addr)
	return srv.ListenAndServeTLS(certFile, keyFile)
}

// ServeWithGracefulShutdown runs b until SIGINT/SIGTERM, then drains in
// flight requests within cfg.ShutdownTimeout before returning —
// grounded on the teacher's RunWithGracefulShutdown.
func ServeWithGracefulShutdown(b *Bridge, cfg ServerConfig) error {
	srv := newServer(b, cfg)

	serverErrors := make(chan error, 1)
	go func() {
		cfg.Logger.Info("starting server on %s", cfg.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		cfg.Logger.Info("received signal %v, starting graceful shutdown", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			cfg.Logger.Error("graceful shutdown failed: %v", err)
			return srv.Close()
		}
		cfg.Logger.Info("server stopped gracefully")
	}

	return nil
}

func newServer(b *Bridge, cfg ServerConfig) *http.Server {
	if cfg.Logger == nil {
		cfg.Logger = corvid.NopLogger{}
	}
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      b,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
