package adapter

import (
	"net"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidhttp/corvid"
)

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig(":8080")
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 120*time.Second, cfg.IdleTimeout)
	assert.NotNil(t, cfg.Logger)
}

func TestNewServerDefaultsNilLogger(t *testing.T) {
	b := New(corvid.New(), "")
	cfg := ServerConfig{Addr: ":0"}
	srv := newServer(b, cfg)
	assert.Equal(t, ":0", srv.Addr)
}

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServeWithGracefulShutdownStopsOnSIGTERM(t *testing.T) {
	router := corvid.New()
	router.GET("/ping", func(c *corvid.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	b := New(router, "")
	cfg := DefaultServerConfig(freePort(t))
	cfg.ShutdownTimeout = time.Second

	done := make(chan error, 1)
	go func() {
		done <- ServeWithGracefulShutdown(b, cfg)
	}()

	// give the listener a moment to come up
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://" + cfg.Addr + "/ping")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}
