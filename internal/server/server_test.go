package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	srv := New(Config{Host: "localhost", HTTPPort: 8080}, nil)
	require.NotNil(t, srv)
	assert.NotNil(t, srv.HTTPMux())
	assert.Empty(t, srv.Addr())
}

func TestServer_StartServeStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.HTTPPort = 0
	srv := New(cfg, nil)
	srv.RegisterHTTPHandler("GET /ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	require.Eventually(t, func() bool { return srv.Addr() != "" }, time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + srv.Addr() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	assert.NoError(t, srv.Stop(context.Background()))
	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("server did not stop in time")
	}
}

func TestServer_Start_AlreadyStarted(t *testing.T) {
	srv := New(Config{Host: "127.0.0.1", HTTPPort: 0}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Start(ctx)

	require.Eventually(t, func() bool { return srv.Addr() != "" }, time.Second, 10*time.Millisecond)
	assert.EqualError(t, srv.Start(ctx), "server already started")
	assert.NoError(t, srv.Stop(context.Background()))
}

func TestServer_Start_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := New(Config{Host: "127.0.0.1", HTTPPort: ln.Addr().(*net.TCPAddr).Port}, nil)
	err = srv.Start(context.Background())
	assert.ErrorContains(t, err, "http listen error")
}

func TestServer_StopBeforeStart(t *testing.T) {
	srv := New(Config{}, nil)
	assert.NoError(t, srv.Stop(context.Background()))
}
