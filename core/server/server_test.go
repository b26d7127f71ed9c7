package server_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailrelay/core/server"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("ok"))
})

func waitForAddr(t *testing.T, srv *server.Server) string {
	t.Helper()

	var addr string
	require.Eventually(t, func() bool {
		addr = srv.Addr()
		_, port, err := net.SplitHostPort(addr)
		return err == nil && port != "0"
	}, 2*time.Second, 10*time.Millisecond)
	return addr
}

func TestServer_RunAndShutdown(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, okHandler)() }()

	addr := waitForAddr(t, srv)

	resp, err := http.Get("http://" + addr + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}

	_, err = net.DialTimeout("tcp", addr, 200*time.Millisecond)
	assert.Error(t, err)
}

func TestServer_BindError(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := server.New(ln.Addr().String())
	err = srv.Start(context.Background(), okHandler)
	assert.ErrorIs(t, err, server.ErrListen)

	err = server.Run(context.Background(), ln.Addr().String(), okHandler)
	assert.ErrorIs(t, err, server.ErrListen)
}

func TestServer_AlreadyRunning(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = srv.Start(ctx, okHandler) }()
	waitForAddr(t, srv)

	assert.ErrorIs(t, srv.Start(ctx, okHandler), server.ErrServerAlreadyRunning)
	assert.NoError(t, srv.Stop())
	assert.NoError(t, srv.Stop())
}

func TestServer_StopWhenNotRunning(t *testing.T) {
	t.Parallel()

	assert.NoError(t, server.New("127.0.0.1:0").Stop())
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("creates server from config with defaults", func(t *testing.T) {
		t.Parallel()

		cfg := server.DefaultConfig()
		assert.Equal(t, "127.0.0.1:3000", cfg.Addr)

		srv, err := server.NewFromConfig(cfg)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:3000", srv.Addr())
	})

	t.Run("allows overriding config values with options", func(t *testing.T) {
		t.Parallel()

		srv, err := server.NewFromConfig(
			server.Config{Addr: "127.0.0.1:0", ShutdownTimeout: 30 * time.Second},
			server.WithShutdownTimeout(10*time.Second),
			server.WithLogger(nil),
		)
		require.NoError(t, err)
		assert.NotNil(t, srv)
	})

	t.Run("fails without address", func(t *testing.T) {
		t.Parallel()

		srv, err := server.NewFromConfig(server.Config{ReadTimeout: 10 * time.Second})
		assert.ErrorIs(t, err, server.ErrMissingAddress)
		assert.Nil(t, srv)
	})

	t.Run("fails on address without port", func(t *testing.T) {
		t.Parallel()

		srv, err := server.NewFromConfig(server.Config{Addr: "127.0.0.1"})
		assert.ErrorIs(t, err, server.ErrInvalidAddress)
		assert.Nil(t, srv)
	})
}
