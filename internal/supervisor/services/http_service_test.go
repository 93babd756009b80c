// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/hokuto-labs/anirec/internal/logging"
)

type fakeServer struct {
	serveErr    error
	shutdownErr error
	shutdown    chan struct{}
	release     chan struct{}
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		shutdown: make(chan struct{}, 1),
		release:  make(chan struct{}),
	}
}

func (f *fakeServer) ListenAndServe() error {
	if f.serveErr != nil {
		return f.serveErr
	}
	<-f.release
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(context.Context) error {
	f.shutdown <- struct{}{}
	close(f.release)
	return f.shutdownErr
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	srv := newFakeServer()
	s := NewHTTPService(srv, "127.0.0.1:0", time.Second, logging.NewTestLogger(io.Discard))

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve() did not return after cancel")
	}

	select {
	case <-srv.shutdown:
	default:
		t.Error("Shutdown() was not called")
	}
}

func TestHTTPServiceListenFailure(t *testing.T) {
	srv := newFakeServer()
	srv.serveErr = errors.New("bind failed")
	s := NewHTTPService(srv, "127.0.0.1:0", time.Second, logging.NewTestLogger(io.Discard))

	if err := s.Serve(t.Context()); err == nil || err.Error() != "bind failed" {
		t.Errorf("Serve() error = %v, want bind failure", err)
	}
}

func TestHTTPServiceName(t *testing.T) {
	s := NewHTTPService(newFakeServer(), "", time.Second, logging.NewTestLogger(io.Discard))
	if s.String() != "http-server" {
		t.Errorf("String() = %q", s.String())
	}
}
