package main

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glefebvre/mediathek/internal/shutdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeUntilStopped_WaitsForHooks(t *testing.T) {
	handler := shutdown.New(2 * time.Second)

	listening := make(chan struct{})
	closed := make(chan struct{})
	var drained atomic.Bool

	handler.Register("http", func(ctx context.Context) error {
		close(closed)
		time.Sleep(200 * time.Millisecond)
		drained.Store(true)
		return nil
	})

	run := func() error {
		close(listening)
		<-closed
		return nil
	}

	result := make(chan error, 1)
	go func() { result <- serveUntilStopped(run, handler) }()

	<-listening
	handler.TriggerShutdown()

	select {
	case err := <-result:
		require.NoError(t, err)
		assert.True(t, drained.Load(), "returned before the hook finished")
	case <-time.After(5 * time.Second):
		t.Fatal("serveUntilStopped did not return")
	}
}

func TestServeUntilStopped_ReturnsHookError(t *testing.T) {
	handler := shutdown.New(time.Second)
	hookErr := stderrors.New("flush failed")

	closed := make(chan struct{})
	handler.Register("http", func(ctx context.Context) error {
		close(closed)
		return nil
	})
	handler.Register("metrics", func(ctx context.Context) error {
		<-closed
		return hookErr
	})

	run := func() error {
		<-closed
		return nil
	}

	handler.TriggerShutdown()
	assert.ErrorIs(t, serveUntilStopped(run, handler), hookErr)
}

func TestServeUntilStopped_ServerError(t *testing.T) {
	handler := shutdown.New(time.Second)
	listenErr := stderrors.New("address already in use")

	err := serveUntilStopped(func() error { return listenErr }, handler)
	assert.ErrorIs(t, err, listenErr)
	assert.False(t, handler.IsShuttingDown())

	handler.TriggerShutdown()
}
