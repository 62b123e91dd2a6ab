package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/glefebvre/mediathek/internal/logger"
)

// Hook releases one resource when the process stops
type Hook struct {
	Name string
	Fn   func(context.Context) error
}

// Handler runs registered hooks once, on a signal or on demand
type Handler struct {
	mu             sync.Mutex
	hooks          []Hook
	timeout        time.Duration
	signalChan     chan os.Signal
	shutdownChan   chan struct{}
	isShuttingDown bool
	log            *logger.Logger
}

// New creates a handler whose hooks share one deadline of timeout
func New(timeout time.Duration) *Handler {
	return &Handler{
		timeout:      timeout,
		signalChan:   make(chan os.Signal, 1),
		shutdownChan: make(chan struct{}),
		log:          logger.AppLogger(),
	}
}

// Register adds a named hook. Hooks run concurrently.
func (h *Handler) Register(name string, fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, Hook{Name: name, Fn: fn})
}

// Wait blocks until SIGINT, SIGTERM or TriggerShutdown, then runs the hooks
func (h *Handler) Wait() error {
	signal.Notify(h.signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(h.signalChan)

	sig := <-h.signalChan
	h.log.WithFields(map[string]interface{}{"signal": sig.String()}).Info("shutdown requested")
	return h.Shutdown()
}

// Shutdown runs every hook and returns the first error, or the context error
// when the deadline passes first. Later calls do nothing.
func (h *Handler) Shutdown() error {
	h.mu.Lock()
	if h.isShuttingDown {
		h.mu.Unlock()
		return nil
	}
	h.isShuttingDown = true
	hooks := append([]Hook(nil), h.hooks...)
	h.mu.Unlock()

	close(h.shutdownChan)

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	var wg sync.WaitGroup
	errChan := make(chan error, len(hooks))

	for _, hook := range hooks {
		wg.Add(1)
		go func(hook Hook) {
			defer wg.Done()
			if err := hook.Fn(ctx); err != nil {
				h.log.WithFields(map[string]interface{}{"hook": hook.Name}).Error("shutdown hook failed", err)
				errChan <- err
				return
			}
			h.log.WithFields(map[string]interface{}{"hook": hook.Name}).Debug("shutdown hook finished")
		}(hook)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		close(errChan)
		for err := range errChan {
			return err
		}
		return nil
	case <-ctx.Done():
		h.log.Warn("shutdown deadline exceeded")
		return ctx.Err()
	}
}

// IsShuttingDown reports whether Shutdown has started
func (h *Handler) IsShuttingDown() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.isShuttingDown
}

// ShutdownChan is closed when Shutdown starts
func (h *Handler) ShutdownChan() <-chan struct{} {
	return h.shutdownChan
}

// TriggerShutdown makes a pending Wait return as if SIGTERM arrived
func (h *Handler) TriggerShutdown() {
	select {
	case h.signalChan <- syscall.SIGTERM:
	default:
	}
}
