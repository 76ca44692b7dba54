// Package shutdown cancels in-flight work on SIGINT/SIGTERM and runs
// registered cleanup hooks once.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"imagelab/internal/logger"
)

const component = "Shutdown"

// HookTimeout bounds how long one hook may block shutdown.
var HookTimeout = 10 * time.Second

// Hook is a cleanup function run during shutdown.
type Hook func()

// Manager owns the run context and the cleanup hooks.
type Manager struct {
	mu     sync.Mutex
	hooks  []Hook
	logger logger.Logger
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	stop   func()
}

// NewManager derives the run context from parent.
func NewManager(parent context.Context, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Manager{
		logger: log,
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
		stop:   func() {},
	}
}

// Register adds a hook. Hooks run in reverse registration order.
func (m *Manager) Register(h Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, h)
}

// Listen shuts down on the first interrupt or terminate signal.
func (m *Manager) Listen() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	m.mu.Lock()
	m.stop = func() { signal.Stop(sigChan) }
	m.mu.Unlock()

	go func() {
		select {
		case sig := <-sigChan:
			m.logger.Info(component, "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			m.Shutdown()
		case <-m.done:
		}
	}()
}

// Shutdown cancels the context and runs the hooks. Calls after the first
// are no-ops.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	select {
	case <-m.done:
		m.mu.Unlock()
		return
	default:
		close(m.done)
	}
	hooks := make([]Hook, len(m.hooks))
	copy(hooks, m.hooks)
	stop := m.stop
	m.mu.Unlock()

	stop()
	m.cancel()

	for i := len(hooks) - 1; i >= 0; i-- {
		hook := hooks[i]
		finished := make(chan struct{})
		go func() {
			defer close(finished)
			hook()
		}()

		select {
		case <-finished:
		case <-time.After(HookTimeout):
			m.logger.Warning(component, "shutdown hook timeout", map[string]interface{}{
				"hook_index": i,
			})
		}
	}

	m.logger.Debug(component, "shutdown completed", map[string]interface{}{
		"hooks": len(hooks),
	})
}

// Context is cancelled when shutdown starts.
func (m *Manager) Context() context.Context {
	return m.ctx
}
