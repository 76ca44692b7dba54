package shutdown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShutdownRunsHooksInReverseOnce(t *testing.T) {
	m := NewManager(context.Background(), nil)
	var order []int
	m.Register(func() { order = append(order, 1) })
	m.Register(func() { order = append(order, 2) })

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, []int{2, 1}, order)
	assert.ErrorIs(t, m.Context().Err(), context.Canceled)
}

func TestHookMayRegisterDuringShutdown(t *testing.T) {
	m := NewManager(context.Background(), nil)
	ran := false
	m.Register(func() {
		m.Register(func() {})
		ran = true
	})

	finished := make(chan struct{})
	go func() {
		m.Shutdown()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("shutdown blocked on a hook that registers")
	}
	assert.True(t, ran)
}

func TestShutdownDoesNotWaitForeverOnHook(t *testing.T) {
	old := HookTimeout
	HookTimeout = 10 * time.Millisecond
	defer func() { HookTimeout = old }()

	block := make(chan struct{})
	defer close(block)

	m := NewManager(context.Background(), nil)
	m.Register(func() { <-block })

	start := time.Now()
	m.Shutdown()
	assert.Less(t, time.Since(start), time.Second)
}

func TestParentCancellationPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	m := NewManager(parent, nil)
	m.Listen()
	cancel()
	assert.ErrorIs(t, m.Context().Err(), context.Canceled)
	m.Shutdown()
}
