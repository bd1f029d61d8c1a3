// Package database holds the process-wide store handle.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"devevent/internal/domain"
)

// DialFunc establishes a new store handle.
type DialFunc[T any] func(ctx context.Context) (T, error)

// CloseFunc releases a handle returned by DialFunc.
type CloseFunc[T any] func(ctx context.Context, handle T) error

// DefaultDialTimeout bounds a single shared dial.
const DefaultDialTimeout = 10 * time.Second

var errClosedWhileDialing = errors.New("manager closed while dialing")

// Manager owns a single shared handle that is dialed lazily on first use.
// Concurrent first calls share one dial; a failed dial is not remembered, so
// the next Get tries again. The shared dial is detached from the caller that
// started it, so one caller giving up does not fail the others.
type Manager[T any] struct {
	dial        DialFunc[T]
	close       CloseFunc[T]
	dialTimeout time.Duration

	group singleflight.Group

	mu     sync.RWMutex
	handle T
	ready  bool
	gen    uint64 // bumped by Close; a dial started in an older generation is discarded
}

func NewManager[T any](dial DialFunc[T], close CloseFunc[T]) *Manager[T] {
	return &Manager[T]{dial: dial, close: close, dialTimeout: DefaultDialTimeout}
}

// Get returns the shared handle, dialing it if needed. Dial failures and a
// ctx that ends while waiting wrap domain.ErrConnection.
func (m *Manager[T]) Get(ctx context.Context) (T, error) {
	if h, ok := m.current(); ok {
		return h, nil
	}

	ch := m.group.DoChan("dial", func() (any, error) {
		if h, ok := m.current(); ok {
			return h, nil
		}
		m.mu.RLock()
		gen := m.gen
		m.mu.RUnlock()

		dialCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.dialTimeout)
		defer cancel()
		h, err := m.dial(dialCtx)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		if m.gen != gen {
			m.mu.Unlock()
			if m.close != nil {
				_ = m.close(dialCtx, h)
			}
			return nil, errClosedWhileDialing
		}
		m.handle, m.ready = h, true
		m.mu.Unlock()
		return h, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, fmt.Errorf("%w: %w", domain.ErrConnection, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return zero, fmt.Errorf("%w: %w", domain.ErrConnection, res.Err)
		}
		return res.Val.(T), nil
	}
}

// Close releases the handle if one was established. A dial still in flight
// is closed as soon as it completes. The manager can dial again afterwards.
func (m *Manager[T]) Close(ctx context.Context) error {
	m.mu.Lock()
	h, ready := m.handle, m.ready
	var zero T
	m.handle, m.ready = zero, false
	m.gen++
	m.mu.Unlock()

	if !ready || m.close == nil {
		return nil
	}
	return m.close(ctx, h)
}

func (m *Manager[T]) current() (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.handle, m.ready
}

// Static returns a Manager that always yields handle without dialing. Useful
// when the caller already owns the handle, as in tests.
func Static[T any](handle T) *Manager[T] {
	m := &Manager[T]{}
	m.handle, m.ready = handle, true
	return m
}
