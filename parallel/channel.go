package parallel

import (
	"context"
	"sync"
)

// Channel is a bounded FIFO that, unlike a Go channel, reports sends after
// Close as ErrChannelClosed instead of panicking.  Receivers drain what was
// sent before Close and then see ErrChannelClosed.
type Channel[T any] struct {
	mu       sync.Mutex
	buf      []T
	capacity int
	closed   bool
	changed  chan struct{} // closed and replaced on every state change
}

func NewChannel[T any](capacity int) *Channel[T] {
	return &Channel[T]{capacity: max(1, capacity), changed: make(chan struct{})}
}

// broadcast must be called with mu held.
func (c *Channel[T]) broadcast() {
	close(c.changed)
	c.changed = make(chan struct{})
}

// Send blocks until there is room or ctx ends.
func (c *Channel[T]) Send(ctx context.Context, v T) error {
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return ErrChannelClosed
		}
		if len(c.buf) < c.capacity {
			c.buf = append(c.buf, v)
			c.broadcast()
			c.mu.Unlock()
			return nil
		}
		wait := c.changed
		c.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wait:
		}
	}
}

// TrySend sends without blocking.  It reports false when the buffer is full.
func (c *Channel[T]) TrySend(v T) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, ErrChannelClosed
	}
	if len(c.buf) >= c.capacity {
		return false, nil
	}
	c.buf = append(c.buf, v)
	c.broadcast()
	return true, nil
}

// Recv blocks until a value arrives, the channel is closed and drained, or
// ctx ends.
func (c *Channel[T]) Recv(ctx context.Context) (T, error) {
	for {
		v, ok, err := c.TryRecv()
		if ok || err != nil {
			return v, err
		}
		c.mu.Lock()
		wait := c.changed
		c.mu.Unlock()
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-wait:
		}
	}
}

// TryRecv receives without blocking.  ok is false when nothing is buffered.
func (c *Channel[T]) TryRecv() (v T, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.buf) == 0 {
		if c.closed {
			err = ErrChannelClosed
		}
		return
	}
	v = c.buf[0]
	var zero T
	c.buf[0] = zero
	c.buf = c.buf[1:]
	c.broadcast()
	return v, true, nil
}

func (c *Channel[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.broadcast()
	}
}

func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}
