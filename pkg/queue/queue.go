// Package queue provides a delivery outbox: messages are enqueued and a
// worker drains them through a client in the background.
package queue

import (
	"context"
	"fmt"

	"github.com/kart-io/slackhook/pkg/message"
)

// Queue is the interface implemented by outbox backends.
type Queue interface {
	// Enqueue adds a message to the outbox.
	Enqueue(ctx context.Context, msg *message.Message) error
	// Dequeue blocks until a message is available or the context is done.
	Dequeue(ctx context.Context) (*message.Message, error)
	// Close releases the backend's resources.
	Close() error
}

// memoryQueue implements Queue with a buffered channel.
type memoryQueue struct {
	ch     chan *message.Message
	closed chan struct{}
}

// NewMemoryQueue creates an in-memory queue holding up to size messages.
func NewMemoryQueue(size int) Queue {
	if size <= 0 {
		size = 100
	}
	return &memoryQueue{
		ch:     make(chan *message.Message, size),
		closed: make(chan struct{}),
	}
}

// Enqueue adds a message, failing when the outbox is full or closed.
func (q *memoryQueue) Enqueue(ctx context.Context, msg *message.Message) error {
	select {
	case <-q.closed:
		return fmt.Errorf("queue closed")
	default:
	}

	select {
	case q.ch <- msg:
		return nil
	case <-q.closed:
		return fmt.Errorf("queue closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue blocks until a message is available.
func (q *memoryQueue) Dequeue(ctx context.Context) (*message.Message, error) {
	select {
	case msg := <-q.ch:
		return msg, nil
	case <-q.closed:
		return nil, fmt.Errorf("queue closed")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close closes the queue. Pending messages are dropped.
func (q *memoryQueue) Close() error {
	select {
	case <-q.closed:
	default:
		close(q.closed)
	}
	return nil
}
