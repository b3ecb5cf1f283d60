// Package async provides handles for the non-blocking send surface.
package async

import (
	"context"
	"sync"
	"time"

	"github.com/kart-io/slackhook/pkg/receipt"
)

// State represents the state of an async operation.
type State string

const (
	StatePending   State = "pending"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Result represents the outcome of an async send.
type Result struct {
	Receipt *receipt.Receipt
	Err     error
}

// Handle represents a single in-flight send. The caller may wait on it,
// consume the result channel, or register callbacks.
type Handle struct {
	id string

	mu         sync.Mutex
	state      State
	done       bool
	result     Result
	onComplete func(*receipt.Receipt)
	onError    func(error)

	resultCh chan Result
}

// NewHandle creates a pending handle.
func NewHandle(id string) *Handle {
	return &Handle{
		id:       id,
		state:    StatePending,
		resultCh: make(chan Result, 1),
	}
}

// Go starts fn in its own goroutine and returns a handle for its outcome.
func Go(id string, fn func() (*receipt.Receipt, error)) *Handle {
	h := NewHandle(id)
	go func() {
		rcpt, err := fn()
		h.SetResult(Result{Receipt: rcpt, Err: err})
	}()
	return h
}

// ID returns the handle ID.
func (h *Handle) ID() string {
	return h.id
}

// State returns the current state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Result returns the result channel. It receives exactly one value.
func (h *Handle) Result() <-chan Result {
	return h.resultCh
}

// Wait blocks until the send completes or the context is done. Cancelling
// the context abandons the wait, not the underlying network operation.
func (h *Handle) Wait(ctx context.Context) (*receipt.Receipt, error) {
	select {
	case result := <-h.resultCh:
		if result.Err != nil {
			return nil, result.Err
		}
		return result.Receipt, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// OnComplete registers a callback invoked when the send succeeds. If the
// send already completed, the callback fires immediately.
func (h *Handle) OnComplete(callback func(*receipt.Receipt)) *Handle {
	h.mu.Lock()
	if h.done {
		result := h.result
		h.mu.Unlock()
		if result.Err == nil {
			callback(result.Receipt)
		}
		return h
	}
	h.onComplete = callback
	h.mu.Unlock()
	return h
}

// OnError registers a callback invoked when the send fails. If the send
// already failed, the callback fires immediately.
func (h *Handle) OnError(callback func(error)) *Handle {
	h.mu.Lock()
	if h.done {
		result := h.result
		h.mu.Unlock()
		if result.Err != nil {
			callback(result.Err)
		}
		return h
	}
	h.onError = callback
	h.mu.Unlock()
	return h
}

// SetResult completes the handle and fires any registered callbacks.
func (h *Handle) SetResult(result Result) {
	h.mu.Lock()
	if h.done {
		h.mu.Unlock()
		return
	}
	h.done = true
	h.result = result
	if result.Err != nil {
		h.state = StateFailed
	} else {
		h.state = StateCompleted
	}
	onComplete := h.onComplete
	onError := h.onError
	h.mu.Unlock()

	h.resultCh <- result

	if result.Err != nil {
		if onError != nil {
			onError(result.Err)
		}
	} else if onComplete != nil {
		onComplete(result.Receipt)
	}
}

// BatchResult represents the outcome of an async batch send. Receipts holds
// the receipts of messages accepted before the first failure.
type BatchResult struct {
	Receipts []*receipt.Receipt
	Err      error
}

// BatchHandle represents an in-flight batch send.
type BatchHandle struct {
	id string

	mu    sync.Mutex
	state State

	resultCh chan BatchResult
}

// GoBatch starts fn in its own goroutine and returns a batch handle.
func GoBatch(id string, fn func() ([]*receipt.Receipt, error)) *BatchHandle {
	bh := &BatchHandle{
		id:       id,
		state:    StatePending,
		resultCh: make(chan BatchResult, 1),
	}
	go func() {
		receipts, err := fn()
		bh.mu.Lock()
		if err != nil {
			bh.state = StateFailed
		} else {
			bh.state = StateCompleted
		}
		bh.mu.Unlock()
		bh.resultCh <- BatchResult{Receipts: receipts, Err: err}
	}()
	return bh
}

// ID returns the batch handle ID.
func (bh *BatchHandle) ID() string {
	return bh.id
}

// State returns the current state.
func (bh *BatchHandle) State() State {
	bh.mu.Lock()
	defer bh.mu.Unlock()
	return bh.state
}

// Result returns the result channel. It receives exactly one value.
func (bh *BatchHandle) Result() <-chan BatchResult {
	return bh.resultCh
}

// Wait blocks until the whole batch completes or the context is done.
func (bh *BatchHandle) Wait(ctx context.Context) ([]*receipt.Receipt, error) {
	select {
	case result := <-bh.resultCh:
		return result.Receipts, result.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GenerateID generates a handle ID from the current time.
func GenerateID(prefix string) string {
	return prefix + "-" + time.Now().Format("20060102150405.000000000")
}
