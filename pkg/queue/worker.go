package queue

import (
	"context"

	"github.com/kart-io/slackhook/pkg/logger"
	"github.com/kart-io/slackhook/pkg/message"
	"github.com/kart-io/slackhook/pkg/receipt"
)

// Sender is the send surface the worker drains messages through. It is
// satisfied by slackhook.Client.
type Sender interface {
	SendMessage(ctx context.Context, msg *message.Message) (*receipt.Receipt, error)
}

// Worker drains an outbox queue sequentially through a sender. Outbox
// delivery is fire-and-forget: a failed send is logged and the worker moves
// on to the next message.
type Worker struct {
	queue  Queue
	sender Sender
	logger logger.Logger
}

// NewWorker creates a worker for the given queue and sender.
func NewWorker(q Queue, sender Sender, l logger.Logger) *Worker {
	if l == nil {
		l = logger.Discard()
	}
	return &Worker{
		queue:  q,
		sender: sender,
		logger: l,
	}
}

// Run processes messages until the context is cancelled or the queue closes.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("outbox worker started")
	for {
		msg, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Info("outbox worker stopped", "reason", ctx.Err())
				return ctx.Err()
			}
			w.logger.Info("outbox worker stopped", "reason", err)
			return err
		}

		if _, err := w.sender.SendMessage(ctx, msg); err != nil {
			w.logger.Error("outbox delivery failed", "error", err)
			continue
		}
		w.logger.Debug("outbox message delivered")
	}
}
