package slackhook

import (
	"context"

	"github.com/kart-io/slackhook/pkg/async"
	"github.com/kart-io/slackhook/pkg/message"
	"github.com/kart-io/slackhook/pkg/receipt"
)

// SendTextAsync sends a text message without blocking the caller. The
// returned handle resolves once the response (or transport error) arrives.
func (c *Client) SendTextAsync(ctx context.Context, text string) *async.Handle {
	return async.Go(async.GenerateID("send"), func() (*receipt.Receipt, error) {
		return c.SendText(ctx, text)
	})
}

// SendMessageAsync sends a message without blocking the caller. The async
// path shares the payload mapping and status check of SendMessage.
func (c *Client) SendMessageAsync(ctx context.Context, msg *message.Message) *async.Handle {
	return async.Go(async.GenerateID("send"), func() (*receipt.Receipt, error) {
		return c.SendMessage(ctx, msg)
	})
}

// SendMessagesAsync sends a batch without blocking the caller. The batch
// itself stays strictly sequential: a message is not posted until the
// previous one completed, and the first failure abandons the rest.
func (c *Client) SendMessagesAsync(ctx context.Context, msgs []*message.Message) *async.BatchHandle {
	return async.GoBatch(async.GenerateID("batch"), func() ([]*receipt.Receipt, error) {
		return c.SendMessages(ctx, msgs)
	})
}
