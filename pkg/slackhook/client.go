// Package slackhook provides the client for posting messages to an
// incoming-webhook endpoint.
package slackhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kart-io/slackhook/pkg/errors"
	"github.com/kart-io/slackhook/pkg/logger"
	"github.com/kart-io/slackhook/pkg/message"
	"github.com/kart-io/slackhook/pkg/receipt"
)

const (
	instrumentationName = "github.com/kart-io/slackhook"
	defaultTimeout      = 30 * time.Second
)

// Client posts messages to a single webhook URL with a default target
// channel. A Client is immutable after construction and safe for concurrent
// use; all per-call state is local to the call.
type Client struct {
	webhookURL string
	channel    string
	userAgent  string
	httpClient *http.Client
	logger     logger.Logger

	tracer       trace.Tracer
	sentTotal    metric.Int64Counter
	failedTotal  metric.Int64Counter
	sendDuration metric.Float64Histogram
}

// New creates a client for the given webhook URL and target channel.
func New(webhookURL, channel string, opts ...Option) (*Client, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("webhook URL is required")
	}

	c := &Client{
		webhookURL: webhookURL,
		channel:    channel,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.Discard(),
		tracer:     otel.Tracer(instrumentationName),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.initInstruments()

	return c, nil
}

// WithChannel returns a new client posting to the given channel instead.
// The receiver is left unchanged.
func (c *Client) WithChannel(channel string) *Client {
	clone := *c
	clone.channel = channel
	return &clone
}

// Channel returns the target channel.
func (c *Client) Channel() string {
	return c.channel
}

// SendText builds a message with only text set and sends it.
func (c *Client) SendText(ctx context.Context, text string) (*receipt.Receipt, error) {
	return c.SendMessage(ctx, message.New().SetText(text))
}

// SendMessage maps the message onto the wire payload with the client's
// channel and posts it. On transport failure it returns a RequestError; on
// any status other than 200, including other 2xx codes, a ResponseError
// carrying the actual status. On status 200 it returns the receipt for the
// caller to inspect further if desired.
func (c *Client) SendMessage(ctx context.Context, msg *message.Message) (*receipt.Receipt, error) {
	ctx, span := c.tracer.Start(ctx, "slackhook.send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("slackhook.channel", c.channel),
			attribute.Int("slackhook.attachments", len(msg.Attachments)),
		),
	)
	defer span.End()

	start := time.Now()
	rcpt, err := c.post(ctx, message.NewPayload(msg, c.channel))
	c.recordSend(ctx, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", rcpt.StatusCode))
	return rcpt, nil
}

// SendMessages sends each message in order, stopping at the first failure.
// It returns the receipts of the messages accepted so far; remaining
// messages are never sent and no rollback is attempted.
func (c *Client) SendMessages(ctx context.Context, msgs []*message.Message) ([]*receipt.Receipt, error) {
	receipts := make([]*receipt.Receipt, 0, len(msgs))
	for i, msg := range msgs {
		rcpt, err := c.SendMessage(ctx, msg)
		if err != nil {
			return receipts, fmt.Errorf("send message %d of %d: %w", i+1, len(msgs), err)
		}
		receipts = append(receipts, rcpt)
	}
	return receipts, nil
}

// post serializes the payload and issues the HTTP POST.
func (c *Client) post(ctx context.Context, payload *message.Payload) (*receipt.Receipt, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewRequestError(c.webhookURL, fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewRequestError(c.webhookURL, fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("posting webhook message", "channel", payload.Channel, "bytes", len(data))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("webhook request failed", "channel", payload.Channel, "error", err)
		return nil, errors.NewRequestError(c.webhookURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)

	// The endpoint signals acceptance with exactly 200; other 2xx codes
	// are failures.
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("webhook rejected message", "channel", payload.Channel, "status", resp.StatusCode)
		return nil, errors.NewResponseError(resp.StatusCode, string(body))
	}

	return receipt.New(resp.StatusCode, resp.Header, body), nil
}

func (c *Client) initInstruments() {
	meter := otel.Meter(instrumentationName)
	var err error

	c.sentTotal, err = meter.Int64Counter(
		"slackhook_messages_sent_total",
		metric.WithDescription("Total number of messages accepted by the webhook"),
	)
	if err != nil {
		c.logger.Warn("create sent counter failed", "error", err)
	}

	c.failedTotal, err = meter.Int64Counter(
		"slackhook_messages_failed_total",
		metric.WithDescription("Total number of messages that failed to send"),
	)
	if err != nil {
		c.logger.Warn("create failed counter failed", "error", err)
	}

	c.sendDuration, err = meter.Float64Histogram(
		"slackhook_send_duration_seconds",
		metric.WithDescription("Duration of webhook send operations"),
	)
	if err != nil {
		c.logger.Warn("create duration histogram failed", "error", err)
	}
}

func (c *Client) recordSend(ctx context.Context, elapsed time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("slackhook.channel", c.channel))

	if c.sendDuration != nil {
		c.sendDuration.Record(ctx, elapsed.Seconds(), attrs)
	}
	if err != nil {
		if c.failedTotal != nil {
			c.failedTotal.Add(ctx, 1, attrs)
		}
		return
	}
	if c.sentTotal != nil {
		c.sentTotal.Add(ctx, 1, attrs)
	}
}
