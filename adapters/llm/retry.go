package llm

import (
	"context"
	stderrors "errors"
	"log"
	"net"
	"time"

	"worklog/ports"
)

// RetryingClient retries transient failures of the wrapped client with
// exponential backoff. Permanent failures are returned immediately.
type RetryingClient struct {
	inner      ports.LLMClient
	maxRetries int
	baseDelay  time.Duration
}

// NewRetryingClient wraps inner; maxRetries counts extra attempts
func NewRetryingClient(inner ports.LLMClient, maxRetries int, baseDelay time.Duration) *RetryingClient {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryingClient{inner: inner, maxRetries: maxRetries, baseDelay: baseDelay}
}

func (c *RetryingClient) ChatCompletion(ctx context.Context, prompt string) (*ports.LLMResponse, error) {
	delay := c.baseDelay
	for attempt := 0; ; attempt++ {
		resp, err := c.inner.ChatCompletion(ctx, prompt)
		if err == nil {
			return resp, nil
		}
		if attempt >= c.maxRetries || !IsTransient(err) || ctx.Err() != nil {
			return nil, err
		}

		log.Printf("[LLM] attempt %d failed, retrying in %v: %v", attempt+1, delay, err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		delay *= 2
	}
}

// IsTransient reports whether err is worth retrying: HTTP 429, 5xx, or a
// network failure that is not the caller's own deadline.
func IsTransient(err error) bool {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return stderrors.As(err, &netErr)
}
