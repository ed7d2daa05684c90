// internal/common/http/client.go
package http

import (
	"context"
	"net/http"
	"sync"
	"time"
)

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}

// RateLimitedClient enforces a minimum interval between consecutive requests.
// Upstream trend endpoints throttle aggressive clients, so each connector
// gets one of these per host.
type RateLimitedClient struct {
	client      *Client
	minInterval time.Duration

	mu       sync.Mutex
	lastSent time.Time
}

func NewRateLimitedClient(timeout, minInterval time.Duration) *RateLimitedClient {
	return &RateLimitedClient{
		client:      NewClient(timeout),
		minInterval: minInterval,
	}
}

// DoWithContext waits out the remaining interval before sending. The wait is
// interruptible by ctx cancellation.
func (c *RateLimitedClient) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.waitTurn(ctx); err != nil {
		return nil, err
	}
	return c.client.DoWithContext(ctx, req)
}

func (c *RateLimitedClient) waitTurn(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	next := c.lastSent.Add(c.minInterval)
	if next.Before(now) {
		next = now
	}
	c.lastSent = next
	c.mu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
