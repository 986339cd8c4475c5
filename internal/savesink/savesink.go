// Package savesink mirrors every persisted portfolio snapshot to an external
// HTTP endpoint, typically a local dev server that writes the JSON back into
// the project tree. Forwarding is best-effort by contract: the store logs a
// failed forward and keeps going.
package savesink

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/adupont/portfolio/internal/store"
)

// Compile-time check that Client satisfies the store's Sink interface.
var _ store.Sink = (*Client)(nil)

const requestTimeout = 3 * time.Second

// Client posts portfolio snapshots to a fixed URL.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Forward posts one snapshot. The payload is the full aggregate as JSON.
func (c *Client) Forward(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("savesink: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("savesink: forwarding snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("savesink: endpoint returned %d", resp.StatusCode)
	}
	return nil
}
