// Package indexer is a thin client for the external indexing/commit-polling
// subsystem. This service only triggers it; embedding generation and diff
// summarization happen on the other side.
package indexer

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gitchat-ai/gitchat/internal/port"
)

// Client triggers indexing runs over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ port.CommitPoller = (*Client)(nil)

// NewClient creates an indexer client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, httpClient: &http.Client{}}
}

// PollCommits asks the indexer to poll and summarize new commits for a
// project. The call returns once the run is accepted, not when it finishes.
func (c *Client) PollCommits(ctx context.Context, projectID string) error {
	url := fmt.Sprintf("%s/api/v1/index/%s/commits", c.baseURL, projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("indexer poll: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("indexer poll: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("indexer poll: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
