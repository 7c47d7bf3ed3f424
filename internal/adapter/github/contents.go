// Package github adapts the GitHub repository contents API to the
// port.ContentsLister interface. Requests are authenticated with a personal
// access token and paced with a client-side rate limiter so that concurrent
// tree walks stay within the API's rate budget.
package github

import (
	"context"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v29/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/gitchat-ai/gitchat/internal/domain"
	"github.com/gitchat-ai/gitchat/internal/port"
)

// Client lists repository contents via the GitHub REST API.
type Client struct {
	gh      *gh.Client
	limiter *rate.Limiter
}

var _ port.ContentsLister = (*Client)(nil)

// NewClient returns a contents client. token may be empty for anonymous
// access (much lower rate limits). rps caps outgoing requests per second;
// burst allows short spikes during fan-out.
func NewClient(token string, rps float64, burst int) *Client {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(context.Background(), ts)
	}
	return &Client{
		gh:      gh.NewClient(hc),
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// ListContents returns the immediate children of path in owner/repo. A path
// that resolves to a single file yields one file entry.
func (c *Client) ListContents(ctx context.Context, owner, repo, path string) ([]domain.RepoEntry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	file, dir, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: get contents %s/%s %q: %v", port.ErrRepositoryAccess, owner, repo, path, err)
	}

	if file != nil {
		return []domain.RepoEntry{{Path: file.GetPath(), Type: domain.RepoEntryFile}}, nil
	}

	entries := make([]domain.RepoEntry, 0, len(dir))
	for _, item := range dir {
		switch item.GetType() {
		case "file":
			entries = append(entries, domain.RepoEntry{Path: item.GetPath(), Type: domain.RepoEntryFile})
		case "dir":
			entries = append(entries, domain.RepoEntry{Path: item.GetPath(), Type: domain.RepoEntryDir})
		}
		// symlinks and submodules are neither files to bill nor trees to walk
	}
	return entries, nil
}
