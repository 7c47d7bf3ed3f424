package port

import (
	"context"

	"github.com/gitchat-ai/gitchat/internal/domain"
)

// ContentsLister lists the immediate children of a path in a remote
// repository. Listing a path that is itself a file yields a single file
// entry. The implementation is expected to be rate-limited.
type ContentsLister interface {
	ListContents(ctx context.Context, owner, repo, path string) ([]domain.RepoEntry, error)
}
