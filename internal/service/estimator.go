package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gitchat-ai/gitchat/internal/domain"
	"github.com/gitchat-ai/gitchat/internal/port"
)

// DefaultMaxInFlight caps concurrent contents listings per estimate. The
// remote API is rate limited, so sibling directories still fan out but the
// whole walk never holds more than this many listings in flight.
const DefaultMaxInFlight = 16

// Estimator counts the files of a remote repository by walking its tree
// concurrently. The count is used to quote indexing cost before committing
// to a project.
type Estimator struct {
	contents port.ContentsLister
	slots    chan struct{}
}

// NewEstimator creates an estimator. maxInFlight bounds concurrent listing
// calls; values below one fall back to DefaultMaxInFlight.
func NewEstimator(contents port.ContentsLister, maxInFlight int) *Estimator {
	if maxInFlight < 1 {
		maxInFlight = DefaultMaxInFlight
	}
	return &Estimator{
		contents: contents,
		slots:    make(chan struct{}, maxInFlight),
	}
}

// Estimate returns the total number of files reachable from the repository
// root. Missing coordinates fail with ErrInvalidRepository before any network
// call. A single listing failure anywhere in the tree aborts the whole
// estimate — a partial count would silently underquote.
func (e *Estimator) Estimate(ctx context.Context, owner, repo string) (int, error) {
	if owner == "" || repo == "" {
		return 0, fmt.Errorf("%w: owner and repo are required", port.ErrInvalidRepository)
	}

	total, err := e.visit(ctx, owner, repo, "")
	if err != nil {
		return 0, err
	}
	slog.Info("repository size estimated", "owner", owner, "repo", repo, "files", total)
	return total, nil
}

// visit counts the files under path: entries that are files count locally,
// subdirectories are visited concurrently (fan-out) and their totals are
// summed once all of them finish (fan-in). The level total is
// localFiles + sum(childCounts).
func (e *Estimator) visit(ctx context.Context, owner, repo, path string) (int, error) {
	entries, err := e.list(ctx, owner, repo, path)
	if err != nil {
		return 0, err
	}

	files := 0
	var dirs []string
	for _, entry := range entries {
		switch entry.Type {
		case domain.RepoEntryFile:
			files++
		case domain.RepoEntryDir:
			dirs = append(dirs, entry.Path)
		}
	}
	if len(dirs) == 0 {
		return files, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	counts := make([]int, len(dirs))
	for i, dir := range dirs {
		g.Go(func() error {
			n, err := e.visit(ctx, owner, repo, dir)
			counts[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	for _, n := range counts {
		files += n
	}
	return files, nil
}

// list performs one contents listing while holding an in-flight slot. The
// slot is held only for the remote call itself, never across child visits,
// so a deep tree cannot deadlock the pool.
func (e *Estimator) list(ctx context.Context, owner, repo, path string) ([]domain.RepoEntry, error) {
	select {
	case e.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-e.slots }()

	entries, err := e.contents.ListContents(ctx, owner, repo, path)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", path, err)
	}
	return entries, nil
}

// ParseRepoURL extracts the owner/repo coordinates from a GitHub repository
// URL. Anything with fewer than two path segments cannot be resolved to a
// remote location and is rejected.
func ParseRepoURL(repoURL string) (owner, repo string, err error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(repoURL), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("%w: %q", port.ErrInvalidRepository, repoURL)
	}
	owner = parts[len(parts)-2]
	repo = strings.TrimSuffix(parts[len(parts)-1], ".git")
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("%w: %q", port.ErrInvalidRepository, repoURL)
	}
	return owner, repo, nil
}
