package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gitchat-ai/gitchat/internal/domain"
	"github.com/gitchat-ai/gitchat/internal/port"
)

// fakeLister serves a repository tree from a map of path -> entries.
type fakeLister struct {
	tree  map[string][]domain.RepoEntry
	errAt string // path whose listing fails
	delay time.Duration

	mu         sync.Mutex
	calls      int
	inFlight   int32
	maxSeen    int32
	pathsSeens []string
}

func (f *fakeLister) ListContents(ctx context.Context, _, _, path string) ([]domain.RepoEntry, error) {
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		max := atomic.LoadInt32(&f.maxSeen)
		if cur <= max || atomic.CompareAndSwapInt32(&f.maxSeen, max, cur) {
			break
		}
	}

	f.mu.Lock()
	f.calls++
	f.pathsSeens = append(f.pathsSeens, path)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.errAt != "" && path == f.errAt {
		return nil, port.ErrRepositoryAccess
	}
	return f.tree[path], nil
}

func file(p string) domain.RepoEntry { return domain.RepoEntry{Path: p, Type: domain.RepoEntryFile} }
func dir(p string) domain.RepoEntry  { return domain.RepoEntry{Path: p, Type: domain.RepoEntryDir} }

func TestEstimate_NestedTree(t *testing.T) {
	// / {a.txt, src/{b.txt, lib/{c.txt, d.txt}}}
	lister := &fakeLister{tree: map[string][]domain.RepoEntry{
		"":        {file("a.txt"), dir("src")},
		"src":     {file("src/b.txt"), dir("src/lib")},
		"src/lib": {file("src/lib/c.txt"), file("src/lib/d.txt")},
	}}

	est := NewEstimator(lister, 4)
	count, err := est.Estimate(context.Background(), "octo", "repo")
	require.NoError(t, err)
	require.Equal(t, 4, count)
	require.Equal(t, 3, lister.calls)
}

func TestEstimate_EmptyRepository(t *testing.T) {
	lister := &fakeLister{tree: map[string][]domain.RepoEntry{"": {}}}

	est := NewEstimator(lister, 4)
	count, err := est.Estimate(context.Background(), "octo", "empty")
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestEstimate_SingleFileListing(t *testing.T) {
	lister := &fakeLister{tree: map[string][]domain.RepoEntry{
		"": {file("README.md")},
	}}

	est := NewEstimator(lister, 4)
	count, err := est.Estimate(context.Background(), "octo", "tiny")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestEstimate_ShapeDoesNotMatter(t *testing.T) {
	// Same 6 files, one deep chain vs one wide level.
	deep := &fakeLister{tree: map[string][]domain.RepoEntry{
		"":      {file("f1"), dir("a")},
		"a":     {file("a/f2"), dir("a/b")},
		"a/b":   {file("a/b/f3"), dir("a/b/c")},
		"a/b/c": {file("a/b/c/f4"), file("a/b/c/f5"), file("a/b/c/f6")},
	}}
	wide := &fakeLister{tree: map[string][]domain.RepoEntry{
		"":  {dir("d1"), dir("d2"), dir("d3")},
		"d1": {file("d1/f1"), file("d1/f2")},
		"d2": {file("d2/f3"), file("d2/f4")},
		"d3": {file("d3/f5"), file("d3/f6")},
	}}

	for _, lister := range []*fakeLister{deep, wide} {
		est := NewEstimator(lister, 8)
		count, err := est.Estimate(context.Background(), "octo", "repo")
		require.NoError(t, err)
		require.Equal(t, 6, count)
	}
}

func TestEstimate_InvalidCoordinates(t *testing.T) {
	lister := &fakeLister{}
	est := NewEstimator(lister, 4)

	_, err := est.Estimate(context.Background(), "", "repo")
	require.ErrorIs(t, err, port.ErrInvalidRepository)

	_, err = est.Estimate(context.Background(), "octo", "")
	require.ErrorIs(t, err, port.ErrInvalidRepository)

	// Rejected before any network call.
	require.Equal(t, 0, lister.calls)
}

func TestEstimate_ChildFailureAbortsWholeEstimate(t *testing.T) {
	lister := &fakeLister{
		tree: map[string][]domain.RepoEntry{
			"":    {file("a.txt"), dir("ok"), dir("bad")},
			"ok":  {file("ok/b.txt")},
			"bad": nil,
		},
		errAt: "bad",
	}

	est := NewEstimator(lister, 4)
	count, err := est.Estimate(context.Background(), "octo", "repo")
	require.ErrorIs(t, err, port.ErrRepositoryAccess)
	require.Equal(t, 0, count) // no partial undercount
}

func TestEstimate_BoundsInFlightListings(t *testing.T) {
	// A wide level that would issue 12 concurrent listings unbounded.
	tree := map[string][]domain.RepoEntry{"": {}}
	root := make([]domain.RepoEntry, 0, 12)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		root = append(root, dir(name))
		tree[name] = []domain.RepoEntry{file(name + "/x")}
	}
	tree[""] = root

	lister := &fakeLister{tree: tree, delay: 10 * time.Millisecond}
	est := NewEstimator(lister, 3)

	count, err := est.Estimate(context.Background(), "octo", "wide")
	require.NoError(t, err)
	require.Equal(t, 12, count)
	require.LessOrEqual(t, atomic.LoadInt32(&lister.maxSeen), int32(3))
}

func TestParseRepoURL(t *testing.T) {
	owner, repo, err := ParseRepoURL("https://github.com/golang/go")
	require.NoError(t, err)
	require.Equal(t, "golang", owner)
	require.Equal(t, "go", repo)

	owner, repo, err = ParseRepoURL("https://github.com/golang/go.git")
	require.NoError(t, err)
	require.Equal(t, "golang", owner)
	require.Equal(t, "go", repo)

	_, _, err = ParseRepoURL("not-a-full-path")
	require.ErrorIs(t, err, port.ErrInvalidRepository)

	_, _, err = ParseRepoURL("")
	require.ErrorIs(t, err, port.ErrInvalidRepository)
}

func TestEstimate_ErrorDoesNotLeakGoroutines(t *testing.T) {
	lister := &fakeLister{
		tree: map[string][]domain.RepoEntry{
			"":   {dir("a"), dir("bad")},
			"a":  {file("a/x")},
			"bad": nil,
		},
		errAt: "bad",
	}
	est := NewEstimator(lister, 2)

	_, err := est.Estimate(context.Background(), "octo", "repo")
	require.Error(t, err)
	require.True(t, errors.Is(err, port.ErrRepositoryAccess))

	// All slots returned: a fresh estimate on a healthy tree still works.
	lister.errAt = ""
	lister.tree["bad"] = []domain.RepoEntry{file("bad/y")}
	count, err := est.Estimate(context.Background(), "octo", "repo")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}
