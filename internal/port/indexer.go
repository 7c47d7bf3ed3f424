package port

import "context"

// CommitPoller triggers the external commit-polling/summarization subsystem
// for a project. Its internals (diff summarization, embedding of new files)
// live outside this service; we only fire it and later read stored commits.
type CommitPoller interface {
	PollCommits(ctx context.Context, projectID string) error
}
