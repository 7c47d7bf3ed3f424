package port

import "errors"

// Sentinel errors used across ports. Callers classify failures with
// errors.Is; adapters and services wrap these with context via fmt.Errorf.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrProjectNotFound   = errors.New("project not found")
	ErrDuplicateAnswer   = errors.New("answer already saved")
	ErrDuplicateProject  = errors.New("project already exists for this repo")
	ErrEmbedding         = errors.New("embedding failed")
	ErrGeneration        = errors.New("generation failed")
	ErrRepositoryAccess  = errors.New("repository access failed")
	ErrInvalidRepository = errors.New("invalid repository")
)
