package port

import "context"

// StreamChunk is one fragment of a streamed generation. A chunk with a
// non-nil Err is terminal: the channel is closed right after it and the
// already-delivered fragments must not be treated as a complete answer.
type StreamChunk struct {
	Content string
	Err     error
}

// AIProvider abstracts the embedding and generation model endpoints.
// Implementations can target Ollama, OpenAI, or any compatible API.
type AIProvider interface {
	// Embed generates a fixed-length vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// GenerateStream starts token generation against the prompt and returns
	// a channel of fragments in model emission order. Cancelling ctx cancels
	// the in-flight generation. An error return means generation could not
	// start; mid-stream failures arrive as a terminal StreamChunk.Err.
	GenerateStream(ctx context.Context, prompt string) (<-chan StreamChunk, error)
}
