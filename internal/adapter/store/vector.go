package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/gitchat-ai/gitchat/internal/domain"
	"github.com/gitchat-ai/gitchat/internal/port"
)

// VectorStore handles pgvector-specific queries over source embeddings.
// Embedding rows are written by the indexing subsystem; this store only reads.
type VectorStore struct {
	store     *PostgresStore
	dimension int
}

var _ port.VectorIndex = (*VectorStore)(nil)

// NewVectorStore creates a vector store backed by the given Postgres store.
func NewVectorStore(store *PostgresStore, dimension int) *VectorStore {
	return &VectorStore{store: store, dimension: dimension}
}

// SearchSimilar returns up to limit hits for the project whose cosine
// similarity to the query embedding is strictly greater than floor, ordered
// by descending similarity. Ties keep insertion order (serial id). Zero rows
// is a valid result, not an error.
func (v *VectorStore) SearchSimilar(ctx context.Context, projectID string, embedding []float32, floor float64, limit int) ([]domain.RetrievalHit, error) {
	vectorStr := vectorToString(embedding)
	query := `SELECT filename, source_code, summary,
	                 1 - (summary_embedding <=> $1::vector) AS similarity
	          FROM source_embeddings
	          WHERE project_id = $2
	            AND 1 - (summary_embedding <=> $1::vector) > $3
	          ORDER BY similarity DESC, id ASC
	          LIMIT $4`

	rows, err := v.store.db.QueryContext(ctx, query, vectorStr, projectID, floor, limit)
	if err != nil {
		return nil, fmt.Errorf("search similar: %w", err)
	}
	defer rows.Close()

	var hits []domain.RetrievalHit
	for rows.Next() {
		var h domain.RetrievalHit
		if err := rows.Scan(&h.Filename, &h.SourceCode, &h.Summary, &h.Similarity); err != nil {
			return nil, fmt.Errorf("scan similar: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// vectorToString converts a float32 slice to pgvector string format: [0.1,0.2,0.3].
func vectorToString(v []float32) string {
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = fmt.Sprintf("%g", val)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
