package contract

import (
	"context"

	"doc-knowledge-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredFragment pairs a fragment with its cosine similarity to the query.
type ScoredFragment struct {
	Fragment   *entity.Fragment
	Similarity float64
}

type FragmentRepository interface {
	Create(ctx context.Context, frag *entity.Fragment, embedding []float32) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error

	// SearchSimilarWithScore returns the top-k fragments by cosine
	// similarity, restricted to the given buckets and to similarity >=
	// minSimilarity, ordered by similarity descending.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, buckets []entity.Bucket, minSimilarity float64) ([]*ScoredFragment, error)
}
