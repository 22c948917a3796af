package implementation

import (
	"context"

	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/model"
	"doc-knowledge-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type FragmentRepositoryImpl struct {
	db *gorm.DB
}

func NewFragmentRepository(db *gorm.DB) contract.FragmentRepository {
	return &FragmentRepositoryImpl{db: db}
}

func (r *FragmentRepositoryImpl) Create(ctx context.Context, frag *entity.Fragment, embedding []float32) error {
	modelFrag := &model.Fragment{
		Id:         frag.Id,
		DocumentId: frag.DocumentId,
		Content:    frag.Content,
		Bucket:     string(frag.Bucket),
		Embedding:  pgvector.NewVector(embedding),
	}
	return r.db.WithContext(ctx).Create(modelFrag).Error
}

func (r *FragmentRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.Fragment{}).Error
}

// SearchSimilarWithScore returns fragments with similarity scores, gated on
// the bucket allow-list in SQL. Cosine distance in pgvector is
// 1 - cosine_similarity, so similarity = 1 - (embedding <=> query); the
// raw value ranges over [-1, 1], the minSimilarity guard keeps dissimilar
// fragments out of the result set.
func (r *FragmentRepositoryImpl) SearchSimilarWithScore(
	ctx context.Context,
	embedding []float32,
	limit int,
	buckets []entity.Bucket,
	minSimilarity float64,
) ([]*contract.ScoredFragment, error) {
	if limit <= 0 {
		limit = 50
	}
	if minSimilarity < 0 {
		minSimilarity = 0
	}
	if len(buckets) == 0 {
		return []*contract.ScoredFragment{}, nil
	}

	bucketNames := make([]string, len(buckets))
	for i, b := range buckets {
		bucketNames[i] = string(b)
	}

	type result struct {
		model.Fragment
		Filename   string
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("fragments").
		Select("fragments.*, documents.filename as filename, 1 - (fragments.embedding <=> ?) as similarity", queryVector).
		Joins("JOIN documents ON documents.id = fragments.document_id").
		Where("fragments.bucket IN ?", bucketNames).
		Where("1 - (fragments.embedding <=> ?) >= ?", queryVector, minSimilarity).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredFragment, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredFragment{
			Fragment: &entity.Fragment{
				Id:         res.Id,
				DocumentId: res.DocumentId,
				Filename:   res.Filename,
				Content:    res.Content,
				Relevance:  res.Similarity,
				Bucket:     entity.Bucket(res.Fragment.Bucket),
			},
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
