package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"talent-match/internal/database"
	"talent-match/internal/vector"
)

const candidateQuery = `
SELECT id, 1 - (embedding <=> $1) AS similarity
FROM candidates
WHERE embedding IS NOT NULL
  AND is_active
  AND 1 - (embedding <=> $1) >= $2
ORDER BY similarity DESC, id ASC
LIMIT $3`

const opportunityQuery = `
SELECT id, 1 - (embedding <=> $1) AS similarity
FROM opportunities
WHERE embedding IS NOT NULL
  AND status = 'open'
  AND 1 - (embedding <=> $1) >= $2
ORDER BY similarity DESC, id ASC
LIMIT $3`

// Store answers KNN queries with pgvector's cosine distance operator.
// Only active candidates and open opportunities are searchable.
type Store struct {
	db  database.DB
	dim int
}

func NewStore(db database.DB, dim int) *Store {
	return &Store{db: db, dim: dim}
}

func (s *Store) Query(ctx context.Context, col vector.Collection, embedding []float32, minSimilarity float64, limit int) ([]vector.Hit, error) {
	if len(embedding) == 0 {
		return nil, vector.ErrEmptyEmbedding
	}
	if s.dim > 0 && len(embedding) != s.dim {
		return nil, fmt.Errorf("%w: got %d, want %d", vector.ErrDimensionMismatch, len(embedding), s.dim)
	}
	if minSimilarity < 0 || minSimilarity > 1 {
		return nil, vector.ErrInvalidFloor
	}
	if limit <= 0 {
		return nil, vector.ErrInvalidLimit
	}

	var query string
	switch col {
	case vector.CollectionCandidates:
		query = candidateQuery
	case vector.CollectionOpportunities:
		query = opportunityQuery
	default:
		return nil, fmt.Errorf("%w: %q", vector.ErrUnknownCollection, col)
	}

	rows, err := s.db.Query(ctx, query, pgvector.NewVector(embedding), minSimilarity, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hits := make([]vector.Hit, 0, limit)
	for rows.Next() {
		var (
			id  uuid.UUID
			sim float64
		)
		if err := rows.Scan(&id, &sim); err != nil {
			return nil, err
		}
		hits = append(hits, vector.Hit{ID: id, Similarity: sim})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}
