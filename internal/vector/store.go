package vector

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Collection names one of the two logical embedding collections. Both
// share the same configured dimensionality.
type Collection string

const (
	CollectionCandidates    Collection = "candidates"
	CollectionOpportunities Collection = "opportunities"
)

// Hit is one nearest-neighbour result. Similarity is 1 - cosine distance,
// always in [0,1] for normalized embeddings.
type Hit struct {
	ID         uuid.UUID
	Similarity float64
}

var (
	ErrEmptyEmbedding   = errors.New("empty query embedding")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrInvalidFloor     = errors.New("similarity floor out of range [0,1]")
	ErrInvalidLimit     = errors.New("limit must be positive")
	ErrUnknownCollection = errors.New("unknown collection")
)

// Store retrieves the nearest entities to a query embedding. Results are
// strictly descending by similarity, ties broken by id ascending.
// Read-only; implementations must not mutate any collection.
type Store interface {
	Query(ctx context.Context, col Collection, embedding []float32, minSimilarity float64, limit int) ([]Hit, error)
}
