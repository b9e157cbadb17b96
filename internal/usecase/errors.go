package usecase

import "errors"

var (
	ErrInternal     = errors.New("internal error")
	ErrInvalidInput = errors.New("invalid input")

	ErrOpportunityNotFound = errors.New("opportunity not found")
	ErrCandidateNotFound   = errors.New("candidate not found")

	// ErrMissingEmbedding means the source entity was never embedded.
	// Surfaced to the caller instead of returning zero results, since it
	// almost always indicates an upstream pipeline gap.
	ErrMissingEmbedding = errors.New("entity has no embedding")

	ErrRetrievalTimeout     = errors.New("retrieval timed out")
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
)
