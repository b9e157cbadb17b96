package config

import (
	"fmt"
	"time"

	"talent-match/internal/domain/matching"
)

// MatchingConfig carries every externally tunable knob of the matching
// engine. Nothing here is hard-coded inside the scoring formula; Validate
// runs once at startup so request handling never sees a bad value.
type MatchingConfig struct {
	Weights matching.Weights
	Tiers   matching.TierThresholds

	EmbeddingDim    int
	SimilarityFloor float64
	RetrievalLimit  int

	CacheTTL      time.Duration
	DedupLookback time.Duration

	VisaPolicy matching.VisaPolicy

	RetrievalTimeout time.Duration
	RetryAttempts    int
	RetryBackoff     time.Duration

	BatchGroupSize   int
	BatchParallelism int
	BatchGroupDelay  time.Duration
}

func loadMatching() (MatchingConfig, error) {
	cfg := MatchingConfig{
		Weights: matching.DefaultWeights(),
		Tiers:   matching.DefaultTierThresholds(),
	}

	var err error
	if cfg.Weights.Similarity, err = envFloat("MATCH_WEIGHT_SIMILARITY", cfg.Weights.Similarity); err != nil {
		return MatchingConfig{}, err
	}
	if cfg.Weights.Subject, err = envFloat("MATCH_WEIGHT_SUBJECT", cfg.Weights.Subject); err != nil {
		return MatchingConfig{}, err
	}
	if cfg.Weights.Salary, err = envFloat("MATCH_WEIGHT_SALARY", cfg.Weights.Salary); err != nil {
		return MatchingConfig{}, err
	}
	if cfg.Weights.Quality, err = envFloat("MATCH_WEIGHT_QUALITY", cfg.Weights.Quality); err != nil {
		return MatchingConfig{}, err
	}
	if cfg.Weights.Experience, err = envFloat("MATCH_WEIGHT_EXPERIENCE", cfg.Weights.Experience); err != nil {
		return MatchingConfig{}, err
	}

	if cfg.Tiers.Excellent, err = envInt("MATCH_TIER_EXCELLENT", cfg.Tiers.Excellent); err != nil {
		return MatchingConfig{}, err
	}
	if cfg.Tiers.Great, err = envInt("MATCH_TIER_GREAT", cfg.Tiers.Great); err != nil {
		return MatchingConfig{}, err
	}
	if cfg.Tiers.Good, err = envInt("MATCH_TIER_GOOD", cfg.Tiers.Good); err != nil {
		return MatchingConfig{}, err
	}

	if cfg.EmbeddingDim, err = envInt("MATCH_EMBEDDING_DIM", 1536); err != nil {
		return MatchingConfig{}, err
	}
	if cfg.SimilarityFloor, err = envFloat("MATCH_SIMILARITY_FLOOR", 0.5); err != nil {
		return MatchingConfig{}, err
	}
	if cfg.RetrievalLimit, err = envInt("MATCH_RETRIEVAL_LIMIT", 50); err != nil {
		return MatchingConfig{}, err
	}

	if cfg.CacheTTL, err = envDuration("MATCH_CACHE_TTL_SECONDS", time.Hour); err != nil {
		return MatchingConfig{}, err
	}
	if cfg.DedupLookback, err = envDuration("MATCH_DEDUP_LOOKBACK_SECONDS", 7*24*time.Hour); err != nil {
		return MatchingConfig{}, err
	}

	switch policy := matching.VisaPolicy(envString("MATCH_VISA_POLICY", string(matching.VisaPermissive))); policy {
	case matching.VisaPermissive, matching.VisaStrict:
		cfg.VisaPolicy = policy
	default:
		return MatchingConfig{}, fmt.Errorf("invalid MATCH_VISA_POLICY: %q", policy)
	}

	if cfg.RetrievalTimeout, err = envDuration("MATCH_RETRIEVAL_TIMEOUT_SECONDS", 5*time.Second); err != nil {
		return MatchingConfig{}, err
	}
	if cfg.RetryAttempts, err = envInt("MATCH_RETRY_ATTEMPTS", 3); err != nil {
		return MatchingConfig{}, err
	}
	if cfg.RetryBackoff, err = envDuration("MATCH_RETRY_BACKOFF_SECONDS", 1*time.Second); err != nil {
		return MatchingConfig{}, err
	}

	if cfg.BatchGroupSize, err = envInt("MATCH_BATCH_GROUP_SIZE", 5); err != nil {
		return MatchingConfig{}, err
	}
	if cfg.BatchParallelism, err = envInt("MATCH_BATCH_PARALLELISM", 5); err != nil {
		return MatchingConfig{}, err
	}
	if cfg.BatchGroupDelay, err = envDuration("MATCH_BATCH_GROUP_DELAY_SECONDS", 2*time.Second); err != nil {
		return MatchingConfig{}, err
	}

	return cfg, nil
}

func (c MatchingConfig) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("matching weights: %w", err)
	}
	if err := c.Tiers.Validate(); err != nil {
		return fmt.Errorf("matching tiers: %w", err)
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.EmbeddingDim)
	}
	if c.SimilarityFloor < 0 || c.SimilarityFloor > 1 {
		return fmt.Errorf("similarity floor out of range [0,1]: %v", c.SimilarityFloor)
	}
	if c.RetrievalLimit <= 0 {
		return fmt.Errorf("retrieval limit must be positive, got %d", c.RetrievalLimit)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got %v", c.CacheTTL)
	}
	if c.DedupLookback <= 0 {
		return fmt.Errorf("dedup lookback must be positive, got %v", c.DedupLookback)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.RetryAttempts)
	}
	if c.BatchGroupSize <= 0 {
		return fmt.Errorf("batch group size must be positive, got %d", c.BatchGroupSize)
	}
	if c.BatchParallelism <= 0 {
		return fmt.Errorf("batch parallelism must be positive, got %d", c.BatchParallelism)
	}
	return nil
}
