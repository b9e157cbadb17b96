package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"talent-match/internal/config"
	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/matching"
	"talent-match/internal/domain/opportunity"
	"talent-match/internal/repository"
	"talent-match/internal/vector"
)

// Intent distinguishes a notify run (dedup applies) from a preview
// (candidates browsing or recruiters inspecting; nothing is hidden).
type Intent string

const (
	IntentPreview Intent = "preview"
	IntentNotify  Intent = "notify"
)

func ParseIntent(s string) (Intent, error) {
	switch Intent(s) {
	case IntentNotify:
		return IntentNotify, nil
	case IntentPreview, "":
		return IntentPreview, nil
	default:
		return "", fmt.Errorf("%w: unknown intent %q", ErrInvalidInput, s)
	}
}

type MatchOptions struct {
	Intent Intent
	Limit  int
}

type MatchingUsecase interface {
	FindCandidatesForOpportunity(ctx context.Context, opportunityID uuid.UUID, opts MatchOptions) ([]matching.ScoredMatch, error)
	FindOpportunitiesForCandidate(ctx context.Context, candidateID uuid.UUID, limit int) ([]matching.ScoredMatch, error)
	HybridSearch(ctx context.Context, q HybridQuery) (HybridResult, error)
	RematchOpportunities(ctx context.Context, ids []uuid.UUID, intent Intent) (BatchSummary, error)
	InvalidateOpportunity(ctx context.Context, opportunityID uuid.UUID) error
	CacheStats() (hits, misses int64)
}

type Matching struct {
	opportunities repository.OpportunityRepository
	candidates    repository.CandidateRepository
	notifications repository.NotificationRepository
	vectors       vector.Store
	cache         *CachedMatches
	cfg           config.MatchingConfig
	logger        *zap.Logger
	now           func() time.Time
}

func NewMatchingUsecase(
	opportunities repository.OpportunityRepository,
	candidates repository.CandidateRepository,
	notifications repository.NotificationRepository,
	vectors vector.Store,
	cache *CachedMatches,
	cfg config.MatchingConfig,
	logger *zap.Logger,
) *Matching {
	return &Matching{
		opportunities: opportunities,
		candidates:    candidates,
		notifications: notifications,
		vectors:       vectors,
		cache:         cache,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
	}
}

func (u *Matching) FindCandidatesForOpportunity(ctx context.Context, opportunityID uuid.UUID, opts MatchOptions) ([]matching.ScoredMatch, error) {
	if opportunityID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	opp, err := u.opportunities.FindByID(ctx, opportunityID)
	if err != nil {
		if errors.Is(err, repository.ErrOpportunityNotFound) {
			return nil, ErrOpportunityNotFound
		}
		u.logError("load opportunity", err, zap.Stringer("opportunity_id", opportunityID))
		return nil, ErrInternal
	}
	if len(opp.Embedding) == 0 {
		return nil, ErrMissingEmbedding
	}

	matches, hit, err := u.cache.GetOrCompute(ctx, opportunityID, func(ctx context.Context) ([]matching.ScoredMatch, error) {
		return u.computeCandidateMatches(ctx, opp, nil)
	})
	if err != nil {
		return nil, err
	}
	if u.logger != nil {
		u.logger.Debug("candidate matches ready",
			zap.Stringer("opportunity_id", opportunityID),
			zap.Bool("cache_hit", hit),
			zap.Int("matches", len(matches)),
		)
	}

	if opts.Intent == IntentNotify {
		matches, err = u.dedupeNotified(ctx, matches)
		if err != nil {
			return nil, err
		}
	}

	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches, nil
}

func (u *Matching) FindOpportunitiesForCandidate(ctx context.Context, candidateID uuid.UUID, limit int) ([]matching.ScoredMatch, error) {
	if candidateID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	cand, err := u.candidates.FindByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return nil, ErrCandidateNotFound
		}
		u.logError("load candidate", err, zap.Stringer("candidate_id", candidateID))
		return nil, ErrInternal
	}
	if len(cand.Embedding) == 0 {
		return nil, ErrMissingEmbedding
	}

	hits, err := u.retrieve(ctx, vector.CollectionOpportunities, cand.Embedding)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	opps, err := u.opportunities.FindByIDs(ctx, ids)
	if err != nil {
		u.logError("load opportunities", err, zap.Stringer("candidate_id", candidateID))
		return nil, ErrInternal
	}

	// Mirrored pipeline: one candidate against many opportunities, with
	// identical hard-filter semantics per pair.
	scored := make([]matching.ScoredMatch, 0, len(hits))
	for _, h := range hits {
		opp, ok := opps[h.ID]
		if !ok || !opp.IsOpen() {
			continue
		}
		mc := matching.MatchCandidate{Candidate: cand, Similarity: h.Similarity}
		survivors, _ := matching.ApplyHardFilters([]matching.MatchCandidate{mc}, opp, u.cfg.VisaPolicy)
		if len(survivors) == 0 {
			continue
		}
		scored = append(scored, matching.Score(survivors[0], opp, u.cfg.Weights, u.cfg.Tiers))
	}
	matching.SortMatches(scored, matching.TieByOpportunity)

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (u *Matching) InvalidateOpportunity(ctx context.Context, opportunityID uuid.UUID) error {
	if opportunityID == uuid.Nil {
		return ErrInvalidInput
	}
	return u.cache.Invalidate(ctx, opportunityID)
}

func (u *Matching) CacheStats() (hits, misses int64) {
	return u.cache.Stats()
}

// computeCandidateMatches runs retrieval, hard filtering and scoring for
// one opportunity. keep is an optional extra predicate used by hybrid
// search; nil keeps every retrieved candidate.
func (u *Matching) computeCandidateMatches(ctx context.Context, opp opportunity.Record, keep func(candidate.Record) bool) ([]matching.ScoredMatch, error) {
	hits, err := u.retrieve(ctx, vector.CollectionCandidates, opp.Embedding)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	records, err := u.candidates.FindByIDs(ctx, ids)
	if err != nil {
		u.logError("load candidates", err, zap.Stringer("opportunity_id", opp.ID))
		return nil, ErrInternal
	}

	mcs := make([]matching.MatchCandidate, 0, len(hits))
	for _, h := range hits {
		rec, ok := records[h.ID]
		if !ok || !rec.IsActive {
			continue
		}
		if keep != nil && !keep(rec) {
			continue
		}
		mcs = append(mcs, matching.MatchCandidate{Candidate: rec, Similarity: h.Similarity})
	}

	survivors, counts := matching.ApplyHardFilters(mcs, opp, u.cfg.VisaPolicy)
	if u.logger != nil {
		u.logger.Debug("hard filters applied",
			zap.Stringer("opportunity_id", opp.ID),
			zap.Int("input", counts.Input),
			zap.Int("visa_passed", counts.VisaPassed),
			zap.Int("experience_passed", counts.ExperiencePassed),
			zap.Int("salary_passed", counts.SalaryPassed),
		)
	}

	scored := make([]matching.ScoredMatch, 0, len(survivors))
	for _, mc := range survivors {
		scored = append(scored, matching.Score(mc, opp, u.cfg.Weights, u.cfg.Tiers))
	}
	matching.SortMatches(scored, matching.TieByCandidate)
	return scored, nil
}

func (u *Matching) dedupeNotified(ctx context.Context, matches []matching.ScoredMatch) ([]matching.ScoredMatch, error) {
	if len(matches) == 0 {
		return matches, nil
	}

	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.CandidateID)
	}
	since := u.now().UTC().Add(-u.cfg.DedupLookback)

	recent, err := u.notifications.RecentRecipients(ctx, ids, since)
	if err != nil {
		u.logError("load notification history", err)
		return nil, ErrInternal
	}

	out := make([]matching.ScoredMatch, 0, len(matches))
	for _, m := range matches {
		if _, notified := recent[m.CandidateID]; notified {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// retrieve wraps the vector store with a per-call timeout and retry with
// doubling backoff. Retry lives here at the orchestrator level, never
// inside the retrieval primitive itself.
func (u *Matching) retrieve(ctx context.Context, col vector.Collection, embedding []float32) ([]vector.Hit, error) {
	backoff := u.cfg.RetryBackoff
	var lastErr error

	for attempt := 0; attempt < u.cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		qctx := ctx
		cancel := context.CancelFunc(func() {})
		if u.cfg.RetrievalTimeout > 0 {
			qctx, cancel = context.WithTimeout(ctx, u.cfg.RetrievalTimeout)
		}
		hits, err := u.vectors.Query(qctx, col, embedding, u.cfg.SimilarityFloor, u.cfg.RetrievalLimit)
		cancel()
		if err == nil {
			return hits, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !retrievalTransient(err) {
			return nil, err
		}
		lastErr = err
		if u.logger != nil {
			u.logger.Warn("retrieval attempt failed",
				zap.String("collection", string(col)),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
		}
	}

	if errors.Is(lastErr, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %v", ErrRetrievalTimeout, lastErr)
	}
	return nil, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, lastErr)
}

// retrievalTransient reports whether an error is worth retrying. Query
// validation failures are permanent; anything else coming back from the
// store is assumed transient.
func retrievalTransient(err error) bool {
	switch {
	case errors.Is(err, vector.ErrEmptyEmbedding),
		errors.Is(err, vector.ErrDimensionMismatch),
		errors.Is(err, vector.ErrInvalidFloor),
		errors.Is(err, vector.ErrInvalidLimit),
		errors.Is(err, vector.ErrUnknownCollection):
		return false
	}
	return true
}

func (u *Matching) logError(msg string, err error, fields ...zap.Field) {
	if u.logger == nil {
		return
	}
	u.logger.Error(msg, append(fields, zap.Error(err))...)
}
