package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/matching"
	"talent-match/internal/repository"
	"talent-match/internal/search"
)

// HybridQuery is the tagged predicate set for hybrid search. Each field
// enumerates exactly one supported predicate; unknown request keys are
// rejected at the delivery boundary before this is ever built. With an
// opportunity anchor, the predicates are ANDed with the similarity
// threshold; without one, the query degrades to pure discrete filtering.
type HybridQuery struct {
	OpportunityID *uuid.UUID
	Countries     []string
	Subjects      []string
	MinExperience *int
	MaxSalary     *float64
	Limit         int
}

// HybridResult carries either scored matches (similarity mode) or plain
// candidate records (discrete fallback mode, ordered by quality then
// experience descending).
type HybridResult struct {
	Mode     string
	Scored   []matching.ScoredMatch
	Fallback []candidate.Record
}

const (
	HybridModeSimilarity = "similarity"
	HybridModeDiscrete   = "discrete"
)

// Normalize canonicalizes predicate values: countries uppercase, subjects
// mapped onto their stored vocabulary, blank entries dropped.
func (q *HybridQuery) Normalize() {
	q.Countries = normalizeTerms(q.Countries, strings.ToUpper)
	q.Subjects = normalizeTerms(q.Subjects, search.CanonicalSubject)
}

func normalizeTerms(in []string, canon func(string) string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = canon(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (q HybridQuery) Validate() error {
	if q.MinExperience != nil && *q.MinExperience < 0 {
		return fmt.Errorf("%w: min_experience must be non-negative", ErrInvalidInput)
	}
	if q.MaxSalary != nil && *q.MaxSalary <= 0 {
		return fmt.Errorf("%w: max_salary must be positive", ErrInvalidInput)
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: limit must be non-negative", ErrInvalidInput)
	}
	if q.OpportunityID == nil &&
		len(q.Countries) == 0 && len(q.Subjects) == 0 &&
		q.MinExperience == nil && q.MaxSalary == nil {
		return fmt.Errorf("%w: hybrid query needs an opportunity anchor or at least one predicate", ErrInvalidInput)
	}
	return nil
}

func (u *Matching) HybridSearch(ctx context.Context, q HybridQuery) (HybridResult, error) {
	q.Normalize()
	if err := q.Validate(); err != nil {
		return HybridResult{}, err
	}

	if q.OpportunityID == nil {
		return u.hybridDiscrete(ctx, q)
	}
	return u.hybridSimilarity(ctx, q)
}

func (u *Matching) hybridSimilarity(ctx context.Context, q HybridQuery) (HybridResult, error) {
	opp, err := u.opportunities.FindByID(ctx, *q.OpportunityID)
	if err != nil {
		if errors.Is(err, repository.ErrOpportunityNotFound) {
			return HybridResult{}, ErrOpportunityNotFound
		}
		u.logError("load opportunity", err)
		return HybridResult{}, ErrInternal
	}
	if len(opp.Embedding) == 0 {
		return HybridResult{}, ErrMissingEmbedding
	}

	scored, err := u.computeCandidateMatches(ctx, opp, func(rec candidate.Record) bool {
		return matchesDiscrete(rec, q)
	})
	if err != nil {
		return HybridResult{}, err
	}
	if q.Limit > 0 && len(scored) > q.Limit {
		scored = scored[:q.Limit]
	}
	return HybridResult{Mode: HybridModeSimilarity, Scored: scored}, nil
}

func (u *Matching) hybridDiscrete(ctx context.Context, q HybridQuery) (HybridResult, error) {
	recs, err := u.candidates.Filter(ctx, repository.CandidateFilter{
		Countries:     q.Countries,
		Subjects:      q.Subjects,
		MinExperience: q.MinExperience,
		MaxSalary:     q.MaxSalary,
		Limit:         q.Limit,
	})
	if err != nil {
		u.logError("hybrid discrete filter", err)
		return HybridResult{}, ErrInternal
	}
	return HybridResult{Mode: HybridModeDiscrete, Fallback: recs}, nil
}

func matchesDiscrete(rec candidate.Record, q HybridQuery) bool {
	if len(q.Countries) > 0 && !anyOverlap(rec.PreferredCountries, q.Countries) {
		return false
	}
	if len(q.Subjects) > 0 && !anyOverlap(rec.Subjects, q.Subjects) {
		return false
	}
	if q.MinExperience != nil && rec.YearsExperience < *q.MinExperience {
		return false
	}
	if q.MaxSalary != nil && rec.MinSalary != nil && *rec.MinSalary > *q.MaxSalary {
		return false
	}
	return true
}

func anyOverlap(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[s] = struct{}{}
	}
	for _, s := range want {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}
