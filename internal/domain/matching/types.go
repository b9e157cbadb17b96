package matching

import (
	"sort"

	"github.com/google/uuid"

	"talent-match/internal/domain/candidate"
)

// Tier is a discrete quality label derived from the recommendation score.
// The ladder is ordered EXCELLENT > GREAT > GOOD > FAIR with no gaps and
// no overlap.
type Tier string

const (
	TierExcellent Tier = "EXCELLENT"
	TierGreat     Tier = "GREAT"
	TierGood      Tier = "GOOD"
	TierFair      Tier = "FAIR"
)

// MatchCandidate is a candidate joined with its similarity to the query
// embedding. Transient, produced by retrieval, consumed by the filter.
type MatchCandidate struct {
	Candidate  candidate.Record
	Similarity float64
}

// ScoredMatch is the unit returned to callers and stored in the match
// cache. It only exists for candidates that passed every hard filter.
type ScoredMatch struct {
	CandidateID   uuid.UUID `json:"candidate_id"`
	OpportunityID uuid.UUID `json:"opportunity_id"`
	Similarity    float64   `json:"similarity"`
	Score         int       `json:"score"`
	Tier          Tier      `json:"tier"`
	Reasons       []string  `json:"reasons"`
}

// TieBreak selects which entity id breaks score ties, depending on the
// direction of the match.
type TieBreak int

const (
	TieByCandidate TieBreak = iota
	TieByOpportunity
)

// SortMatches orders matches by score descending, ties broken by entity id
// ascending. The sort is stable and deterministic for identical inputs.
func SortMatches(ms []ScoredMatch, tie TieBreak) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Score != ms[j].Score {
			return ms[i].Score > ms[j].Score
		}
		a, b := ms[i].CandidateID, ms[j].CandidateID
		if tie == TieByOpportunity {
			a, b = ms[i].OpportunityID, ms[j].OpportunityID
		}
		return a.String() < b.String()
	})
}
