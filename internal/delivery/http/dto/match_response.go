package dto

import (
	"github.com/google/uuid"
)

type ScoredMatchResponse struct {
	CandidateID   uuid.UUID `json:"candidate_id"`
	OpportunityID uuid.UUID `json:"opportunity_id"`
	Similarity    float64   `json:"similarity"`
	Score         int       `json:"score"`
	Tier          string    `json:"tier"`
	Reasons       []string  `json:"reasons"`
}

type MatchListResponse struct {
	Matches []ScoredMatchResponse `json:"matches"`
	Count   int                   `json:"count"`
}

type CandidateSummaryResponse struct {
	ID                 uuid.UUID `json:"id"`
	Subjects           []string  `json:"subjects"`
	YearsExperience    int       `json:"years_experience"`
	PreferredCountries []string  `json:"preferred_countries"`
	QualityScore       *int      `json:"quality_score,omitempty"`
}

type HybridSearchRequest struct {
	OpportunityID *uuid.UUID `json:"opportunity_id"`
	Countries     []string   `json:"countries"`
	Subjects      []string   `json:"subjects"`
	MinExperience *int       `json:"min_experience"`
	MaxSalary     *float64   `json:"max_salary"`
	Limit         int        `json:"limit"`
}

type HybridSearchResponse struct {
	Mode       string                     `json:"mode"`
	Matches    []ScoredMatchResponse      `json:"matches,omitempty"`
	Candidates []CandidateSummaryResponse `json:"candidates,omitempty"`
}

type BatchRematchRequest struct {
	OpportunityIDs []uuid.UUID `json:"opportunity_ids"`
	Intent         string      `json:"intent"`
}

type CacheStatsResponse struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}
