package matching

import (
	"fmt"
	"math"

	"talent-match/internal/domain/opportunity"
)

// Weights is the fixed weight vector applied to the five soft factors.
// The components must sum to 1; Validate enforces that at startup so the
// scoring formula never sees an invalid vector at request time.
type Weights struct {
	Similarity float64
	Subject    float64
	Salary     float64
	Quality    float64
	Experience float64
}

func DefaultWeights() Weights {
	return Weights{
		Similarity: 0.35,
		Subject:    0.25,
		Salary:     0.15,
		Quality:    0.15,
		Experience: 0.10,
	}
}

const weightSumTolerance = 1e-9

func (w Weights) Validate() error {
	for _, v := range []float64{w.Similarity, w.Subject, w.Salary, w.Quality, w.Experience} {
		if v < 0 || v > 1 {
			return fmt.Errorf("weight out of range [0,1]: %v", v)
		}
	}
	sum := w.Similarity + w.Subject + w.Salary + w.Quality + w.Experience
	if math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1, got %v", sum)
	}
	return nil
}

// TierThresholds is the ladder mapping a recommendation score to a quality
// tier. Thresholds must be strictly descending; scores below Good map to
// FAIR. Defined once here and reused everywhere a tier is shown.
type TierThresholds struct {
	Excellent int
	Great     int
	Good      int
}

func DefaultTierThresholds() TierThresholds {
	return TierThresholds{Excellent: 85, Great: 70, Good: 55}
}

func (t TierThresholds) Validate() error {
	if t.Excellent <= t.Great || t.Great <= t.Good {
		return fmt.Errorf("tier thresholds must be strictly descending: %d/%d/%d", t.Excellent, t.Great, t.Good)
	}
	if t.Good <= 0 || t.Excellent > 100 {
		return fmt.Errorf("tier thresholds out of range [1,100]: %d/%d/%d", t.Excellent, t.Great, t.Good)
	}
	return nil
}

func (t TierThresholds) TierFor(score int) Tier {
	switch {
	case score >= t.Excellent:
		return TierExcellent
	case score >= t.Great:
		return TierGreat
	case score >= t.Good:
		return TierGood
	default:
		return TierFair
	}
}

// subScores holds the normalized soft factors, each in [0,1].
type subScores struct {
	Similarity float64
	Subject    float64
	Salary     float64
	Quality    float64
	Experience float64
}

// experienceBonusSpan is the surplus (in years) that saturates the
// experience bonus at 1.0.
const experienceBonusSpan = 5.0

// neutralSalaryScore applies when the candidate stated no minimum salary.
const neutralSalaryScore = 0.5

// Score turns one hard-filter survivor into a ScoredMatch. Pure and
// deterministic: identical inputs produce identical scores and reasons.
func Score(mc MatchCandidate, opp opportunity.Record, w Weights, tiers TierThresholds) ScoredMatch {
	sub := computeSubScores(mc, opp)

	total := w.Similarity*sub.Similarity +
		w.Subject*sub.Subject +
		w.Salary*sub.Salary +
		w.Quality*sub.Quality +
		w.Experience*sub.Experience

	score := int(math.Round(100 * total))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return ScoredMatch{
		CandidateID:   mc.Candidate.ID,
		OpportunityID: opp.ID,
		Similarity:    mc.Similarity,
		Score:         score,
		Tier:          tiers.TierFor(score),
		Reasons:       buildReasons(mc, opp, sub),
	}
}

func computeSubScores(mc MatchCandidate, opp opportunity.Record) subScores {
	return subScores{
		Similarity: clamp01(mc.Similarity),
		Subject:    subjectScore(mc.Candidate.Subjects, opp.RequiredSubjects),
		Salary:     salaryScore(mc.Candidate.MinSalary, opp.Salary),
		Quality:    qualityScore(mc.Candidate.QualityScore),
		Experience: experienceScore(mc.Candidate.YearsExperience, opp.MinYearsExperience),
	}
}

func subjectScore(have, required []string) float64 {
	denom := len(required)
	if denom < 1 {
		denom = 1
	}
	haveSet := make(map[string]struct{}, len(have))
	for _, s := range have {
		haveSet[s] = struct{}{}
	}
	overlap := 0
	for _, s := range required {
		if _, ok := haveSet[s]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(denom)
}

func salaryScore(minSalary *float64, offered float64) float64 {
	if minSalary == nil {
		return neutralSalaryScore
	}
	if *minSalary <= 0 {
		return neutralSalaryScore
	}
	surplus := (offered - *minSalary) / *minSalary
	return clamp01(surplus)
}

func qualityScore(quality *int) float64 {
	if quality == nil {
		return 0
	}
	return clamp01(float64(*quality) / 100)
}

func experienceScore(years, required int) float64 {
	return clamp01(float64(years-required) / experienceBonusSpan)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
