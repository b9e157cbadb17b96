package matching

import (
	"talent-match/internal/domain/opportunity"
)

// maxReasons caps the outward-facing reason list.
const maxReasons = 3

// Reason thresholds. A reason is emitted only when its sub-score clears
// the named threshold, so the list stays short and meaningful.
const (
	reasonSimilarityFloor = 0.85
	reasonSubjectFull     = 1.0
	reasonSubjectMost     = 0.5
	reasonSalarySurplus   = 0.2
	reasonQualityFloor    = 0.9
	reasonExperienceGap   = 3
)

// buildReasons produces a short natural-language reason list. Generation
// is pure and order-stable: reasons are evaluated in a fixed priority
// order and capped at maxReasons.
func buildReasons(mc MatchCandidate, opp opportunity.Record, sub subScores) []string {
	reasons := make([]string, 0, maxReasons)
	add := func(r string) {
		if len(reasons) < maxReasons {
			reasons = append(reasons, r)
		}
	}

	if sub.Subject >= reasonSubjectFull {
		add("covers every required subject")
	} else if sub.Subject >= reasonSubjectMost {
		add("covers most required subjects")
	}

	if mc.Candidate.YearsExperience >= opp.MinYearsExperience+reasonExperienceGap {
		add("exceeds the experience requirement")
	}

	if mc.Candidate.PrefersCountry(opp.Country) {
		add("specifically interested in this country")
	}

	if sub.Similarity >= reasonSimilarityFloor {
		add("strong semantic profile fit")
	}

	if sub.Quality >= reasonQualityFloor {
		add("top-decile profile quality")
	}

	if mc.Candidate.MinSalary != nil && sub.Salary >= reasonSalarySurplus {
		add("salary is well above the stated minimum")
	}

	return reasons
}
