package matching

import (
	"talent-match/internal/domain/opportunity"
)

// VisaPolicy controls how a missing cached visa verdict is treated.
// Permissive lets the candidate through and defers the real check to the
// more expensive evaluator outside this engine; strict disqualifies.
type VisaPolicy string

const (
	VisaPermissive VisaPolicy = "permissive"
	VisaStrict     VisaPolicy = "strict"
)

// FilterStage identifies one hard-filter check. The order is fixed:
// visa, then experience floor, then salary floor. Order matters only for
// the per-stage diagnostics, not for the pass/fail outcome.
type FilterStage string

const (
	StageVisa       FilterStage = "visa"
	StageExperience FilterStage = "experience"
	StageSalary     FilterStage = "salary"
)

// StageResult is the outcome of a single hard-filter stage for one
// candidate. Failures carry a short machine-readable reason.
type StageResult struct {
	Stage  FilterStage
	Passed bool
	Reason string
}

// StageCounts tracks how many candidates survived each stage. Used for
// observability only, never for scoring.
type StageCounts struct {
	Input            int
	VisaPassed       int
	ExperiencePassed int
	SalaryPassed     int
}

// ApplyHardFilters runs every hard-filter stage over the retrieved
// candidates. A single failed stage removes the candidate entirely; there
// is no partial credit. Survivors keep their retrieval order.
func ApplyHardFilters(cands []MatchCandidate, opp opportunity.Record, policy VisaPolicy) ([]MatchCandidate, StageCounts) {
	counts := StageCounts{Input: len(cands)}
	survivors := make([]MatchCandidate, 0, len(cands))

	for _, mc := range cands {
		if res := checkVisa(mc, opp, policy); !res.Passed {
			continue
		}
		counts.VisaPassed++

		if res := checkExperience(mc, opp); !res.Passed {
			continue
		}
		counts.ExperiencePassed++

		if res := checkSalary(mc, opp); !res.Passed {
			continue
		}
		counts.SalaryPassed++

		survivors = append(survivors, mc)
	}

	return survivors, counts
}

func checkVisa(mc MatchCandidate, opp opportunity.Record, policy VisaPolicy) StageResult {
	verdict, ok := mc.Candidate.VisaVerdictFor(opp.Country)
	if !ok {
		if policy == VisaStrict {
			return StageResult{Stage: StageVisa, Passed: false, Reason: "no cached visa verdict"}
		}
		return StageResult{Stage: StageVisa, Passed: true}
	}
	if !verdict.Eligible {
		return StageResult{Stage: StageVisa, Passed: false, Reason: "visa ineligible"}
	}
	return StageResult{Stage: StageVisa, Passed: true}
}

func checkExperience(mc MatchCandidate, opp opportunity.Record) StageResult {
	if opp.MinYearsExperience > 0 && mc.Candidate.YearsExperience < opp.MinYearsExperience {
		return StageResult{Stage: StageExperience, Passed: false, Reason: "below experience floor"}
	}
	return StageResult{Stage: StageExperience, Passed: true}
}

func checkSalary(mc MatchCandidate, opp opportunity.Record) StageResult {
	min := mc.Candidate.MinSalary
	if min != nil && opp.Salary < *min {
		return StageResult{Stage: StageSalary, Passed: false, Reason: "salary below candidate minimum"}
	}
	return StageResult{Stage: StageSalary, Passed: true}
}
