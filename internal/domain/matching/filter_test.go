package matching

import (
	"testing"

	"github.com/google/uuid"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/opportunity"
)

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }

func testOpportunity() opportunity.Record {
	return opportunity.Record{
		ID:                 uuid.New(),
		RequiredSubjects:   []string{"math"},
		MinYearsExperience: 2,
		Country:            "TH",
		Salary:             2000,
		Status:             opportunity.StatusOpen,
	}
}

func eligibleCandidate() candidate.Record {
	return candidate.Record{
		ID:              uuid.New(),
		Subjects:        []string{"math", "science"},
		YearsExperience: 5,
		MinSalary:       float64Ptr(1800),
		QualityScore:    intPtr(90),
		IsActive:        true,
	}
}

func TestApplyHardFilters_AllPass(t *testing.T) {
	opp := testOpportunity()
	mc := MatchCandidate{Candidate: eligibleCandidate(), Similarity: 0.9}

	survivors, counts := ApplyHardFilters([]MatchCandidate{mc}, opp, VisaPermissive)
	if len(survivors) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(survivors))
	}
	if counts.Input != 1 || counts.VisaPassed != 1 || counts.ExperiencePassed != 1 || counts.SalaryPassed != 1 {
		t.Fatalf("unexpected stage counts: %+v", counts)
	}
}

func TestApplyHardFilters_VisaIneligible(t *testing.T) {
	opp := testOpportunity()
	c := eligibleCandidate()
	c.VisaCache = map[string]candidate.VisaVerdict{
		"TH": {Eligible: false, Disqualifications: []string{"citizenship not accepted"}},
	}

	survivors, counts := ApplyHardFilters([]MatchCandidate{{Candidate: c, Similarity: 0.95}}, opp, VisaPermissive)
	if len(survivors) != 0 {
		t.Fatalf("visa-ineligible candidate must be removed, got %d survivors", len(survivors))
	}
	if counts.VisaPassed != 0 {
		t.Fatalf("expected 0 visa passes, got %d", counts.VisaPassed)
	}
}

func TestApplyHardFilters_MissingVisaVerdictPolicy(t *testing.T) {
	opp := testOpportunity()
	c := eligibleCandidate()
	c.VisaCache = nil

	survivors, _ := ApplyHardFilters([]MatchCandidate{{Candidate: c, Similarity: 0.9}}, opp, VisaPermissive)
	if len(survivors) != 1 {
		t.Fatalf("permissive policy must keep candidates without a cached verdict")
	}

	survivors, _ = ApplyHardFilters([]MatchCandidate{{Candidate: c, Similarity: 0.9}}, opp, VisaStrict)
	if len(survivors) != 0 {
		t.Fatalf("strict policy must drop candidates without a cached verdict")
	}
}

func TestApplyHardFilters_VerdictForOtherCountryIgnored(t *testing.T) {
	opp := testOpportunity()
	c := eligibleCandidate()
	c.VisaCache = map[string]candidate.VisaVerdict{
		"JP": {Eligible: false},
	}

	survivors, _ := ApplyHardFilters([]MatchCandidate{{Candidate: c, Similarity: 0.9}}, opp, VisaPermissive)
	if len(survivors) != 1 {
		t.Fatalf("a verdict for another country must not disqualify")
	}
}

func TestApplyHardFilters_ExperienceFloor(t *testing.T) {
	opp := testOpportunity()
	c := eligibleCandidate()
	c.YearsExperience = 1

	survivors, counts := ApplyHardFilters([]MatchCandidate{{Candidate: c, Similarity: 0.99}}, opp, VisaPermissive)
	if len(survivors) != 0 {
		t.Fatalf("below-floor experience must disqualify regardless of similarity")
	}
	if counts.VisaPassed != 1 || counts.ExperiencePassed != 0 {
		t.Fatalf("unexpected stage counts: %+v", counts)
	}
}

func TestApplyHardFilters_NoExperienceRequirement(t *testing.T) {
	opp := testOpportunity()
	opp.MinYearsExperience = 0
	c := eligibleCandidate()
	c.YearsExperience = 0

	survivors, _ := ApplyHardFilters([]MatchCandidate{{Candidate: c, Similarity: 0.9}}, opp, VisaPermissive)
	if len(survivors) != 1 {
		t.Fatalf("no experience requirement means the stage always passes")
	}
}

func TestApplyHardFilters_SalaryFloor(t *testing.T) {
	opp := testOpportunity()
	c := eligibleCandidate()
	c.MinSalary = float64Ptr(2500)

	survivors, counts := ApplyHardFilters([]MatchCandidate{{Candidate: c, Similarity: 0.99}}, opp, VisaPermissive)
	if len(survivors) != 0 {
		t.Fatalf("salary below candidate minimum must disqualify entirely")
	}
	if counts.SalaryPassed != 0 {
		t.Fatalf("unexpected stage counts: %+v", counts)
	}
}

func TestApplyHardFilters_SalaryExactlyAtMinimumPasses(t *testing.T) {
	opp := testOpportunity()
	c := eligibleCandidate()
	c.MinSalary = float64Ptr(2000)

	survivors, _ := ApplyHardFilters([]MatchCandidate{{Candidate: c, Similarity: 0.9}}, opp, VisaPermissive)
	if len(survivors) != 1 {
		t.Fatalf("salary equal to the stated minimum is acceptable")
	}
}

func TestApplyHardFilters_NoStatedMinimumPasses(t *testing.T) {
	opp := testOpportunity()
	c := eligibleCandidate()
	c.MinSalary = nil

	survivors, _ := ApplyHardFilters([]MatchCandidate{{Candidate: c, Similarity: 0.9}}, opp, VisaPermissive)
	if len(survivors) != 1 {
		t.Fatalf("candidates without a stated minimum pass the salary stage")
	}
}

func TestApplyHardFilters_PreservesRetrievalOrder(t *testing.T) {
	opp := testOpportunity()
	a := eligibleCandidate()
	b := eligibleCandidate()

	in := []MatchCandidate{
		{Candidate: a, Similarity: 0.9},
		{Candidate: b, Similarity: 0.8},
	}
	survivors, _ := ApplyHardFilters(in, opp, VisaPermissive)
	if len(survivors) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(survivors))
	}
	if survivors[0].Candidate.ID != a.ID || survivors[1].Candidate.ID != b.ID {
		t.Fatalf("survivor order must match input order")
	}
}
