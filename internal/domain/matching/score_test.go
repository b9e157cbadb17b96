package matching

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestScore_SpecExample(t *testing.T) {
	// Opportunity: 2 years required, 2000/month, subjects {math}.
	// Candidate: 5 years, minimum 1800, {math, science}, quality 90,
	// similarity 0.9.
	opp := testOpportunity()
	mc := MatchCandidate{Candidate: eligibleCandidate(), Similarity: 0.9}

	got := Score(mc, opp, DefaultWeights(), DefaultTierThresholds())

	// 0.35*0.9 + 0.25*1.0 + 0.15*(200/1800) + 0.15*0.9 + 0.10*0.6 = 0.7767
	if got.Score != 78 {
		t.Fatalf("expected score 78, got %d", got.Score)
	}
	if got.Tier != TierGreat {
		t.Fatalf("expected tier GREAT, got %s", got.Tier)
	}
}

func TestScore_BoundsAndInvariants(t *testing.T) {
	opp := testOpportunity()

	noQuality := eligibleCandidate()
	noQuality.QualityScore = nil
	noMinimum := eligibleCandidate()
	noMinimum.MinSalary = nil

	cases := []struct {
		name string
		mc   MatchCandidate
	}{
		{"zero similarity", MatchCandidate{Candidate: eligibleCandidate(), Similarity: 0}},
		{"full similarity", MatchCandidate{Candidate: eligibleCandidate(), Similarity: 1}},
		{"no quality score", MatchCandidate{Candidate: noQuality, Similarity: 0.5}},
		{"no stated minimum", MatchCandidate{Candidate: noMinimum, Similarity: 0.5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.mc, opp, DefaultWeights(), DefaultTierThresholds())
			if got.Score < 0 || got.Score > 100 {
				t.Fatalf("score out of range: %d", got.Score)
			}
			if got.Similarity < 0 || got.Similarity > 1 {
				t.Fatalf("similarity out of range: %v", got.Similarity)
			}
			if len(got.Reasons) > 3 {
				t.Fatalf("reasons capped at 3, got %d", len(got.Reasons))
			}
		})
	}
}

func TestScore_Idempotent(t *testing.T) {
	opp := testOpportunity()
	c := eligibleCandidate()
	c.PreferredCountries = []string{"TH"}
	mc := MatchCandidate{Candidate: c, Similarity: 0.9}

	a := Score(mc, opp, DefaultWeights(), DefaultTierThresholds())
	b := Score(mc, opp, DefaultWeights(), DefaultTierThresholds())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("scoring is not idempotent: %+v vs %+v", a, b)
	}
}

func TestScore_NeutralSalaryWhenNoMinimumStated(t *testing.T) {
	opp := testOpportunity()
	c := eligibleCandidate()
	c.MinSalary = nil
	sub := computeSubScores(MatchCandidate{Candidate: c, Similarity: 0.5}, opp)
	if sub.Salary != 0.5 {
		t.Fatalf("expected neutral 0.5 salary score, got %v", sub.Salary)
	}
}

func TestScore_SalarySurplusCapped(t *testing.T) {
	opp := testOpportunity()
	opp.Salary = 10000
	c := eligibleCandidate()
	c.MinSalary = float64Ptr(1000)
	sub := computeSubScores(MatchCandidate{Candidate: c, Similarity: 0.5}, opp)
	if sub.Salary != 1 {
		t.Fatalf("salary attractiveness must cap at 1, got %v", sub.Salary)
	}
}

func TestSubjectScore_EmptyRequiredSet(t *testing.T) {
	if got := subjectScore([]string{"math"}, nil); got != 0 {
		t.Fatalf("no required subjects means zero overlap ratio, got %v", got)
	}
}

func TestExperienceScore_Clamped(t *testing.T) {
	if got := experienceScore(1, 5); got != 0 {
		t.Fatalf("deficit clamps to 0, got %v", got)
	}
	if got := experienceScore(30, 2); got != 1 {
		t.Fatalf("large surplus clamps to 1, got %v", got)
	}
	if got := experienceScore(5, 2); got != 0.6 {
		t.Fatalf("expected 0.6, got %v", got)
	}
}

func TestTierThresholds_NoGapsNoOverlap(t *testing.T) {
	tiers := DefaultTierThresholds()
	prev := tiers.TierFor(0)
	if prev != TierFair {
		t.Fatalf("score 0 must be FAIR")
	}
	seen := map[Tier]bool{prev: true}
	for s := 1; s <= 100; s++ {
		cur := tiers.TierFor(s)
		if cur != prev {
			seen[cur] = true
			prev = cur
		}
	}
	for _, tier := range []Tier{TierFair, TierGood, TierGreat, TierExcellent} {
		if !seen[tier] {
			t.Fatalf("tier %s unreachable in [0,100]", tier)
		}
	}
	if tiers.TierFor(tiers.Excellent) != TierExcellent ||
		tiers.TierFor(tiers.Excellent-1) != TierGreat ||
		tiers.TierFor(tiers.Great) != TierGreat ||
		tiers.TierFor(tiers.Great-1) != TierGood ||
		tiers.TierFor(tiers.Good) != TierGood ||
		tiers.TierFor(tiers.Good-1) != TierFair {
		t.Fatalf("tier boundaries are off")
	}
}

func TestWeights_Validate(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights must validate: %v", err)
	}

	bad := DefaultWeights()
	bad.Similarity = 0.5
	if err := bad.Validate(); err == nil {
		t.Fatalf("weights not summing to 1 must fail validation")
	}

	neg := Weights{Similarity: -0.1, Subject: 0.5, Salary: 0.3, Quality: 0.2, Experience: 0.1}
	if err := neg.Validate(); err == nil {
		t.Fatalf("negative weight must fail validation")
	}
}

func TestTierThresholds_Validate(t *testing.T) {
	if err := DefaultTierThresholds().Validate(); err != nil {
		t.Fatalf("default thresholds must validate: %v", err)
	}
	if err := (TierThresholds{Excellent: 70, Great: 70, Good: 55}).Validate(); err == nil {
		t.Fatalf("non-descending thresholds must fail validation")
	}
	if err := (TierThresholds{Excellent: 120, Great: 70, Good: 55}).Validate(); err == nil {
		t.Fatalf("threshold above 100 must fail validation")
	}
}

func TestSortMatches_Deterministic(t *testing.T) {
	idA := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	idB := uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	idC := uuid.MustParse("00000000-0000-0000-0000-00000000000c")

	ms := []ScoredMatch{
		{CandidateID: idC, Score: 80},
		{CandidateID: idA, Score: 90},
		{CandidateID: idB, Score: 80},
	}
	SortMatches(ms, TieByCandidate)

	want := []uuid.UUID{idA, idB, idC}
	for i, id := range want {
		if ms[i].CandidateID != id {
			t.Fatalf("position %d: want %s, got %s", i, id, ms[i].CandidateID)
		}
	}
}

func TestBuildReasons_OrderStableAndCapped(t *testing.T) {
	opp := testOpportunity()
	c := eligibleCandidate()
	c.PreferredCountries = []string{"TH"}
	mc := MatchCandidate{Candidate: c, Similarity: 0.95}

	sub := computeSubScores(mc, opp)
	a := buildReasons(mc, opp, sub)
	b := buildReasons(mc, opp, sub)

	if len(a) == 0 || len(a) > 3 {
		t.Fatalf("expected 1..3 reasons, got %d", len(a))
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("reason generation must be order-stable: %v vs %v", a, b)
	}
	if a[0] != "covers every required subject" {
		t.Fatalf("fixed priority order violated, first reason: %q", a[0])
	}
}
