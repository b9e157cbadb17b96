package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/opportunity"
	"talent-match/internal/vector"
)

func TestHybridQuery_Validate(t *testing.T) {
	cases := []struct {
		name    string
		q       HybridQuery
		wantErr bool
	}{
		{"empty query", HybridQuery{}, true},
		{"anchor only", HybridQuery{OpportunityID: uuidPtr(uuid.New())}, false},
		{"one predicate", HybridQuery{Countries: []string{"TH"}}, false},
		{"negative experience", HybridQuery{MinExperience: intPtr(-1)}, true},
		{"zero max salary", HybridQuery{MaxSalary: float64Ptr(0)}, true},
		{"negative limit", HybridQuery{Countries: []string{"TH"}, Limit: -1}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.q.Validate()
			if tc.wantErr && !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestHybridQuery_Normalize(t *testing.T) {
	q := HybridQuery{
		Countries: []string{" th", "JP ", ""},
		Subjects:  []string{"Maths", "  ", "SCIENCE", "CS"},
	}
	q.Normalize()

	if !reflect.DeepEqual(q.Countries, []string{"TH", "JP"}) {
		t.Fatalf("countries not canonicalized: %v", q.Countries)
	}
	if !reflect.DeepEqual(q.Subjects, []string{"math", "science", "computer science"}) {
		t.Fatalf("subjects not canonicalized: %v", q.Subjects)
	}
}

func TestHybridSearch_SimilarityMode(t *testing.T) {
	oppID := uuid.New()
	thai := activeCandidate(uuid.New())
	thai.PreferredCountries = []string{"TH"}
	abroad := activeCandidate(uuid.New())
	abroad.PreferredCountries = []string{"JP"}

	opps := &mockOpportunityRepo{records: map[uuid.UUID]opportunity.Record{oppID: openOpportunity(oppID)}}
	cands := &mockCandidateRepo{records: map[uuid.UUID]candidate.Record{thai.ID: thai, abroad.ID: abroad}}
	vecs := &mockVectorStore{hits: map[vector.Collection][]vector.Hit{
		vector.CollectionCandidates: {
			{ID: thai.ID, Similarity: 0.9},
			{ID: abroad.ID, Similarity: 0.95},
		},
	}}

	u, _, _ := newTestMatching(opps, cands, &mockNotificationRepo{}, vecs)

	res, err := u.HybridSearch(context.Background(), HybridQuery{
		OpportunityID: uuidPtr(oppID),
		Countries:     []string{"th"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Mode != HybridModeSimilarity {
		t.Fatalf("expected similarity mode, got %q", res.Mode)
	}
	if len(res.Scored) != 1 || res.Scored[0].CandidateID != thai.ID {
		t.Fatalf("discrete predicates must narrow the similarity results: %+v", res.Scored)
	}
	if len(res.Fallback) != 0 {
		t.Fatalf("similarity mode must not return fallback records")
	}
}

func TestHybridSearch_DiscreteFallback(t *testing.T) {
	best := activeCandidate(uuid.New())
	cands := &mockCandidateRepo{filtered: []candidate.Record{best}}

	u, _, _ := newTestMatching(&mockOpportunityRepo{}, cands, &mockNotificationRepo{}, &mockVectorStore{})

	res, err := u.HybridSearch(context.Background(), HybridQuery{
		Subjects:      []string{"Math"},
		MinExperience: intPtr(2),
		Limit:         10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Mode != HybridModeDiscrete {
		t.Fatalf("expected discrete mode without an anchor, got %q", res.Mode)
	}
	if len(res.Fallback) != 1 || res.Fallback[0].ID != best.ID {
		t.Fatalf("unexpected fallback records: %+v", res.Fallback)
	}
	if len(res.Scored) != 0 {
		t.Fatalf("discrete mode must not return scored matches")
	}

	// The repository receives the normalized predicate set.
	if !reflect.DeepEqual(cands.lastFilter.Subjects, []string{"math"}) {
		t.Fatalf("subjects not normalized before filtering: %v", cands.lastFilter.Subjects)
	}
	if cands.lastFilter.MinExperience == nil || *cands.lastFilter.MinExperience != 2 {
		t.Fatalf("min experience not forwarded: %v", cands.lastFilter.MinExperience)
	}
	if cands.lastFilter.Limit != 10 {
		t.Fatalf("limit not forwarded: %d", cands.lastFilter.Limit)
	}
}

func TestHybridSearch_AnchorNotFound(t *testing.T) {
	u, _, _ := newTestMatching(&mockOpportunityRepo{}, &mockCandidateRepo{}, &mockNotificationRepo{}, &mockVectorStore{})

	if _, err := u.HybridSearch(context.Background(), HybridQuery{OpportunityID: uuidPtr(uuid.New())}); !errors.Is(err, ErrOpportunityNotFound) {
		t.Fatalf("expected ErrOpportunityNotFound, got %v", err)
	}
}

func TestMatchesDiscrete_MaxSalary(t *testing.T) {
	rec := activeCandidate(uuid.New())
	rec.MinSalary = float64Ptr(3000)

	q := HybridQuery{MaxSalary: float64Ptr(2500)}
	if matchesDiscrete(rec, q) {
		t.Fatalf("candidate demanding above the budget must be excluded")
	}

	rec.MinSalary = nil
	if !matchesDiscrete(rec, q) {
		t.Fatalf("candidate with no stated minimum fits any budget")
	}
}

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }
