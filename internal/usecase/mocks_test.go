package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"talent-match/internal/config"
	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/matching"
	"talent-match/internal/domain/opportunity"
	"talent-match/internal/repository"
	"talent-match/internal/vector"
)

type mockOpportunityRepo struct {
	records map[uuid.UUID]opportunity.Record
	openIDs []uuid.UUID
	err     error
}

func (m *mockOpportunityRepo) FindByID(_ context.Context, id uuid.UUID) (opportunity.Record, error) {
	if m.err != nil {
		return opportunity.Record{}, m.err
	}
	rec, ok := m.records[id]
	if !ok {
		return opportunity.Record{}, repository.ErrOpportunityNotFound
	}
	return rec, nil
}

func (m *mockOpportunityRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]opportunity.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[uuid.UUID]opportunity.Record, len(ids))
	for _, id := range ids {
		if rec, ok := m.records[id]; ok {
			out[id] = rec
		}
	}
	return out, nil
}

func (m *mockOpportunityRepo) ListOpenIDs(_ context.Context, _ int) ([]uuid.UUID, error) {
	return m.openIDs, m.err
}

type mockCandidateRepo struct {
	records    map[uuid.UUID]candidate.Record
	filtered   []candidate.Record
	lastFilter repository.CandidateFilter
	err        error
}

func (m *mockCandidateRepo) FindByID(_ context.Context, id uuid.UUID) (candidate.Record, error) {
	if m.err != nil {
		return candidate.Record{}, m.err
	}
	rec, ok := m.records[id]
	if !ok {
		return candidate.Record{}, repository.ErrCandidateNotFound
	}
	return rec, nil
}

func (m *mockCandidateRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]candidate.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[uuid.UUID]candidate.Record, len(ids))
	for _, id := range ids {
		if rec, ok := m.records[id]; ok {
			out[id] = rec
		}
	}
	return out, nil
}

func (m *mockCandidateRepo) Filter(_ context.Context, f repository.CandidateFilter) ([]candidate.Record, error) {
	m.lastFilter = f
	if m.err != nil {
		return nil, m.err
	}
	return m.filtered, nil
}

type mockNotificationRepo struct {
	recent    map[uuid.UUID]struct{}
	lastSince time.Time
	err       error
}

func (m *mockNotificationRepo) RecentRecipients(_ context.Context, _ []uuid.UUID, since time.Time) (map[uuid.UUID]struct{}, error) {
	m.lastSince = since
	if m.err != nil {
		return nil, m.err
	}
	if m.recent == nil {
		return map[uuid.UUID]struct{}{}, nil
	}
	return m.recent, nil
}

// mockVectorStore serves preset hits per collection. When errs is
// non-empty, calls consume one error each before serving hits, which
// drives the retry paths.
type mockVectorStore struct {
	hits  map[vector.Collection][]vector.Hit
	errs  []error
	calls int
}

func (m *mockVectorStore) Query(_ context.Context, col vector.Collection, _ []float32, _ float64, _ int) ([]vector.Hit, error) {
	m.calls++
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return m.hits[col], nil
}

// memoryCache is an in-memory MatchCache with an injectable clock so TTL
// expiry is testable without sleeping.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
	getErr  error
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

func newMemoryCache(now func() time.Time) *memoryCache {
	return &memoryCache{entries: make(map[string]memoryEntry), now: now}
}

func (m *memoryCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || m.now().After(e.expiresAt) {
		delete(m.entries, key)
		return false, nil
	}
	return true, json.Unmarshal(e.payload, out)
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{payload: payload, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func testMatchingConfig() config.MatchingConfig {
	return config.MatchingConfig{
		Weights:          matching.DefaultWeights(),
		Tiers:            matching.DefaultTierThresholds(),
		EmbeddingDim:     4,
		SimilarityFloor:  0.5,
		RetrievalLimit:   50,
		CacheTTL:         time.Hour,
		DedupLookback:    7 * 24 * time.Hour,
		VisaPolicy:       matching.VisaPermissive,
		RetrievalTimeout: time.Second,
		RetryAttempts:    3,
		RetryBackoff:     time.Millisecond,
		BatchGroupSize:   5,
		BatchParallelism: 5,
		BatchGroupDelay:  0,
	}
}

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }

func testEmbedding() []float32 { return []float32{0.1, 0.2, 0.3, 0.4} }

func openOpportunity(id uuid.UUID) opportunity.Record {
	return opportunity.Record{
		ID:                 id,
		Embedding:          testEmbedding(),
		RequiredSubjects:   []string{"math"},
		MinYearsExperience: 2,
		Country:            "TH",
		Salary:             2000,
		Status:             opportunity.StatusOpen,
	}
}

func activeCandidate(id uuid.UUID) candidate.Record {
	return candidate.Record{
		ID:              id,
		Embedding:       testEmbedding(),
		Subjects:        []string{"math", "science"},
		YearsExperience: 5,
		MinSalary:       float64Ptr(1800),
		QualityScore:    intPtr(90),
		IsActive:        true,
	}
}

// newTestMatching wires the usecase with mocks and an in-memory cache on
// a fixed clock. The returned time pointer advances the clock for both
// the cache TTL and the dedup window.
func newTestMatching(opps *mockOpportunityRepo, cands *mockCandidateRepo, notifs *mockNotificationRepo, vecs *mockVectorStore) (*Matching, *memoryCache, *time.Time) {
	current := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return current }

	store := newMemoryCache(clock)
	cached := NewCachedMatches(store, time.Hour, nil)
	cached.now = clock

	u := NewMatchingUsecase(opps, cands, notifs, vecs, cached, testMatchingConfig(), nil)
	u.now = clock
	return u, store, &current
}
