package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/matching"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	opps := r.Group("/opportunities")
	opps.Get("/:opportunity_id/matches", h.GetCandidatesForOpportunity)
	opps.Delete("/:opportunity_id/matches", h.InvalidateOpportunity)

	cands := r.Group("/candidates")
	cands.Get("/:candidate_id/opportunities", h.GetOpportunitiesForCandidate)

	matches := r.Group("/matches")
	matches.Post("/hybrid", h.HybridSearch)
	matches.Post("/batch", h.BatchRematch)
	matches.Get("/stats", h.CacheStats)
}

func (h *MatchHandler) GetCandidatesForOpportunity(c fiber.Ctx) error {
	oppID, err := uuid.Parse(c.Params("opportunity_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid opportunity id", nil, err)
	}

	intent, err := usecase.ParseIntent(c.Query("intent"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid intent", nil, err)
	}

	matches, err := h.uc.FindCandidatesForOpportunity(c.Context(), oppID, usecase.MatchOptions{
		Intent: intent,
		Limit:  parseQueryInt(c, "limit", 0),
	})
	if err != nil {
		return mapMatchingError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, toMatchList(matches))
}

func (h *MatchHandler) GetOpportunitiesForCandidate(c fiber.Ctx) error {
	candID, err := uuid.Parse(c.Params("candidate_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid candidate id", nil, err)
	}

	matches, err := h.uc.FindOpportunitiesForCandidate(c.Context(), candID, parseQueryInt(c, "limit", 0))
	if err != nil {
		return mapMatchingError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, toMatchList(matches))
}

func (h *MatchHandler) HybridSearch(c fiber.Ctx) error {
	// Strict decode: unknown predicate keys are a caller bug, not
	// something to silently ignore.
	var req dto.HybridSearchRequest
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid hybrid query", nil, err)
	}

	res, err := h.uc.HybridSearch(c.Context(), usecase.HybridQuery{
		OpportunityID: req.OpportunityID,
		Countries:     req.Countries,
		Subjects:      req.Subjects,
		MinExperience: req.MinExperience,
		MaxSalary:     req.MaxSalary,
		Limit:         req.Limit,
	})
	if err != nil {
		return mapMatchingError(err)
	}

	out := dto.HybridSearchResponse{Mode: res.Mode}
	if len(res.Scored) > 0 {
		out.Matches = toMatchList(res.Scored).Matches
	}
	for _, rec := range res.Fallback {
		out.Candidates = append(out.Candidates, toCandidateSummary(rec))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MatchHandler) BatchRematch(c fiber.Ctx) error {
	var req dto.BatchRematchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid batch request", nil, err)
	}
	if len(req.OpportunityIDs) == 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "opportunity_ids must not be empty", nil, nil)
	}

	intent, err := usecase.ParseIntent(req.Intent)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid intent", nil, err)
	}

	summary, err := h.uc.RematchOpportunities(c.Context(), req.OpportunityIDs, intent)
	if err != nil {
		return mapMatchingError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, summary)
}

func (h *MatchHandler) InvalidateOpportunity(c fiber.Ctx) error {
	oppID, err := uuid.Parse(c.Params("opportunity_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid opportunity id", nil, err)
	}
	if err := h.uc.InvalidateOpportunity(c.Context(), oppID); err != nil {
		return mapMatchingError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *MatchHandler) CacheStats(c fiber.Ctx) error {
	hits, misses := h.uc.CacheStats()
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CacheStatsResponse{Hits: hits, Misses: misses})
}

func toMatchList(matches []matching.ScoredMatch) dto.MatchListResponse {
	out := dto.MatchListResponse{Matches: make([]dto.ScoredMatchResponse, 0, len(matches))}
	for _, m := range matches {
		out.Matches = append(out.Matches, dto.ScoredMatchResponse{
			CandidateID:   m.CandidateID,
			OpportunityID: m.OpportunityID,
			Similarity:    m.Similarity,
			Score:         m.Score,
			Tier:          string(m.Tier),
			Reasons:       m.Reasons,
		})
	}
	out.Count = len(out.Matches)
	return out
}

func toCandidateSummary(rec candidate.Record) dto.CandidateSummaryResponse {
	return dto.CandidateSummaryResponse{
		ID:                 rec.ID,
		Subjects:           rec.Subjects,
		YearsExperience:    rec.YearsExperience,
		PreferredCountries: rec.PreferredCountries,
		QualityScore:       rec.QualityScore,
	}
}

func mapMatchingError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "bad request", nil, err)
	case errors.Is(err, usecase.ErrOpportunityNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "opportunity not found", nil, err)
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "candidate not found", nil, err)
	case errors.Is(err, usecase.ErrMissingEmbedding):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "embedding not computed yet", nil, err)
	case errors.Is(err, usecase.ErrRetrievalTimeout), errors.Is(err, usecase.ErrRetrievalUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "retrieval backend unavailable", nil, err)
	default:
		return err
	}
}

func parseQueryInt(c fiber.Ctx, key string, defaultVal int) int {
	s := c.Query(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
