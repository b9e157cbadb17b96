package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"talent-match/internal/database"
	"talent-match/internal/domain/candidate"
)

var ErrCandidateNotFound = errors.New("candidate not found")

// CandidateFilter is the discrete predicate set for hybrid search. Every
// populated field is ANDed; an empty filter matches all active candidates.
type CandidateFilter struct {
	Countries     []string
	Subjects      []string
	MinExperience *int
	MaxSalary     *float64
	Limit         int
}

type CandidateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (candidate.Record, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]candidate.Record, error)
	Filter(ctx context.Context, f CandidateFilter) ([]candidate.Record, error)
}

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

const candidateColumns = `id, embedding, COALESCE(subjects, '{}'), COALESCE(years_experience, 0),
	COALESCE(citizenship, ''), COALESCE(preferred_countries, '{}'), min_salary, quality_score,
	COALESCE(visa_cache, '{}'), COALESCE(is_active, false)`

func (r *PostgresCandidateRepository) FindByID(ctx context.Context, id uuid.UUID) (candidate.Record, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`,
		id,
	)

	rec, err := scanCandidate(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return candidate.Record{}, ErrCandidateNotFound
		}
		return candidate.Record{}, err
	}
	return rec, nil
}

func (r *PostgresCandidateRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]candidate.Record, error) {
	out := make(map[uuid.UUID]candidate.Record, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out[rec.ID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCandidateRepository) Filter(ctx context.Context, f CandidateFilter) ([]candidate.Record, error) {
	where := []string{"is_active"}
	args := make([]any, 0, 5)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.Countries) > 0 {
		where = append(where, "preferred_countries && "+arg(f.Countries))
	}
	if len(f.Subjects) > 0 {
		where = append(where, "subjects && "+arg(f.Subjects))
	}
	if f.MinExperience != nil {
		where = append(where, "years_experience >= "+arg(*f.MinExperience))
	}
	if f.MaxSalary != nil {
		where = append(where, "(min_salary IS NULL OR min_salary <= "+arg(*f.MaxSalary)+")")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + candidateColumns + `
		FROM candidates
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY quality_score DESC NULLS LAST, years_experience DESC, id ASC
		LIMIT ` + arg(limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]candidate.Record, 0, limit)
	for rows.Next() {
		rec, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCandidate(s scanner) (candidate.Record, error) {
	var (
		rec       candidate.Record
		embedding *pgvector.Vector
		visaRaw   []byte
	)
	if err := s.Scan(
		&rec.ID,
		&embedding,
		&rec.Subjects,
		&rec.YearsExperience,
		&rec.Citizenship,
		&rec.PreferredCountries,
		&rec.MinSalary,
		&rec.QualityScore,
		&visaRaw,
		&rec.IsActive,
	); err != nil {
		return candidate.Record{}, err
	}

	if embedding != nil {
		rec.Embedding = embedding.Slice()
	}
	if len(visaRaw) > 0 {
		if err := json.Unmarshal(visaRaw, &rec.VisaCache); err != nil {
			return candidate.Record{}, fmt.Errorf("decode visa cache for %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}
