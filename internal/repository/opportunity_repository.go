package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"talent-match/internal/database"
	"talent-match/internal/domain/opportunity"
)

var ErrOpportunityNotFound = errors.New("opportunity not found")

type OpportunityRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (opportunity.Record, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]opportunity.Record, error)
	ListOpenIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
}

type PostgresOpportunityRepository struct {
	db database.DB
}

func NewPostgresOpportunityRepository(db database.DB) *PostgresOpportunityRepository {
	return &PostgresOpportunityRepository{db: db}
}

const opportunityColumns = `id, embedding, COALESCE(required_subjects, '{}'),
	COALESCE(min_years_experience, 0), COALESCE(country, ''), COALESCE(salary, 0), COALESCE(status, '')`

func (r *PostgresOpportunityRepository) FindByID(ctx context.Context, id uuid.UUID) (opportunity.Record, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE id = $1`,
		id,
	)

	rec, err := scanOpportunity(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return opportunity.Record{}, ErrOpportunityNotFound
		}
		return opportunity.Record{}, err
	}
	return rec, nil
}

func (r *PostgresOpportunityRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]opportunity.Record, error) {
	out := make(map[uuid.UUID]opportunity.Record, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanOpportunity(rows)
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

func (r *PostgresOpportunityRepository) ListOpenIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := r.db.Query(ctx,
		`SELECT id FROM opportunities WHERE status = 'open' ORDER BY id ASC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0, limit)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanOpportunity(s scanner) (opportunity.Record, error) {
	var (
		rec       opportunity.Record
		embedding *pgvector.Vector
	)
	if err := s.Scan(
		&rec.ID,
		&embedding,
		&rec.RequiredSubjects,
		&rec.MinYearsExperience,
		&rec.Country,
		&rec.Salary,
		&rec.Status,
	); err != nil {
		return opportunity.Record{}, err
	}
	if embedding != nil {
		rec.Embedding = embedding.Slice()
	}
	return rec, nil
}
