package seeder

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"talent-match/internal/database"
)

type OpportunitiesSeeder struct {
	Dim int
}

func (OpportunitiesSeeder) Name() string { return "opportunities" }

func (s OpportunitiesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "opportunities",
		"id", "embedding", "required_subjects", "min_years_experience",
		"country", "salary", "status",
	); err != nil {
		return err
	}

	items := []struct {
		ID               string
		RequiredSubjects []string
		MinYears         int
		Country          string
		Salary           float64
		Status           string
	}{
		{
			ID:               "9c4d1e88-0001-4a6b-8f20-5e33b9c00001",
			RequiredSubjects: []string{"math"},
			MinYears:         2,
			Country:          "TH",
			Salary:           2000,
			Status:           "open",
		},
		{
			ID:               "9c4d1e88-0002-4a6b-8f20-5e33b9c00002",
			RequiredSubjects: []string{"english"},
			MinYears:         0,
			Country:          "KR",
			Salary:           2400,
			Status:           "open",
		},
		{
			ID:               "9c4d1e88-0003-4a6b-8f20-5e33b9c00003",
			RequiredSubjects: []string{"math", "computer science"},
			MinYears:         5,
			Country:          "TH",
			Salary:           3200,
			Status:           "open",
		},
		{
			ID:               "9c4d1e88-0004-4a6b-8f20-5e33b9c00004",
			RequiredSubjects: []string{"history"},
			MinYears:         1,
			Country:          "JP",
			Salary:           1900,
			Status:           "closed",
		},
	}

	for i, it := range items {
		_, err := db.Exec(
			ctx,
			`INSERT INTO opportunities
				(id, embedding, required_subjects, min_years_experience, country, salary, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (id) DO NOTHING`,
			it.ID,
			pgvector.NewVector(demoEmbedding(s.Dim, i)),
			it.RequiredSubjects,
			it.MinYears,
			it.Country,
			it.Salary,
			it.Status,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
