package seeder

import (
	"context"
	"encoding/json"

	"github.com/pgvector/pgvector-go"

	"talent-match/internal/database"
	"talent-match/internal/domain/candidate"
)

type CandidatesSeeder struct {
	Dim int
}

func (CandidatesSeeder) Name() string { return "candidates" }

func (s CandidatesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "candidates",
		"id", "embedding", "subjects", "years_experience", "citizenship",
		"preferred_countries", "min_salary", "quality_score", "visa_cache", "is_active",
	); err != nil {
		return err
	}

	items := []struct {
		ID                 string
		Subjects           []string
		YearsExperience    int
		Citizenship        string
		PreferredCountries []string
		MinSalary          *float64
		QualityScore       *int
		Visa               map[string]candidate.VisaVerdict
	}{
		{
			ID:                 "7b8a2f74-0001-4f7e-9c39-2d11a8f00001",
			Subjects:           []string{"math", "science"},
			YearsExperience:    5,
			Citizenship:        "US",
			PreferredCountries: []string{"TH", "VN"},
			MinSalary:          floatp(1800),
			QualityScore:       intp(90),
			Visa: map[string]candidate.VisaVerdict{
				"TH": {Eligible: true},
			},
		},
		{
			ID:                 "7b8a2f74-0002-4f7e-9c39-2d11a8f00002",
			Subjects:           []string{"english"},
			YearsExperience:    2,
			Citizenship:        "ZA",
			PreferredCountries: []string{"KR", "JP"},
			MinSalary:          floatp(2200),
			QualityScore:       intp(75),
			Visa: map[string]candidate.VisaVerdict{
				"KR": {Eligible: true},
				"JP": {Eligible: false, FailedRequirements: []candidate.VisaRequirement{
					{Name: "degree verification", Priority: 1},
				}},
			},
		},
		{
			ID:                 "7b8a2f74-0003-4f7e-9c39-2d11a8f00003",
			Subjects:           []string{"math", "computer science"},
			YearsExperience:    8,
			Citizenship:        "GB",
			PreferredCountries: []string{"TH"},
			QualityScore:       intp(96),
		},
		{
			ID:              "7b8a2f74-0004-4f7e-9c39-2d11a8f00004",
			Subjects:        []string{"history"},
			YearsExperience: 1,
			Citizenship:     "AU",
			MinSalary:       floatp(1500),
		},
	}

	for i, it := range items {
		visa, err := json.Marshal(it.Visa)
		if err != nil {
			return err
		}
		_, err = db.Exec(
			ctx,
			`INSERT INTO candidates
				(id, embedding, subjects, years_experience, citizenship, preferred_countries,
				 min_salary, quality_score, visa_cache, is_active)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true)
			 ON CONFLICT (id) DO NOTHING`,
			it.ID,
			pgvector.NewVector(demoEmbedding(s.Dim, i)),
			it.Subjects,
			it.YearsExperience,
			it.Citizenship,
			it.PreferredCountries,
			it.MinSalary,
			it.QualityScore,
			visa,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func floatp(v float64) *float64 { return &v }
func intp(v int) *int           { return &v }
