package seeder

import "math"

func Defaults(embeddingDim int) []Seeder {
	return []Seeder{
		CandidatesSeeder{Dim: embeddingDim},
		OpportunitiesSeeder{Dim: embeddingDim},
	}
}

// demoEmbedding produces a deterministic unit-length vector so seeded
// rows get stable, repeatable similarities in local environments.
func demoEmbedding(dim int, seed int) []float32 {
	if dim <= 0 {
		return nil
	}
	v := make([]float32, dim)
	var norm float64
	for i := range v {
		x := math.Sin(float64(seed+1) * float64(i+1) * 0.37)
		v[i] = float32(x)
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return v
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}
