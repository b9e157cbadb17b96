package opportunity

import (
	"github.com/google/uuid"
)

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

type Record struct {
	ID                 uuid.UUID
	Embedding          []float32
	RequiredSubjects   []string
	MinYearsExperience int
	Country            string
	Salary             float64
	Status             string
}

func (r Record) IsOpen() bool {
	return r.Status == StatusOpen
}
