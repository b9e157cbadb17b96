package candidate

import (
	"github.com/google/uuid"
)

// VisaRequirement is a single failed requirement reported by the external
// visa rules evaluator, ordered by Priority (lower is more important).
type VisaRequirement struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
}

// VisaVerdict is the cached output of the external visa eligibility
// evaluator for one (candidate, country) pair. The matching engine only
// reads these; it never calls the evaluator itself.
type VisaVerdict struct {
	Eligible           bool              `json:"eligible"`
	FailedRequirements []VisaRequirement `json:"failed_requirements,omitempty"`
	Disqualifications  []string          `json:"disqualifications,omitempty"`
	Notes              string            `json:"notes,omitempty"`
}

type Record struct {
	ID                 uuid.UUID
	Embedding          []float32
	Subjects           []string
	YearsExperience    int
	Citizenship        string
	PreferredCountries []string
	MinSalary          *float64
	QualityScore       *int
	VisaCache          map[string]VisaVerdict
	IsActive           bool
}

// VisaVerdictFor returns the cached verdict for a country, if one exists.
// Country keys are stored uppercase ISO codes.
func (r Record) VisaVerdictFor(country string) (VisaVerdict, bool) {
	if len(r.VisaCache) == 0 {
		return VisaVerdict{}, false
	}
	v, ok := r.VisaCache[country]
	return v, ok
}

func (r Record) PrefersCountry(country string) bool {
	for _, c := range r.PreferredCountries {
		if c == country {
			return true
		}
	}
	return false
}
