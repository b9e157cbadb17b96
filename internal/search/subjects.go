// Package search holds query-side vocabulary helpers shared by the
// hybrid search path.
package search

import "strings"

// subjectAliases maps common spellings and abbreviations onto the
// canonical subject names stored on candidate and opportunity rows.
var subjectAliases = map[string]string{
	"maths":            "math",
	"mathematics":      "math",
	"cs":               "computer science",
	"compsci":          "computer science",
	"ict":              "computer science",
	"esl":              "english",
	"efl":              "english",
	"english language": "english",
	"phys ed":          "physical education",
	"pe":               "physical education",
	"bio":              "biology",
	"chem":             "chemistry",
}

// CanonicalSubject lowercases and collapses a subject term onto its
// stored form. Unknown terms come back trimmed and lowercased.
func CanonicalSubject(term string) string {
	s := strings.ToLower(strings.TrimSpace(term))
	if canon, ok := subjectAliases[s]; ok {
		return canon
	}
	return s
}
