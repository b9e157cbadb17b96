package search

import "testing"

func TestCanonicalSubject(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Maths", "math"},
		{"  mathematics ", "math"},
		{"CS", "computer science"},
		{"ESL", "english"},
		{"science", "science"},
		{"Underwater Basket Weaving", "underwater basket weaving"},
	}
	for _, tc := range cases {
		if got := CanonicalSubject(tc.in); got != tc.want {
			t.Fatalf("CanonicalSubject(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
