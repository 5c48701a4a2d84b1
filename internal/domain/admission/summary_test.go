package admission

import (
	"strings"
	"testing"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	catalog := twoCriteriaCatalog(t)

	tests := []struct {
		name     string
		facts    Facts
		contains []string
		excludes []string
	}{
		{
			name:     "one met",
			facts:    Facts{Triggered: []string{"hypoxia"}},
			contains: []string{"Recommend inpatient admission", "1 admission criterion met", "Hypoxia"},
		},
		{
			name:     "two met",
			facts:    Facts{Triggered: []string{"hypoxia", "hypotension"}},
			contains: []string{"2 admission criteria met", "Hypoxia; Hypotension"},
		},
		{
			name:     "nothing met nothing missing",
			facts:    Facts{NotMet: []string{"hypoxia", "hypotension"}},
			contains: []string{"not indicated"},
			excludes: []string{"could not be assessed"},
		},
		{
			name:     "nothing met with missing",
			facts:    Facts{Missing: []string{"hypoxia", "hypotension"}},
			contains: []string{"not indicated", "2 criteria could not be assessed"},
		},
		{
			name:     "met with missing",
			facts:    Facts{Triggered: []string{"hypotension"}, Missing: []string{"hypoxia"}},
			contains: []string{"1 admission criterion met (Hypotension)"},
			excludes: []string{"not indicated", "could not be assessed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Summarize(catalog, tt.facts)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Summarize() = %q, want to contain %q", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("Summarize() = %q, should not contain %q", got, bad)
				}
			}
		})
	}
}
