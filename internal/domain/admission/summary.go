package admission

import (
	"fmt"
	"strings"

	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

const notIndicated = "Inpatient admission not indicated by this policy."

// Summarize builds the human-readable explanation for a partitioned Set.
// When admission is not recommended and inputs are missing, the summary
// says so; an unknown is never reported as reassurance.
func Summarize(catalog *criteria.Catalog, facts Facts) string {
	if len(facts.Triggered) > 0 {
		return fmt.Sprintf("Recommend inpatient admission: %s met (%s).",
			plural(len(facts.Triggered), "admission criterion", "admission criteria"),
			strings.Join(catalog.Labels(facts.Triggered), "; "))
	}

	if len(facts.Missing) == 0 {
		return notIndicated
	}
	return fmt.Sprintf("%s However, %s could not be assessed; review missing inputs before relying on this result.",
		notIndicated, plural(len(facts.Missing), "criterion", "criteria"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
