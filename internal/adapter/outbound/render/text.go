package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Sentinel-Gate/admitgate/internal/domain/admission"
	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

func writeText(w io.Writer, rec *admission.Record, catalog *criteria.Catalog) error {
	bw := bufio.NewWriter(w)
	r := rec.Recommendation

	title := catalog.Title() + " Admission Policy"
	fmt.Fprintln(bw, title)
	fmt.Fprintln(bw, strings.Repeat("-", len(title)))
	fmt.Fprintf(bw, "Patient ID:    %s\n", orDash(rec.PatientID))
	fmt.Fprintf(bw, "Encounter ID:  %s\n", orDash(rec.EncounterID))
	fmt.Fprintf(bw, "Evaluation ID: %s\n", orDash(rec.EvaluationID))

	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Admission Recommended: %s\n", yesNo(r.Admit))
	fmt.Fprintf(bw, "Summary: %s\n", r.Summary)

	writeList(bw, "Triggered Criteria:", catalog.Labels(r.Triggered))
	writeList(bw, "Missing Inputs:", catalog.Labels(r.Missing))
	if len(rec.Ignored) > 0 {
		writeList(bw, "Ignored Keys:", rec.Ignored)
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Clinical Interpretation:")
	switch {
	case r.Admit:
		fmt.Fprintln(bw, " At least one admission-level severity indicator is present.")
		fmt.Fprintln(bw, " Inpatient monitoring and management are recommended.")
	case len(r.Missing) > 0:
		fmt.Fprintln(bw, " No admission-level severity indicator is confirmed, but some inputs are unknown.")
		fmt.Fprintln(bw, " Obtain the missing assessments before ruling out inpatient admission.")
	default:
		fmt.Fprintln(bw, " No admission-level severity indicators detected.")
		fmt.Fprintln(bw, " Consider outpatient or observation management per clinician judgment.")
	}

	return bw.Flush()
}

func writeList(w io.Writer, heading string, items []string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, heading)
	if len(items) == 0 {
		fmt.Fprintln(w, " - (none)")
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, " - %s\n", item)
	}
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
