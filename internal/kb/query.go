package kb

import (
	"strings"

	"github.com/clinicai/clinicai-go/internal/models"
)

// BuildQuery constructs the retrieval query for a clinical record from its
// classified symptom names and the reason for visit, lowercased and joined.
// Returns "" when the record carries nothing to search for.
func BuildQuery(record models.ClinicalRecord) string {
	var parts []string
	for _, symptom := range record.ClassifiedSymptoms {
		if symptom.Name != "" {
			parts = append(parts, strings.ToLower(symptom.Name))
		}
	}
	if record.ReasonForVisit != "" {
		parts = append(parts, strings.ToLower(record.ReasonForVisit))
	}
	return strings.Join(parts, " ")
}

// FormatContext renders retrieved snippets as a bulleted block for prompt
// inclusion. A fallback line is returned when retrieval came back empty so
// the prompt never carries an empty section.
func FormatContext(snippets []Snippet) string {
	if len(snippets) == 0 {
		return "General medical knowledge base available for consultation."
	}
	lines := make([]string, len(snippets))
	for i, s := range snippets {
		lines[i] = "- " + s.Content
	}
	return strings.Join(lines, "\n")
}
