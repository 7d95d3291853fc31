package catalog

import (
	"strings"

	"github.com/giygas/empirical-rx/catalog/entities"
)

// SplitLines splits a free-text block into trimmed, non-empty lines.
// Both "\n" and "\r\n" line endings are accepted.
func SplitLines(block string) []string {
	return cleanLines(strings.Split(block, "\n"))
}

// ParseForm converts the admin form's text fields into the structured input taken by Insert.
// Each multi-line block holds one item per line.
func ParseForm(name, firstLine, management, symptoms, labs string) (string, entities.RecordInput) {
	return name, entities.RecordInput{
		FirstLine:  firstLine,
		Management: SplitLines(management),
		Symptoms:   SplitLines(symptoms),
		Labs:       SplitLines(labs),
	}
}

// cleanLines trims every item and drops the empty ones, preserving order
func cleanLines(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// sanitizeRecord enforces the list invariants on a record coming from storage
func sanitizeRecord(r entities.ClinicalRecord) entities.ClinicalRecord {
	return entities.ClinicalRecord{
		FirstLine:  strings.TrimSpace(r.FirstLine),
		Management: cleanLines(r.Management),
		Symptoms:   cleanLines(r.Symptoms),
		Labs:       cleanLines(r.Labs),
	}
}
