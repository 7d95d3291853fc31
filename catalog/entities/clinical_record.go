package entities

// ClinicalRecord is the reference entry stored for one condition.
// JSON keys match the browser tool's localStorage payload so existing
// exports can be loaded as-is.
type ClinicalRecord struct {
	FirstLine  string   `json:"firstLine"`
	Management []string `json:"management"`
	Symptoms   []string `json:"symptoms"`
	Labs       []string `json:"labs"`
}

// RecordInput is raw admin input, already split into sequences but not trimmed
type RecordInput struct {
	FirstLine  string   `json:"firstLine"`
	Management []string `json:"management"`
	Symptoms   []string `json:"symptoms"`
	Labs       []string `json:"labs"`
}

// Entry pairs a normalized disease name with its record
type Entry struct {
	Name   string         `json:"name"`
	Record ClinicalRecord `json:"record"`
}

// Clone returns a deep copy so callers can't mutate catalog state through shared slices
func (r ClinicalRecord) Clone() ClinicalRecord {
	return ClinicalRecord{
		FirstLine:  r.FirstLine,
		Management: cloneStrings(r.Management),
		Symptoms:   cloneStrings(r.Symptoms),
		Labs:       cloneStrings(r.Labs),
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
