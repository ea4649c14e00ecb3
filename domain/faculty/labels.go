package faculty

// LabelSection names a document sequence built from one label per row.
type LabelSection string

const (
	LabelResearchPositions LabelSection = "researchPositions"
	LabelInterests         LabelSection = "interests"
	LabelRequirements      LabelSection = "requirements"
	LabelInstructions      LabelSection = "instructions"
)

// LabelCandidates maps each label section to the header spellings probed, in
// order, for its value. Sheets have used both capitalized and lower-case
// headers over time; new variants are added here rather than in code.
type LabelCandidates map[LabelSection][]string

// DefaultLabelCandidates returns the header spellings seen in the source sheets.
func DefaultLabelCandidates() LabelCandidates {
	return LabelCandidates{
		LabelResearchPositions: {"Position", "position", "field"},
		LabelInterests:         {"Interest", "interest", "field"},
		LabelRequirements:      {"Requirement", "requirement", "field"},
		LabelInstructions:      {"Instruction", "instruction", "field"},
	}
}

// Merge returns a copy of c with every section present in override replaced.
func (c LabelCandidates) Merge(override LabelCandidates) LabelCandidates {
	out := make(LabelCandidates, len(c)+len(override))
	for section, keys := range c {
		out[section] = append([]string(nil), keys...)
	}
	for section, keys := range override {
		if len(keys) > 0 {
			out[section] = append([]string(nil), keys...)
		}
	}
	return out
}

// ExtractLabel returns the value of the first candidate present as a key in
// record, empty values included. It returns nil when no candidate is present.
func ExtractLabel(record Record, candidates []string) *string {
	for _, key := range candidates {
		if value, ok := record[key]; ok {
			v := value
			return &v
		}
	}
	return nil
}

// ExtractLabels maps ExtractLabel over records, keeping nil holes.
func ExtractLabels(records []Record, candidates []string) []*string {
	labels := make([]*string, 0, len(records))
	for _, record := range records {
		labels = append(labels, ExtractLabel(record, candidates))
	}
	return labels
}
