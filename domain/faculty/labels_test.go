package faculty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLabelProbesInOrder(t *testing.T) {
	candidates := DefaultLabelCandidates()[LabelResearchPositions]

	tests := []struct {
		name   string
		record Record
		want   *string
	}{
		{"capitalized header", Record{"faculty_id": "f1", "Position": "Director"}, strPtr("Director")},
		{"lower-case header", Record{"faculty_id": "f1", "position": "Director"}, strPtr("Director")},
		{"field fallback", Record{"faculty_id": "f1", "field": "Robotics"}, strPtr("Robotics")},
		{"first candidate wins", Record{"Position": "A", "position": "B", "field": "C"}, strPtr("A")},
		{"present but empty", Record{"Position": "", "field": "C"}, strPtr("")},
		{"no candidate", Record{"faculty_id": "f1", "title": "x"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractLabel(tt.record, candidates)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestExtractLabelsKeepsHoles(t *testing.T) {
	labels := ExtractLabels([]Record{
		{"Interest": "Vision"},
		{"other": "x"},
		{"interest": "Robotics"},
	}, DefaultLabelCandidates()[LabelInterests])

	require.Len(t, labels, 3)
	assert.Equal(t, "Vision", *labels[0])
	assert.Nil(t, labels[1])
	assert.Equal(t, "Robotics", *labels[2])
}

func TestLabelCandidatesMerge(t *testing.T) {
	base := DefaultLabelCandidates()
	merged := base.Merge(LabelCandidates{
		LabelInterests:    {"topic"},
		LabelRequirements: nil,
	})

	assert.Equal(t, []string{"topic"}, merged[LabelInterests])
	assert.Equal(t, base[LabelRequirements], merged[LabelRequirements])
	assert.Equal(t, []string{"Interest", "interest", "field"}, base[LabelInterests], "merge must not modify the receiver")
}

func strPtr(s string) *string { return &s }
