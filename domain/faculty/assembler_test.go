package faculty

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRaw() map[Table]RawTable {
	return map[Table]RawTable{
		TablePersonalInfo: {
			{"faculty_id", "name", "phone"},
			{"f1", "Alice", "0123"},
			{"f2", "Bob", ""},
			{"f1", "Alice (dup)", "999"},
		},
		TableAbout: {
			{"faculty_id", "summary", "links"},
			{"f1", "Works on graphs", "should be replaced"},
		},
		TableResearchPositions: {
			{"faculty_id", "Position"},
			{"f1", "Lab Director"},
			{"f1", "Editor"},
			{"f9", "Ghost"},
		},
		TableLinks: {
			{"faculty_id", "label", "url"},
			{"f1", "Scholar", "https://scholar.example/alice"},
		},
		TableExperience: {
			{"faculty_id", "role", "years"},
			{"f2", "Lecturer", "2010-2015"},
			{"f2", "Professor", "2015-"},
		},
		TableEducation: {
			{"faculty_id", "degree"},
			{"f1", "PhD"},
		},
		TableCourses: {
			{"faculty_id", "name", "credits"},
			{"f1", "Algorithms", "4"},
			{"f1", "Seminar", "n/a"},
			{"f1", "Reading", ""},
			{"f3", "Orphan", "3"},
		},
		TableResearchInterests: {
			{"faculty_id", "interest"},
			{"f1", "Graph theory"},
		},
		TableFundingInfo: {
			{"faculty_id", "positions", "requirements"},
			{"f1", "02", "stale"},
		},
		TableFundingRequirements: {
			{"faculty_id", "Requirement"},
			{"f1", "GPA 3.5"},
		},
		TablePatents:     {{"faculty_id", "title"}},
		TableJournals:    {{"faculty_id", "title"}, {"f2", "On Things"}},
		TableConferences: {{"faculty_id", "title"}, {"f1", "Talk A"}},
		TableTalks:       {{"faculty_id", "title"}, {"f2", "Keynote"}},
		TableStudentInstructions: {
			{"faculty_id", "note"},
			{"f1", "no label column"},
		},
		TableCurrentStudents:   {{"faculty_id", "name"}, {"f1", "Dana"}},
		TableGraduatedStudents: {{"faculty_id", "name"}, {"f2", "Eve"}},
	}
}

func TestAssembleScenarioOrphanCourse(t *testing.T) {
	raw := map[Table]RawTable{
		TablePersonalInfo: {{"faculty_id", "name"}, {"f1", "Alice"}, {"f2", "Bob"}},
		TableCourses:      {{"faculty_id", "name", "credits"}, {"f1", "Algorithms", "4"}, {"f3", "Orphan", "3"}},
	}

	docs := NewAssembler(nil).AssembleRaw(raw)

	require.Len(t, docs, 2)
	assert.Equal(t, []string{"f1", "f2"}, IDs(docs))

	require.Len(t, docs[0].Courses, 1)
	require.NotNil(t, docs[0].Courses[0].Credits)
	assert.Equal(t, 4.0, *docs[0].Courses[0].Credits)
	assert.Equal(t, "Algorithms", docs[0].Courses[0].Fields["name"])
	assert.Empty(t, docs[1].Courses)

	encoded, err := json.Marshal(docs)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), "Orphan")

	var generic []map[string]any
	require.NoError(t, json.Unmarshal(encoded, &generic))
	course := generic[0]["courses"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(4), course["credits"], "credits must encode as a JSON number")
}

func TestAssembleDocumentShape(t *testing.T) {
	docs := NewAssembler(nil).AssembleRaw(sampleRaw())
	require.Len(t, docs, 2)

	alice := docs[0]
	assert.Equal(t, "f1", alice.FacultyID)
	assert.Equal(t, "f1", alice.FacultyIDAlt)
	assert.Equal(t, "Alice", alice.PersonalInfo["name"], "first personal-info row wins")
	assert.Equal(t, "0123", alice.PersonalInfo["phone"], "strings are never coerced")

	assert.Equal(t, "Works on graphs", alice.About.Fields["summary"])
	assert.NotContains(t, alice.About.Fields, "links")
	require.Len(t, alice.About.ResearchPositions, 2)
	assert.Equal(t, "Lab Director", *alice.About.ResearchPositions[0])
	assert.Len(t, alice.About.Links, 1)

	require.Len(t, alice.Courses, 3)
	assert.Nil(t, alice.Courses[1].Credits, "non-numeric credits")
	assert.Nil(t, alice.Courses[2].Credits, "blank credits")

	require.Len(t, alice.Research.Interests, 1)
	assert.Equal(t, "Graph theory", *alice.Research.Interests[0])
	assert.Equal(t, "02", alice.Research.FundingInfo.Fields["positions"])
	require.Len(t, alice.Research.FundingInfo.Requirements, 1)
	assert.Equal(t, "GPA 3.5", *alice.Research.FundingInfo.Requirements[0])

	require.Len(t, alice.Students.Instructions, 1)
	assert.Nil(t, alice.Students.Instructions[0], "rows without a label column leave a hole")
	assert.Len(t, alice.Students.Current, 1)
	assert.Empty(t, alice.Students.Graduated)
	assert.Len(t, alice.Publications.Conferences, 1)
	assert.Empty(t, alice.Publications.Patents)

	bob := docs[1]
	assert.Equal(t, "", bob.PersonalInfo["phone"])
	assert.Empty(t, bob.About.Fields)
	assert.Empty(t, bob.About.ResearchPositions)
	assert.Len(t, bob.Biography.Experience, 2)
	assert.Equal(t, "Lecturer", bob.Biography.Experience[0]["role"], "source order is kept")
	assert.Len(t, bob.Talks, 1)
	assert.Len(t, bob.Students.Graduated, 1)
}

func TestAssembleJSONShape(t *testing.T) {
	docs := NewAssembler(nil).AssembleRaw(sampleRaw())
	encoded, err := json.Marshal(docs[0])
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(encoded, &generic))

	for _, key := range []string{"faculty_id", "facultyID", "personalInfo", "about", "biography", "courses", "research", "publications", "talks", "students"} {
		assert.Contains(t, generic, key)
	}

	about := generic["about"].(map[string]any)
	assert.Equal(t, "Works on graphs", about["summary"])
	assert.Contains(t, about, "researchPositions")
	assert.IsType(t, []any{}, about["links"])

	funding := generic["research"].(map[string]any)["fundingInfo"].(map[string]any)
	assert.Equal(t, []any{"GPA 3.5"}, funding["requirements"])

	instructions := generic["students"].(map[string]any)["instructions"].([]any)
	assert.Equal(t, []any{nil}, instructions)

	courses := generic["courses"].([]any)
	assert.Nil(t, courses[1].(map[string]any)["credits"])
}

func TestAssembleExcludesUnknownIDs(t *testing.T) {
	docs := NewAssembler(nil).AssembleRaw(sampleRaw())
	encoded, err := json.Marshal(docs)
	require.NoError(t, err)

	assert.NotContains(t, string(encoded), "Ghost")
	assert.NotContains(t, string(encoded), "Orphan")
	assert.NotContains(t, IDs(docs), "f3")
	assert.NotContains(t, IDs(docs), "f9")
}

func TestAssembleRoundTrip(t *testing.T) {
	docs := NewAssembler(nil).AssembleRaw(sampleRaw())

	encoded, err := json.Marshal(docs)
	require.NoError(t, err)

	var decoded []Document
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	if diff := cmp.Diff(docs, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleDoesNotModifyInput(t *testing.T) {
	tables := NormalizeTables(sampleRaw())
	NewAssembler(nil).Assemble(tables)

	assert.Equal(t, "4", tables[TableCourses][0]["credits"])
	assert.Equal(t, "should be replaced", tables[TableAbout][0]["links"])
}

func TestAssembleWithoutPersonalInfo(t *testing.T) {
	docs := NewAssembler(nil).Assemble(TableSet{
		TableCourses: {{"faculty_id": "f1", "credits": "3"}},
	})
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestParseCredits(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"4", floatPtr(4)},
		{" 3.5 ", floatPtr(3.5)},
		{"", nil},
		{"three", nil},
		{"NaN", nil},
		{"Inf", nil},
	}
	for _, tt := range tests {
		got := ParseCredits(tt.in)
		if tt.want == nil {
			assert.Nilf(t, got, "ParseCredits(%q)", tt.in)
			continue
		}
		if assert.NotNilf(t, got, "ParseCredits(%q)", tt.in) {
			assert.Equal(t, *tt.want, *got)
		}
	}
}

func TestCourseUnmarshalLegacyStringCredits(t *testing.T) {
	var c Course
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Algorithms","credits":"4"}`), &c))
	require.NotNil(t, c.Credits)
	assert.Equal(t, 4.0, *c.Credits)
	assert.Equal(t, Record{"name": "Algorithms"}, c.Fields)
}

func TestFind(t *testing.T) {
	docs := NewAssembler(nil).AssembleRaw(sampleRaw())

	doc, ok := Find(docs, "f2")
	assert.True(t, ok)
	assert.Equal(t, "Bob", doc.PersonalInfo["name"])

	_, ok = Find(docs, "F2")
	assert.False(t, ok)
}

func floatPtr(f float64) *float64 { return &f }
