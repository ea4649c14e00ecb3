package faculty

// Assembler joins normalized tables into one Document per faculty member.
type Assembler struct {
	labels LabelCandidates
}

// NewAssembler creates an assembler probing the given label candidates.
// A nil candidate set uses DefaultLabelCandidates.
func NewAssembler(labels LabelCandidates) *Assembler {
	if labels == nil {
		labels = DefaultLabelCandidates()
	}
	return &Assembler{labels: labels}
}

// Assemble builds one Document per distinct faculty_id in the personal-info
// table, in first-seen order. Rows of other tables whose id is not in
// personal info are dropped. Input records are not modified.
func (a *Assembler) Assemble(tables TableSet) []Document {
	idx := make(map[Table]*GroupingIndex, len(AllTables))
	for _, table := range AllTables {
		idx[table] = NewGroupingIndex(tables[table], IDField)
	}

	ids := idx[TablePersonalInfo].IDs()
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, a.document(id, idx))
	}
	return docs
}

// AssembleRaw normalizes raw tables and assembles them.
func (a *Assembler) AssembleRaw(raw map[Table]RawTable) []Document {
	return a.Assemble(NormalizeTables(raw))
}

func (a *Assembler) document(id string, idx map[Table]*GroupingIndex) Document {
	personal, ok := idx[TablePersonalInfo].First(id)
	if !ok {
		personal = Record{}
	}

	aboutFields, _ := idx[TableAbout].First(id)
	fundingFields, _ := idx[TableFundingInfo].First(id)

	return Document{
		FacultyID:    id,
		FacultyIDAlt: id,
		PersonalInfo: cloneRecord(personal),
		About: About{
			Fields:            cloneRecord(aboutFields, aboutPositionsKey, aboutLinksKey),
			ResearchPositions: ExtractLabels(idx[TableResearchPositions].Get(id), a.labels[LabelResearchPositions]),
			Links:             idx[TableLinks].Get(id),
		},
		Biography: Biography{
			Experience: idx[TableExperience].Get(id),
			Education:  idx[TableEducation].Get(id),
		},
		Courses: shapeCourses(idx[TableCourses].Get(id)),
		Research: Research{
			Interests: ExtractLabels(idx[TableResearchInterests].Get(id), a.labels[LabelInterests]),
			FundingInfo: FundingInfo{
				Fields:       cloneRecord(fundingFields, requirementsKey),
				Requirements: ExtractLabels(idx[TableFundingRequirements].Get(id), a.labels[LabelRequirements]),
			},
		},
		Publications: Publications{
			Patents:     idx[TablePatents].Get(id),
			Journals:    idx[TableJournals].Get(id),
			Conferences: idx[TableConferences].Get(id),
		},
		Talks: idx[TableTalks].Get(id),
		Students: Students{
			Instructions: ExtractLabels(idx[TableStudentInstructions].Get(id), a.labels[LabelInstructions]),
			Current:      idx[TableCurrentStudents].Get(id),
			Graduated:    idx[TableGraduatedStudents].Get(id),
		},
	}
}

func shapeCourses(records []Record) []Course {
	courses := make([]Course, 0, len(records))
	for _, record := range records {
		courses = append(courses, Course{
			Fields:  cloneRecord(record, creditsKey),
			Credits: ParseCredits(record[creditsKey]),
		})
	}
	return courses
}

// cloneRecord copies record without the derived keys that the merged JSON
// shape writes over. A nil record yields an empty one.
func cloneRecord(record Record, drop ...string) Record {
	out := make(Record, len(record))
	for k, v := range record {
		out[k] = v
	}
	for _, k := range drop {
		delete(out, k)
	}
	return out
}

// IDs returns the faculty ids of docs in order.
func IDs(docs []Document) []string {
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID())
	}
	return ids
}

// Find returns the document whose facultyID or faculty_id equals id.
func Find(docs []Document, id string) (Document, bool) {
	for _, doc := range docs {
		if doc.FacultyIDAlt == id || doc.FacultyID == id {
			return doc, true
		}
	}
	return Document{}, false
}
