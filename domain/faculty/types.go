package faculty

// RawTable is the unprocessed grid read from a source table. Row 0 holds the
// column headers for every row that follows.
type RawTable [][]string

// Record is one data row keyed by header name. Every header produces a key;
// missing cells are stored as "".
type Record map[string]string

// IDField is the join key shared by every source table.
const IDField = "faculty_id"

// Table identifies one logical source table.
type Table string

const (
	TableLinks               Table = "links"
	TableExperience          Table = "experience"
	TableEducation           Table = "education"
	TableCourses             Table = "courses"
	TableResearchInterests   Table = "research_interests"
	TableFundingInfo         Table = "funding_info"
	TableFundingRequirements Table = "funding_requirements"
	TablePatents             Table = "patents"
	TableJournals            Table = "journals"
	TableConferences         Table = "conferences"
	TableTalks               Table = "talks"
	TableStudentInstructions Table = "student_instructions"
	TableCurrentStudents     Table = "current_students"
	TableGraduatedStudents   Table = "graduated_students"
	TablePersonalInfo        Table = "personal_info"
	TableAbout               Table = "about"
	TableResearchPositions   Table = "research_positions"
)

// AllTables lists every table the assembler consumes.
var AllTables = []Table{
	TableLinks,
	TableExperience,
	TableEducation,
	TableCourses,
	TableResearchInterests,
	TableFundingInfo,
	TableFundingRequirements,
	TablePatents,
	TableJournals,
	TableConferences,
	TableTalks,
	TableStudentInstructions,
	TableCurrentStudents,
	TableGraduatedStudents,
	TablePersonalInfo,
	TableAbout,
	TableResearchPositions,
}

// TableSet holds the normalized records of every table for one assembly run.
// A table absent from the set behaves as an empty table.
type TableSet map[Table][]Record

// Document is the composite per-faculty profile served to the frontend.
type Document struct {
	FacultyID    string       `json:"faculty_id"`
	FacultyIDAlt string       `json:"facultyID"`
	PersonalInfo Record       `json:"personalInfo"`
	About        About        `json:"about"`
	Biography    Biography    `json:"biography"`
	Courses      []Course     `json:"courses"`
	Research     Research     `json:"research"`
	Publications Publications `json:"publications"`
	Talks        []Record     `json:"talks"`
	Students     Students     `json:"students"`
}

// ID returns the document's faculty id.
func (d Document) ID() string {
	if d.FacultyID != "" {
		return d.FacultyID
	}
	return d.FacultyIDAlt
}

// Biography groups experience and education rows.
type Biography struct {
	Experience []Record `json:"experience"`
	Education  []Record `json:"education"`
}

// Research groups interest labels and funding information.
type Research struct {
	Interests   []*string   `json:"interests"`
	FundingInfo FundingInfo `json:"fundingInfo"`
}

// Publications groups the three publication tables.
type Publications struct {
	Patents     []Record `json:"patents"`
	Journals    []Record `json:"journals"`
	Conferences []Record `json:"conferences"`
}

// Students groups instruction labels and the student rosters.
type Students struct {
	Instructions []*string `json:"instructions"`
	Current      []Record  `json:"current"`
	Graduated    []Record  `json:"graduated"`
}
