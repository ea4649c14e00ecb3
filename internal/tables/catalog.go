// Package tables holds the table naming contract: which worksheet and cell
// range back each logical table, and which header spellings are probed for
// label columns.
package tables

import (
	"fmt"
	"os"
	"sort"

	"facultysite/domain/faculty"

	"gopkg.in/yaml.v3"
)

// DefaultRange covers every column the sheets use today.
const DefaultRange = "A:Z"

// Entry locates one logical table in the spreadsheet.
type Entry struct {
	Sheet string `yaml:"sheet"`
	Range string `yaml:"range"`
}

// A1 returns the Sheets A1 notation for the entry, e.g. Links!A:Z.
func (e Entry) A1() string {
	if e.Range == "" {
		return e.Sheet
	}
	return e.Sheet + "!" + e.Range
}

// Catalog maps every logical table to its sheet and holds label candidates.
type Catalog struct {
	Tables map[faculty.Table]Entry
	Labels faculty.LabelCandidates
}

// fileFormat is the YAML layout of TABLES_FILE. Every key is optional.
type fileFormat struct {
	Tables map[string]Entry    `yaml:"tables"`
	Labels map[string][]string `yaml:"labels"`
}

var defaultSheets = map[faculty.Table]string{
	faculty.TableLinks:               "Links",
	faculty.TableExperience:          "Experience",
	faculty.TableEducation:           "Education",
	faculty.TableCourses:             "Courses",
	faculty.TableResearchInterests:   "Research_Interests",
	faculty.TableFundingInfo:         "Funding_Info",
	faculty.TableFundingRequirements: "Funding_Requirements",
	faculty.TablePatents:             "Patents",
	faculty.TableJournals:            "Journals",
	faculty.TableConferences:         "Conferences",
	faculty.TableTalks:               "Talks",
	faculty.TableStudentInstructions: "Student_Instructions",
	faculty.TableCurrentStudents:     "Current_Students",
	faculty.TableGraduatedStudents:   "Graduated_Students",
	faculty.TablePersonalInfo:        "Personal_Info",
	faculty.TableAbout:               "About",
	faculty.TableResearchPositions:   "Research_Positions",
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c := &Catalog{
		Tables: make(map[faculty.Table]Entry, len(defaultSheets)),
		Labels: faculty.DefaultLabelCandidates(),
	}
	for table, sheet := range defaultSheets {
		c.Tables[table] = Entry{Sheet: sheet, Range: DefaultRange}
	}
	return c
}

// Load returns the default catalog overlaid with the YAML file at path.
// An empty path returns the defaults.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table catalog: %w", err)
	}
	return Parse(data)
}

// Parse overlays YAML catalog data on the defaults.
func Parse(data []byte) (*Catalog, error) {
	var file fileFormat
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse table catalog: %w", err)
	}

	c := Default()
	for name, entry := range file.Tables {
		table := faculty.Table(name)
		current, ok := c.Tables[table]
		if !ok {
			return nil, fmt.Errorf("parse table catalog: unknown table %q", name)
		}
		if entry.Sheet != "" {
			current.Sheet = entry.Sheet
		}
		if entry.Range != "" {
			current.Range = entry.Range
		}
		c.Tables[table] = current
	}

	override := make(faculty.LabelCandidates, len(file.Labels))
	for name, keys := range file.Labels {
		section := faculty.LabelSection(name)
		if _, ok := c.Labels[section]; !ok {
			return nil, fmt.Errorf("parse table catalog: unknown label section %q", name)
		}
		override[section] = keys
	}
	c.Labels = c.Labels.Merge(override)
	return c, nil
}

// Entry returns the location of table.
func (c *Catalog) Entry(table faculty.Table) Entry {
	return c.Tables[table]
}

// Sorted returns the catalog entries ordered by logical table name.
func (c *Catalog) Sorted() []faculty.Table {
	out := make([]faculty.Table, 0, len(c.Tables))
	for table := range c.Tables {
		out = append(out, table)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
