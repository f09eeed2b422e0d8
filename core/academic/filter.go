package academic

import "strconv"

// Depth is the minimum hierarchy level a calling page needs resolved before
// its results are worth rendering.
type Depth int

const (
	DepthYear Depth = iota + 1
	DepthSemester
	DepthCourse
	DepthSubject
)

// Selection holds the raw, optional query parameters of a listing page.
// Every field is an untrusted string: values may reference rows that do not
// exist or that belong to another branch of the hierarchy. An unmatched
// value yields empty dependent lists downstream, never an error.
type Selection struct {
	Year          string
	SemesterID    string
	PartialTermID string
	ClassroomID   string
	CourseID      string
}

// FilterState is the fully-resolved, internally consistent filter a single
// Resolve call computes. It is recomputed fresh per request and never
// persisted.
type FilterState struct {
	Year          string `json:"year"`
	SemesterID    int    `json:"semester_id"`
	PartialTermID int    `json:"partial_term_id"` // 0 means "all partial terms"
	ClassroomID   int    `json:"classroom_id"`
	CourseID      string `json:"course_id"`

	Defaults Defaults `json:"defaults"`

	Years        []string      `json:"years"`
	Semesters    []Semester    `json:"semesters"`
	PartialTerms []PartialTerm `json:"partial_terms"`
	Classrooms   []Classroom   `json:"classrooms"`
	Subjects     []Subject     `json:"subjects"`

	Ready bool `json:"ready"`
}

// semesterResolved reports whether the selected semester actually belongs to
// the resolved year's option list. A semester id taken verbatim from the
// caller may point anywhere; dependent fetches still run for it, but the
// state is only ready when the selection is consistent.
func (fs *FilterState) semesterResolved() bool {
	if fs.SemesterID == 0 {
		return false
	}
	for _, sem := range fs.Semesters {
		if sem.ID == fs.SemesterID {
			return true
		}
	}
	return false
}

// resolvedDepth computes how deep the hierarchy is consistently resolved.
func (fs *FilterState) resolvedDepth() Depth {
	var depth Depth
	if fs.Year == "" {
		return depth
	}
	depth = DepthYear
	if !fs.semesterResolved() {
		return depth
	}
	depth = DepthSemester
	if fs.CourseID == "" {
		return depth
	}
	depth = DepthCourse
	if len(fs.Subjects) == 0 {
		return depth
	}
	return DepthSubject
}

// parseID turns an untrusted id parameter into an int. Anything that does
// not parse resolves to 0, which matches no row; the cascade then yields
// empty lists exactly as for a well-formed but unknown id.
func parseID(s string) int {
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
