package academic

import (
	"fmt"

	"github.com/volatiletech/null/v8"
)

// Semester is one term of an academic year. Years carry no record of their
// own; they exist as the distinct projection of Semester.Year.
type Semester struct {
	ID      int    `db:"semester_id" json:"id"`
	Year    string `db:"a_year" json:"year"`
	Ordinal int    `db:"semester" json:"ordinal"`
}

// PartialTerm is a sub-period of a Semester (first half, second half, ...)
// used when scheduling open courses.
type PartialTerm struct {
	ID         int         `db:"ps_id" json:"id"`
	SemesterID int         `db:"semester_id" json:"semester_id"`
	Part       int         `db:"part" json:"part"`
	Comment    null.String `db:"comment" json:"comment"`
}

// ProgramTier is the program level a classroom belongs to.
type ProgramTier int

const (
	TierUnknown ProgramTier = iota
	TierCertificate
	TierDiploma
)

func (t ProgramTier) String() string {
	switch t {
	case TierCertificate:
		return "certificate"
	case TierDiploma:
		return "diploma"
	}
	return "unknown"
}

// Level is a classroom's program level. The store packs it as a
// two-character code: first char selects the tier ('5' certificate,
// '6' diploma), second char the year within the program.
type Level struct {
	Tier ProgramTier `json:"tier"`
	Year int         `json:"year"`
}

// DecodeLevel parses the packed two-character level code. Codes that do not
// follow the convention decode to TierUnknown; they are displayed raw
// upstream, never rejected.
func DecodeLevel(code string) Level {
	if len(code) != 2 {
		return Level{}
	}
	var lvl Level
	switch code[0] {
	case '5':
		lvl.Tier = TierCertificate
	case '6':
		lvl.Tier = TierDiploma
	default:
		return Level{}
	}
	if code[1] < '0' || code[1] > '9' {
		return Level{}
	}
	lvl.Year = int(code[1] - '0')
	return lvl
}

// Classroom is a study group within a Semester.
type Classroom struct {
	ID         int         `db:"class_id" json:"id"`
	SemesterID int         `db:"semester_id" json:"semester_id"`
	Label      string      `db:"classroom" json:"label"`
	LevelCode  string      `db:"level" json:"level_code"`
	Level      Level       `db:"-" json:"level"`
	StudyGroup int         `db:"study_group" json:"study_group"`
	TeacherID  null.String `db:"teacher_id" json:"teacher_id"`
	MajorID    null.Int    `db:"major_id" json:"major_id"`
}

// ClassroomDetail is the listing projection of a Classroom: advisor name and
// the current headcount come along for display.
type ClassroomDetail struct {
	Classroom
	AdvisorTitle     null.String `db:"title" json:"advisor_title"`
	AdvisorFirstName null.String `db:"f_name" json:"advisor_first_name"`
	AdvisorLastName  null.String `db:"l_name" json:"advisor_last_name"`
	StudentCount     int         `db:"student_count" json:"student_count"`
}

// Course is a curriculum, the top of the subject hierarchy.
type Course struct {
	ID   string `db:"course_id" json:"id"`
	Name string `db:"name" json:"name"`
}

// SubjectKey uniquely identifies a Subject. Subject codes are reused across
// curricula, so the code alone is never a key; the pair always is.
type SubjectKey struct {
	Code     string `db:"subject_code" json:"subject_code" validate:"required"`
	CourseID string `db:"course_id" json:"course_id" validate:"required"`
}

func (k SubjectKey) String() string {
	return fmt.Sprintf("%s/%s", k.Code, k.CourseID)
}

// Subject is one teachable unit within a Course.
type Subject struct {
	SubjectKey
	Name           string      `db:"name" json:"name"`
	EnglishName    null.String `db:"e_name" json:"english_name"`
	LecturePeriods int         `db:"lecture_period" json:"lecture_periods"`
	LabPeriods     int         `db:"lab_period" json:"lab_periods"`
	Credits        int         `db:"credit" json:"credits"`
}

// Teacher is the hr_employee projection needed by offering forms and listings.
type Teacher struct {
	ID        string      `db:"eid" json:"id"`
	Title     null.String `db:"title" json:"title"`
	FirstName null.String `db:"f_name" json:"first_name"`
	LastName  null.String `db:"l_name" json:"last_name"`
}

// Student is the roster projection of a registered student.
type Student struct {
	ID        string `db:"sid" json:"id"`
	Title     string `db:"title" json:"title"`
	FirstName string `db:"f_name" json:"first_name"`
	LastName  string `db:"l_name" json:"last_name"`
}

// Offering statuses.
const (
	OfferingStatusActive = 1
)

// Offering is one open-course row: a Subject taught to a Classroom within a
// PartialTerm by a Teacher.
type Offering struct {
	CourseID       string      `db:"course_id" json:"course_id"`
	PartialTermID  int         `db:"ps_id" json:"partial_term_id"`
	Part           int         `db:"part" json:"part"`
	SubjectCode    string      `db:"subject_code" json:"subject_code"`
	SubjectName    null.String `db:"subject_name" json:"subject_name"`
	Credits        null.Int    `db:"credit" json:"credits"`
	TeacherID      string      `db:"teacher_id" json:"teacher_id"`
	TeacherTitle   null.String `db:"teacher_title" json:"teacher_title"`
	TeacherFirst   null.String `db:"teacher_f_name" json:"teacher_first_name"`
	TeacherLast    null.String `db:"teacher_l_name" json:"teacher_last_name"`
	ClassroomID    int         `db:"class_id" json:"classroom_id"`
	ClassroomLabel null.String `db:"classroom" json:"classroom_label"`
	Status         int         `db:"status" json:"status"`
}

// NewOffering is the write-path input of the offering creation endpoint.
// All four foreign keys are mandatory; validation runs before any insert.
type NewOffering struct {
	PartialTermID int        `json:"ps_id" validate:"required"`
	ClassroomID   int        `json:"class_id" validate:"required"`
	Subject       SubjectKey `json:"subject"`
	TeacherID     string     `json:"teacher_id" validate:"required"`
}

// Defaults is the institution's "current term" configuration, resolved once
// per request from the parameter record. Both fields may be absent.
type Defaults struct {
	ActiveSemesterID null.Int `json:"active_semester_id"`
	ActiveYear       string   `json:"active_year"`
}
