// Package inmemdb holds map-backed repositories used by tests and the
// storeless dev mode. Fixtures go in through the Add helpers; reads follow
// the same ordering contracts as the SQL repositories.
package inmemdb

import (
	"sync"

	"github.com/prct/registrar/core/academic"
	"github.com/prct/registrar/core/staff"
)

type (
	DB struct {
		academic *academicTables
		staff    *staffTable
	}

	academicTables struct {
		sync.RWMutex
		defaults      academic.Defaults
		semesters     map[int]academic.Semester
		partialTerms  map[int]academic.PartialTerm
		classrooms    map[int]academic.Classroom
		majorCourses  map[int]string // major id -> course id
		courses       map[string]academic.Course
		subjects      map[academic.SubjectKey]academic.Subject
		teachers      map[string]academic.Teacher
		students      map[string]academic.Student
		registrations map[int][]string // class id -> student ids
		offerings     []storedOffering
	}

	storedOffering struct {
		academic.NewOffering
		Status int
	}

	staffTable struct {
		sync.RWMutex
		table map[string]*staff.Staff
	}
)

func Open() (*DB, error) {
	db := &DB{
		academic: &academicTables{
			semesters:     make(map[int]academic.Semester),
			partialTerms:  make(map[int]academic.PartialTerm),
			classrooms:    make(map[int]academic.Classroom),
			majorCourses:  make(map[int]string),
			courses:       make(map[string]academic.Course),
			subjects:      make(map[academic.SubjectKey]academic.Subject),
			teachers:      make(map[string]academic.Teacher),
			students:      make(map[string]academic.Student),
			registrations: make(map[int][]string),
		},
		staff: &staffTable{table: make(map[string]*staff.Staff)},
	}
	return db, nil
}
