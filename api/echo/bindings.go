package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/prct/registrar/core"
	"github.com/prct/registrar/core/academic"
)

// bindSelection reads the cascade filter parameters off the query string.
// Every parameter is optional; values pass through untrusted.
func bindSelection(ctx echo.Context) academic.Selection {
	params := ctx.QueryParams()
	get := func(name string) string {
		if vals, ok := params[name]; ok && len(vals) > 0 {
			return core.CleanString(vals[0])
		}
		return ""
	}
	return academic.Selection{
		Year:          get("year"),
		SemesterID:    get("semester_id"),
		PartialTermID: get("ps_id"),
		ClassroomID:   get("class_id"),
		CourseID:      get("course_id"),
	}
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	OpenCourseListResponse struct {
		Filter    academic.FilterState `json:"filter"`
		Offerings []academic.Offering  `json:"offerings"`
	}

	ClassroomListResponse struct {
		Filter     academic.FilterState       `json:"filter"`
		Classrooms []academic.ClassroomDetail `json:"classrooms"`
	}

	CourseListResponse struct {
		Filter  academic.FilterState `json:"filter"`
		Courses []academic.Course    `json:"courses"`
	}

	OfferingFormResponse struct {
		Filter   academic.FilterState `json:"filter"`
		Teachers []academic.Teacher   `json:"teachers"`
	}

	RosterResponse struct {
		ClassroomID int                `json:"classroom_id"`
		Students    []academic.Student `json:"students"`
	}
)
