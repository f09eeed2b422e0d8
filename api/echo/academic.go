package echoapi

import (
	"net/http"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/prct/registrar/core/academic"
)

type academicApi struct {
	svc        *academic.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerAcademicAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *academic.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := academicApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	ag := g.Group("/academic", jwt)
	ag.GET("/courses", api.listCourses)
	ag.GET("/open-courses", api.listOpenCourses)
	ag.GET("/open-courses/new", api.offeringForm)
	ag.POST("/open-courses", api.createOffering)

	rg := g.Group("/register", jwt)
	rg.GET("/classrooms", api.listClassrooms)
	rg.GET("/classrooms/:id/roster", api.roster)
}

// Handlers

// listCourses serves the curriculum page: every course for the selector,
// plus the subject list once a course is selected.
func (api *academicApi) listCourses(ctx echo.Context) error {
	sel := bindSelection(ctx)

	fs, err := api.svc.Resolve(ctx.Request().Context(), sel, academic.DepthCourse)
	if err != nil {
		return errors.Wrap(err, "resolving course filters")
	}
	courses, err := api.svc.Courses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing courses")
	}
	if courses == nil {
		courses = []academic.Course{}
	}

	return ctx.JSON(http.StatusOK, CourseListResponse{Filter: fs, Courses: courses})
}

// listOpenCourses serves the open-course page: the resolved cascade plus the
// offerings of the resolved semester, optionally narrowed to one partial term.
func (api *academicApi) listOpenCourses(ctx echo.Context) error {
	sel := bindSelection(ctx)

	fs, err := api.svc.Resolve(ctx.Request().Context(), sel, academic.DepthSemester)
	if err != nil {
		return errors.Wrap(err, "resolving open-course filters")
	}

	var offerings []academic.Offering
	if fs.Ready {
		if offerings, err = api.svc.OpenCourses(ctx.Request().Context(), fs); err != nil {
			return errors.Wrap(err, "listing open courses")
		}
	}
	if offerings == nil {
		offerings = []academic.Offering{}
	}

	return ctx.JSON(http.StatusOK, OpenCourseListResponse{Filter: fs, Offerings: offerings})
}

// offeringForm serves the creation form's option lists: the cascade at the
// requested classroom (subjects come through the classroom's curriculum)
// plus the eligible teachers.
func (api *academicApi) offeringForm(ctx echo.Context) error {
	sel := bindSelection(ctx)

	fs, err := api.svc.Resolve(ctx.Request().Context(), sel, academic.DepthSemester)
	if err != nil {
		return errors.Wrap(err, "resolving offering form filters")
	}
	teachers, err := api.svc.Teachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing teachers")
	}
	if teachers == nil {
		teachers = []academic.Teacher{}
	}

	return ctx.JSON(http.StatusOK, OfferingFormResponse{Filter: fs, Teachers: teachers})
}

func (api *academicApi) createOffering(ctx echo.Context) error {
	var data academic.NewOffering
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOffering")
	}

	if err := api.svc.CreateOffering(ctx.Request().Context(), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, data)
}

// listClassrooms serves the classroom browser: year/semester cascade plus
// the semester's classrooms with advisor and headcount.
func (api *academicApi) listClassrooms(ctx echo.Context) error {
	sel := bindSelection(ctx)

	fs, err := api.svc.Resolve(ctx.Request().Context(), sel, academic.DepthSemester)
	if err != nil {
		return errors.Wrap(err, "resolving classroom filters")
	}

	var rooms []academic.ClassroomDetail
	if fs.Ready {
		if rooms, err = api.svc.ClassroomDetails(ctx.Request().Context(), fs); err != nil {
			return errors.Wrap(err, "listing classroom details")
		}
	}
	if rooms == nil {
		rooms = []academic.ClassroomDetail{}
	}

	return ctx.JSON(http.StatusOK, ClassroomListResponse{Filter: fs, Classrooms: rooms})
}

func (api *academicApi) roster(ctx echo.Context) error {
	classID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || classID <= 0 {
		return errHttpNotFound
	}

	students, err := api.svc.Roster(ctx.Request().Context(), classID)
	if err != nil {
		return errors.Wrap(err, "listing roster")
	}
	if students == nil {
		students = []academic.Student{}
	}

	return ctx.JSON(http.StatusOK, RosterResponse{ClassroomID: classID, Students: students})
}
