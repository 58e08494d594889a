package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/attendance-admin-api/internal/models"
	"github.com/classtrack/attendance-admin-api/internal/service"
	appErrors "github.com/classtrack/attendance-admin-api/pkg/errors"
	"github.com/classtrack/attendance-admin-api/pkg/response"
)

// CourseHandler exposes course catalog and assignment endpoints.
type CourseHandler struct {
	courses     *service.CourseService
	assignments *service.AssignmentService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(courses *service.CourseService, assignments *service.AssignmentService) *CourseHandler {
	return &CourseHandler{courses: courses, assignments: assignments}
}

// AssignTeacherRequest is the assignment payload.
type AssignTeacherRequest struct {
	TeacherEmail string `json:"teacherEmail" binding:"required,email"`
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param teacher query string false "Filter by assigned teacher email"
// @Param field query string false "Filter by field name"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	var (
		courses []models.Course
		err     error
	)
	switch {
	case c.Query("teacher") != "":
		courses, err = h.courses.ListByTeacher(c.Request.Context(), c.Query("teacher"))
	case c.Query("field") != "":
		courses, err = h.courses.ListByField(c.Request.Context(), c.Query("field"))
	default:
		courses, err = h.courses.List(c.Request.Context())
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Get godoc
// @Summary Get course detail
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Update course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body service.UpdateCourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	var req service.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Relocate godoc
// @Summary Move course onto another schedule slot
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body models.ScheduleEntry true "Schedule entry"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/schedule [put]
func (h *CourseHandler) Relocate(c *gin.Context) {
	var entry models.ScheduleEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.RelocateScheduleEntry(c.Request.Context(), c.Param("id"), entry)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 204
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Assign godoc
// @Summary Assign a teacher to a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body AssignTeacherRequest true "Teacher"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/teacher [put]
func (h *CourseHandler) Assign(c *gin.Context) {
	var req AssignTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.assignments.Assign(c.Request.Context(), c.Param("id"), req.TeacherEmail)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Unassign godoc
// @Summary Detach a course from its teacher
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/teacher [delete]
func (h *CourseHandler) Unassign(c *gin.Context) {
	course, err := h.assignments.Unassign(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}
