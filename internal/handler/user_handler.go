package handler

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/attendance-admin-api/internal/service"
	appErrors "github.com/classtrack/attendance-admin-api/pkg/errors"
	"github.com/classtrack/attendance-admin-api/pkg/response"
)

const maxProfileImageBytes = 5 << 20

// UserHandler exposes directory and user lifecycle endpoints.
type UserHandler struct {
	users       *service.UserService
	assignments *service.AssignmentService
}

// NewUserHandler constructs a user handler.
func NewUserHandler(users *service.UserService, assignments *service.AssignmentService) *UserHandler {
	return &UserHandler{users: users, assignments: assignments}
}

// Directory godoc
// @Summary Load all users grouped by role
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) Directory(c *gin.Context) {
	dir, err := h.users.LoadDirectory(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dir, nil)
}

// Resolve godoc
// @Summary Resolve a user by email across the role collections
// @Tags Users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} response.Envelope
// @Router /users/{email} [get]
func (h *UserHandler) Resolve(c *gin.Context) {
	user, err := h.users.Resolve(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// CreateStudent godoc
// @Summary Create a student with its sign-in account
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /users/students [post]
func (h *UserHandler) CreateStudent(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.users.CreateStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// CreateTeacher godoc
// @Summary Create a teacher with its sign-in account
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.CreateTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Router /users/teachers [post]
func (h *UserHandler) CreateTeacher(c *gin.Context) {
	var req service.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	teacher, err := h.users.CreateTeacher(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// CreateAdmin godoc
// @Summary Create an administrator with its sign-in account
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.CreateAdminRequest true "Admin payload"
// @Success 201 {object} response.Envelope
// @Router /users/admins [post]
func (h *UserHandler) CreateAdmin(c *gin.Context) {
	var req service.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	admin, err := h.users.CreateAdmin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, admin)
}

// UpdateStudent godoc
// @Summary Update a student profile
// @Tags Users
// @Accept json
// @Produce json
// @Param email path string true "Student email"
// @Param payload body service.UpdateStudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Router /users/students/{email} [put]
func (h *UserHandler) UpdateStudent(c *gin.Context) {
	var req service.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.users.UpdateStudent(c.Request.Context(), c.Param("email"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// UpdateTeacher godoc
// @Summary Update a teacher profile
// @Tags Users
// @Accept json
// @Produce json
// @Param email path string true "Teacher email"
// @Param payload body service.UpdateTeacherRequest true "Teacher payload"
// @Success 200 {object} response.Envelope
// @Router /users/teachers/{email} [put]
func (h *UserHandler) UpdateTeacher(c *gin.Context) {
	var req service.UpdateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	teacher, err := h.users.UpdateTeacher(c.Request.Context(), c.Param("email"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// SetActive godoc
// @Summary Activate or deactivate a user
// @Tags Users
// @Accept json
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} response.Envelope
// @Router /users/{email}/active [put]
func (h *UserHandler) SetActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	user, err := h.users.SetActive(c.Request.Context(), c.Param("email"), *req.Active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Delete godoc
// @Summary Delete a user profile and its account
// @Tags Users
// @Produce json
// @Param email path string true "User email"
// @Success 204
// @Router /users/{email} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("email")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UploadProfileImage godoc
// @Summary Upload a profile image
// @Tags Users
// @Accept mpfd
// @Produce json
// @Param email path string true "User email"
// @Param file formData file true "Image file"
// @Success 200 {object} response.Envelope
// @Router /users/{email}/image [post]
func (h *UserHandler) UploadProfileImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "image file is required"))
		return
	}
	if fileHeader.Size > maxProfileImageBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "image exceeds the size limit"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxProfileImageBytes))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}

	relPath, err := h.users.SaveProfileImage(c.Request.Context(), c.Param("email"), data, filepath.Ext(fileHeader.Filename))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"profileImageUrl": relPath}, nil)
}

// DeleteProfileImage godoc
// @Summary Delete a profile image
// @Tags Users
// @Produce json
// @Param email path string true "User email"
// @Success 204
// @Router /users/{email}/image [delete]
func (h *UserHandler) DeleteProfileImage(c *gin.Context) {
	if err := h.users.DeleteProfileImage(c.Request.Context(), c.Param("email")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AssignField godoc
// @Summary Assign a field to a teacher
// @Tags Users
// @Produce json
// @Param email path string true "Teacher email"
// @Param fieldId path string true "Field ID"
// @Success 204
// @Router /users/{email}/fields/{fieldId} [put]
func (h *UserHandler) AssignField(c *gin.Context) {
	if err := h.assignments.AssignField(c.Request.Context(), c.Param("email"), c.Param("fieldId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UnassignField godoc
// @Summary Remove a field from a teacher
// @Tags Users
// @Produce json
// @Param email path string true "Teacher email"
// @Param fieldId path string true "Field ID"
// @Success 204
// @Router /users/{email}/fields/{fieldId} [delete]
func (h *UserHandler) UnassignField(c *gin.Context) {
	if err := h.assignments.UnassignField(c.Request.Context(), c.Param("email"), c.Param("fieldId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
