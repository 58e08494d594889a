package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/classtrack/attendance-admin-api/internal/models"
	"github.com/classtrack/attendance-admin-api/internal/service"
	appErrors "github.com/classtrack/attendance-admin-api/pkg/errors"
)

type courseLookupMock struct {
	course *models.Course
}

func (m *courseLookupMock) FindByID(ctx context.Context, courseID string) (*models.Course, error) {
	if m.course == nil || m.course.CourseID != courseID {
		return nil, mongo.ErrNoDocuments
	}
	clone := *m.course
	return &clone, nil
}

type teacherLookupMock struct {
	teacher *models.Teacher
}

func (m *teacherLookupMock) FindByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	if m.teacher == nil || m.teacher.Email != email {
		return nil, mongo.ErrNoDocuments
	}
	clone := *m.teacher
	return &clone, nil
}

func (m *teacherLookupMock) AddAssignedField(ctx context.Context, email, fieldID string) error {
	return nil
}

func (m *teacherLookupMock) RemoveAssignedField(ctx context.Context, email, fieldID string) error {
	return nil
}

type assignmentStoreMock struct {
	assigns   int
	unassigns int
}

func (m *assignmentStoreMock) Assign(ctx context.Context, courseID, teacherEmail, teacherName, department string) error {
	m.assigns++
	return nil
}

func (m *assignmentStoreMock) Unassign(ctx context.Context, courseID, teacherEmail string) error {
	m.unassigns++
	return nil
}

type fieldLookupMock struct{}

func (m *fieldLookupMock) FindByID(ctx context.Context, fieldID string) (*models.Field, error) {
	return nil, mongo.ErrNoDocuments
}

type courseEnvelope struct {
	Data  *models.Course   `json:"data"`
	Error *appErrors.Error `json:"error"`
}

func newAssignmentFixture(course *models.Course, teacher *models.Teacher) (*CourseHandler, *assignmentStoreMock) {
	store := &assignmentStoreMock{}
	svc := service.NewAssignmentService(store, &courseLookupMock{course: course}, &teacherLookupMock{teacher: teacher}, &fieldLookupMock{}, nil, nil)
	return NewCourseHandler(nil, svc), store
}

func TestCourseHandlerAssign(t *testing.T) {
	gin.SetMode(gin.TestMode)
	course := &models.Course{CourseID: "course-1", CourseName: "Analyse 1", Field: "Informatique"}
	teacher := &models.Teacher{Email: "t@school.edu", FullName: "Prof T", Department: "Sciences", Active: true}
	handler, store := newAssignmentFixture(course, teacher)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(AssignTeacherRequest{TeacherEmail: "t@school.edu"})
	req, _ := http.NewRequest(http.MethodPut, "/courses/course-1/teacher", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "course-1"}}

	handler.Assign(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, store.assigns)

	var envelope courseEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data)
	require.NotNil(t, envelope.Data.TeacherEmail)
	assert.Equal(t, "t@school.edu", *envelope.Data.TeacherEmail)
	assert.Equal(t, "Sciences", envelope.Data.Department)
}

func TestCourseHandlerAssignInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, store := newAssignmentFixture(nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/courses/course-1/teacher", bytes.NewReader([]byte(`{"teacherEmail":"not-an-email"}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "course-1"}}

	handler.Assign(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, store.assigns)
}

func TestCourseHandlerUnassignWithoutTeacher(t *testing.T) {
	gin.SetMode(gin.TestMode)
	course := &models.Course{CourseID: "course-1", CourseName: "Analyse 1"}
	handler, store := newAssignmentFixture(course, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/courses/course-1/teacher", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "course-1"}}

	handler.Unassign(c)
	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, 0, store.unassigns)

	var envelope courseEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrNothingToUnassign.Code, envelope.Error.Code)
}

func TestCourseHandlerUnassignUnknownCourse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newAssignmentFixture(nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/courses/missing/teacher", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Unassign(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
