package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/attendance-admin-api/internal/models"
	"github.com/classtrack/attendance-admin-api/pkg/export"
	appErrors "github.com/classtrack/attendance-admin-api/pkg/errors"
	"github.com/classtrack/attendance-admin-api/pkg/storage"
)

type stubCourseSource struct{ courses []models.Course }

func (s *stubCourseSource) List(ctx context.Context) ([]models.Course, error) {
	return s.courses, nil
}

type stubTeacherSource struct{ teachers []models.Teacher }

func (s *stubTeacherSource) List(ctx context.Context) ([]models.Teacher, error) {
	return s.teachers, nil
}

type stubStudentSource struct{ students []models.Student }

func (s *stubStudentSource) List(ctx context.Context) ([]models.Student, error) {
	return s.students, nil
}

func newExportFixture(t *testing.T) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)

	teacherName := "Amina Benali"
	teacherEmail := "a.benali@school.test"
	courses := &stubCourseSource{courses: []models.Course{
		{
			CourseID:     "course-1",
			CourseName:   "Algorithmique",
			Department:   "Informatique",
			Field:        "Genie Informatique",
			TargetYears:  []string{"1ère Année"},
			TeacherEmail: &teacherEmail,
			TeacherName:  &teacherName,
			Active:       true,
		},
	}}
	teachers := &stubTeacherSource{teachers: []models.Teacher{
		{Email: teacherEmail, FullName: teacherName, Department: "Informatique", Active: true},
	}}
	students := &stubStudentSource{students: []models.Student{
		{Email: "s.karim@school.test", FullName: "Karim Saidi", Year: "1ère Année", Active: true},
	}}

	svc := NewExportService(courses, teachers, students, store, signer, nil, ExportServiceConfig{
		APIPrefix:   "/api/v1",
		Concurrency: 1,
		Retries:     1,
	}, nil)
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)
	return svc
}

func waitForJob(t *testing.T, svc *ExportService, jobID string) *ExportJob {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.Get(jobID)
		require.NoError(t, err)
		if job.Status != ExportJobPending {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("export job did not finish in time")
	return nil
}

func TestExportCoursesCSV(t *testing.T) {
	svc := newExportFixture(t)

	job, err := svc.Request(context.Background(), ExportKindCourses, export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, ExportJobPending, job.Status)

	done := waitForJob(t, svc, job.ID)
	require.Equal(t, ExportJobCompleted, done.Status)
	assert.NotEmpty(t, done.Token)
	assert.Contains(t, done.URL, "/api/v1/exports/download/")

	file, relPath, err := svc.Open(done.Token)
	require.NoError(t, err)
	defer file.Close()
	assert.Contains(t, relPath, "courses_")
}

func TestExportTeachersXLSX(t *testing.T) {
	svc := newExportFixture(t)

	job, err := svc.Request(context.Background(), ExportKindTeachers, export.FormatXLSX)
	require.NoError(t, err)

	done := waitForJob(t, svc, job.ID)
	assert.Equal(t, ExportJobCompleted, done.Status)
}

func TestExportStudentsPDF(t *testing.T) {
	svc := newExportFixture(t)

	job, err := svc.Request(context.Background(), ExportKindStudents, export.FormatPDF)
	require.NoError(t, err)

	done := waitForJob(t, svc, job.ID)
	assert.Equal(t, ExportJobCompleted, done.Status)
}

func TestExportRejectsUnknownKindAndFormat(t *testing.T) {
	svc := newExportFixture(t)

	_, err := svc.Request(context.Background(), ExportKind("grades"), export.FormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Request(context.Background(), ExportKindCourses, export.Format("docx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportOpenRejectsBadToken(t *testing.T) {
	svc := newExportFixture(t)

	_, _, err := svc.Open("bogus-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestExportGetUnknownJob(t *testing.T) {
	svc := newExportFixture(t)

	_, err := svc.Get("missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
