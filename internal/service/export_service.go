package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/classtrack/attendance-admin-api/internal/models"
	"github.com/classtrack/attendance-admin-api/pkg/export"
	appErrors "github.com/classtrack/attendance-admin-api/pkg/errors"
	"github.com/classtrack/attendance-admin-api/pkg/jobs"
	"github.com/classtrack/attendance-admin-api/pkg/storage"
)

// ExportKind selects which roster an export job renders.
type ExportKind string

const (
	ExportKindCourses  ExportKind = "courses"
	ExportKindTeachers ExportKind = "teachers"
	ExportKindStudents ExportKind = "students"
)

// ExportJobStatus tracks an export job through its lifecycle.
type ExportJobStatus string

const (
	ExportJobPending   ExportJobStatus = "pending"
	ExportJobCompleted ExportJobStatus = "completed"
	ExportJobFailed    ExportJobStatus = "failed"
)

// ExportJob is the client-visible state of one export request.
type ExportJob struct {
	ID          string          `json:"id"`
	Kind        ExportKind      `json:"kind"`
	Format      export.Format   `json:"format"`
	Status      ExportJobStatus `json:"status"`
	Token       string          `json:"token,omitempty"`
	URL         string          `json:"url,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	ExpiresAt   *time.Time      `json:"expiresAt,omitempty"`
}

type exportCourseSource interface {
	List(ctx context.Context) ([]models.Course, error)
}

type exportTeacherSource interface {
	List(ctx context.Context) ([]models.Teacher, error)
}

type exportStudentSource interface {
	List(ctx context.Context) ([]models.Student, error)
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

// ExportServiceConfig tunes export behaviour.
type ExportServiceConfig struct {
	APIPrefix   string
	Concurrency int
	Retries     int
}

// ExportService renders roster exports in the background and hands out
// signed download URLs once a job completes.
type ExportService struct {
	courses   exportCourseSource
	teachers  exportTeacherSource
	students  exportStudentSource
	storage   exportStorage
	signer    *storage.SignedURLSigner
	renderers map[export.Format]export.Renderer
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ExportServiceConfig

	queue *jobs.Queue

	mu      sync.RWMutex
	results map[string]*ExportJob
}

// NewExportService constructs an ExportService. metrics may be nil.
func NewExportService(courses exportCourseSource, teachers exportTeacherSource, students exportStudentSource, store exportStorage, signer *storage.SignedURLSigner, metrics *MetricsService, cfg ExportServiceConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		courses:  courses,
		teachers: teachers,
		students: students,
		storage:  store,
		signer:   signer,
		renderers: map[export.Format]export.Renderer{
			export.FormatCSV:  export.NewCSVExporter(),
			export.FormatPDF:  export.NewPDFExporter(),
			export.FormatXLSX: export.NewXLSXExporter(),
		},
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		results: make(map[string]*ExportJob),
	}
	s.queue = jobs.NewQueue("exports", s.process, jobs.QueueConfig{
		Workers:    cfg.Concurrency,
		MaxRetries: cfg.Retries,
		Logger:     logger,
	})
	return s
}

// Start launches the export workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Request validates and enqueues a new export job.
func (s *ExportService) Request(ctx context.Context, kind ExportKind, format export.Format) (*ExportJob, error) {
	switch kind {
	case ExportKindCourses, ExportKindTeachers, ExportKindStudents:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown export kind "+string(kind))
	}
	if !export.IsValidFormat(format) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format "+string(format))
	}

	job := &ExportJob{
		ID:        uuid.NewString(),
		Kind:      kind,
		Format:    format,
		Status:    ExportJobPending,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.results[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Task{ID: job.ID, Kind: string(kind), Payload: job}); err != nil {
		s.mu.Lock()
		delete(s.results, job.ID)
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export")
	}
	return s.snapshot(job.ID), nil
}

// Get returns the current state of an export job.
func (s *ExportService) Get(jobID string) (*ExportJob, error) {
	job := s.snapshot(jobID)
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return job, nil
}

// Open validates a download token and opens the referenced file.
func (s *ExportService) Open(token string) (*os.File, string, error) {
	jobID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		s.logger.Warn("export file missing for valid token", zap.String("job_id", jobID), zap.Error(err))
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return file, relPath, nil
}

func (s *ExportService) process(ctx context.Context, task jobs.Task) error {
	job := s.snapshot(task.ID)
	if job == nil {
		return nil
	}

	dataset, err := s.buildDataset(ctx, job.Kind)
	if err == nil {
		err = s.render(job, dataset)
	}
	if err != nil {
		s.metrics.RecordExportJob(string(job.Format), false)
		s.fail(task.ID, err)
		return err
	}
	s.metrics.RecordExportJob(string(job.Format), true)
	return nil
}

func (s *ExportService) render(job *ExportJob, dataset export.Dataset) error {
	renderer := s.renderers[job.Format]
	payload, err := renderer.Render(dataset)
	if err != nil {
		return fmt.Errorf("render %s: %w", job.Format, err)
	}

	timestamp := time.Now().UTC().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", job.Kind, timestamp, job.Format.Extension())
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return fmt.Errorf("store export: %w", err)
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return fmt.Errorf("sign export url: %w", err)
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.results[job.ID]
	stored.Status = ExportJobCompleted
	stored.Token = token
	stored.URL = fmt.Sprintf("%s/exports/download/%s", prefix, token)
	stored.CompletedAt = &now
	stored.ExpiresAt = &expiresAt
	return nil
}

func (s *ExportService) fail(jobID string, err error) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.results[jobID]
	if !ok {
		return
	}
	job.Status = ExportJobFailed
	job.Error = err.Error()
	job.CompletedAt = &now
}

func (s *ExportService) snapshot(jobID string) *ExportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.results[jobID]
	if !ok {
		return nil
	}
	clone := *job
	return &clone
}

func (s *ExportService) buildDataset(ctx context.Context, kind ExportKind) (export.Dataset, error) {
	switch kind {
	case ExportKindCourses:
		return s.buildCourseDataset(ctx)
	case ExportKindTeachers:
		return s.buildTeacherDataset(ctx)
	case ExportKindStudents:
		return s.buildStudentDataset(ctx)
	default:
		return export.Dataset{}, fmt.Errorf("unknown export kind %s", kind)
	}
}

func (s *ExportService) buildCourseDataset(ctx context.Context) (export.Dataset, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([][]string, 0, len(courses))
	for _, course := range courses {
		schedule := ""
		if course.CourseScheduleEntry != nil {
			schedule = course.CourseScheduleEntry.DisplayString()
		}
		rows = append(rows, []string{
			course.CourseName,
			course.Department,
			course.Field,
			strings.Join(course.TargetYears, ", "),
			derefString(course.TeacherName),
			derefString(course.TeacherEmail),
			schedule,
			formatActive(course.Active),
		})
	}
	return export.Dataset{
		Title:   "Courses",
		Headers: []string{"Course", "Department", "Field", "Target Years", "Teacher", "Teacher Email", "Schedule", "Active"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) buildTeacherDataset(ctx context.Context) (export.Dataset, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([][]string, 0, len(teachers))
	for _, teacher := range teachers {
		rows = append(rows, []string{
			teacher.FullName,
			teacher.Email,
			teacher.EmployeeID,
			teacher.Department,
			fmt.Sprintf("%d", len(teacher.AssignedCourseIDs)),
			formatActive(teacher.Active),
		})
	}
	return export.Dataset{
		Title:   "Teachers",
		Headers: []string{"Name", "Email", "Employee ID", "Department", "Assigned Courses", "Active"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) buildStudentDataset(ctx context.Context) (export.Dataset, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([][]string, 0, len(students))
	for _, student := range students {
		rows = append(rows, []string{
			student.FullName,
			student.Email,
			student.StudentID,
			student.Department,
			student.Field,
			student.Year,
			formatActive(student.Active),
		})
	}
	return export.Dataset{
		Title:   "Students",
		Headers: []string{"Name", "Email", "Student ID", "Department", "Field", "Year", "Active"},
		Rows:    rows,
	}, nil
}

func derefString(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func formatActive(active bool) string {
	if active {
		return "yes"
	}
	return "no"
}
