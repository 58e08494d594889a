package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/classtrack/attendance-admin-api/internal/models"
	"github.com/classtrack/attendance-admin-api/internal/repository"
	appErrors "github.com/classtrack/attendance-admin-api/pkg/errors"
)

type studentDirectory interface {
	List(ctx context.Context) ([]models.Student, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	Insert(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, email string, updates bson.M) error
	Delete(ctx context.Context, email string) error
}

type teacherDirectory interface {
	List(ctx context.Context) ([]models.Teacher, error)
	FindByEmail(ctx context.Context, email string) (*models.Teacher, error)
	Insert(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, email string, updates bson.M) error
	Delete(ctx context.Context, email string) error
}

type adminDirectory interface {
	List(ctx context.Context) ([]models.Admin, error)
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	Insert(ctx context.Context, admin *models.Admin) error
	Update(ctx context.Context, email string, updates bson.M) error
	Delete(ctx context.Context, email string) error
}

type accountStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Insert(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, email string) error
}

type profileImageStorage interface {
	Save(filename string, data []byte) (string, error)
	Delete(filename string) error
}

// CreateStudentRequest captures the student creation payload.
type CreateStudentRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"fullName" validate:"required"`
	StudentID   string `json:"studentId" validate:"required"`
	Department  string `json:"department" validate:"required"`
	Field       string `json:"field" validate:"required"`
	Year        string `json:"year" validate:"required"`
	PhoneNumber string `json:"phoneNumber"`
}

// CreateTeacherRequest captures the teacher creation payload.
type CreateTeacherRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"fullName" validate:"required"`
	EmployeeID  string `json:"employeeId" validate:"required"`
	Department  string `json:"department" validate:"required"`
	PhoneNumber string `json:"phoneNumber"`
}

// CreateAdminRequest captures the administrator creation payload.
type CreateAdminRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FullName   string `json:"fullName" validate:"required"`
	Department string `json:"department"`
}

// UpdateStudentRequest edits a student profile. The email key is immutable.
type UpdateStudentRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	StudentID   string `json:"studentId" validate:"required"`
	Department  string `json:"department" validate:"required"`
	Field       string `json:"field" validate:"required"`
	Year        string `json:"year" validate:"required"`
	PhoneNumber string `json:"phoneNumber"`
}

// UpdateTeacherRequest edits a teacher profile. Assignment sets are not
// editable here; they only change through the assignment flows.
type UpdateTeacherRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	EmployeeID  string `json:"employeeId" validate:"required"`
	Department  string `json:"department" validate:"required"`
	PhoneNumber string `json:"phoneNumber"`
}

// Directory groups the three role listings loaded in one pass.
type Directory struct {
	Students []models.Student `json:"students"`
	Teachers []models.Teacher `json:"teachers"`
	Admins   []models.Admin   `json:"admins"`
}

// UserService resolves users across the three role collections and owns the
// account lifecycle. A user's type is wherever its email turns up first:
// students, then teachers, then admins.
type UserService struct {
	students  studentDirectory
	teachers  teacherDirectory
	admins    adminDirectory
	accounts  accountStore
	images    profileImageStorage
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewUserService constructs a UserService. images and metrics may be nil
// when disabled.
func NewUserService(students studentDirectory, teachers teacherDirectory, admins adminDirectory, accounts accountStore, images profileImageStorage, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		students:  students,
		teachers:  teachers,
		admins:    admins,
		accounts:  accounts,
		images:    images,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
	}
}

// Resolve probes the role collections in order and returns the first match.
// A collection that cannot be reached counts as a miss, so a transient
// outage on one collection degrades to "not found" instead of failing the
// whole lookup.
func (s *UserService) Resolve(ctx context.Context, email string) (*models.DirectoryUser, error) {
	student, err := s.students.FindByEmail(ctx, email)
	if err == nil {
		s.metrics.RecordDirectoryProbe("students", true)
		return &models.DirectoryUser{Role: models.RoleStudent, Student: student}, nil
	}
	s.logProbeMiss("students", email, err)

	teacher, err := s.teachers.FindByEmail(ctx, email)
	if err == nil {
		s.metrics.RecordDirectoryProbe("teachers", true)
		return &models.DirectoryUser{Role: models.RoleTeacher, Teacher: teacher}, nil
	}
	s.logProbeMiss("teachers", email, err)

	admin, err := s.admins.FindByEmail(ctx, email)
	if err == nil {
		s.metrics.RecordDirectoryProbe("admins", true)
		return &models.DirectoryUser{Role: models.RoleAdmin, Admin: admin}, nil
	}
	s.logProbeMiss("admins", email, err)

	return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found in any collection")
}

func (s *UserService) logProbeMiss(collection, email string, err error) {
	s.metrics.RecordDirectoryProbe(collection, false)
	if repository.IsNotFound(err) {
		return
	}
	s.logger.Warn("directory probe failed, treating as miss",
		zap.String("collection", collection),
		zap.String("email", email),
		zap.Error(err))
}

// LoadDirectory loads the three role listings sequentially.
func (s *UserService) LoadDirectory(ctx context.Context) (*Directory, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list admins")
	}
	return &Directory{Students: students, Teachers: teachers, Admins: admins}, nil
}

// CreateStudent provisions an account and a student profile. When the
// profile write fails the account is deleted again so no orphan credential
// survives.
func (s *UserService) CreateStudent(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if !models.IsValidTargetYear(req.Year) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown year "+req.Year)
	}
	email := normalizeEmail(req.Email)
	if err := s.createAccount(ctx, email, req.Password, models.RoleStudent); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	student := &models.Student{
		Email:         email,
		FullName:      strings.TrimSpace(req.FullName),
		StudentID:     strings.TrimSpace(req.StudentID),
		Department:    strings.TrimSpace(req.Department),
		Field:         strings.TrimSpace(req.Field),
		Year:          req.Year,
		PhoneNumber:   strings.TrimSpace(req.PhoneNumber),
		Active:        true,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
	if err := s.students.Insert(ctx, student); err != nil {
		s.compensateAccount(ctx, email)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student profile")
	}
	return student, nil
}

// CreateTeacher provisions an account and a teacher profile with empty
// assignment sets.
func (s *UserService) CreateTeacher(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	email := normalizeEmail(req.Email)
	if err := s.createAccount(ctx, email, req.Password, models.RoleTeacher); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	teacher := &models.Teacher{
		Email:       email,
		FullName:    strings.TrimSpace(req.FullName),
		EmployeeID:  strings.TrimSpace(req.EmployeeID),
		Department:  strings.TrimSpace(req.Department),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Active:      true,
		NotificationPreferences: models.NotificationPreferences{
			EmailEnabled: true,
			PushEnabled:  true,
		},
		AssignedCourseIDs: []string{},
		AssignedFieldIDs:  []string{},
		CreatedAt:         now,
		LastUpdatedAt:     now,
	}
	if err := s.teachers.Insert(ctx, teacher); err != nil {
		s.compensateAccount(ctx, email)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher profile")
	}
	return teacher, nil
}

// CreateAdmin provisions an account and an administrator profile.
func (s *UserService) CreateAdmin(ctx context.Context, req CreateAdminRequest) (*models.Admin, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}
	email := normalizeEmail(req.Email)
	if err := s.createAccount(ctx, email, req.Password, models.RoleAdmin); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	admin := &models.Admin{
		Email:         email,
		FullName:      strings.TrimSpace(req.FullName),
		Department:    strings.TrimSpace(req.Department),
		Active:        true,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
	if err := s.admins.Insert(ctx, admin); err != nil {
		s.compensateAccount(ctx, email)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin profile")
	}
	return admin, nil
}

func (s *UserService) createAccount(ctx context.Context, email, password string, role models.Role) error {
	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return appErrors.Clone(appErrors.ErrConflict, "an account with this email already exists")
	} else if !repository.IsNotFound(err) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	account := &models.Account{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.accounts.Insert(ctx, account); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}
	return nil
}

func (s *UserService) compensateAccount(ctx context.Context, email string) {
	if err := s.accounts.Delete(ctx, email); err != nil {
		s.logger.Error("compensating account delete failed, orphan credential left behind",
			zap.String("email", email), zap.Error(err))
	}
}

// UpdateStudent applies profile edits to a student.
func (s *UserService) UpdateStudent(ctx context.Context, email string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if !models.IsValidTargetYear(req.Year) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown year "+req.Year)
	}
	email = normalizeEmail(email)
	updates := bson.M{
		"fullName":      strings.TrimSpace(req.FullName),
		"studentId":     strings.TrimSpace(req.StudentID),
		"department":    strings.TrimSpace(req.Department),
		"field":         strings.TrimSpace(req.Field),
		"year":          req.Year,
		"phoneNumber":   strings.TrimSpace(req.PhoneNumber),
		"lastUpdatedAt": time.Now().UTC(),
	}
	if err := s.students.Update(ctx, email, updates); err != nil {
		if repository.IsNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	student, err := s.students.FindByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// UpdateTeacher applies profile edits to a teacher.
func (s *UserService) UpdateTeacher(ctx context.Context, email string, req UpdateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	email = normalizeEmail(email)
	updates := bson.M{
		"fullName":      strings.TrimSpace(req.FullName),
		"employeeId":    strings.TrimSpace(req.EmployeeID),
		"department":    strings.TrimSpace(req.Department),
		"phoneNumber":   strings.TrimSpace(req.PhoneNumber),
		"lastUpdatedAt": time.Now().UTC(),
	}
	if err := s.teachers.Update(ctx, email, updates); err != nil {
		if repository.IsNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	teacher, err := s.teachers.FindByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// SetActive toggles the isActive flag on whichever profile the email
// resolves to.
func (s *UserService) SetActive(ctx context.Context, email string, active bool) (*models.DirectoryUser, error) {
	user, err := s.Resolve(ctx, email)
	if err != nil {
		return nil, err
	}
	updates := bson.M{"isActive": active, "lastUpdatedAt": time.Now().UTC()}
	if err := s.updateProfile(ctx, user, updates); err != nil {
		return nil, err
	}
	switch user.Role {
	case models.RoleStudent:
		user.Student.Active = active
	case models.RoleTeacher:
		user.Teacher.Active = active
	case models.RoleAdmin:
		user.Admin.Active = active
	}
	return user, nil
}

// Delete removes the resolved profile and its account.
func (s *UserService) Delete(ctx context.Context, email string) error {
	user, err := s.Resolve(ctx, email)
	if err != nil {
		return err
	}

	switch user.Role {
	case models.RoleStudent:
		err = s.students.Delete(ctx, email)
	case models.RoleTeacher:
		err = s.teachers.Delete(ctx, email)
	case models.RoleAdmin:
		err = s.admins.Delete(ctx, email)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete profile")
	}
	if err := s.accounts.Delete(ctx, email); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete account")
	}
	return nil
}

// SaveProfileImage stores an uploaded image and records its path on the
// resolved profile.
func (s *UserService) SaveProfileImage(ctx context.Context, email string, data []byte, extension string) (string, error) {
	if s.images == nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "profile image storage is disabled")
	}
	user, err := s.Resolve(ctx, email)
	if err != nil {
		return "", err
	}

	extension = strings.TrimPrefix(strings.ToLower(extension), ".")
	if extension != "jpg" && extension != "jpeg" && extension != "png" {
		return "", appErrors.Clone(appErrors.ErrValidation, "unsupported image type")
	}
	filename := fmt.Sprintf("%s.%s", email, extension)
	relPath, err := s.images.Save(filename, data)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store profile image")
	}

	updates := bson.M{"profileImageUrl": relPath, "lastUpdatedAt": time.Now().UTC()}
	if err := s.updateProfile(ctx, user, updates); err != nil {
		return "", err
	}
	return relPath, nil
}

// DeleteProfileImage removes the stored image and clears the profile
// reference. A missing file is not an error; the reference is cleared either
// way.
func (s *UserService) DeleteProfileImage(ctx context.Context, email string) error {
	if s.images == nil {
		return appErrors.Clone(appErrors.ErrValidation, "profile image storage is disabled")
	}
	user, err := s.Resolve(ctx, email)
	if err != nil {
		return err
	}

	if path := profileImagePath(user); path != "" {
		if err := s.images.Delete(path); err != nil {
			s.logger.Warn("failed to delete profile image file",
				zap.String("email", email), zap.Error(err))
		}
	}
	updates := bson.M{"profileImageUrl": "", "lastUpdatedAt": time.Now().UTC()}
	return s.updateProfile(ctx, user, updates)
}

func profileImagePath(user *models.DirectoryUser) string {
	switch user.Role {
	case models.RoleStudent:
		return user.Student.ProfileImageURL
	case models.RoleTeacher:
		return user.Teacher.ProfileImageURL
	case models.RoleAdmin:
		return user.Admin.ProfileImageURL
	}
	return ""
}

func (s *UserService) updateProfile(ctx context.Context, user *models.DirectoryUser, updates bson.M) error {
	var err error
	switch user.Role {
	case models.RoleStudent:
		err = s.students.Update(ctx, user.Email(), updates)
	case models.RoleTeacher:
		err = s.teachers.Update(ctx, user.Email(), updates)
	case models.RoleAdmin:
		err = s.admins.Update(ctx, user.Email(), updates)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
