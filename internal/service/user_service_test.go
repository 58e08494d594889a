package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/classtrack/attendance-admin-api/internal/models"
	appErrors "github.com/classtrack/attendance-admin-api/pkg/errors"
)

type mockStudentDir struct {
	students   map[string]*models.Student
	probeErr   error
	failInsert bool
	probes     int
}

func (m *mockStudentDir) List(ctx context.Context) ([]models.Student, error) {
	var out []models.Student
	for _, s := range m.students {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockStudentDir) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	m.probes++
	if m.probeErr != nil {
		return nil, m.probeErr
	}
	if s, ok := m.students[email]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockStudentDir) Insert(ctx context.Context, student *models.Student) error {
	if m.failInsert {
		return errors.New("profile write failed")
	}
	if m.students == nil {
		m.students = make(map[string]*models.Student)
	}
	clone := *student
	m.students[student.Email] = &clone
	return nil
}

func (m *mockStudentDir) Update(ctx context.Context, email string, updates bson.M) error {
	s, ok := m.students[email]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if active, ok := updates["isActive"].(bool); ok {
		s.Active = active
	}
	if url, ok := updates["profileImageUrl"].(string); ok {
		s.ProfileImageURL = url
	}
	if name, ok := updates["fullName"].(string); ok {
		s.FullName = name
	}
	if year, ok := updates["year"].(string); ok {
		s.Year = year
	}
	return nil
}

func (m *mockStudentDir) Delete(ctx context.Context, email string) error {
	if _, ok := m.students[email]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.students, email)
	return nil
}

type mockTeacherDir struct {
	teachers map[string]*models.Teacher
	probes   int
}

func (m *mockTeacherDir) List(ctx context.Context) ([]models.Teacher, error) {
	var out []models.Teacher
	for _, t := range m.teachers {
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockTeacherDir) FindByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	m.probes++
	if t, ok := m.teachers[email]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockTeacherDir) Insert(ctx context.Context, teacher *models.Teacher) error {
	if m.teachers == nil {
		m.teachers = make(map[string]*models.Teacher)
	}
	clone := *teacher
	m.teachers[teacher.Email] = &clone
	return nil
}

func (m *mockTeacherDir) Update(ctx context.Context, email string, updates bson.M) error {
	t, ok := m.teachers[email]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if active, ok := updates["isActive"].(bool); ok {
		t.Active = active
	}
	if name, ok := updates["fullName"].(string); ok {
		t.FullName = name
	}
	if id, ok := updates["employeeId"].(string); ok {
		t.EmployeeID = id
	}
	if url, ok := updates["profileImageUrl"].(string); ok {
		t.ProfileImageURL = url
	}
	return nil
}

func (m *mockTeacherDir) Delete(ctx context.Context, email string) error {
	delete(m.teachers, email)
	return nil
}

type mockAdminDir struct {
	admins   map[string]*models.Admin
	probeErr error
	probes   int
}

func (m *mockAdminDir) List(ctx context.Context) ([]models.Admin, error) {
	var out []models.Admin
	for _, a := range m.admins {
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockAdminDir) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	m.probes++
	if m.probeErr != nil {
		return nil, m.probeErr
	}
	if a, ok := m.admins[email]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockAdminDir) Insert(ctx context.Context, admin *models.Admin) error {
	if m.admins == nil {
		m.admins = make(map[string]*models.Admin)
	}
	clone := *admin
	m.admins[admin.Email] = &clone
	return nil
}

func (m *mockAdminDir) Update(ctx context.Context, email string, updates bson.M) error {
	if _, ok := m.admins[email]; !ok {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (m *mockAdminDir) Delete(ctx context.Context, email string) error {
	delete(m.admins, email)
	return nil
}

type mockAccountStore struct {
	accounts map[string]*models.Account
	deleted  []string
}

func (m *mockAccountStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	if a, ok := m.accounts[email]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockAccountStore) Insert(ctx context.Context, account *models.Account) error {
	if m.accounts == nil {
		m.accounts = make(map[string]*models.Account)
	}
	clone := *account
	m.accounts[account.Email] = &clone
	return nil
}

func (m *mockAccountStore) Delete(ctx context.Context, email string) error {
	m.deleted = append(m.deleted, email)
	delete(m.accounts, email)
	return nil
}

func newUserFixture() (*UserService, *mockStudentDir, *mockTeacherDir, *mockAdminDir, *mockAccountStore) {
	students := &mockStudentDir{students: map[string]*models.Student{
		"s.karim@school.test": {Email: "s.karim@school.test", FullName: "Karim Saidi", Active: true},
	}}
	teachers := &mockTeacherDir{teachers: map[string]*models.Teacher{
		"a.benali@school.test": {Email: "a.benali@school.test", FullName: "Amina Benali", Active: true},
	}}
	admins := &mockAdminDir{admins: map[string]*models.Admin{
		"admin@school.test": {Email: "admin@school.test", FullName: "Direction", Active: true},
	}}
	accounts := &mockAccountStore{accounts: map[string]*models.Account{}}
	svc := NewUserService(students, teachers, admins, accounts, nil, nil, nil, nil)
	return svc, students, teachers, admins, accounts
}

func TestResolveProbesCollectionsInOrder(t *testing.T) {
	svc, students, teachers, admins, _ := newUserFixture()

	user, err := svc.Resolve(context.Background(), "s.karim@school.test")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	require.NotNil(t, user.Student)
	assert.Equal(t, 1, students.probes)
	assert.Zero(t, teachers.probes, "resolution must stop at the first hit")
	assert.Zero(t, admins.probes)
}

func TestResolveFindsTeacherOnSecondProbe(t *testing.T) {
	svc, students, teachers, admins, _ := newUserFixture()

	user, err := svc.Resolve(context.Background(), "a.benali@school.test")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, user.Role)
	assert.Equal(t, 1, students.probes)
	assert.Equal(t, 1, teachers.probes)
	assert.Zero(t, admins.probes)
}

func TestResolveFindsAdminOnThirdProbe(t *testing.T) {
	svc, _, _, admins, _ := newUserFixture()

	user, err := svc.Resolve(context.Background(), "admin@school.test")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, 1, admins.probes)
}

func TestResolveNotFoundAfterThreeMisses(t *testing.T) {
	svc, students, teachers, admins, _ := newUserFixture()

	_, err := svc.Resolve(context.Background(), "ghost@school.test")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "user not found in any collection", appErr.Message)
	assert.Equal(t, 1, students.probes)
	assert.Equal(t, 1, teachers.probes)
	assert.Equal(t, 1, admins.probes)
}

func TestResolveTreatsUnreachableCollectionAsMiss(t *testing.T) {
	svc, students, _, _, _ := newUserFixture()
	students.probeErr = errors.New("connection reset")

	user, err := svc.Resolve(context.Background(), "a.benali@school.test")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, user.Role)
}

func TestResolveAllCollectionsUnreachable(t *testing.T) {
	svc, students, _, admins, _ := newUserFixture()
	students.probeErr = errors.New("connection reset")
	admins.probeErr = errors.New("connection reset")

	_, err := svc.Resolve(context.Background(), "ghost@school.test")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLoadDirectoryLoadsAllRoles(t *testing.T) {
	svc, _, _, _, _ := newUserFixture()

	dir, err := svc.LoadDirectory(context.Background())
	require.NoError(t, err)
	assert.Len(t, dir.Students, 1)
	assert.Len(t, dir.Teachers, 1)
	assert.Len(t, dir.Admins, 1)
}

func TestCreateTeacherProvisionsAccountAndProfile(t *testing.T) {
	svc, _, teachers, _, accounts := newUserFixture()

	teacher, err := svc.CreateTeacher(context.Background(), CreateTeacherRequest{
		Email:      "Y.Haddad@School.Test",
		Password:   "s3cret-pass",
		FullName:   "Yacine Haddad",
		EmployeeID: "EMP-042",
		Department: "Mathematiques",
	})
	require.NoError(t, err)
	assert.Equal(t, "y.haddad@school.test", teacher.Email)
	assert.NotNil(t, teachers.teachers["y.haddad@school.test"])
	assert.Empty(t, teacher.AssignedCourseIDs)
	assert.Empty(t, teacher.AssignedFieldIDs)

	account := accounts.accounts["y.haddad@school.test"]
	require.NotNil(t, account)
	assert.Equal(t, models.RoleTeacher, account.Role)
	assert.NotEqual(t, "s3cret-pass", account.PasswordHash)
}

func TestCreateStudentCompensatesAccountOnProfileFailure(t *testing.T) {
	svc, students, _, _, accounts := newUserFixture()
	students.failInsert = true

	_, err := svc.CreateStudent(context.Background(), CreateStudentRequest{
		Email:      "new@school.test",
		Password:   "s3cret-pass",
		FullName:   "New Student",
		StudentID:  "STU-001",
		Department: "Informatique",
		Field:      "Genie Informatique",
		Year:       "1ère Année",
	})
	require.Error(t, err)
	assert.Contains(t, accounts.deleted, "new@school.test")
	assert.Nil(t, accounts.accounts["new@school.test"])
}

func TestCreateStudentRejectsUnknownYear(t *testing.T) {
	svc, _, _, _, accounts := newUserFixture()

	_, err := svc.CreateStudent(context.Background(), CreateStudentRequest{
		Email:      "new@school.test",
		Password:   "s3cret-pass",
		FullName:   "New Student",
		StudentID:  "STU-001",
		Department: "Informatique",
		Field:      "Genie Informatique",
		Year:       "7ème Année",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, accounts.accounts)
}

func TestCreateRejectsDuplicateAccount(t *testing.T) {
	svc, _, _, _, accounts := newUserFixture()
	accounts.accounts["taken@school.test"] = &models.Account{Email: "taken@school.test"}

	_, err := svc.CreateAdmin(context.Background(), CreateAdminRequest{
		Email:    "taken@school.test",
		Password: "s3cret-pass",
		FullName: "Second Admin",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

type mockImageStore struct {
	saved   map[string][]byte
	deleted []string
}

func (m *mockImageStore) Save(filename string, data []byte) (string, error) {
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[filename] = data
	return filename, nil
}

func (m *mockImageStore) Delete(filename string) error {
	m.deleted = append(m.deleted, filename)
	return nil
}

func TestUpdateTeacherAppliesEdits(t *testing.T) {
	svc, _, teachers, _, _ := newUserFixture()

	teacher, err := svc.UpdateTeacher(context.Background(), "a.benali@school.test", UpdateTeacherRequest{
		FullName:   "Amina Benali-Cherif",
		EmployeeID: "EMP-007",
		Department: "Physique",
	})
	require.NoError(t, err)
	assert.Equal(t, "Amina Benali-Cherif", teacher.FullName)
	assert.Equal(t, "Amina Benali-Cherif", teachers.teachers["a.benali@school.test"].FullName)
	assert.Equal(t, "EMP-007", teachers.teachers["a.benali@school.test"].EmployeeID)
}

func TestUpdateStudentRejectsUnknownYear(t *testing.T) {
	svc, students, _, _, _ := newUserFixture()

	_, err := svc.UpdateStudent(context.Background(), "s.karim@school.test", UpdateStudentRequest{
		FullName:   "Karim Saidi",
		StudentID:  "STU-009",
		Department: "Informatique",
		Field:      "Genie Informatique",
		Year:       "6ème Année",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, "Karim Saidi", students.students["s.karim@school.test"].FullName)
}

func TestUpdateStudentUnknownEmail(t *testing.T) {
	svc, _, _, _, _ := newUserFixture()

	_, err := svc.UpdateStudent(context.Background(), "ghost@school.test", UpdateStudentRequest{
		FullName:   "Ghost",
		StudentID:  "STU-000",
		Department: "Informatique",
		Field:      "Genie Informatique",
		Year:       "1ère Année",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDeleteProfileImageClearsReference(t *testing.T) {
	_, students, teachers, admins, accounts := newUserFixture()
	students.students["s.karim@school.test"].ProfileImageURL = "s.karim@school.test.png"
	images := &mockImageStore{}
	svc := NewUserService(students, teachers, admins, accounts, images, nil, nil, nil)

	require.NoError(t, svc.DeleteProfileImage(context.Background(), "s.karim@school.test"))
	assert.Contains(t, images.deleted, "s.karim@school.test.png")
	assert.Empty(t, students.students["s.karim@school.test"].ProfileImageURL)
}

func TestDeleteProfileImageStorageDisabled(t *testing.T) {
	svc, _, _, _, _ := newUserFixture()

	err := svc.DeleteProfileImage(context.Background(), "s.karim@school.test")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSetActiveTogglesResolvedProfile(t *testing.T) {
	svc, _, teachers, _, _ := newUserFixture()

	user, err := svc.SetActive(context.Background(), "a.benali@school.test", false)
	require.NoError(t, err)
	assert.False(t, user.Teacher.Active)
	assert.False(t, teachers.teachers["a.benali@school.test"].Active)
}

func TestDeleteRemovesProfileAndAccount(t *testing.T) {
	svc, students, _, _, accounts := newUserFixture()
	accounts.accounts["s.karim@school.test"] = &models.Account{Email: "s.karim@school.test"}

	require.NoError(t, svc.Delete(context.Background(), "s.karim@school.test"))
	assert.Nil(t, students.students["s.karim@school.test"])
	assert.Contains(t, accounts.deleted, "s.karim@school.test")
}
