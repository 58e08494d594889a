package models

// Role identifies which collection a directory user was found in.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// DirectoryUser is a tagged union over the three user record types. Exactly
// one of the pointers matching Role is non-nil.
type DirectoryUser struct {
	Role    Role     `json:"role"`
	Student *Student `json:"student,omitempty"`
	Teacher *Teacher `json:"teacher,omitempty"`
	Admin   *Admin   `json:"admin,omitempty"`
}

// Email returns the key of the underlying record.
func (u DirectoryUser) Email() string {
	switch u.Role {
	case RoleStudent:
		return u.Student.Email
	case RoleTeacher:
		return u.Teacher.Email
	case RoleAdmin:
		return u.Admin.Email
	}
	return ""
}

// FullName returns the display name of the underlying record.
func (u DirectoryUser) FullName() string {
	switch u.Role {
	case RoleStudent:
		return u.Student.FullName
	case RoleTeacher:
		return u.Teacher.FullName
	case RoleAdmin:
		return u.Admin.FullName
	}
	return ""
}
