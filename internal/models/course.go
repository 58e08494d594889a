package models

import "time"

// CourseStats holds counters maintained by the attendance pipeline. The admin
// API initialises them to zero and never edits them afterwards.
type CourseStats struct {
	TotalSessions         int     `bson:"totalSessions" json:"totalSessions"`
	TotalEnrolledStudents int     `bson:"totalEnrolledStudents" json:"totalEnrolledStudents"`
	AverageAttendanceRate float64 `bson:"averageAttendanceRate" json:"averageAttendanceRate"`
}

// Course is a taught unit. It references its owning Field by name and carries
// a single schedule entry copied from that field's weekly catalog.
//
// TeacherEmail and TeacherName are nil while the course is unassigned; both
// are set and cleared together, only ever through the assignment transaction.
type Course struct {
	CourseID            string         `bson:"_id" json:"courseId"`
	CourseName          string         `bson:"courseName" json:"courseName"`
	Department          string         `bson:"department" json:"department"`
	Field               string         `bson:"field" json:"field"`
	TargetYears         []string       `bson:"targetYears" json:"targetYears"`
	TeacherEmail        *string        `bson:"teacherEmail" json:"teacherEmail"`
	TeacherName         *string        `bson:"teacherName" json:"teacherName"`
	CourseScheduleEntry *ScheduleEntry `bson:"courseScheduleEntry" json:"courseScheduleEntry"`
	Active              bool           `bson:"isActive" json:"isActive"`
	Statistics          CourseStats    `bson:"statistics" json:"statistics"`
	CreatedAt           time.Time      `bson:"createdAt" json:"createdAt"`
}

// Assigned reports whether the course currently has a teacher.
func (c *Course) Assigned() bool {
	return c.TeacherEmail != nil && *c.TeacherEmail != ""
}
