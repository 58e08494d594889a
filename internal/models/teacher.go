package models

import "time"

// NotificationPreferences mirrors the mobile client's per-user toggles. The
// admin API stores them opaquely.
type NotificationPreferences struct {
	EmailEnabled bool `bson:"emailEnabled" json:"emailEnabled"`
	PushEnabled  bool `bson:"pushEnabled" json:"pushEnabled"`
}

// Teacher is an instructor record keyed by email.
//
// AssignedCourseIDs must stay consistent with the set of courses whose
// teacherEmail equals this teacher's email. That invariant is maintained only
// through the assignment transaction, never by direct edits.
type Teacher struct {
	Email                   string                  `bson:"_id" json:"email"`
	FullName                string                  `bson:"fullName" json:"fullName"`
	EmployeeID              string                  `bson:"employeeId" json:"employeeId"`
	Department              string                  `bson:"department" json:"department"`
	PhoneNumber             string                  `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	ProfileImageURL         string                  `bson:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
	Active                  bool                    `bson:"isActive" json:"isActive"`
	NotificationPreferences NotificationPreferences `bson:"notificationPreferences" json:"notificationPreferences"`
	AssignedCourseIDs       []string                `bson:"assignedCourseIds" json:"assignedCourseIds"`
	AssignedFieldIDs        []string                `bson:"assignedFieldIds" json:"assignedFieldIds"`
	CreatedAt               time.Time               `bson:"createdAt" json:"createdAt"`
	LastUpdatedAt           time.Time               `bson:"lastUpdatedAt" json:"lastUpdatedAt"`
	LastLoginAt             *time.Time              `bson:"lastLoginAt" json:"lastLoginAt,omitempty"`
}
