package models

import "time"

// Student is a learner record keyed by email. Courses reach students
// indirectly through department+field+year matching, not by reference.
type Student struct {
	Email           string     `bson:"_id" json:"email"`
	FullName        string     `bson:"fullName" json:"fullName"`
	StudentID       string     `bson:"studentId" json:"studentId"`
	Department      string     `bson:"department" json:"department"`
	Field           string     `bson:"field" json:"field"`
	Year            string     `bson:"year" json:"year"`
	PhoneNumber     string     `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	ProfileImageURL string     `bson:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
	Active          bool       `bson:"isActive" json:"isActive"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	LastUpdatedAt   time.Time  `bson:"lastUpdatedAt" json:"lastUpdatedAt"`
	LastLoginAt     *time.Time `bson:"lastLoginAt" json:"lastLoginAt,omitempty"`
}
