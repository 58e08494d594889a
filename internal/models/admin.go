package models

import "time"

// Admin is an administrator record keyed by email.
type Admin struct {
	Email           string    `bson:"_id" json:"email"`
	FullName        string    `bson:"fullName" json:"fullName"`
	Department      string    `bson:"department,omitempty" json:"department,omitempty"`
	ProfileImageURL string    `bson:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
	Active          bool      `bson:"isActive" json:"isActive"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	LastUpdatedAt   time.Time `bson:"lastUpdatedAt" json:"lastUpdatedAt"`
}
