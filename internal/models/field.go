package models

import "time"

// Field is an academic track (filière). Its weeklySchedule is the slot
// catalog courses pick their schedule entry from.
type Field struct {
	FieldID        string          `bson:"_id" json:"fieldId"`
	FieldName      string          `bson:"fieldName" json:"fieldName"`
	Department     string          `bson:"department" json:"department"`
	Description    string          `bson:"description,omitempty" json:"description,omitempty"`
	WeeklySchedule []ScheduleEntry `bson:"weeklySchedule" json:"weeklySchedule"`
	CreatedAt      time.Time       `bson:"createdAt" json:"createdAt"`
	LastUpdatedAt  time.Time       `bson:"lastUpdatedAt" json:"lastUpdatedAt"`
}
