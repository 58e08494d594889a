package models

import "fmt"

// DaysOfWeek is the fixed set of day labels a ScheduleEntry may use.
var DaysOfWeek = []string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi", "Dimanche"}

// TargetYears is the fixed set of year labels a course may target.
var TargetYears = []string{"1ère Année", "2ème Année", "3ème Année", "4ème Année", "5ème Année"}

// TimeSentinel is the default shown in a fresh schedule row. A row whose start
// or end is still at the sentinel is considered incomplete.
const TimeSentinel = "00:00"

// ScheduleEntry is a weekly day/time/room slot. Entries are embedded in Field
// and Course documents, never persisted on their own.
type ScheduleEntry struct {
	DayOfWeek string `bson:"dayOfWeek" json:"dayOfWeek" validate:"required"`
	StartTime string `bson:"startTime" json:"startTime" validate:"required"`
	EndTime   string `bson:"endTime" json:"endTime" validate:"required"`
	Room      string `bson:"room,omitempty" json:"room,omitempty"`
	Recurring bool   `bson:"isRecurring" json:"isRecurring"`
}

// NewScheduleEntry builds a recurring entry, the common case.
func NewScheduleEntry(day, start, end, room string) ScheduleEntry {
	return ScheduleEntry{DayOfWeek: day, StartTime: start, EndTime: end, Room: room, Recurring: true}
}

// Matches reports content equality over day, start, end and room. The
// recurring flag is excluded: two slots occupying the same day/time/room are
// the same logical slot regardless of recurrence metadata.
func (e ScheduleEntry) Matches(other ScheduleEntry) bool {
	return e.DayOfWeek == other.DayOfWeek &&
		e.StartTime == other.StartTime &&
		e.EndTime == other.EndTime &&
		e.Room == other.Room
}

// DisplayString renders the entry the way selection lists show it.
func (e ScheduleEntry) DisplayString() string {
	room := e.Room
	if room == "" {
		room = "N/A"
	}
	return fmt.Sprintf("%s %s - %s (%s)", e.DayOfWeek, e.StartTime, e.EndTime, room)
}

// IndexOfScheduleEntry locates target in entries by content equality,
// returning -1 when no entry matches.
func IndexOfScheduleEntry(entries []ScheduleEntry, target ScheduleEntry) int {
	for i, entry := range entries {
		if entry.Matches(target) {
			return i
		}
	}
	return -1
}

// IsValidDay reports whether day is one of the seven known labels.
func IsValidDay(day string) bool {
	for _, d := range DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// IsValidTargetYear reports whether year is one of the five known labels.
func IsValidTargetYear(year string) bool {
	for _, y := range TargetYears {
		if y == year {
			return true
		}
	}
	return false
}
