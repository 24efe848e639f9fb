package models

import (
	"database/sql/driver"
	"time"
)

// Weekday names accepted in timetable slots.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// TimeSlot is one lecture in the weekly timetable. Times are HH:MM.
type TimeSlot struct {
	Day               string `json:"day"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	AssignedSubjectID string `json:"assignedSubjectId"`
}

// TimeSlots is stored as one JSONB array and always replaced as a whole.
type TimeSlots []TimeSlot

func (s TimeSlots) Value() (driver.Value, error) {
	if s == nil {
		s = TimeSlots{}
	}
	return valueJSON(s)
}

func (s *TimeSlots) Scan(src interface{}) error {
	*s = nil
	return scanJSON(src, s)
}

// TimeTable is the ordered weekly schedule of a class.
type TimeTable struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"classId"`
	Slots     TimeSlots `db:"slots" json:"slots"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
