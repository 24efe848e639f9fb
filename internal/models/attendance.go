package models

import (
	"database/sql/driver"
	"time"
)

// AttendanceStatus is the per-student outcome of a lecture.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

// StudentStatus records one student's status inside an attendance document.
type StudentStatus struct {
	StudentID string           `json:"studentId"`
	Status    AttendanceStatus `json:"status"`
}

// StudentStatuses is stored as one JSONB array.
type StudentStatuses []StudentStatus

func (s StudentStatuses) Value() (driver.Value, error) {
	if s == nil {
		s = StudentStatuses{}
	}
	return valueJSON(s)
}

func (s *StudentStatuses) Scan(src interface{}) error {
	*s = nil
	return scanJSON(src, s)
}

// Attendance is the single document for a (subject, date, section) key.
type Attendance struct {
	ID        string          `db:"id" json:"id"`
	SubjectID string          `db:"subject_id" json:"subjectId"`
	Date      time.Time       `db:"date" json:"date"`
	Section   int             `db:"section" json:"section"`
	Students  StudentStatuses `db:"students" json:"students"`
	MarkedBy  *string         `db:"marked_by" json:"markedBy,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

// StatusOf returns the status recorded for studentID.
func (a Attendance) StatusOf(studentID string) (AttendanceStatus, bool) {
	for _, s := range a.Students {
		if s.StudentID == studentID {
			return s.Status, true
		}
	}
	return "", false
}

// StudentAttendance is one student's view of an attendance document.
type StudentAttendance struct {
	AttendanceID string           `json:"attendanceId"`
	SubjectID    string           `json:"subjectId"`
	Date         time.Time        `json:"date"`
	Section      int              `json:"section"`
	Status       AttendanceStatus `json:"status"`
}

// AttendanceFilter selects attendance documents. Zero values are ignored.
type AttendanceFilter struct {
	SubjectID string
	StudentID string
	Section   int
	From      *time.Time
	To        *time.Time
}

// DateLayout is the wire format of attendance dates.
const DateLayout = "2006-01-02"
