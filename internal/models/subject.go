package models

import "time"

// Subject is a course offered to one department and year.
type Subject struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Code       string    `db:"code" json:"code"`
	Department string    `db:"department" json:"department"`
	Year       int       `db:"year" json:"year"`
	Semester   int       `db:"semester" json:"semester"`
	FacultyID  *string   `db:"faculty_id" json:"facultyId,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// SubjectFilter selects subjects by equality. Section narrows the result to
// subjects assigned to that section.
type SubjectFilter struct {
	Department string
	Year       int
	Section    int
}

// AssignedSubject links a faculty member to a subject for one section.
type AssignedSubject struct {
	ID        string    `db:"id" json:"id"`
	FacultyID string    `db:"faculty_id" json:"facultyId"`
	SubjectID string    `db:"subject_id" json:"subjectId"`
	Section   int       `db:"section" json:"section"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// AssignedSubjectFilter selects assignments by equality.
type AssignedSubjectFilter struct {
	FacultyID string
	SubjectID string
	Section   int
}
