package models

import (
	"time"

	"github.com/lib/pq"
)

// Class groups students and subjects for one department, batch and section.
type Class struct {
	ID             string         `db:"id" json:"id"`
	Department     string         `db:"department" json:"department"`
	Year           int            `db:"year" json:"year"`
	Batch          string         `db:"batch" json:"batch"`
	Section        int            `db:"section" json:"section"`
	ClassTeacherID string         `db:"class_teacher_id" json:"classTeacherId"`
	SubjectIDs     pq.StringArray `db:"subject_ids" json:"subjectIds"`
	StudentIDs     pq.StringArray `db:"student_ids" json:"studentIds"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}

// ClassFilter identifies a class by its natural key.
type ClassFilter struct {
	Department string
	Batch      string
	Section    int
}
