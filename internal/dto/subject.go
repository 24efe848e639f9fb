package dto

// CreateSubjectRequest captures fields for creating subjects.
type CreateSubjectRequest struct {
	Name       string `json:"name" validate:"required,max=150"`
	Code       string `json:"code" validate:"required,max=20"`
	Department string `json:"department" validate:"required"`
	Year       int    `json:"year" validate:"required,min=1,max=6"`
	Semester   int    `json:"semester" validate:"required,min=1,max=12"`
	FacultyID  string `json:"facultyId" validate:"omitempty,mongodb"`
}

// AssignSubjectRequest assigns a faculty member to a subject section.
type AssignSubjectRequest struct {
	SubjectID string `json:"subjectId" validate:"required,mongodb"`
	FacultyID string `json:"facultyId" validate:"required,mongodb"`
	Section   int    `json:"section" validate:"required,min=1"`
}

// SubjectQuery filters the subject list.
type SubjectQuery struct {
	Department string `form:"department" json:"department" validate:"required"`
	Year       int    `form:"year" json:"year" validate:"required,min=1,max=6"`
	Section    int    `form:"section" json:"section" validate:"omitempty,min=1"`
}

// AssignedSubjectQuery filters subject assignments.
type AssignedSubjectQuery struct {
	FacultyID string `form:"facultyId" json:"facultyId" validate:"omitempty,mongodb"`
	SubjectID string `form:"subjectId" json:"subjectId" validate:"omitempty,mongodb"`
	Section   int    `form:"section" json:"section" validate:"omitempty,min=1"`
}
