package dto

// CreateClassRequest creates a class for one department, batch and section.
type CreateClassRequest struct {
	Department     string   `json:"department" validate:"required"`
	ClassTeacherID string   `json:"classTeacherId" validate:"required,mongodb"`
	Year           int      `json:"year" validate:"required,min=1,max=6"`
	Batch          string   `json:"batch" validate:"required,max=20"`
	Section        int      `json:"section" validate:"required,min=1"`
	SubjectIDs     []string `json:"subjectIds" validate:"omitempty,unique,dive,mongodb"`
	StudentIDs     []string `json:"studentIds" validate:"omitempty,unique,dive,mongodb"`
}

// ClassDetailsQuery identifies a class by its natural key.
type ClassDetailsQuery struct {
	Batch      string `form:"batch" json:"batch" validate:"required"`
	Department string `form:"department" json:"department" validate:"required"`
	Section    int    `form:"section" json:"section" validate:"required,min=1"`
}

// AddStudentsRequest enrols students into an existing class.
type AddStudentsRequest struct {
	StudentIDs []string `json:"studentIds" validate:"required,min=1,unique,dive,mongodb"`
}
