package dto

// StudentQuery filters the student directory.
type StudentQuery struct {
	Department string `form:"department" json:"department"`
	Year       int    `form:"year" json:"year" validate:"omitempty,min=1,max=6"`
	Section    int    `form:"section" json:"section" validate:"omitempty,min=1"`
	Batch      string `form:"batch" json:"batch"`
}

// FacultyQuery filters the faculty directory.
type FacultyQuery struct {
	Department string `form:"department" json:"department"`
}
