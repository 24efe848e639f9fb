package dto

// AssignDepartmentRequest scopes an HOD to a department and years.
type AssignDepartmentRequest struct {
	HODID      string `json:"hodId" validate:"required,mongodb"`
	Department string `json:"department" validate:"required"`
	Years      []int  `json:"years" validate:"required,min=1,unique,dive,min=1,max=6"`
	Batch      string `json:"batch" validate:"required,max=20"`
}

// DepartmentQuery filters assignments by department.
type DepartmentQuery struct {
	Department string `form:"department" json:"department"`
}
