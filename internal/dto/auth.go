package dto

import (
	"encoding/json"
	"fmt"

	"github.com/noah-isme/sams-api/internal/models"
)

// RegisterBase holds the identity fields shared by every role.
type RegisterBase struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Phone    string `json:"phone" validate:"required,phone"`
	Role     string `json:"role" validate:"required,user_role"`
}

// ProfileRequest is the role-specific half of a registration payload.
type ProfileRequest interface {
	ToProfile() models.Profile
}

// StudentRegistration carries the fields a student must supply.
type StudentRegistration struct {
	StudentID     string `json:"studentId" validate:"required"`
	AparID        string `json:"aparId" validate:"required"`
	AdmissionDate string `json:"admissionDate" validate:"required,datetime=2006-01-02"`
	Year          int    `json:"year" validate:"required,min=1,max=6"`
	Semester      int    `json:"semester" validate:"required,min=1,max=12"`
	Department    string `json:"department" validate:"required"`
	Section       int    `json:"section" validate:"required,min=1"`
	Batch         string `json:"batch" validate:"omitempty,max=20"`
	Transport     string `json:"transport" validate:"omitempty,max=100"`
	ParentPhone   string `json:"parentPhone" validate:"required,phone"`
	Address       string `json:"address" validate:"required"`
}

// FacultyRegistration carries the profile fields of a new faculty member.
type FacultyRegistration struct {
	Designation string `json:"designation" validate:"required"`
	Department  string `json:"department" validate:"required"`
}

// HODRegistration carries the profile fields of a new head of department.
type HODRegistration struct {
	Department  string `json:"department" validate:"required"`
	Designation string `json:"designation" validate:"omitempty"`
}

// ClassCoordinatorRegistration carries the profile fields of a new class coordinator.
type ClassCoordinatorRegistration struct {
	Department  string `json:"department" validate:"required"`
	Designation string `json:"designation" validate:"omitempty"`
}

// AdminRegistration carries the optional profile fields of a new administrator.
type AdminRegistration struct {
	Designation string `json:"designation" validate:"omitempty"`
}

// ToProfile converts the registration into a stored student profile.
func (r *StudentRegistration) ToProfile() models.Profile {
	return models.StudentProfile{
		StudentID:     r.StudentID,
		AparID:        r.AparID,
		AdmissionDate: r.AdmissionDate,
		Year:          r.Year,
		Semester:      r.Semester,
		Department:    r.Department,
		Section:       r.Section,
		Batch:         r.Batch,
		Transport:     r.Transport,
		ParentPhone:   r.ParentPhone,
		Address:       r.Address,
	}
}

// ToProfile converts the registration into a stored faculty profile.
func (r *FacultyRegistration) ToProfile() models.Profile {
	return models.FacultyProfile{Designation: r.Designation, Department: r.Department}
}

// ToProfile converts the registration into a stored HOD profile.
func (r *HODRegistration) ToProfile() models.Profile {
	return models.HODProfile{Department: r.Department, Designation: r.Designation}
}

// ToProfile converts the registration into a stored coordinator profile.
func (r *ClassCoordinatorRegistration) ToProfile() models.Profile {
	return models.ClassCoordinatorProfile{Department: r.Department, Designation: r.Designation}
}

// ToProfile converts the registration into a stored admin profile.
func (r *AdminRegistration) ToProfile() models.Profile {
	return models.AdminProfile{Designation: r.Designation}
}

// NewProfileRequest returns an empty registration struct for role.
func NewProfileRequest(role models.UserRole) (ProfileRequest, error) {
	switch role {
	case models.RoleStudent:
		return &StudentRegistration{}, nil
	case models.RoleFaculty:
		return &FacultyRegistration{}, nil
	case models.RoleHOD:
		return &HODRegistration{}, nil
	case models.RoleClassCoordinator:
		return &ClassCoordinatorRegistration{}, nil
	case models.RoleAdmin:
		return &AdminRegistration{}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

// RegisterRequest is a flat JSON body decoded in two passes: the shared
// fields first, then the profile struct chosen by role.
type RegisterRequest struct {
	RegisterBase
	Profile ProfileRequest `json:"-"`
}

// UnmarshalJSON implements the role-discriminated decode.
func (r *RegisterRequest) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &r.RegisterBase); err != nil {
		return err
	}
	profile, err := NewProfileRequest(models.UserRole(r.Role))
	if err != nil {
		// left for validation to report on the role field
		r.Profile = nil
		return nil
	}
	if err := json.Unmarshal(data, profile); err != nil {
		return err
	}
	r.Profile = profile
	return nil
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest = models.LoginRequest
