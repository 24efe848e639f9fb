package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin            UserRole = "ADMIN"
	RoleHOD              UserRole = "HOD"
	RoleFaculty          UserRole = "FACULTY"
	RoleClassCoordinator UserRole = "CLASS_COORDINATOR"
	RoleStudent          UserRole = "STUDENT"
)

// AllRoles lists every role in a stable order.
var AllRoles = []UserRole{RoleAdmin, RoleHOD, RoleFaculty, RoleClassCoordinator, RoleStudent}

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleHOD, RoleFaculty, RoleClassCoordinator, RoleStudent:
		return true
	default:
		return false
	}
}

// User is the shared identity record. Role-specific fields live in Profile,
// whose concrete type is fixed by Role.
type User struct {
	ID           string       `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Email        string       `db:"email" json:"email"`
	PasswordHash string       `db:"password_hash" json:"-"`
	Phone        string       `db:"phone" json:"phone"`
	Role         UserRole     `db:"role" json:"role"`
	RawProfile   JSONDocument `db:"profile" json:"-"`
	Profile      Profile      `db:"-" json:"profile"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt"`
}

// EncodeProfile serialises Profile into RawProfile for persistence.
func (u *User) EncodeProfile() error {
	if u.Profile == nil {
		u.RawProfile = JSONDocument("{}")
		return nil
	}
	if u.Profile.ProfileRole() != u.Role {
		return fmt.Errorf("profile for %s attached to %s user", u.Profile.ProfileRole(), u.Role)
	}
	raw, err := json.Marshal(u.Profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	u.RawProfile = raw
	return nil
}

// DecodeProfile rebuilds Profile from RawProfile according to Role.
func (u *User) DecodeProfile() error {
	profile, err := DecodeProfile(u.Role, u.RawProfile)
	if err != nil {
		return err
	}
	u.Profile = profile
	return nil
}

// Profile is the role-specific part of a user. Exactly one implementation
// exists per role.
type Profile interface {
	ProfileRole() UserRole
}

// StudentProfile holds enrolment data for students.
type StudentProfile struct {
	StudentID     string `json:"studentId"`
	AparID        string `json:"aparId"`
	AdmissionDate string `json:"admissionDate"`
	Year          int    `json:"year"`
	Semester      int    `json:"semester"`
	Department    string `json:"department"`
	Section       int    `json:"section"`
	Batch         string `json:"batch,omitempty"`
	Transport     string `json:"transport,omitempty"`
	ParentPhone   string `json:"parentPhone"`
	Address       string `json:"address"`
}

// FacultyProfile holds teaching staff data.
type FacultyProfile struct {
	Designation string `json:"designation"`
	Department  string `json:"department"`
}

// HODProfile holds head-of-department data.
type HODProfile struct {
	Department  string `json:"department"`
	Designation string `json:"designation,omitempty"`
}

// ClassCoordinatorProfile ties a coordinator to one department.
type ClassCoordinatorProfile struct {
	Department  string `json:"department"`
	Designation string `json:"designation,omitempty"`
}

// AdminProfile holds administrator data.
type AdminProfile struct {
	Designation string `json:"designation,omitempty"`
}

func (StudentProfile) ProfileRole() UserRole          { return RoleStudent }
func (FacultyProfile) ProfileRole() UserRole          { return RoleFaculty }
func (HODProfile) ProfileRole() UserRole              { return RoleHOD }
func (ClassCoordinatorProfile) ProfileRole() UserRole { return RoleClassCoordinator }
func (AdminProfile) ProfileRole() UserRole            { return RoleAdmin }

// DecodeProfile unmarshals raw into the profile type owned by role.
func DecodeProfile(role UserRole, raw []byte) (Profile, error) {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	var (
		profile Profile
		err     error
	)
	switch role {
	case RoleStudent:
		var p StudentProfile
		err = json.Unmarshal(raw, &p)
		profile = p
	case RoleFaculty:
		var p FacultyProfile
		err = json.Unmarshal(raw, &p)
		profile = p
	case RoleHOD:
		var p HODProfile
		err = json.Unmarshal(raw, &p)
		profile = p
	case RoleClassCoordinator:
		var p ClassCoordinatorProfile
		err = json.Unmarshal(raw, &p)
		profile = p
	case RoleAdmin:
		var p AdminProfile
		err = json.Unmarshal(raw, &p)
		profile = p
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s profile: %w", role, err)
	}
	return profile, nil
}

// Department returns the department attached to the user's profile, if any.
func (u *User) Department() string {
	switch p := u.Profile.(type) {
	case StudentProfile:
		return p.Department
	case FacultyProfile:
		return p.Department
	case HODProfile:
		return p.Department
	case ClassCoordinatorProfile:
		return p.Department
	default:
		return ""
	}
}

// UserFilter captures equality filters for directory listings.
type UserFilter struct {
	Role       UserRole
	Department string
	Year       int
	Section    int
	Batch      string
}

// UnmarshalJSON decodes the profile into the concrete type selected by role.
func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	aux := struct {
		*alias
		Profile json.RawMessage `json:"profile"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.RawProfile = JSONDocument(aux.Profile)
	if !u.Role.Valid() {
		return nil
	}
	return u.DecodeProfile()
}
