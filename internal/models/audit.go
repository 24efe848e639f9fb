package models

import "time"

// Audit actions recorded for mutating operations.
const (
	AuditActionLogin            = "LOGIN"
	AuditActionLogout           = "LOGOUT"
	AuditActionRegister         = "REGISTER"
	AuditActionSubjectCreate    = "SUBJECT_CREATE"
	AuditActionSubjectAssign    = "SUBJECT_ASSIGN"
	AuditActionSubjectDelete    = "SUBJECT_DELETE"
	AuditActionClassCreate      = "CLASS_CREATE"
	AuditActionClassStudents    = "CLASS_STUDENTS_ADD"
	AuditActionTimeTableReplace = "TIMETABLE_REPLACE"
	AuditActionAttendanceMark   = "ATTENDANCE_MARK"
	AuditActionAttendanceSync   = "ATTENDANCE_SYNC"
	AuditActionDepartmentAssign = "DEPARTMENT_ASSIGN"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string       `db:"id" json:"id"`
	UserID     *string      `db:"user_id" json:"userId,omitempty"`
	Action     string       `db:"action" json:"action"`
	Resource   string       `db:"resource" json:"resource"`
	ResourceID *string      `db:"resource_id" json:"resourceId,omitempty"`
	Payload    JSONDocument `db:"payload" json:"payload,omitempty"`
	IPAddress  string       `db:"ip_address" json:"ipAddress"`
	UserAgent  string       `db:"user_agent" json:"userAgent"`
	CreatedAt  time.Time    `db:"created_at" json:"createdAt"`
}
