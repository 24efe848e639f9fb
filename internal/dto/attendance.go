package dto

// StudentStatusInput is one entry of an attendance sheet.
type StudentStatusInput struct {
	StudentID string `json:"studentId" validate:"required,mongodb"`
	Status    string `json:"status" validate:"required,attendance_status"`
}

// MarkAttendanceRequest marks one (subject, date, section) sheet.
type MarkAttendanceRequest struct {
	Department string               `json:"department" validate:"required"`
	Year       int                  `json:"year" validate:"required,min=1,max=6"`
	Section    int                  `json:"section" validate:"required,min=1"`
	SubjectID  string               `json:"subjectId" validate:"required,mongodb"`
	Date       string               `json:"date" validate:"required,datetime=2006-01-02"`
	Students   []StudentStatusInput `json:"students" validate:"required,min=1,unique=StudentID,dive"`
}

// SyncAttendanceRequest carries sheets cached offline, applied in one call.
type SyncAttendanceRequest struct {
	Records []MarkAttendanceRequest `json:"records" validate:"required,min=1,max=500,dive"`
}

// SyncAttendanceResponse reports how many sheets were stored.
type SyncAttendanceResponse struct {
	Synced int `json:"synced"`
}

// AttendanceBySubjectQuery selects one student's records for a subject.
type AttendanceBySubjectQuery struct {
	StudentID string `form:"studentId" json:"studentId" validate:"required,mongodb"`
	SubjectID string `form:"subjectId" json:"subjectId" validate:"required,mongodb"`
}

// AttendanceRecordsQuery lists sheets of a subject.
type AttendanceRecordsQuery struct {
	SubjectID string `form:"subjectId" json:"subjectId" validate:"required,mongodb"`
	Section   int    `form:"section" json:"section" validate:"omitempty,min=1"`
	From      string `form:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
}

// AttendanceAnalyticsQuery selects the student whose report is built.
type AttendanceAnalyticsQuery struct {
	StudentID string `form:"studentId" json:"studentId" validate:"required,mongodb"`
	From      string `form:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
}

// AttendanceExportQuery selects the sheets rendered into a file.
type AttendanceExportQuery struct {
	SubjectID string `form:"subjectId" json:"subjectId" validate:"required,mongodb"`
	Section   int    `form:"section" json:"section" validate:"required,min=1"`
	Format    string `form:"format" json:"format" validate:"required,oneof=csv pdf xlsx"`
	From      string `form:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
}
