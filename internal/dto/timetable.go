package dto

// TimeSlotInput is one weekly lecture slot.
type TimeSlotInput struct {
	Day               string `json:"day" validate:"required,weekday"`
	StartTime         string `json:"startTime" validate:"required,clock"`
	EndTime           string `json:"endTime" validate:"required,clock"`
	AssignedSubjectID string `json:"assignedSubjectId" validate:"required,mongodb"`
}

// CreateTimeTableRequest replaces a class timetable wholesale.
type CreateTimeTableRequest struct {
	ClassID string          `json:"classId" validate:"required,mongodb"`
	Slots   []TimeSlotInput `json:"slots" validate:"required,min=1,max=100,dive"`
}

// TimeTableCalendarQuery bounds the recurring events of an iCalendar export.
type TimeTableCalendarQuery struct {
	From string `form:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
}
