package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/middleware"
	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/internal/service"
	"github.com/noah-isme/sams-api/pkg/response"
)

type timetableService interface {
	Replace(ctx context.Context, req dto.CreateTimeTableRequest) (*models.TimeTable, error)
	Get(ctx context.Context, classID string) (*models.TimeTable, error)
	Calendar(ctx context.Context, classID string, q dto.TimeTableCalendarQuery) (*service.CalendarFile, error)
}

// TimeTableHandler serves class timetables.
type TimeTableHandler struct {
	service timetableService
}

// NewTimeTableHandler constructs the handler.
func NewTimeTableHandler(svc timetableService) *TimeTableHandler {
	return &TimeTableHandler{service: svc}
}

// Replace godoc
// @Summary Create or replace timetable
// @Description The slot list replaces the stored one entirely
// @Tags Timetable
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateTimeTableRequest true "Timetable payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetable [post]
func (h *TimeTableHandler) Replace(c *gin.Context) {
	var req dto.CreateTimeTableRequest
	if !bindJSON(c, &req) {
		return
	}
	tt, err := h.service.Replace(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetAuditResource(c, tt.ClassID)
	response.OK(c, tt)
}

// Get godoc
// @Summary Class timetable
// @Tags Timetable
// @Produce json
// @Security BearerAuth
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable/{classId} [get]
func (h *TimeTableHandler) Get(c *gin.Context) {
	tt, err := h.service.Get(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tt)
}

// Calendar godoc
// @Summary Timetable as iCalendar
// @Tags Timetable
// @Produce text/calendar
// @Security BearerAuth
// @Param classId path string true "Class ID"
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /timetable/{classId}/ics [get]
func (h *TimeTableHandler) Calendar(c *gin.Context) {
	var q dto.TimeTableCalendarQuery
	if !bindQuery(c, &q) {
		return
	}
	file, err := h.service.Calendar(c.Request.Context(), c.Param("classId"), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}
