package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sams-api/internal/analytics"
	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/middleware"
	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/internal/service"
	"github.com/noah-isme/sams-api/pkg/response"
)

type attendanceService interface {
	Mark(ctx context.Context, claims *models.JWTClaims, req dto.MarkAttendanceRequest) (*models.Attendance, error)
	Sync(ctx context.Context, claims *models.JWTClaims, req dto.SyncAttendanceRequest) (*dto.SyncAttendanceResponse, error)
	BySubject(ctx context.Context, q dto.AttendanceBySubjectQuery) ([]models.StudentAttendance, error)
	Records(ctx context.Context, q dto.AttendanceRecordsQuery) ([]models.Attendance, error)
	Analytics(ctx context.Context, q dto.AttendanceAnalyticsQuery) (*analytics.Report, error)
	Export(ctx context.Context, q dto.AttendanceExportQuery) (*service.ExportFile, error)
}

// AttendanceHandler exposes attendance endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// BySubject godoc
// @Summary Student attendance in a subject
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param studentId query string true "Student ID"
// @Param subjectId query string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance/attendancebySubject [get]
func (h *AttendanceHandler) BySubject(c *gin.Context) {
	var q dto.AttendanceBySubjectQuery
	if !bindQuery(c, &q) {
		return
	}
	items, err := h.service.BySubject(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Mark godoc
// @Summary Mark attendance
// @Description Store the sheet of one subject, date and section. Re-marking replaces the student list.
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.MarkAttendanceRequest true "Attendance sheet"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance/mark [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req dto.MarkAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	sheet, err := h.service.Mark(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetAuditResource(c, sheet.ID)
	response.OK(c, sheet)
}

// Sync godoc
// @Summary Sync offline attendance
// @Description Store every cached sheet in one transaction
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SyncAttendanceRequest true "Cached sheets"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance/sync [post]
func (h *AttendanceHandler) Sync(c *gin.Context) {
	var req dto.SyncAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.service.Sync(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// Records godoc
// @Summary Attendance sheets of a subject
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param subjectId query string true "Subject ID"
// @Param section query int false "Section"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance/records [get]
func (h *AttendanceHandler) Records(c *gin.Context) {
	var q dto.AttendanceRecordsQuery
	if !bindQuery(c, &q) {
		return
	}
	items, err := h.service.Records(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Analytics godoc
// @Summary Attendance analytics
// @Description Per-subject percentages, daily and weekly summaries and risk flags for one student
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param studentId query string true "Student ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance/analytics [get]
func (h *AttendanceHandler) Analytics(c *gin.Context) {
	var q dto.AttendanceAnalyticsQuery
	if !bindQuery(c, &q) {
		return
	}
	report, err := h.service.Analytics(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Export godoc
// @Summary Export attendance
// @Tags Attendance
// @Produce octet-stream
// @Security BearerAuth
// @Param subjectId query string true "Subject ID"
// @Param section query int true "Section"
// @Param format query string true "csv, pdf or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /attendance/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	var q dto.AttendanceExportQuery
	if !bindQuery(c, &q) {
		return
	}
	file, err := h.service.Export(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}
