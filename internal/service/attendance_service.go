package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sams-api/internal/analytics"
	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/internal/validation"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
	"github.com/noah-isme/sams-api/pkg/export"
)

type attendanceRepository interface {
	Upsert(ctx context.Context, a *models.Attendance) error
	UpsertMany(ctx context.Context, sheets []*models.Attendance) error
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type tableRenderer interface {
	ContentType() string
	Extension() string
	Render(data export.Dataset) ([]byte, error)
}

type scopeChecker interface {
	Check(ctx context.Context, claims *models.JWTClaims, department string, year int) error
}

// AttendanceConfig tunes export retention.
type AttendanceConfig struct {
	ExportTTL time.Duration
}

// ExportFile is a rendered attendance document.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AttendanceService marks, queries, analyses and exports attendance.
type AttendanceService struct {
	repo      attendanceRepository
	subjects  subjectReader
	scope     scopeChecker
	storage   fileStorage
	renderers map[string]tableRenderer
	metrics   *MetricsService
	validator *validation.Validator
	logger    *zap.Logger
	cfg       AttendanceConfig
}

// NewAttendanceService constructs an AttendanceService. CSV, PDF and XLSX
// renderers are registered by default.
func NewAttendanceService(repo attendanceRepository, subjects subjectReader, scope scopeChecker, storage fileStorage, metrics *MetricsService, validate *validation.Validator, logger *zap.Logger, cfg AttendanceConfig) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	if cfg.ExportTTL <= 0 {
		cfg.ExportTTL = 24 * time.Hour
	}
	renderers := map[string]tableRenderer{}
	for _, r := range []tableRenderer{export.NewCSVExporter(), export.NewPDFExporter(), export.NewXLSXExporter()} {
		renderers[r.Extension()] = r
	}
	return &AttendanceService{
		repo:      repo,
		subjects:  subjects,
		scope:     scope,
		storage:   storage,
		renderers: renderers,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Mark stores the sheet for (subject, date, section). Marking the same key
// again replaces the student list.
func (s *AttendanceService) Mark(ctx context.Context, claims *models.JWTClaims, req dto.MarkAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	sheet, err := s.buildSheet(ctx, claims, req, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, sheet); err != nil {
		return nil, appErrors.Internal(err, "failed to mark attendance")
	}
	return sheet, nil
}

// Sync stores sheets cached offline in one transaction. Every record is
// checked before anything is written.
func (s *AttendanceService) Sync(ctx context.Context, claims *models.JWTClaims, req dto.SyncAttendanceRequest) (*dto.SyncAttendanceResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	sheets := make([]*models.Attendance, 0, len(req.Records))
	for i, record := range req.Records {
		if s.scope != nil {
			if err := s.scope.Check(ctx, claims, record.Department, record.Year); err != nil {
				return nil, err
			}
		}
		sheet, err := s.buildSheet(ctx, claims, record, fmt.Sprintf("records[%d].", i))
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	if err := s.repo.UpsertMany(ctx, sheets); err != nil {
		return nil, appErrors.Internal(err, "failed to sync attendance")
	}
	s.logger.Info("attendance synced", zap.Int("records", len(sheets)))
	return &dto.SyncAttendanceResponse{Synced: len(sheets)}, nil
}

func (s *AttendanceService) buildSheet(ctx context.Context, claims *models.JWTClaims, req dto.MarkAttendanceRequest, path string) (*models.Attendance, error) {
	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Validation(err, path+"date must be a date in YYYY-MM-DD format")
	}

	subject, err := s.subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrSubjectNotFound
		}
		return nil, appErrors.Internal(err, "failed to load subject")
	}
	if subject.Department != req.Department || subject.Year != req.Year {
		return nil, appErrors.Clone(appErrors.ErrValidation, path+"subjectId does not belong to the given department and year")
	}

	students := make(models.StudentStatuses, len(req.Students))
	for i, st := range req.Students {
		students[i] = models.StudentStatus{StudentID: st.StudentID, Status: models.AttendanceStatus(st.Status)}
	}
	sheet := &models.Attendance{
		SubjectID: req.SubjectID,
		Date:      date,
		Section:   req.Section,
		Students:  students,
	}
	if claims != nil {
		markedBy := claims.UserID
		sheet.MarkedBy = &markedBy
	}
	return sheet, nil
}

// BySubject returns one student's statuses in a subject, in date order.
func (s *AttendanceService) BySubject(ctx context.Context, q dto.AttendanceBySubjectQuery) ([]models.StudentAttendance, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, err
	}
	sheets, err := s.list(ctx, "attendance_by_subject", models.AttendanceFilter{SubjectID: q.SubjectID, StudentID: q.StudentID})
	if err != nil {
		return nil, err
	}
	return studentView(q.StudentID, sheets), nil
}

// Records returns the sheets of a subject.
func (s *AttendanceService) Records(ctx context.Context, q dto.AttendanceRecordsQuery) ([]models.Attendance, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, err
	}
	filter := models.AttendanceFilter{SubjectID: q.SubjectID, Section: q.Section}
	if err := applyRange(&filter, q.From, q.To); err != nil {
		return nil, err
	}
	sheets, err := s.list(ctx, "attendance_records", filter)
	if err != nil {
		return nil, err
	}
	if sheets == nil {
		sheets = []models.Attendance{}
	}
	return sheets, nil
}

// Analytics builds the attendance report of one student.
func (s *AttendanceService) Analytics(ctx context.Context, q dto.AttendanceAnalyticsQuery) (*analytics.Report, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, err
	}
	filter := models.AttendanceFilter{StudentID: q.StudentID}
	if err := applyRange(&filter, q.From, q.To); err != nil {
		return nil, err
	}
	sheets, err := s.list(ctx, "attendance_analytics", filter)
	if err != nil {
		return nil, err
	}
	report := analytics.BuildReport(q.StudentID, studentView(q.StudentID, sheets))
	return &report, nil
}

// Export renders the sheets of a subject section in the requested format and
// keeps a copy in export storage.
func (s *AttendanceService) Export(ctx context.Context, q dto.AttendanceExportQuery) (*ExportFile, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, err
	}
	renderer, ok := s.renderers[q.Format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be one of [csv pdf xlsx]")
	}

	subject, err := s.subjects.FindByID(ctx, q.SubjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrSubjectNotFound
		}
		return nil, appErrors.Internal(err, "failed to load subject")
	}

	filter := models.AttendanceFilter{SubjectID: q.SubjectID, Section: q.Section}
	if err := applyRange(&filter, q.From, q.To); err != nil {
		return nil, err
	}
	sheets, err := s.list(ctx, "attendance_export", filter)
	if err != nil {
		return nil, err
	}

	data, err := renderer.Render(attendanceDataset(subject, q.Section, sheets))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}

	filename := fmt.Sprintf("attendance_%s_s%d_%s.%s",
		sanitizeFilename(subject.Code), q.Section, time.Now().UTC().Format("20060102_150405"), renderer.Extension())
	if s.storage != nil {
		if _, err := s.storage.Save(filename, data); err != nil {
			s.logger.Warn("failed to store export", zap.String("file", filename), zap.Error(err))
		}
		if removed, err := s.storage.CleanupOlderThan(s.cfg.ExportTTL); err != nil {
			s.logger.Warn("export cleanup failed", zap.Error(err))
		} else if len(removed) > 0 {
			s.logger.Debug("expired exports removed", zap.Int("count", len(removed)))
		}
	}

	return &ExportFile{Filename: filename, ContentType: renderer.ContentType(), Data: data}, nil
}

func (s *AttendanceService) list(ctx context.Context, label string, filter models.AttendanceFilter) ([]models.Attendance, error) {
	start := time.Now()
	sheets, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery(label, time.Since(start))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load attendance")
	}
	return sheets, nil
}

func studentView(studentID string, sheets []models.Attendance) []models.StudentAttendance {
	out := make([]models.StudentAttendance, 0, len(sheets))
	for _, sheet := range sheets {
		status, ok := sheet.StatusOf(studentID)
		if !ok {
			continue
		}
		out = append(out, models.StudentAttendance{
			AttendanceID: sheet.ID,
			SubjectID:    sheet.SubjectID,
			Date:         sheet.Date,
			Section:      sheet.Section,
			Status:       status,
		})
	}
	return out
}

func applyRange(filter *models.AttendanceFilter, from, to string) error {
	if from != "" {
		t, err := time.Parse(models.DateLayout, from)
		if err != nil {
			return appErrors.Validation(err, "from must be a date in YYYY-MM-DD format")
		}
		filter.From = &t
	}
	if to != "" {
		t, err := time.Parse(models.DateLayout, to)
		if err != nil {
			return appErrors.Validation(err, "to must be a date in YYYY-MM-DD format")
		}
		filter.To = &t
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}
	return nil
}

func attendanceDataset(subject *models.Subject, section int, sheets []models.Attendance) export.Dataset {
	headers := []string{"Date", "Student ID", "Status"}
	rows := make([]map[string]string, 0)
	for _, sheet := range sheets {
		date := sheet.Date.Format(models.DateLayout)
		for _, st := range sheet.Students {
			rows = append(rows, map[string]string{
				"Date":       date,
				"Student ID": st.StudentID,
				"Status":     string(st.Status),
			})
		}
	}
	return export.Dataset{
		Title:   fmt.Sprintf("Attendance %s %s section %s", subject.Code, subject.Name, strconv.Itoa(section)),
		Headers: headers,
		Rows:    rows,
	}
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 60 {
		return result[:60]
	}
	return result
}
