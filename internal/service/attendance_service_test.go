package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/models"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
)

var (
	studentA = "652f1c2e9b1e8a3d4c5b6a10"
	studentB = "652f1c2e9b1e8a3d4c5b6a11"
)

type attendanceFixture struct {
	svc     *AttendanceService
	repo    *fakeAttendanceRepo
	storage *fakeStorage
	subject *models.Subject
	hod     *models.JWTClaims
	faculty *models.JWTClaims
}

func newAttendanceFixture() attendanceFixture {
	subject := &models.Subject{ID: subjectID, Name: "Data Structures", Code: "CS201", Department: "CSE", Year: 2}
	subjects := newFakeSubjectRepo(subject)
	departments := &fakeDepartmentRepo{byHOD: map[string]*models.DepartmentAssignment{
		hodID: {HODID: hodID, Department: "CSE", Years: []int64{2}},
	}}
	repo := &fakeAttendanceRepo{}
	storage := &fakeStorage{}
	scope := NewScopeService(departments, subjects, nil)
	svc := NewAttendanceService(repo, subjects, scope, storage, NewMetricsService(), nil, nil, AttendanceConfig{})
	return attendanceFixture{
		svc:     svc,
		repo:    repo,
		storage: storage,
		subject: subject,
		hod:     &models.JWTClaims{UserID: hodID, Role: models.RoleHOD},
		faculty: &models.JWTClaims{UserID: models.NewID(), Role: models.RoleFaculty},
	}
}

func markRequest(date string, statuses ...string) dto.MarkAttendanceRequest {
	students := []dto.StudentStatusInput{{StudentID: studentA, Status: statuses[0]}}
	if len(statuses) > 1 {
		students = append(students, dto.StudentStatusInput{StudentID: studentB, Status: statuses[1]})
	}
	return dto.MarkAttendanceRequest{
		Department: "CSE",
		Year:       2,
		Section:    1,
		SubjectID:  subjectID,
		Date:       date,
		Students:   students,
	}
}

func TestAttendanceServiceMarkReplacesSheet(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	first, err := f.svc.Mark(ctx, f.faculty, markRequest("2024-01-08", "Present", "Absent"))
	require.NoError(t, err)
	assert.Equal(t, f.faculty.UserID, *first.MarkedBy)

	second, err := f.svc.Mark(ctx, f.faculty, markRequest("2024-01-08", "Absent"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	require.Len(t, f.repo.sheets, 1)
	for _, sheet := range f.repo.sheets {
		require.Len(t, sheet.Students, 1)
		assert.Equal(t, models.AttendanceAbsent, sheet.Students[0].Status)
	}
}

func TestAttendanceServiceMarkValidation(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	req := markRequest("2024-01-08", "Late")
	_, err := f.svc.Mark(ctx, f.faculty, req)
	assert.Equal(t, "students[0].status must be one of [Present Absent]", appErrors.FromError(err).Message)

	req = markRequest("08-01-2024", "Present")
	_, err = f.svc.Mark(ctx, f.faculty, req)
	assert.Equal(t, "date must be a date in YYYY-MM-DD format", appErrors.FromError(err).Message)

	req = markRequest("2024-01-08", "Present")
	req.Year = 3
	_, err = f.svc.Mark(ctx, f.faculty, req)
	assert.Equal(t, "subjectId does not belong to the given department and year", appErrors.FromError(err).Message)

	req = markRequest("2024-01-08", "Present")
	req.SubjectID = models.NewID()
	_, err = f.svc.Mark(ctx, f.faculty, req)
	assert.True(t, errors.Is(err, appErrors.ErrSubjectNotFound))
	assert.Empty(t, f.repo.sheets)
}

func TestAttendanceServiceSyncIsAllOrNothing(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	outOfScope := markRequest("2024-01-09", "Present")
	outOfScope.Department = "ECE"
	_, err := f.svc.Sync(ctx, f.hod, dto.SyncAttendanceRequest{Records: []dto.MarkAttendanceRequest{
		markRequest("2024-01-08", "Present"),
		outOfScope,
	}})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)
	assert.Empty(t, f.repo.sheets)

	badSubject := markRequest("2024-01-09", "Present")
	badSubject.Year = 3
	_, err = f.svc.Sync(ctx, f.faculty, dto.SyncAttendanceRequest{Records: []dto.MarkAttendanceRequest{markRequest("2024-01-08", "Present"), badSubject}})
	require.Error(t, err)
	assert.Equal(t, "records[1].subjectId does not belong to the given department and year", appErrors.FromError(err).Message)
	assert.Empty(t, f.repo.sheets)

	res, err := f.svc.Sync(ctx, f.hod, dto.SyncAttendanceRequest{Records: []dto.MarkAttendanceRequest{
		markRequest("2024-01-08", "Present"),
		markRequest("2024-01-09", "Absent"),
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Synced)
	assert.Len(t, f.repo.sheets, 2)
}

func TestAttendanceServiceSyncStoreFailure(t *testing.T) {
	f := newAttendanceFixture()
	f.repo.failMany = true
	_, err := f.svc.Sync(context.Background(), f.faculty, dto.SyncAttendanceRequest{Records: []dto.MarkAttendanceRequest{markRequest("2024-01-08", "Present")}})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
}

func TestAttendanceServiceQueries(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()
	for _, day := range []string{"2024-01-08", "2024-01-09", "2024-01-10"} {
		_, err := f.svc.Mark(ctx, f.faculty, markRequest(day, "Absent", "Present"))
		require.NoError(t, err)
	}

	view, err := f.svc.BySubject(ctx, dto.AttendanceBySubjectQuery{StudentID: studentB, SubjectID: subjectID})
	require.NoError(t, err)
	require.Len(t, view, 3)
	assert.Equal(t, models.AttendancePresent, view[0].Status)

	records, err := f.svc.Records(ctx, dto.AttendanceRecordsQuery{SubjectID: subjectID, Section: 1})
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = f.svc.Records(ctx, dto.AttendanceRecordsQuery{SubjectID: subjectID, From: "2024-02-01", To: "2024-01-01"})
	assert.Equal(t, "to must not be before from", appErrors.FromError(err).Message)

	report, err := f.svc.Analytics(ctx, dto.AttendanceAnalyticsQuery{StudentID: studentA})
	require.NoError(t, err)
	assert.Equal(t, studentA, report.StudentID)
	assert.Equal(t, 0.0, report.Overall.Percentage)
	assert.True(t, report.Flags.ChronicAbsenteeism)
}

func TestAttendanceServiceExportCSV(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()
	_, err := f.svc.Mark(ctx, f.faculty, markRequest("2024-01-08", "Present", "Absent"))
	require.NoError(t, err)

	file, err := f.svc.Export(ctx, dto.AttendanceExportQuery{SubjectID: subjectID, Section: 1, Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasPrefix(file.Filename, "attendance_CS201_s1_"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Student ID,Status", lines[0])
	assert.Contains(t, f.storage.saved, file.Filename)

	_, err = f.svc.Export(ctx, dto.AttendanceExportQuery{SubjectID: subjectID, Section: 1, Format: "doc"})
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}
