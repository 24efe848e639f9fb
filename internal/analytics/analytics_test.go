package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sams-api/internal/models"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func record(subject string, date time.Time, status models.AttendanceStatus) models.StudentAttendance {
	return models.StudentAttendance{SubjectID: subject, Date: date, Section: 1, Status: status}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 0.0, Percentage(5, 0))
	assert.Equal(t, 100.0, Percentage(4, 4))
	assert.Equal(t, 66.7, Percentage(2, 3))
	assert.Equal(t, 33.3, Percentage(1, 3))
	assert.Equal(t, 87.5, Percentage(7, 8))
}

func TestDetectChronicAbsenteeism(t *testing.T) {
	statuses := func(seq ...models.AttendanceStatus) []models.StudentAttendance {
		out := make([]models.StudentAttendance, len(seq))
		for i, s := range seq {
			out[i] = record("sub", day(2024, 3, 4+i), s)
		}
		return out
	}
	A, P := models.AttendanceAbsent, models.AttendancePresent

	assert.True(t, DetectChronicAbsenteeism(statuses(A, A, A, P)))
	assert.False(t, DetectChronicAbsenteeism(statuses(A, P, A, A)))
	assert.False(t, DetectChronicAbsenteeism(nil))
}

func TestDetectChronicAbsenteeismOrdersByDate(t *testing.T) {
	records := []models.StudentAttendance{
		record("sub", day(2024, 3, 7), models.AttendanceAbsent),
		record("sub", day(2024, 3, 4), models.AttendanceAbsent),
		record("sub", day(2024, 3, 5), models.AttendancePresent),
		record("sub", day(2024, 3, 6), models.AttendanceAbsent),
	}
	assert.False(t, DetectChronicAbsenteeism(records))
}

func TestSubjectSummaries(t *testing.T) {
	records := []models.StudentAttendance{
		record("math", day(2024, 3, 4), models.AttendancePresent),
		record("phys", day(2024, 3, 4), models.AttendanceAbsent),
		record("math", day(2024, 3, 5), models.AttendanceAbsent),
		record("math", day(2024, 3, 6), models.AttendancePresent),
	}
	summaries := SubjectSummaries(records)
	require.Len(t, summaries, 2)
	assert.Equal(t, SubjectSummary{SubjectID: "math", Attended: 2, Total: 3, Percentage: 66.7}, summaries[0])
	assert.Equal(t, SubjectSummary{SubjectID: "phys", Attended: 0, Total: 1, Percentage: 0}, summaries[1])
}

func TestDailySummaries(t *testing.T) {
	records := []models.StudentAttendance{
		record("phys", day(2024, 3, 5), models.AttendanceAbsent),
		record("math", day(2024, 3, 4), models.AttendancePresent),
		record("phys", day(2024, 3, 4), models.AttendanceAbsent),
	}
	days := DailySummaries(records)
	require.Len(t, days, 2)
	assert.Equal(t, DailySummary{Date: "2024-03-04", Present: 1, Absent: 1, Total: 2}, days[0])
	assert.Equal(t, DailySummary{Date: "2024-03-05", Present: 0, Absent: 1, Total: 1}, days[1])
}

func TestWeeklyFlags(t *testing.T) {
	weeks := func(pcts ...float64) []WeeklyRatio {
		out := make([]WeeklyRatio, len(pcts))
		for i, p := range pcts {
			out[i] = WeeklyRatio{Year: 2024, Week: 10 + i, Percentage: p}
		}
		return out
	}

	assert.True(t, DetectSuddenDrop(weeks(80, 60)))
	assert.False(t, DetectSuddenDrop(weeks(60, 50)))
	assert.False(t, DetectSuddenDrop(weeks(50, 90)))

	assert.True(t, DetectImprovementTrend(weeks(40, 50, 60)))
	assert.False(t, DetectImprovementTrend(weeks(40, 50, 50)))
	assert.False(t, DetectImprovementTrend(weeks(40, 50)))
}

func TestBuildReport(t *testing.T) {
	var records []models.StudentAttendance
	// ISO week 10 of 2024: two of four present.
	records = append(records,
		record("math", day(2024, 3, 4), models.AttendancePresent),
		record("math", day(2024, 3, 5), models.AttendancePresent),
		record("math", day(2024, 3, 6), models.AttendanceAbsent),
		record("math", day(2024, 3, 7), models.AttendanceAbsent),
	)
	// Week 11: three of four present.
	records = append(records,
		record("math", day(2024, 3, 11), models.AttendancePresent),
		record("math", day(2024, 3, 12), models.AttendancePresent),
		record("math", day(2024, 3, 13), models.AttendancePresent),
		record("math", day(2024, 3, 14), models.AttendanceAbsent),
	)
	// Week 12: all present.
	records = append(records,
		record("math", day(2024, 3, 18), models.AttendancePresent),
	)

	report := BuildReport("st-1", records)
	assert.Equal(t, "st-1", report.StudentID)
	assert.Equal(t, 6, report.Overall.Attended)
	assert.Equal(t, 9, report.Overall.Total)
	assert.Equal(t, 66.7, report.Overall.Percentage)
	require.Len(t, report.Weekly, 3)
	assert.Equal(t, 10, report.Weekly[0].Week)
	assert.Equal(t, 50.0, report.Weekly[0].Percentage)
	assert.Equal(t, 75.0, report.Weekly[1].Percentage)
	assert.Equal(t, 100.0, report.Weekly[2].Percentage)
	assert.True(t, report.Flags.ImprovementTrend)
	assert.False(t, report.Flags.SuddenDrop)
	assert.False(t, report.Flags.ChronicAbsenteeism)
	assert.Len(t, report.Daily, 9)
}
