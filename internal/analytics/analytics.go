// Package analytics derives attendance percentages, summaries and risk flags
// from attendance records already loaded for one student.
package analytics

import (
	"math"
	"sort"

	"github.com/noah-isme/sams-api/internal/models"
)

const (
	chronicAbsenceRun = 3
	suddenDropPoints  = 10.0
)

// SubjectSummary aggregates a student's attendance in one subject.
type SubjectSummary struct {
	SubjectID  string  `json:"subjectId"`
	Attended   int     `json:"attended"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// DailySummary counts statuses recorded on one day.
type DailySummary struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Total   int    `json:"total"`
}

// WeeklyRatio is the present percentage of one ISO week.
type WeeklyRatio struct {
	Year       int     `json:"year"`
	Week       int     `json:"week"`
	Present    int     `json:"present"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// RiskFlags are the heuristics raised for a student.
type RiskFlags struct {
	ChronicAbsenteeism bool `json:"chronicAbsenteeism"`
	SuddenDrop         bool `json:"suddenDrop"`
	ImprovementTrend   bool `json:"improvementTrend"`
}

// Report bundles every derived view for one student.
type Report struct {
	StudentID string           `json:"studentId"`
	Overall   SubjectSummary   `json:"overall"`
	Subjects  []SubjectSummary `json:"subjects"`
	Daily     []DailySummary   `json:"daily"`
	Weekly    []WeeklyRatio    `json:"weekly"`
	Flags     RiskFlags        `json:"flags"`
}

// Percentage returns attended/total as a percentage rounded to one decimal.
// A zero total yields 0.
func Percentage(attended, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(attended)/float64(total)*1000) / 10
}

// SubjectSummaries groups records by subject in first-seen order.
func SubjectSummaries(records []models.StudentAttendance) []SubjectSummary {
	index := make(map[string]int)
	summaries := make([]SubjectSummary, 0)
	for _, r := range records {
		i, ok := index[r.SubjectID]
		if !ok {
			i = len(summaries)
			index[r.SubjectID] = i
			summaries = append(summaries, SubjectSummary{SubjectID: r.SubjectID})
		}
		summaries[i].Total++
		if r.Status == models.AttendancePresent {
			summaries[i].Attended++
		}
	}
	for i := range summaries {
		summaries[i].Percentage = Percentage(summaries[i].Attended, summaries[i].Total)
	}
	return summaries
}

// DailySummaries counts present and absent records per calendar date,
// ascending.
func DailySummaries(records []models.StudentAttendance) []DailySummary {
	byDate := make(map[string]*DailySummary)
	for _, r := range records {
		key := r.Date.UTC().Format(models.DateLayout)
		day, ok := byDate[key]
		if !ok {
			day = &DailySummary{Date: key}
			byDate[key] = day
		}
		day.Total++
		if r.Status == models.AttendancePresent {
			day.Present++
		} else {
			day.Absent++
		}
	}
	days := make([]DailySummary, 0, len(byDate))
	for _, d := range byDate {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// WeeklyRatios groups records by ISO week, ascending.
func WeeklyRatios(records []models.StudentAttendance) []WeeklyRatio {
	type weekKey struct{ year, week int }
	byWeek := make(map[weekKey]*WeeklyRatio)
	for _, r := range records {
		y, w := r.Date.UTC().ISOWeek()
		k := weekKey{y, w}
		ratio, ok := byWeek[k]
		if !ok {
			ratio = &WeeklyRatio{Year: y, Week: w}
			byWeek[k] = ratio
		}
		ratio.Total++
		if r.Status == models.AttendancePresent {
			ratio.Present++
		}
	}
	weeks := make([]WeeklyRatio, 0, len(byWeek))
	for _, w := range byWeek {
		w.Percentage = Percentage(w.Present, w.Total)
		weeks = append(weeks, *w)
	}
	sort.Slice(weeks, func(i, j int) bool {
		if weeks[i].Year != weeks[j].Year {
			return weeks[i].Year < weeks[j].Year
		}
		return weeks[i].Week < weeks[j].Week
	})
	return weeks
}

// DetectChronicAbsenteeism reports three or more consecutive absences in
// date order.
func DetectChronicAbsenteeism(records []models.StudentAttendance) bool {
	run := 0
	for _, r := range sortedByDate(records) {
		if r.Status != models.AttendanceAbsent {
			run = 0
			continue
		}
		run++
		if run >= chronicAbsenceRun {
			return true
		}
	}
	return false
}

// DetectSuddenDrop reports a week-over-week fall of more than ten
// percentage points.
func DetectSuddenDrop(weeks []WeeklyRatio) bool {
	for i := 1; i < len(weeks); i++ {
		if weeks[i-1].Percentage-weeks[i].Percentage > suddenDropPoints {
			return true
		}
	}
	return false
}

// DetectImprovementTrend reports a present ratio rising across two
// consecutive week transitions.
func DetectImprovementTrend(weeks []WeeklyRatio) bool {
	for i := 2; i < len(weeks); i++ {
		if weeks[i-2].Percentage < weeks[i-1].Percentage && weeks[i-1].Percentage < weeks[i].Percentage {
			return true
		}
	}
	return false
}

// BuildReport derives every view for studentID from its records.
func BuildReport(studentID string, records []models.StudentAttendance) Report {
	weekly := WeeklyRatios(records)
	attended := 0
	for _, r := range records {
		if r.Status == models.AttendancePresent {
			attended++
		}
	}
	return Report{
		StudentID: studentID,
		Overall: SubjectSummary{
			Attended:   attended,
			Total:      len(records),
			Percentage: Percentage(attended, len(records)),
		},
		Subjects: SubjectSummaries(records),
		Daily:    DailySummaries(records),
		Weekly:   weekly,
		Flags: RiskFlags{
			ChronicAbsenteeism: DetectChronicAbsenteeism(records),
			SuddenDrop:         DetectSuddenDrop(weekly),
			ImprovementTrend:   DetectImprovementTrend(weekly),
		},
	}
}

func sortedByDate(records []models.StudentAttendance) []models.StudentAttendance {
	out := make([]models.StudentAttendance, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
