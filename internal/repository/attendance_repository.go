package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sams-api/internal/models"
)

const attendanceColumns = "id, subject_id, date, section, students, marked_by, created_at, updated_at"

// upsertAttendanceQuery replaces the student list of an existing sheet
// instead of merging into it.
const upsertAttendanceQuery = `INSERT INTO attendance (id, subject_id, date, section, students, marked_by, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
ON CONFLICT (subject_id, date, section) DO UPDATE SET students = EXCLUDED.students, marked_by = EXCLUDED.marked_by, updated_at = EXCLUDED.updated_at
RETURNING id, created_at, updated_at`

// AttendanceRepository persists attendance sheets.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert stores the sheet keyed by (subject, date, section).
func (r *AttendanceRepository) Upsert(ctx context.Context, a *models.Attendance) error {
	return upsertAttendance(ctx, r.db, a)
}

// UpsertMany stores every sheet in one transaction; either all are written
// or none are.
func (r *AttendanceRepository) UpsertMany(ctx context.Context, sheets []*models.Attendance) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attendance sync: %w", err)
	}
	for _, sheet := range sheets {
		if err := upsertAttendance(ctx, tx, sheet); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance sync: %w", err)
	}
	return nil
}

func upsertAttendance(ctx context.Context, q sqlx.QueryerContext, a *models.Attendance) error {
	if a.ID == "" {
		a.ID = models.NewID()
	}
	now := time.Now().UTC()
	row := q.QueryRowxContext(ctx, upsertAttendanceQuery, a.ID, a.SubjectID, a.Date, a.Section, a.Students, a.MarkedBy, now)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}

// List returns sheets matching the filter ordered by date. A student id
// matches sheets whose student list contains that student.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error) {
	var conditions []string
	var args []interface{}

	if filter.SubjectID != "" {
		args = append(args, filter.SubjectID)
		conditions = append(conditions, fmt.Sprintf("subject_id = $%d", len(args)))
	}
	if filter.StudentID != "" {
		containsStudent, err := json.Marshal([]map[string]string{{"studentId": filter.StudentID}})
		if err != nil {
			return nil, fmt.Errorf("encode student filter: %w", err)
		}
		args = append(args, string(containsStudent))
		conditions = append(conditions, fmt.Sprintf("students @> $%d::jsonb", len(args)))
	}
	if filter.Section > 0 {
		args = append(args, filter.Section)
		conditions = append(conditions, fmt.Sprintf("section = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}

	query := fmt.Sprintf("SELECT %s FROM attendance", attendanceColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date ASC, section ASC"

	var sheets []models.Attendance
	if err := r.db.SelectContext(ctx, &sheets, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return sheets, nil
}
