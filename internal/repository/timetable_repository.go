package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sams-api/internal/models"
)

// TimeTableRepository persists class timetables.
type TimeTableRepository struct {
	db *sqlx.DB
}

// NewTimeTableRepository constructs the repository.
func NewTimeTableRepository(db *sqlx.DB) *TimeTableRepository {
	return &TimeTableRepository{db: db}
}

// Replace writes the full slot list for a class in a single statement.
func (r *TimeTableRepository) Replace(ctx context.Context, tt *models.TimeTable) error {
	if tt.ID == "" {
		tt.ID = models.NewID()
	}
	now := time.Now().UTC()
	tt.UpdatedAt = now
	const query = `INSERT INTO timetables (id, class_id, slots, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)
ON CONFLICT (class_id) DO UPDATE SET slots = EXCLUDED.slots, updated_at = EXCLUDED.updated_at
RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query, tt.ID, tt.ClassID, tt.Slots, now).Scan(&tt.ID, &tt.CreatedAt); err != nil {
		return fmt.Errorf("replace timetable: %w", err)
	}
	return nil
}

// FindByClassID returns the timetable of a class.
func (r *TimeTableRepository) FindByClassID(ctx context.Context, classID string) (*models.TimeTable, error) {
	var tt models.TimeTable
	if err := r.db.GetContext(ctx, &tt, `SELECT id, class_id, slots, created_at, updated_at FROM timetables WHERE class_id = $1`, classID); err != nil {
		return nil, err
	}
	return &tt, nil
}
