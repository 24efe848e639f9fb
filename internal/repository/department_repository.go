package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sams-api/internal/models"
)

const departmentColumns = "id, hod_id, department, years, batch, created_at, updated_at"

// DepartmentRepository persists HOD department assignments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository constructs the repository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// Upsert stores the assignment, replacing any previous assignment of the HOD.
func (r *DepartmentRepository) Upsert(ctx context.Context, a *models.DepartmentAssignment) error {
	if a.ID == "" {
		a.ID = models.NewID()
	}
	now := time.Now().UTC()
	a.UpdatedAt = now
	const query = `INSERT INTO department_assignments (id, hod_id, department, years, batch, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $6)
ON CONFLICT (hod_id) DO UPDATE SET department = EXCLUDED.department, years = EXCLUDED.years, batch = EXCLUDED.batch, updated_at = EXCLUDED.updated_at
RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query, a.ID, a.HODID, a.Department, a.Years, a.Batch, now).Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("upsert department assignment: %w", err)
	}
	return nil
}

// FindByHOD returns the assignment of an HOD.
func (r *DepartmentRepository) FindByHOD(ctx context.Context, hodID string) (*models.DepartmentAssignment, error) {
	query := fmt.Sprintf("SELECT %s FROM department_assignments WHERE hod_id = $1", departmentColumns)
	var a models.DepartmentAssignment
	if err := r.db.GetContext(ctx, &a, query, hodID); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns assignments, optionally for one department.
func (r *DepartmentRepository) List(ctx context.Context, department string) ([]models.DepartmentAssignment, error) {
	query := fmt.Sprintf("SELECT %s FROM department_assignments", departmentColumns)
	var args []interface{}
	if department != "" {
		query += " WHERE department = $1"
		args = append(args, department)
	}
	query += " ORDER BY department ASC, created_at ASC"

	var items []models.DepartmentAssignment
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list department assignments: %w", err)
	}
	return items, nil
}
