package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sams-api/internal/models"
)

// AssignedSubjectRepository persists faculty to subject-section links.
type AssignedSubjectRepository struct {
	db *sqlx.DB
}

// NewAssignedSubjectRepository constructs the repository.
func NewAssignedSubjectRepository(db *sqlx.DB) *AssignedSubjectRepository {
	return &AssignedSubjectRepository{db: db}
}

// Upsert assigns the faculty to (subject, section), replacing any previous
// faculty for that pair.
func (r *AssignedSubjectRepository) Upsert(ctx context.Context, a *models.AssignedSubject) error {
	if a.ID == "" {
		a.ID = models.NewID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assigned_subjects (id, faculty_id, subject_id, section, created_at) VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (subject_id, section) DO UPDATE SET faculty_id = EXCLUDED.faculty_id
RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query, a.ID, a.FacultyID, a.SubjectID, a.Section, a.CreatedAt).Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("upsert assigned subject: %w", err)
	}
	return nil
}

// FindByID returns an assignment by id.
func (r *AssignedSubjectRepository) FindByID(ctx context.Context, id string) (*models.AssignedSubject, error) {
	var a models.AssignedSubject
	if err := r.db.GetContext(ctx, &a, `SELECT id, faculty_id, subject_id, section, created_at FROM assigned_subjects WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns assignments matching the filter.
func (r *AssignedSubjectRepository) List(ctx context.Context, filter models.AssignedSubjectFilter) ([]models.AssignedSubject, error) {
	var conditions []string
	var args []interface{}
	if filter.FacultyID != "" {
		args = append(args, filter.FacultyID)
		conditions = append(conditions, fmt.Sprintf("faculty_id = $%d", len(args)))
	}
	if filter.SubjectID != "" {
		args = append(args, filter.SubjectID)
		conditions = append(conditions, fmt.Sprintf("subject_id = $%d", len(args)))
	}
	if filter.Section > 0 {
		args = append(args, filter.Section)
		conditions = append(conditions, fmt.Sprintf("section = $%d", len(args)))
	}
	query := "SELECT id, faculty_id, subject_id, section, created_at FROM assigned_subjects"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC"

	var items []models.AssignedSubject
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list assigned subjects: %w", err)
	}
	return items, nil
}

// ExistingIDs returns the subset of ids that exist.
func (r *AssignedSubjectRepository) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id FROM assigned_subjects WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build assigned subject lookup: %w", err)
	}
	var found []string
	if err := r.db.SelectContext(ctx, &found, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("lookup assigned subjects: %w", err)
	}
	return found, nil
}
