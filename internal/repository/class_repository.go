package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sams-api/internal/models"
)

const classColumns = "id, department, year, batch, section, class_teacher_id, subject_ids, student_ids, created_at, updated_at"

// ClassRepository handles persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// Create inserts a class. The (department, batch, section) key is unique.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = models.NewID()
	}
	if class.SubjectIDs == nil {
		class.SubjectIDs = pq.StringArray{}
	}
	if class.StudentIDs == nil {
		class.StudentIDs = pq.StringArray{}
	}
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, department, year, batch, section, class_teacher_id, subject_ids, student_ids, created_at, updated_at) VALUES (:id, :department, :year, :batch, :section, :class_teacher_id, :subject_ids, :student_ids, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create class: %w", ErrDuplicate)
		}
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// FindByID returns a class by id.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE id = $1", classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// FindByKey returns the class for a department, batch and section.
func (r *ClassRepository) FindByKey(ctx context.Context, filter models.ClassFilter) (*models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE department = $1 AND batch = $2 AND section = $3", classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, filter.Department, filter.Batch, filter.Section); err != nil {
		return nil, err
	}
	return &class, nil
}

// AddStudents appends ids not already enrolled and returns the updated class.
func (r *ClassRepository) AddStudents(ctx context.Context, id string, studentIDs []string) (*models.Class, error) {
	query := fmt.Sprintf(`UPDATE classes SET student_ids = (
	SELECT COALESCE(array_agg(DISTINCT sid), '{}') FROM unnest(student_ids || $1::text[]) AS sid
), updated_at = $2 WHERE id = $3 RETURNING %s`, classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, pq.StringArray(studentIDs), time.Now().UTC(), id); err != nil {
		return nil, err
	}
	return &class, nil
}
