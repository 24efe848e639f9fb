package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/internal/repository"
	"github.com/noah-isme/sams-api/internal/validation"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
)

type classRepository interface {
	Create(ctx context.Context, class *models.Class) error
	FindByID(ctx context.Context, id string) (*models.Class, error)
	FindByKey(ctx context.Context, filter models.ClassFilter) (*models.Class, error)
	AddStudents(ctx context.Context, id string, studentIDs []string) (*models.Class, error)
}

// ClassService manages classes.
type ClassService struct {
	repo      classRepository
	validator *validation.Validator
	logger    *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, validate *validation.Validator, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &ClassService{repo: repo, validator: validate, logger: logger}
}

// Create stores a class. Department, batch and section identify it.
func (s *ClassService) Create(ctx context.Context, req dto.CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	class := &models.Class{
		Department:     req.Department,
		Year:           req.Year,
		Batch:          req.Batch,
		Section:        req.Section,
		ClassTeacherID: req.ClassTeacherID,
		SubjectIDs:     pq.StringArray(req.SubjectIDs),
		StudentIDs:     pq.StringArray(req.StudentIDs),
	}
	if err := s.repo.Create(ctx, class); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "class already exists for this department, batch and section")
		}
		return nil, appErrors.Internal(err, "failed to create class")
	}
	return class, nil
}

// Details returns the class identified by batch, department and section.
func (s *ClassService) Details(ctx context.Context, q dto.ClassDetailsQuery) (*models.Class, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, err
	}
	class, err := s.repo.FindByKey(ctx, models.ClassFilter{Department: q.Department, Batch: q.Batch, Section: q.Section})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Internal(err, "failed to load class")
	}
	return class, nil
}

// AddStudents enrols students into a class. Already enrolled ids are ignored.
func (s *ClassService) AddStudents(ctx context.Context, classID string, req dto.AddStudentsRequest) (*models.Class, error) {
	if err := s.validator.Var("id", classID, "required,mongodb"); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	class, err := s.repo.AddStudents(ctx, classID, req.StudentIDs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Internal(err, "failed to add students")
	}
	return class, nil
}

// Get returns a class by id.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Internal(err, "failed to load class")
	}
	return class, nil
}
