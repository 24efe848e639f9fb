package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/internal/repository"
	"github.com/noah-isme/sams-api/internal/validation"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
)

const subjectCachePrefix = "subjects:"

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
}

type assignedSubjectRepository interface {
	Upsert(ctx context.Context, a *models.AssignedSubject) error
	List(ctx context.Context, filter models.AssignedSubjectFilter) ([]models.AssignedSubject, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// SubjectService manages subjects and their faculty assignments.
type SubjectService struct {
	subjects    subjectRepository
	assignments assignedSubjectRepository
	users       userLookup
	cache       *CacheService
	validator   *validation.Validator
	logger      *zap.Logger
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(subjects subjectRepository, assignments assignedSubjectRepository, users userLookup, cache *CacheService, validate *validation.Validator, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &SubjectService{
		subjects:    subjects,
		assignments: assignments,
		users:       users,
		cache:       cache,
		validator:   validate,
		logger:      logger,
	}
}

// List returns subjects of a department and year, served from cache when
// possible.
func (s *SubjectService) List(ctx context.Context, q dto.SubjectQuery) ([]models.Subject, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, err
	}

	// keyed on the department as queried, matching the case-sensitive filter
	key := fmt.Sprintf("%s%s:%d:%d", subjectCachePrefix, q.Department, q.Year, q.Section)
	var cached []models.Subject
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	subjects, err := s.subjects.List(ctx, models.SubjectFilter{Department: q.Department, Year: q.Year, Section: q.Section})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list subjects")
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	s.cache.Set(ctx, key, subjects, 0)
	return subjects, nil
}

// Create stores a new subject. Codes are unique regardless of case.
func (s *SubjectService) Create(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	exists, err := s.subjects.ExistsByCode(ctx, code)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check subject code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "subject code already exists")
	}

	subject := &models.Subject{
		Name:       strings.TrimSpace(req.Name),
		Code:       code,
		Department: req.Department,
		Year:       req.Year,
		Semester:   req.Semester,
	}
	if req.FacultyID != "" {
		facultyID := req.FacultyID
		subject.FacultyID = &facultyID
	}

	if err := s.subjects.Create(ctx, subject); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "subject code already exists")
		}
		return nil, appErrors.Internal(err, "failed to create subject")
	}
	s.cache.Invalidate(ctx, subjectCachePrefix+"*")
	return subject, nil
}

// Assign links a faculty member to a subject section, replacing the
// previous faculty of that section.
func (s *SubjectService) Assign(ctx context.Context, req dto.AssignSubjectRequest) (*models.AssignedSubject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrSubjectNotFound
		}
		return nil, appErrors.Internal(err, "failed to load subject")
	}
	faculty, err := s.users.FindByID(ctx, req.FacultyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Internal(err, "failed to load faculty")
	}
	if faculty.Role != models.RoleFaculty && faculty.Role != models.RoleHOD {
		return nil, appErrors.Clone(appErrors.ErrValidation, "facultyId must reference a faculty member")
	}

	assignment := &models.AssignedSubject{FacultyID: req.FacultyID, SubjectID: req.SubjectID, Section: req.Section}
	if err := s.assignments.Upsert(ctx, assignment); err != nil {
		return nil, appErrors.Internal(err, "failed to assign subject")
	}
	s.cache.Invalidate(ctx, subjectCachePrefix+"*")
	return assignment, nil
}

// ListAssigned returns assignments. Faculty callers without an explicit
// facultyId see their own.
func (s *SubjectService) ListAssigned(ctx context.Context, claims *models.JWTClaims, q dto.AssignedSubjectQuery) ([]models.AssignedSubject, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, err
	}
	filter := models.AssignedSubjectFilter{FacultyID: q.FacultyID, SubjectID: q.SubjectID, Section: q.Section}
	if filter.FacultyID == "" && claims != nil && claims.Role == models.RoleFaculty {
		filter.FacultyID = claims.UserID
	}
	items, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list assignments")
	}
	if items == nil {
		items = []models.AssignedSubject{}
	}
	return items, nil
}

// Delete removes a subject. Records referencing it are kept.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if err := s.validator.Var("id", id, "required,mongodb"); err != nil {
		return err
	}
	if err := s.subjects.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrSubjectNotFound
		}
		return appErrors.Internal(err, "failed to delete subject")
	}
	s.cache.Invalidate(ctx, subjectCachePrefix+"*")
	return nil
}
