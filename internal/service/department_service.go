package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/internal/validation"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
)

type departmentRepository interface {
	Upsert(ctx context.Context, a *models.DepartmentAssignment) error
	FindByHOD(ctx context.Context, hodID string) (*models.DepartmentAssignment, error)
	List(ctx context.Context, department string) ([]models.DepartmentAssignment, error)
}

// DepartmentService manages HOD department assignments.
type DepartmentService struct {
	repo      departmentRepository
	users     userLookup
	validator *validation.Validator
	logger    *zap.Logger
}

// NewDepartmentService constructs a DepartmentService.
func NewDepartmentService(repo departmentRepository, users userLookup, validate *validation.Validator, logger *zap.Logger) *DepartmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &DepartmentService{repo: repo, users: users, validator: validate, logger: logger}
}

// Assign scopes an HOD to a department and years, replacing any previous
// assignment of that HOD.
func (s *DepartmentService) Assign(ctx context.Context, req dto.AssignDepartmentRequest) (*models.DepartmentAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	hod, err := s.users.FindByID(ctx, req.HODID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "hod not found")
		}
		return nil, appErrors.Internal(err, "failed to load hod")
	}
	if hod.Role != models.RoleHOD {
		return nil, appErrors.Clone(appErrors.ErrValidation, "hodId must reference an HOD")
	}

	years := make(pq.Int64Array, len(req.Years))
	for i, y := range req.Years {
		years[i] = int64(y)
	}
	assignment := &models.DepartmentAssignment{
		HODID:      req.HODID,
		Department: req.Department,
		Years:      years,
		Batch:      req.Batch,
	}
	if err := s.repo.Upsert(ctx, assignment); err != nil {
		return nil, appErrors.Internal(err, "failed to assign department")
	}
	s.logger.Info("department assigned", zap.String("hod_id", req.HODID), zap.String("department", req.Department))
	return assignment, nil
}

// Mine returns the assignment of the calling HOD.
func (s *DepartmentService) Mine(ctx context.Context, hodID string) (*models.DepartmentAssignment, error) {
	assignment, err := s.repo.FindByHOD(ctx, hodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNoAssignment
		}
		return nil, appErrors.Internal(err, "failed to load department assignment")
	}
	return assignment, nil
}

// List returns assignments, optionally for one department.
func (s *DepartmentService) List(ctx context.Context, q dto.DepartmentQuery) ([]models.DepartmentAssignment, error) {
	items, err := s.repo.List(ctx, q.Department)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list department assignments")
	}
	if items == nil {
		items = []models.DepartmentAssignment{}
	}
	return items, nil
}
