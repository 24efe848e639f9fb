package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sams-api/internal/models"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
)

type assignmentReader interface {
	FindByHOD(ctx context.Context, hodID string) (*models.DepartmentAssignment, error)
}

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// ScopeService confines HOD writes to the department and years of their
// assignment. Admins always pass and other roles are not scoped.
type ScopeService struct {
	assignments assignmentReader
	subjects    subjectReader
	logger      *zap.Logger
}

// NewScopeService constructs a ScopeService.
func NewScopeService(assignments assignmentReader, subjects subjectReader, logger *zap.Logger) *ScopeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScopeService{assignments: assignments, subjects: subjects, logger: logger}
}

// Check authorises a write targeting department and year.
func (s *ScopeService) Check(ctx context.Context, claims *models.JWTClaims, department string, year int) error {
	if !scoped(claims) {
		return nil
	}
	assignment, err := s.assignment(ctx, claims.UserID)
	if err != nil {
		return err
	}
	return compareScope(assignment, department, year)
}

// CheckSubject authorises a write targeting the department and year of the
// subject identified by subjectID.
func (s *ScopeService) CheckSubject(ctx context.Context, claims *models.JWTClaims, subjectID string) error {
	if !scoped(claims) {
		return nil
	}
	assignment, err := s.assignment(ctx, claims.UserID)
	if err != nil {
		return err
	}
	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrSubjectNotFound
		}
		return appErrors.Internal(err, "failed to load subject")
	}
	return compareScope(assignment, subject.Department, subject.Year)
}

func (s *ScopeService) assignment(ctx context.Context, hodID string) (*models.DepartmentAssignment, error) {
	assignment, err := s.assignments.FindByHOD(ctx, hodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNoAssignment
		}
		return nil, appErrors.Internal(err, "failed to load department assignment")
	}
	return assignment, nil
}

func scoped(claims *models.JWTClaims) bool {
	return claims != nil && claims.Role == models.RoleHOD
}

func compareScope(assignment *models.DepartmentAssignment, department string, year int) error {
	if assignment.Department != department {
		return appErrors.Clone(appErrors.ErrUnauthorized, fmt.Sprintf("not authorized for department %s", department))
	}
	if !assignment.CoversYear(year) {
		return appErrors.Clone(appErrors.ErrUnauthorized, fmt.Sprintf("not authorized for year %d", year))
	}
	return nil
}
