package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/internal/validation"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
)

type userDirectory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
}

// UserService serves the current identity and the student/faculty directories.
type UserService struct {
	repo      userDirectory
	validator *validation.Validator
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userDirectory, validate *validation.Validator, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// Me returns the authenticated user with its profile.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Internal(err, "failed to load user")
	}
	return user, nil
}

// ListStudents returns students matching the profile criteria.
func (s *UserService) ListStudents(ctx context.Context, q dto.StudentQuery) ([]models.User, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, err
	}
	return s.list(ctx, models.UserFilter{
		Role:       models.RoleStudent,
		Department: q.Department,
		Year:       q.Year,
		Section:    q.Section,
		Batch:      q.Batch,
	})
}

// ListFaculty returns faculty members, optionally of one department.
func (s *UserService) ListFaculty(ctx context.Context, q dto.FacultyQuery) ([]models.User, error) {
	return s.list(ctx, models.UserFilter{Role: models.RoleFaculty, Department: q.Department})
}

func (s *UserService) list(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list users")
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
