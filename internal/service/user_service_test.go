package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/models"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
)

func TestUserServiceMe(t *testing.T) {
	user := &models.User{ID: models.NewID(), Name: "Asha", Role: models.RoleStudent, Profile: models.StudentProfile{Department: "CSE"}}
	svc := NewUserService(newFakeUserRepo(user), nil, nil)

	got, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "CSE", got.Department())

	_, err = svc.Me(context.Background(), models.NewID())
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestUserServiceDirectories(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(
		&models.User{ID: models.NewID(), Role: models.RoleStudent},
		&models.User{ID: models.NewID(), Role: models.RoleFaculty},
		&models.User{ID: models.NewID(), Role: models.RoleFaculty},
	), nil, nil)

	students, err := svc.ListStudents(context.Background(), dto.StudentQuery{Department: "CSE"})
	require.NoError(t, err)
	assert.Len(t, students, 1)

	faculty, err := svc.ListFaculty(context.Background(), dto.FacultyQuery{})
	require.NoError(t, err)
	assert.Len(t, faculty, 2)

	_, err = svc.ListStudents(context.Background(), dto.StudentQuery{Year: 9})
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestUserServiceEmptyDirectoryIsNotNil(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil, nil)
	students, err := svc.ListStudents(context.Background(), dto.StudentQuery{})
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}
