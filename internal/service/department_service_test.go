package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/models"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
)

func TestDepartmentServiceAssignReplacesPrevious(t *testing.T) {
	hod := &models.User{ID: models.NewID(), Role: models.RoleHOD}
	repo := &fakeDepartmentRepo{}
	svc := NewDepartmentService(repo, newFakeUserRepo(hod), nil, nil)

	first, err := svc.Assign(context.Background(), dto.AssignDepartmentRequest{HODID: hod.ID, Department: "CSE", Years: []int{1, 2}, Batch: "2022"})
	require.NoError(t, err)
	second, err := svc.Assign(context.Background(), dto.AssignDepartmentRequest{HODID: hod.ID, Department: "ECE", Years: []int{3}, Batch: "2021"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	mine, err := svc.Mine(context.Background(), hod.ID)
	require.NoError(t, err)
	assert.Equal(t, "ECE", mine.Department)
	assert.True(t, mine.CoversYear(3))
	assert.False(t, mine.CoversYear(1))

	all, err := svc.List(context.Background(), dto.DepartmentQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDepartmentServiceAssignRejectsNonHOD(t *testing.T) {
	faculty := &models.User{ID: models.NewID(), Role: models.RoleFaculty}
	svc := NewDepartmentService(&fakeDepartmentRepo{}, newFakeUserRepo(faculty), nil, nil)

	_, err := svc.Assign(context.Background(), dto.AssignDepartmentRequest{HODID: faculty.ID, Department: "CSE", Years: []int{1}, Batch: "2022"})
	require.Error(t, err)
	assert.Equal(t, "hodId must reference an HOD", appErrors.FromError(err).Message)

	_, err = svc.Assign(context.Background(), dto.AssignDepartmentRequest{HODID: models.NewID(), Department: "CSE", Years: []int{1}, Batch: "2022"})
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)

	_, err = svc.Assign(context.Background(), dto.AssignDepartmentRequest{HODID: faculty.ID, Department: "CSE", Years: []int{9}, Batch: "2022"})
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestDepartmentServiceMineWithoutAssignment(t *testing.T) {
	svc := NewDepartmentService(&fakeDepartmentRepo{}, newFakeUserRepo(), nil, nil)
	_, err := svc.Mine(context.Background(), models.NewID())
	assert.True(t, errors.Is(err, appErrors.ErrNoAssignment))
}
