package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/middleware"
	"github.com/noah-isme/sams-api/internal/models"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
	"github.com/noah-isme/sams-api/pkg/response"
)

type departmentService interface {
	Assign(ctx context.Context, req dto.AssignDepartmentRequest) (*models.DepartmentAssignment, error)
	Mine(ctx context.Context, hodID string) (*models.DepartmentAssignment, error)
	List(ctx context.Context, q dto.DepartmentQuery) ([]models.DepartmentAssignment, error)
}

// DepartmentHandler manages HOD department assignments.
type DepartmentHandler struct {
	service departmentService
}

// NewDepartmentHandler constructs the handler.
func NewDepartmentHandler(svc departmentService) *DepartmentHandler {
	return &DepartmentHandler{service: svc}
}

// Assign godoc
// @Summary Assign HOD to department
// @Description Replaces the previous assignment of the HOD
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.AssignDepartmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /department/assign [post]
func (h *DepartmentHandler) Assign(c *gin.Context) {
	var req dto.AssignDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment, err := h.service.Assign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetAuditResource(c, assignment.ID)
	response.Created(c, assignment)
}

// List godoc
// @Summary List department assignments
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param department query string false "Department"
// @Success 200 {object} response.Envelope
// @Router /department/assignments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	var q dto.DepartmentQuery
	if !bindQuery(c, &q) {
		return
	}
	items, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Mine godoc
// @Summary Own department assignment
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /department/me [get]
func (h *DepartmentHandler) Mine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	assignment, err := h.service.Mine(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, assignment)
}
