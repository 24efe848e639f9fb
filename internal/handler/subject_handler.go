package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/middleware"
	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/pkg/response"
)

type subjectService interface {
	List(ctx context.Context, q dto.SubjectQuery) ([]models.Subject, error)
	Create(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error)
	Assign(ctx context.Context, req dto.AssignSubjectRequest) (*models.AssignedSubject, error)
	ListAssigned(ctx context.Context, claims *models.JWTClaims, q dto.AssignedSubjectQuery) ([]models.AssignedSubject, error)
	Delete(ctx context.Context, id string) error
}

// SubjectHandler manages subject endpoints.
type SubjectHandler struct {
	service subjectService
}

// NewSubjectHandler constructs the handler.
func NewSubjectHandler(svc subjectService) *SubjectHandler {
	return &SubjectHandler{service: svc}
}

// List godoc
// @Summary List subjects
// @Tags Subjects
// @Produce json
// @Security BearerAuth
// @Param department query string true "Department"
// @Param year query int true "Year"
// @Param section query int false "Section"
// @Success 200 {object} response.Envelope
// @Router /subject/subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	var q dto.SubjectQuery
	if !bindQuery(c, &q) {
		return
	}
	subjects, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, subjects)
}

// Create godoc
// @Summary Create subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateSubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /subject/addSubject [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req dto.CreateSubjectRequest
	if !bindJSON(c, &req) {
		return
	}
	subject, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetAuditResource(c, subject.ID)
	response.Created(c, subject)
}

// Assign godoc
// @Summary Assign faculty to a subject section
// @Tags Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.AssignSubjectRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subject/assignSubject [post]
func (h *SubjectHandler) Assign(c *gin.Context) {
	var req dto.AssignSubjectRequest
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

// ListAssigned godoc
// @Summary List subject assignments
// @Tags Subjects
// @Produce json
// @Security BearerAuth
// @Param facultyId query string false "Faculty ID"
// @Param subjectId query string false "Subject ID"
// @Param section query int false "Section"
// @Success 200 {object} response.Envelope
// @Router /subject/assigned [get]
func (h *SubjectHandler) ListAssigned(c *gin.Context) {
	var q dto.AssignedSubjectQuery
	if !bindQuery(c, &q) {
		return
	}
	items, err := h.service.ListAssigned(c.Request.Context(), claimsFromContext(c), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Delete godoc
// @Summary Delete subject
// @Tags Subjects
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /subject/{id} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
