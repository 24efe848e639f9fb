package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/middleware"
	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/pkg/response"
)

type classService interface {
	Create(ctx context.Context, req dto.CreateClassRequest) (*models.Class, error)
	Details(ctx context.Context, q dto.ClassDetailsQuery) (*models.Class, error)
	AddStudents(ctx context.Context, classID string, req dto.AddStudentsRequest) (*models.Class, error)
}

// ClassHandler handles class endpoints.
type ClassHandler struct {
	service classService
}

// NewClassHandler constructs ClassHandler.
func NewClassHandler(svc classService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// Details godoc
// @Summary Class details
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Param batch query string true "Batch"
// @Param department query string true "Department"
// @Param section query int true "Section"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /class/classDetails [get]
func (h *ClassHandler) Details(c *gin.Context) {
	var q dto.ClassDetailsQuery
	if !bindQuery(c, &q) {
		return
	}
	class, err := h.service.Details(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, class)
}

// Create godoc
// @Summary Create class
// @Tags Classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /class/newClass [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req dto.CreateClassRequest
	if !bindJSON(c, &req) {
		return
	}
	class, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetAuditResource(c, class.ID)
	response.Created(c, class)
}

// AddStudents godoc
// @Summary Enrol students
// @Tags Classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param payload body dto.AddStudentsRequest true "Student IDs"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /class/{id}/students [post]
func (h *ClassHandler) AddStudents(c *gin.Context) {
	var req dto.AddStudentsRequest
	if !bindJSON(c, &req) {
		return
	}
	class, err := h.service.AddStudents(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, class)
}
