package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/pkg/response"
)

type directoryService interface {
	ListStudents(ctx context.Context, q dto.StudentQuery) ([]models.User, error)
	ListFaculty(ctx context.Context, q dto.FacultyQuery) ([]models.User, error)
}

// UserHandler serves the student and faculty directories.
type UserHandler struct {
	service directoryService
}

// NewUserHandler constructs a user handler.
func NewUserHandler(svc directoryService) *UserHandler {
	return &UserHandler{service: svc}
}

// Students godoc
// @Summary List students
// @Tags Directory
// @Produce json
// @Security BearerAuth
// @Param department query string false "Department"
// @Param year query int false "Year"
// @Param section query int false "Section"
// @Param batch query string false "Batch"
// @Success 200 {object} response.Envelope
// @Router /getData/students [get]
func (h *UserHandler) Students(c *gin.Context) {
	var q dto.StudentQuery
	if !bindQuery(c, &q) {
		return
	}
	users, err := h.service.ListStudents(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

// Faculty godoc
// @Summary List faculty
// @Tags Directory
// @Produce json
// @Security BearerAuth
// @Param department query string false "Department"
// @Success 200 {object} response.Envelope
// @Router /getData/faculty [get]
func (h *UserHandler) Faculty(c *gin.Context) {
	var q dto.FacultyQuery
	if !bindQuery(c, &q) {
		return
	}
	users, err := h.service.ListFaculty(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}
