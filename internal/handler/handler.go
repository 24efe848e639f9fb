package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sams-api/internal/middleware"
	"github.com/noah-isme/sams-api/internal/models"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
	"github.com/noah-isme/sams-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return nil
	}
	return claims
}

// bindJSON decodes the body into dst, answering 400 on malformed JSON.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid request payload"))
		return false
	}
	return true
}

// bindQuery decodes query parameters into dst, answering 400 on type errors.
func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid query parameters"))
		return false
	}
	return true
}
