package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sams-api/internal/models"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
	"github.com/noah-isme/sams-api/pkg/response"
)

const maxScopedBody = 1 << 20

// ScopeChecker authorises HOD writes against their department assignment.
type ScopeChecker interface {
	Check(ctx context.Context, claims *models.JWTClaims, department string, year int) error
	CheckSubject(ctx context.Context, claims *models.JWTClaims, subjectID string) error
}

type scopedBody struct {
	Department string `json:"department"`
	Year       int    `json:"year"`
	SubjectID  string `json:"subjectId"`
}

// ScopeFromBody checks the department and year named in the JSON body.
func ScopeFromBody(scope ScopeChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := hodClaims(c)
		if !ok {
			c.Next()
			return
		}
		body, ok, err := peekBody(c)
		if err != nil {
			response.Abort(c, err)
			return
		}
		if !ok || body.Department == "" || body.Year == 0 {
			// incomplete payloads are rejected by the handler's validation
			c.Next()
			return
		}
		if err := scope.Check(c.Request.Context(), claims, body.Department, body.Year); err != nil {
			response.Abort(c, err)
			return
		}
		c.Next()
	}
}

// ScopeFromSubject checks the department and year of the subject named by
// the path parameter param, or by subjectId in the body when param is empty.
func ScopeFromSubject(scope ScopeChecker, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := hodClaims(c)
		if !ok {
			c.Next()
			return
		}
		subjectID := ""
		if param != "" {
			subjectID = c.Param(param)
		} else {
			body, ok, err := peekBody(c)
			if err != nil {
				response.Abort(c, err)
				return
			}
			if ok {
				subjectID = body.SubjectID
			}
		}
		if subjectID == "" {
			c.Next()
			return
		}
		if err := scope.CheckSubject(c.Request.Context(), claims, subjectID); err != nil {
			response.Abort(c, err)
			return
		}
		c.Next()
	}
}

func hodClaims(c *gin.Context) (*models.JWTClaims, bool) {
	claims, ok := CurrentUser(c)
	if !ok || claims.Role != models.RoleHOD {
		return nil, false
	}
	return claims, true
}

// peekBody decodes the scoping fields and restores the body for the handler.
// Bodies over maxScopedBody are rejected rather than truncated.
func peekBody(c *gin.Context) (scopedBody, bool, error) {
	var body scopedBody
	if c.Request.Body == nil {
		return body, false, nil
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxScopedBody+1))
	_ = c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return body, false, appErrors.Internal(err, "failed to read request body")
	}
	if len(raw) > maxScopedBody {
		return body, false, appErrors.ErrPayloadTooLarge
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return body, false, nil
	}
	return body, true, nil
}
