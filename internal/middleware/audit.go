package middleware

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sams-api/internal/models"
)

const (
	auditActorKey    = "audit_actor"
	auditResourceKey = "audit_resource_id"
)

// AuditRecorder accepts audit entries for asynchronous storage.
type AuditRecorder interface {
	Record(entry models.AuditLog)
}

// SetAuditActor names the acting user on routes without a token, such as
// login and registration.
func SetAuditActor(c *gin.Context, userID string) {
	c.Set(auditActorKey, userID)
}

// SetAuditResource names the resource created or changed by the handler.
func SetAuditResource(c *gin.Context, id string) {
	c.Set(auditResourceKey, id)
}

// Audit creates a middleware that records audit logs after successful requests.
func Audit(recorder AuditRecorder, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if recorder == nil || c.Writer.Status() >= 400 {
			return
		}

		var userID *string
		if claims, ok := CurrentUser(c); ok {
			id := claims.UserID
			userID = &id
		} else if actor := c.GetString(auditActorKey); actor != "" {
			userID = &actor
		}

		var resourceID *string
		if id := c.GetString(auditResourceKey); id != "" {
			resourceID = &id
		} else if id := c.Param("id"); id != "" {
			resourceID = &id
		}

		payload, _ := json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})

		recorder.Record(models.AuditLog{
			UserID:     userID,
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			Payload:    payload,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
			CreatedAt:  start,
		})
	}
}
