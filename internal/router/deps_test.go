package router

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/pkg/config"
	"github.com/noah-isme/sams-api/pkg/storage"
)

const (
	wiredSecret = "wired-secret"
	wiredHODID  = "652f1c2e9b1e8a3d4c5b6a01"
)

var findByHODQuery = regexp.QuoteMeta("SELECT id, hod_id, department, years, batch, created_at, updated_at FROM department_assignments WHERE hod_id = $1")

func newWiredEngine(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	exports, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		Env:       config.EnvProduction,
		APIPrefix: "/api/v1",
		JWT:       config.JWTConfig{Secret: wiredSecret, RenewTokenHeader: "X-Renewed-Token"},
	}
	return New(NewDeps(cfg, sqlx.NewDb(db, "postgres"), nil, exports, nil)), mock
}

func hodToken(t *testing.T) string {
	t.Helper()
	claims := &models.JWTClaims{
		UserID: wiredHODID,
		Role:   models.RoleHOD,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(wiredSecret))
	require.NoError(t, err)
	return token
}

func postSubject(r *gin.Engine, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subject/addSubject", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestWiredScopeUsesDepartmentAssignments(t *testing.T) {
	r, mock := newWiredEngine(t)

	now := time.Now().UTC()
	mock.ExpectQuery(findByHODQuery).
		WithArgs(wiredHODID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hod_id", "department", "years", "batch", "created_at", "updated_at"}).
			AddRow("652f1c2e9b1e8a3d4c5b6a09", wiredHODID, "CSE", "{2,3}", "2022", now, now))

	rec := postSubject(r, hodToken(t), `{"name":"Signals","code":"EC201","department":"ECE","year":2,"semester":3}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not authorized for department ECE")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWiredScopeWithoutAssignment(t *testing.T) {
	r, mock := newWiredEngine(t)

	mock.ExpectQuery(findByHODQuery).WithArgs(wiredHODID).WillReturnError(sql.ErrNoRows)

	rec := postSubject(r, hodToken(t), `{"name":"Data Structures","code":"CS201","department":"CSE","year":2,"semester":3}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_ASSIGNMENT")
	assert.NoError(t, mock.ExpectationsWereMet())
}
