package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sams-api/internal/models"
)

var classRowColumns = []string{"id", "department", "year", "batch", "section", "class_teacher_id", "subject_ids", "student_ids", "created_at", "updated_at"}

func TestClassCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec("INSERT INTO classes").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Class{Department: "CSE", Year: 2, Batch: "2022-2026", Section: 1, ClassTeacherID: "fac-1"})
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassFindByKey(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(classRowColumns).
		AddRow("cls-1", "CSE", 2, "2022-2026", 1, "fac-1", "{sub-1,sub-2}", "{st-1}", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM classes WHERE department = $1 AND batch = $2 AND section = $3")).
		WithArgs("CSE", "2022-2026", 1).
		WillReturnRows(rows)

	class, err := repo.FindByKey(context.Background(), models.ClassFilter{Department: "CSE", Batch: "2022-2026", Section: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"sub-1", "sub-2"}, []string(class.SubjectIDs))
	assert.Equal(t, []string{"st-1"}, []string(class.StudentIDs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassAddStudents(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(classRowColumns).
		AddRow("cls-1", "CSE", 2, "2022-2026", 1, "fac-1", "{}", "{st-1,st-2}", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE classes SET student_ids")).
		WithArgs("{\"st-2\"}", sqlmock.AnyArg(), "cls-1").
		WillReturnRows(rows)

	class, err := repo.AddStudents(context.Background(), "cls-1", []string{"st-2"})
	require.NoError(t, err)
	assert.Len(t, class.StudentIDs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeTableReplace(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTimeTableRepository(db)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (class_id) DO UPDATE SET slots = EXCLUDED.slots")).
		WithArgs(sqlmock.AnyArg(), "cls-1", `[{"day":"Monday","startTime":"09:00","endTime":"10:00","assignedSubjectId":"as-1"}]`, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("tt-1", created))

	tt := &models.TimeTable{ClassID: "cls-1", Slots: models.TimeSlots{{Day: "Monday", StartTime: "09:00", EndTime: "10:00", AssignedSubjectID: "as-1"}}}
	require.NoError(t, repo.Replace(context.Background(), tt))
	assert.Equal(t, "tt-1", tt.ID)
	assert.Equal(t, created, tt.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentFindByHOD(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "hod_id", "department", "years", "batch", "created_at", "updated_at"}).
		AddRow("dep-1", "hod-1", "CSE", "{2,3}", "2022-2026", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM department_assignments WHERE hod_id = $1")).
		WithArgs("hod-1").
		WillReturnRows(rows)

	a, err := repo.FindByHOD(context.Background(), "hod-1")
	require.NoError(t, err)
	assert.True(t, a.CoversYear(3))
	assert.False(t, a.CoversYear(4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(1, 1))

	log := &models.AuditLog{Action: models.AuditActionLogin, Resource: "auth"}
	require.NoError(t, repo.Create(context.Background(), log))
	assert.NotEmpty(t, log.ID)
	assert.False(t, log.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepositoryWithoutRedis(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	var dest []string
	err := repo.Get(context.Background(), "subjects:x", &dest)
	assert.Error(t, err)
	assert.NoError(t, repo.Set(context.Background(), "subjects:x", []string{"a"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(context.Background(), "subjects:*"))

	allowed, err := repo.Allow(context.Background(), "rl:1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	tokens := NewTokenRepository(nil)
	revoked, err := tokens.IsRevoked(context.Background(), "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}
