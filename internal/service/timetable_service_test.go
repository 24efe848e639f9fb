package service

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/models"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
)

type fakeTimetableRepo struct {
	byClass map[string]*models.TimeTable
}

func (f *fakeTimetableRepo) Replace(ctx context.Context, tt *models.TimeTable) error {
	if f.byClass == nil {
		f.byClass = map[string]*models.TimeTable{}
	}
	if existing, ok := f.byClass[tt.ClassID]; ok {
		tt.ID = existing.ID
	} else {
		tt.ID = models.NewID()
	}
	stored := *tt
	f.byClass[tt.ClassID] = &stored
	return nil
}

func (f *fakeTimetableRepo) FindByClassID(ctx context.Context, classID string) (*models.TimeTable, error) {
	if tt, ok := f.byClass[classID]; ok {
		return tt, nil
	}
	return nil, sql.ErrNoRows
}

type timetableFixture struct {
	svc        *TimeTableService
	repo       *fakeTimetableRepo
	classID    string
	assignedID string
}

func newTimetableFixture() timetableFixture {
	class := &models.Class{ID: models.NewID(), Department: "CSE", Batch: "2022", Section: 1}
	classes := &fakeClassRepo{classes: map[string]*models.Class{class.ID: class}}
	subject := &models.Subject{ID: subjectID, Name: "Data Structures", Code: "CS201"}
	assignment := &models.AssignedSubject{ID: models.NewID(), SubjectID: subjectID, FacultyID: models.NewID(), Section: 1}
	assigned := &fakeAssignedRepo{items: map[string]*models.AssignedSubject{assignment.ID: assignment}}
	repo := &fakeTimetableRepo{}
	svc := NewTimeTableService(repo, classes, assigned, newFakeSubjectRepo(subject), nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC) }
	return timetableFixture{svc: svc, repo: repo, classID: class.ID, assignedID: assignment.ID}
}

func slot(day, start, end, assignedID string) dto.TimeSlotInput {
	return dto.TimeSlotInput{Day: day, StartTime: start, EndTime: end, AssignedSubjectID: assignedID}
}

func TestTimeTableServiceReplaceOverwritesSlots(t *testing.T) {
	f := newTimetableFixture()
	ctx := context.Background()

	first, err := f.svc.Replace(ctx, dto.CreateTimeTableRequest{ClassID: f.classID, Slots: []dto.TimeSlotInput{
		slot("Monday", "09:00", "10:00", f.assignedID),
		slot("Wednesday", "11:00", "12:00", f.assignedID),
	}})
	require.NoError(t, err)

	second, err := f.svc.Replace(ctx, dto.CreateTimeTableRequest{ClassID: f.classID, Slots: []dto.TimeSlotInput{
		slot("Friday", "14:00", "15:00", f.assignedID),
	}})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	stored, err := f.svc.Get(ctx, f.classID)
	require.NoError(t, err)
	require.Len(t, stored.Slots, 1)
	assert.Equal(t, "Friday", stored.Slots[0].Day)
}

func TestTimeTableServiceReplaceValidation(t *testing.T) {
	f := newTimetableFixture()
	ctx := context.Background()

	_, err := f.svc.Replace(ctx, dto.CreateTimeTableRequest{ClassID: f.classID, Slots: []dto.TimeSlotInput{slot("Funday", "09:00", "10:00", f.assignedID)}})
	assert.Equal(t, "slots[0].day must be a day of the week", appErrors.FromError(err).Message)

	_, err = f.svc.Replace(ctx, dto.CreateTimeTableRequest{ClassID: f.classID, Slots: []dto.TimeSlotInput{slot("Monday", "10:00", "09:00", f.assignedID)}})
	assert.Equal(t, "slots[0].endTime must be after startTime", appErrors.FromError(err).Message)

	_, err = f.svc.Replace(ctx, dto.CreateTimeTableRequest{ClassID: models.NewID(), Slots: []dto.TimeSlotInput{slot("Monday", "09:00", "10:00", f.assignedID)}})
	assert.Equal(t, "class not found", appErrors.FromError(err).Message)

	missing := models.NewID()
	_, err = f.svc.Replace(ctx, dto.CreateTimeTableRequest{ClassID: f.classID, Slots: []dto.TimeSlotInput{slot("Monday", "09:00", "10:00", missing)}})
	assert.Equal(t, "assigned subject "+missing+" not found", appErrors.FromError(err).Message)
	assert.Empty(t, f.repo.byClass)
}

func TestTimeTableServiceGetMissing(t *testing.T) {
	f := newTimetableFixture()
	_, err := f.svc.Get(context.Background(), f.classID)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestTimeTableServiceCalendar(t *testing.T) {
	f := newTimetableFixture()
	ctx := context.Background()
	_, err := f.svc.Replace(ctx, dto.CreateTimeTableRequest{ClassID: f.classID, Slots: []dto.TimeSlotInput{
		slot("Wednesday", "11:00", "12:00", f.assignedID),
		slot("Monday", "09:00", "10:00", f.assignedID),
	}})
	require.NoError(t, err)

	file, err := f.svc.Calendar(ctx, f.classID, dto.TimeTableCalendarQuery{To: "2024-02-29"})
	require.NoError(t, err)
	assert.Equal(t, "timetable_"+f.classID+".ics", file.Filename)
	assert.Contains(t, file.ContentType, "text/calendar")

	body := string(file.Data)
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "CS201 Data Structures (section 1)")
	assert.Contains(t, body, "FREQ=WEEKLY;BYDAY=MO;UNTIL=20240229T235959Z")
	assert.Contains(t, body, "20240108T090000Z")

	_, err = f.svc.Calendar(ctx, f.classID, dto.TimeTableCalendarQuery{From: "2024-03-01", To: "2024-02-01"})
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}
