package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/internal/validation"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
	"github.com/noah-isme/sams-api/pkg/export"
)

const defaultCalendarSpan = 16 * 7 * 24 * time.Hour

type timetableRepository interface {
	Replace(ctx context.Context, tt *models.TimeTable) error
	FindByClassID(ctx context.Context, classID string) (*models.TimeTable, error)
}

type classReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type assignedSubjectReader interface {
	FindByID(ctx context.Context, id string) (*models.AssignedSubject, error)
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
}

type calendarRenderer interface {
	ContentType() string
	Extension() string
	Render(name string, events []export.CalendarEvent) ([]byte, error)
}

// CalendarFile is a rendered timetable calendar.
type CalendarFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// TimeTableService manages weekly class timetables.
type TimeTableService struct {
	repo        timetableRepository
	classes     classReader
	assignments assignedSubjectReader
	subjects    subjectReader
	calendar    calendarRenderer
	validator   *validation.Validator
	logger      *zap.Logger
	now         func() time.Time
}

// NewTimeTableService constructs a TimeTableService.
func NewTimeTableService(repo timetableRepository, classes classReader, assignments assignedSubjectReader, subjects subjectReader, calendar calendarRenderer, validate *validation.Validator, logger *zap.Logger) *TimeTableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	if calendar == nil {
		calendar = export.NewICSExporter("")
	}
	return &TimeTableService{
		repo:        repo,
		classes:     classes,
		assignments: assignments,
		subjects:    subjects,
		calendar:    calendar,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// Replace overwrites the whole slot list of a class.
func (s *TimeTableService) Replace(ctx context.Context, req dto.CreateTimeTableRequest) (*models.TimeTable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	slots := make(models.TimeSlots, len(req.Slots))
	ids := make([]string, 0, len(req.Slots))
	seen := make(map[string]struct{})
	for i, in := range req.Slots {
		if in.EndTime <= in.StartTime {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slots[%d].endTime must be after startTime", i))
		}
		slots[i] = models.TimeSlot{Day: in.Day, StartTime: in.StartTime, EndTime: in.EndTime, AssignedSubjectID: in.AssignedSubjectID}
		if _, ok := seen[in.AssignedSubjectID]; !ok {
			seen[in.AssignedSubjectID] = struct{}{}
			ids = append(ids, in.AssignedSubjectID)
		}
	}

	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Internal(err, "failed to load class")
	}

	found, err := s.assignments.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check assigned subjects")
	}
	if missing := firstMissing(ids, found); missing != "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("assigned subject %s not found", missing))
	}

	tt := &models.TimeTable{ClassID: req.ClassID, Slots: slots}
	if err := s.repo.Replace(ctx, tt); err != nil {
		return nil, appErrors.Internal(err, "failed to save timetable")
	}
	return tt, nil
}

// Get returns the timetable of a class.
func (s *TimeTableService) Get(ctx context.Context, classID string) (*models.TimeTable, error) {
	if err := s.validator.Var("classId", classID, "required,mongodb"); err != nil {
		return nil, err
	}
	tt, err := s.repo.FindByClassID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Internal(err, "failed to load timetable")
	}
	return tt, nil
}

// Calendar renders the timetable as weekly recurring events between from
// and to. Without bounds it covers sixteen weeks from today.
func (s *TimeTableService) Calendar(ctx context.Context, classID string, q dto.TimeTableCalendarQuery) (*CalendarFile, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, err
	}
	tt, err := s.Get(ctx, classID)
	if err != nil {
		return nil, err
	}

	from := truncateDay(s.now().UTC())
	if q.From != "" {
		from, _ = time.Parse(models.DateLayout, q.From)
	}
	to := from.Add(defaultCalendarSpan)
	if q.To != "" {
		to, _ = time.Parse(models.DateLayout, q.To)
	}
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}
	until := to.Add(24*time.Hour - time.Second)

	titles := make(map[string]string)
	events := make([]export.CalendarEvent, 0, len(tt.Slots))
	for i, slot := range tt.Slots {
		first, ok := firstWeekday(from, until, slot.Day)
		if !ok {
			continue
		}
		start, err := atClock(first, slot.StartTime)
		if err != nil {
			return nil, appErrors.Internal(err, "invalid stored slot")
		}
		end, err := atClock(first, slot.EndTime)
		if err != nil {
			return nil, appErrors.Internal(err, "invalid stored slot")
		}
		title, ok := titles[slot.AssignedSubjectID]
		if !ok {
			title = s.slotTitle(ctx, slot.AssignedSubjectID)
			titles[slot.AssignedSubjectID] = title
		}
		events = append(events, export.CalendarEvent{
			UID:         fmt.Sprintf("%s-%d@sams", tt.ID, i),
			Summary:     title,
			Description: fmt.Sprintf("%s %s-%s", slot.Day, slot.StartTime, slot.EndTime),
			Start:       start,
			End:         end,
			Weekly:      true,
			Until:       until,
		})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })

	data, err := s.calendar.Render("Timetable "+classID, events)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render calendar")
	}
	return &CalendarFile{
		Filename:    fmt.Sprintf("timetable_%s.%s", classID, s.calendar.Extension()),
		ContentType: s.calendar.ContentType(),
		Data:        data,
	}, nil
}

// slotTitle resolves a readable event title, falling back to a generic one.
func (s *TimeTableService) slotTitle(ctx context.Context, assignedSubjectID string) string {
	assignment, err := s.assignments.FindByID(ctx, assignedSubjectID)
	if err != nil {
		return "Lecture"
	}
	subject, err := s.subjects.FindByID(ctx, assignment.SubjectID)
	if err != nil {
		return "Lecture"
	}
	return fmt.Sprintf("%s %s (section %d)", subject.Code, subject.Name, assignment.Section)
}

func firstMissing(want, found []string) string {
	have := make(map[string]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	for _, id := range want {
		if _, ok := have[id]; !ok {
			return id
		}
	}
	return ""
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func firstWeekday(from, until time.Time, day string) (time.Time, bool) {
	for d := from; !d.After(until); d = d.AddDate(0, 0, 1) {
		if d.Weekday().String() == day {
			return d, true
		}
		if d.Sub(from) >= 7*24*time.Hour {
			break
		}
	}
	return time.Time{}, false
}

func atClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
