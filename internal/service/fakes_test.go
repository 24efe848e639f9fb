package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.FindByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, err := f.FindByEmail(ctx, user.Email); err == nil {
		return fmt.Errorf("create user: %w", repository.ErrDuplicate)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		user.ID = models.NewID()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		if u.Role == filter.Role {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeTokenStore struct {
	revoked map[string]time.Duration
}

func (f *fakeTokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if f.revoked == nil {
		f.revoked = map[string]time.Duration{}
	}
	f.revoked[jti] = ttl
	return nil
}

func (f *fakeTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, ok := f.revoked[jti]
	return ok, nil
}

type fakeSubjectRepo struct {
	subjects map[string]*models.Subject
	created  []*models.Subject
	deleted  []string
}

func newFakeSubjectRepo(subjects ...*models.Subject) *fakeSubjectRepo {
	repo := &fakeSubjectRepo{subjects: map[string]*models.Subject{}}
	for _, s := range subjects {
		repo.subjects[s.ID] = s
	}
	return repo
}

func (f *fakeSubjectRepo) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	var out []models.Subject
	for _, s := range f.subjects {
		if s.Department == filter.Department && s.Year == filter.Year {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubjectRepo) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if s, ok := f.subjects[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSubjectRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	for _, s := range f.subjects {
		if strings.EqualFold(s.Code, code) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	subject.ID = models.NewID()
	f.subjects[subject.ID] = subject
	f.created = append(f.created, subject)
	return nil
}

func (f *fakeSubjectRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.subjects[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.subjects, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAssignedRepo struct {
	items map[string]*models.AssignedSubject
	last  models.AssignedSubjectFilter
}

func (f *fakeAssignedRepo) Upsert(ctx context.Context, a *models.AssignedSubject) error {
	if f.items == nil {
		f.items = map[string]*models.AssignedSubject{}
	}
	for _, existing := range f.items {
		if existing.SubjectID == a.SubjectID && existing.Section == a.Section {
			existing.FacultyID = a.FacultyID
			a.ID = existing.ID
			return nil
		}
	}
	a.ID = models.NewID()
	f.items[a.ID] = a
	return nil
}

func (f *fakeAssignedRepo) List(ctx context.Context, filter models.AssignedSubjectFilter) ([]models.AssignedSubject, error) {
	f.last = filter
	var out []models.AssignedSubject
	for _, a := range f.items {
		if filter.FacultyID != "" && a.FacultyID != filter.FacultyID {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAssignedRepo) FindByID(ctx context.Context, id string) (*models.AssignedSubject, error) {
	if a, ok := f.items[id]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAssignedRepo) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	var out []string
	for _, id := range ids {
		if _, ok := f.items[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeDepartmentRepo struct {
	byHOD map[string]*models.DepartmentAssignment
}

func (f *fakeDepartmentRepo) Upsert(ctx context.Context, a *models.DepartmentAssignment) error {
	if f.byHOD == nil {
		f.byHOD = map[string]*models.DepartmentAssignment{}
	}
	if existing, ok := f.byHOD[a.HODID]; ok {
		a.ID = existing.ID
	} else {
		a.ID = models.NewID()
	}
	f.byHOD[a.HODID] = a
	return nil
}

func (f *fakeDepartmentRepo) FindByHOD(ctx context.Context, hodID string) (*models.DepartmentAssignment, error) {
	if a, ok := f.byHOD[hodID]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeDepartmentRepo) List(ctx context.Context, department string) ([]models.DepartmentAssignment, error) {
	var out []models.DepartmentAssignment
	for _, a := range f.byHOD {
		if department == "" || a.Department == department {
			out = append(out, *a)
		}
	}
	return out, nil
}

type attendanceKey struct {
	subject string
	date    string
	section int
}

// fakeAttendanceRepo keys sheets like the unique index does.
type fakeAttendanceRepo struct {
	sheets   map[attendanceKey]*models.Attendance
	failMany bool
}

func (f *fakeAttendanceRepo) key(a *models.Attendance) attendanceKey {
	return attendanceKey{a.SubjectID, a.Date.Format(models.DateLayout), a.Section}
}

func (f *fakeAttendanceRepo) Upsert(ctx context.Context, a *models.Attendance) error {
	if f.sheets == nil {
		f.sheets = map[attendanceKey]*models.Attendance{}
	}
	k := f.key(a)
	if existing, ok := f.sheets[k]; ok {
		a.ID = existing.ID
	} else if a.ID == "" {
		a.ID = models.NewID()
	}
	stored := *a
	f.sheets[k] = &stored
	return nil
}

func (f *fakeAttendanceRepo) UpsertMany(ctx context.Context, sheets []*models.Attendance) error {
	if f.failMany {
		return fmt.Errorf("tx failed")
	}
	for _, s := range sheets {
		if err := f.Upsert(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error) {
	var out []models.Attendance
	for _, s := range f.sheets {
		if filter.SubjectID != "" && s.SubjectID != filter.SubjectID {
			continue
		}
		if filter.Section > 0 && s.Section != filter.Section {
			continue
		}
		if filter.StudentID != "" {
			if _, ok := s.StatusOf(filter.StudentID); !ok {
				continue
			}
		}
		out = append(out, *s)
	}
	return out, nil
}

type fakeStorage struct {
	saved map[string][]byte
}

func (f *fakeStorage) Save(filename string, data []byte) (string, error) {
	if f.saved == nil {
		f.saved = map[string][]byte{}
	}
	f.saved[filename] = data
	return filename, nil
}

func (f *fakeStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	return nil, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*models.AuditLog
}

func (f *fakeAuditRepo) Create(ctx context.Context, log *models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, log)
	return nil
}

func (f *fakeAuditRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
