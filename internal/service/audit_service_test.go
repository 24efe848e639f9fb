package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sams-api/internal/models"
)

func TestAuditServiceStopFlushesQueuedEntries(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo, AuditConfig{Workers: 2, BufferSize: 16}, nil, nil)
	svc.Start(context.Background())

	for i := 0; i < 10; i++ {
		svc.Record(models.AuditLog{Action: models.AuditActionAttendanceMark, Resource: "attendance"})
	}
	svc.Stop()

	require.Equal(t, 10, repo.count())
	for _, entry := range repo.entries {
		assert.Len(t, entry.ID, 24)
		assert.False(t, entry.CreatedAt.IsZero())
	}
}

func TestAuditServiceRecordBeforeStartIsDropped(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo, AuditConfig{}, NewMetricsService(), nil)

	svc.Record(models.AuditLog{Action: models.AuditActionLogin, Resource: "auth"})
	svc.Start(context.Background())
	svc.Stop()

	assert.Zero(t, repo.count())
}

func TestAuditServiceRecordsAsynchronously(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo, AuditConfig{Workers: 1}, nil, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	userID := models.NewID()
	svc.Record(models.AuditLog{UserID: &userID, Action: models.AuditActionLogin, Resource: "auth"})

	assert.Eventually(t, func() bool { return repo.count() == 1 }, time.Second, 10*time.Millisecond)
}
