package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sams-api/internal/models"
	"github.com/noah-isme/sams-api/pkg/jobs"
)

const auditJobType = "audit_log"

type auditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// AuditConfig sizes the background writer.
type AuditConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
}

// AuditService writes audit entries off the request path.
type AuditService struct {
	repo    auditRepository
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAuditService builds the service and its worker queue. Call Start before
// recording and Stop on shutdown to flush buffered entries.
func NewAuditService(repo auditRepository, cfg AuditConfig, metrics *MetricsService, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{repo: repo, metrics: metrics, logger: logger}
	s.queue = jobs.NewQueue("audit", s.handle, jobs.QueueConfig{
		Workers:      cfg.Workers,
		BufferSize:   cfg.BufferSize,
		MaxRetries:   cfg.MaxRetries,
		RetryDelay:   500 * time.Millisecond,
		DrainTimeout: 5 * time.Second,
		Logger:       logger,
	})
	return s
}

// Start launches the workers.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains pending entries and stops the workers.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Record queues entry without blocking. Entries are dropped when the queue
// is full.
func (s *AuditService) Record(entry models.AuditLog) {
	if entry.ID == "" {
		entry.ID = models.NewID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	err := s.queue.TryEnqueue(jobs.Job{ID: entry.ID, Type: auditJobType, Payload: entry})
	if err == nil {
		return
	}
	if errors.Is(err, jobs.ErrQueueFull) {
		s.metrics.RecordAuditDropped()
	}
	s.logger.Warn("audit entry dropped", zap.String("action", entry.Action), zap.Error(err))
}

func (s *AuditService) handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(models.AuditLog)
	if !ok {
		return fmt.Errorf("unexpected audit payload %T", job.Payload)
	}
	return s.repo.Create(ctx, &entry)
}
