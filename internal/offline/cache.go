// Package offline keeps attendance sheets that could not be sent and
// flushes them in one bulk call once the server is reachable again.
package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sams-api/internal/dto"
)

const pendingFile = "pending_attendance.json"

// ErrNothingPending is returned by Flush when the cache is empty.
var ErrNothingPending = errors.New("no pending attendance")

type fileStore interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
}

// Syncer sends cached sheets to the server in one request.
type Syncer interface {
	Sync(ctx context.Context, req dto.SyncAttendanceRequest) (*dto.SyncAttendanceResponse, error)
}

// Cache persists unsynced mark payloads as a JSON array.
type Cache struct {
	store  fileStore
	logger *zap.Logger

	mu       sync.Mutex
	flushing sync.Mutex
}

// NewCache builds a cache over store.
func NewCache(store fileStore, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: store, logger: logger}
}

// Add appends a sheet to the pending list.
func (c *Cache) Add(req dto.MarkAttendanceRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending, err := c.load()
	if err != nil {
		return err
	}
	pending = append(pending, req)
	if err := c.save(pending); err != nil {
		return err
	}
	c.logger.Debug("attendance cached", zap.String("subject_id", req.SubjectID), zap.String("date", req.Date), zap.Int("pending", len(pending)))
	return nil
}

// Pending returns the cached sheets in insertion order.
func (c *Cache) Pending() ([]dto.MarkAttendanceRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// Flush sends every pending sheet in a single call. The cache is cleared
// only when the server accepts the batch; sheets added while the call is
// in flight are kept. There is no retry.
func (c *Cache) Flush(ctx context.Context, syncer Syncer) (int, error) {
	c.flushing.Lock()
	defer c.flushing.Unlock()

	batch, err := c.Pending()
	if err != nil {
		return 0, err
	}
	if len(batch) == 0 {
		return 0, ErrNothingPending
	}

	res, err := syncer.Sync(ctx, dto.SyncAttendanceRequest{Records: batch})
	if err != nil {
		c.logger.Warn("attendance flush failed, cache kept", zap.Int("pending", len(batch)), zap.Error(err))
		return 0, fmt.Errorf("flush attendance: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	current, err := c.load()
	if err != nil {
		return 0, err
	}
	if len(current) < len(batch) {
		current = current[:0]
	} else {
		current = current[len(batch):]
	}
	if err := c.save(current); err != nil {
		return 0, err
	}

	synced := len(batch)
	if res != nil {
		synced = res.Synced
	}
	c.logger.Info("attendance flushed", zap.Int("synced", synced), zap.Int("remaining", len(current)))
	return synced, nil
}

func (c *Cache) load() ([]dto.MarkAttendanceRequest, error) {
	raw, err := c.store.Read(pendingFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read offline cache: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var pending []dto.MarkAttendanceRequest
	if err := json.Unmarshal(raw, &pending); err != nil {
		return nil, fmt.Errorf("decode offline cache: %w", err)
	}
	return pending, nil
}

func (c *Cache) save(pending []dto.MarkAttendanceRequest) error {
	if pending == nil {
		pending = []dto.MarkAttendanceRequest{}
	}
	raw, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("encode offline cache: %w", err)
	}
	if _, err := c.store.Save(pendingFile, raw); err != nil {
		return fmt.Errorf("write offline cache: %w", err)
	}
	return nil
}
