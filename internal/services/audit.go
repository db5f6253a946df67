package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/internal/infrastructure/journal"
	"github.com/taskforge/backend/usecase"
)

// RecorderConfig controls journal retention.
type RecorderConfig struct {
	Retention     time.Duration
	PruneInterval time.Duration
}

// Recorder writes audit entries to the local journal and prunes entries past
// retention on a cron schedule. Writes are best-effort: a journal failure is
// logged, never propagated to the request that triggered it.
type Recorder struct {
	store  *journal.Store
	logger *zap.Logger
	cron   *cron.Cron
	cfg    RecorderConfig
}

func NewRecorder(store *journal.Store, logger *zap.Logger, cfg RecorderConfig) *Recorder {
	if cfg.Retention <= 0 {
		cfg.Retention = 30 * 24 * time.Hour
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Recorder{
		store:  store,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.PruneInterval.Seconds()))
	_, _ = r.cron.AddFunc(schedule, r.prune)

	return r
}

// Start launches the pruning scheduler.
func (r *Recorder) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("audit recorder started",
		zap.Duration("retention", r.cfg.Retention),
		zap.Duration("prune_interval", r.cfg.PruneInterval))
}

// Stop gracefully stops the scheduler.
func (r *Recorder) Stop(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("audit recorder stopped")
}

// RecordTask journals a task mutation.
func (r *Recorder) RecordTask(ctx context.Context, action string, task *domain.Task) {
	if r == nil || r.store == nil || task == nil {
		return
	}
	payload, err := json.Marshal(task)
	if err != nil {
		r.logger.Warn("failed to encode audit entry", zap.Error(err))
		return
	}
	r.append(journal.Entry{
		UserID: task.UserID,
		Entity: journal.EntityTask,
		Action: action,
		Data:   payload,
	})
}

// RecordAuth journals an authentication event.
func (r *Recorder) RecordAuth(ctx context.Context, action, userID string) {
	if r == nil || r.store == nil {
		return
	}
	r.append(journal.Entry{
		UserID: userID,
		Entity: journal.EntityUser,
		Action: action,
	})
}

func (r *Recorder) append(entry journal.Entry) {
	if err := r.store.Append(entry); err != nil {
		r.logger.Warn("failed to journal audit entry",
			zap.String("entity", entry.Entity),
			zap.String("action", entry.Action),
			zap.Error(err))
	}
}

func (r *Recorder) prune() {
	cutoff := time.Now().UTC().Add(-r.cfg.Retention)
	if err := r.store.Prune(cutoff); err != nil {
		r.logger.Error("journal prune failed", zap.Error(err))
	}
}

var _ usecase.AuditRecorder = (*Recorder)(nil)
