package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"payportal.backend/pkg/logger"
)

// OutboxReplayer writes outcome records for payments left with a pending
// notification marker
type OutboxReplayer interface {
	ReplayPendingNotifications(ctx context.Context, limit int) (int, error)
}

// NotificationOutboxJob periodically replays payment outcomes whose
// notification was not written after the status change committed
type NotificationOutboxJob struct {
	replayer  OutboxReplayer
	interval  time.Duration
	batchSize int
	stop      chan struct{}
	stopOnce  sync.Once
}

func NewNotificationOutboxJob(replayer OutboxReplayer, interval time.Duration, batchSize int) *NotificationOutboxJob {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &NotificationOutboxJob{
		replayer:  replayer,
		interval:  interval,
		batchSize: batchSize,
		stop:      make(chan struct{}),
	}
}

// Start runs one pass immediately, then one per interval until ctx is done
// or Stop is called
func (j *NotificationOutboxJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting notification outbox job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.processPending(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Notification outbox job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Notification outbox job stopped")
			return
		case <-ticker.C:
			j.processPending(ctx)
		}
	}
}

func (j *NotificationOutboxJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

func (j *NotificationOutboxJob) processPending(ctx context.Context) {
	replayed, err := j.replayer.ReplayPendingNotifications(ctx, j.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error(ctx, "Error replaying pending notifications", zap.Error(err))
		}
		return
	}
	if replayed > 0 {
		logger.Info(ctx, "Replayed pending notifications", zap.Int("count", replayed))
	}
}
