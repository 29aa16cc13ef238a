package job

import (
	"Murmur/internal/pkg/mongo"
	"context"
	log "log/slog"
	"time"
)

// 通知保留 90 天
const notificationRetention = 90 * 24 * time.Hour

// NotificationCleanJob 滚动清理过期通知
type NotificationCleanJob struct {
	notifRepo mongo.NotificationRepo
}

func NewNotificationCleanJob(notifRepo mongo.NotificationRepo) *NotificationCleanJob {
	return &NotificationCleanJob{notifRepo: notifRepo}
}

func (s *NotificationCleanJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	before := time.Now().Add(-notificationRetention)
	deleted, err := s.notifRepo.DeleteBefore(ctx, before)
	if err != nil {
		log.Error("notification cleanup failed", "err", err)
		return
	}
	if deleted > 0 {
		log.Info("notification cleanup finished", "deleted", deleted)
	}
}
