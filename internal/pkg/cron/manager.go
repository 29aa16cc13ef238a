package cron

import (
	"Murmur/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine          *cron.Cron
	metricFlushJob  *job.MetricFlushJob
	mediaCleanJob   *job.MediaCleanupJob
	notifCleanJob   *job.NotificationCleanJob
}

func NewCronManager(
	metricFlushJob *job.MetricFlushJob,
	mediaCleanJob *job.MediaCleanupJob,
	notifCleanJob *job.NotificationCleanJob,
) *Manager {
	return &Manager{
		engine:         cron.New(cron.WithSeconds()),
		metricFlushJob: metricFlushJob,
		mediaCleanJob:  mediaCleanJob,
		notifCleanJob:  notifCleanJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	// 统计回刷要快，5 分钟一轮
	if _, err := s.engine.AddJob("0 */5 * * * *", s.metricFlushJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@hourly", s.mediaCleanJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.notifCleanJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
