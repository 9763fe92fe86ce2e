package cron

import (
	log "log/slog"

	"notehub/internal/job"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine             *cron.Cron
	engagementFlushJob *job.EngagementFlushJob
	scheduledPublish   *job.ScheduledPublishJob
	retentionPurgeJob  *job.RetentionPurgeJob
}

func NewCronManager(
	engagementFlushJob *job.EngagementFlushJob,
	scheduledPublish *job.ScheduledPublishJob,
	retentionPurgeJob *job.RetentionPurgeJob,
) *Manager {
	return &Manager{
		engine:             cron.New(cron.WithSeconds()),
		engagementFlushJob: engagementFlushJob,
		scheduledPublish:   scheduledPublish,
		retentionPurgeJob:  retentionPurgeJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("30 * * * * *", s.engagementFlushJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("0 * * * * *", s.scheduledPublish); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.retentionPurgeJob); err != nil {
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
