package job

import (
	"context"
	log "log/slog"
	"time"

	"notehub/internal/pkg/consts"
	"notehub/internal/pkg/logger"
	"notehub/internal/pkg/redis"
	"notehub/internal/service"

	"github.com/google/uuid"
)

// ScheduledPublishJob 把到期的定时笔记转为已发布
type ScheduledPublishJob struct {
	noteSvc service.NoteService
}

func NewScheduledPublishJob(noteSvc service.NoteService) *ScheduledPublishJob {
	return &ScheduledPublishJob{
		noteSvc: noteSvc,
	}
}

func (s *ScheduledPublishJob) Run() {
	traceID := "job-publish-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.ScheduledPublishLock, lockValue, time.Minute, 0)
	if err != nil || !locked {
		return
	}
	defer redis.UnLock(ctx, consts.ScheduledPublishLock, lockValue)

	published, err := s.noteSvc.PublishDueScheduled(ctx)
	if err != nil {
		log.ErrorContext(ctx, "发布定时笔记失败", "err", err)
		return
	}
	if published > 0 {
		log.InfoContext(ctx, "定时笔记发布完成", "published", published)
	}
}
