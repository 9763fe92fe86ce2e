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

// EngagementFlushJob 把 redis 里缓冲的互动计数增量批量落库
type EngagementFlushJob struct {
	noteSvc service.NoteService
}

func NewEngagementFlushJob(noteSvc service.NoteService) *EngagementFlushJob {
	return &EngagementFlushJob{
		noteSvc: noteSvc,
	}
}

func (s *EngagementFlushJob) Run() {
	traceID := "job-engagement-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.EngagementFlushLock, lockValue, time.Minute, 0)
	if err != nil || !locked {
		return
	}
	defer redis.UnLock(ctx, consts.EngagementFlushLock, lockValue)

	flushed, err := s.noteSvc.FlushEngagement(ctx)
	if err != nil {
		log.ErrorContext(ctx, "互动计数落库失败", "err", err)
		return
	}
	if flushed > 0 {
		log.InfoContext(ctx, "互动计数落库完成", "notes", flushed)
	}
}
