package job

import (
	"context"
	log "log/slog"
	"time"

	"notehub/internal/api/config"
	"notehub/internal/pkg/consts"
	"notehub/internal/pkg/logger"
	"notehub/internal/pkg/redis"
	"notehub/internal/repository"
	"notehub/internal/service"

	"github.com/google/uuid"
)

const (
	defaultDeletedNoteDays = 30
	defaultDraftDays       = 90
)

// RetentionPurgeJob 定期清理超出保留窗口的软删笔记、陈旧草稿和孤儿附件
type RetentionPurgeJob struct {
	noteRepo repository.NoteRepo
	mediaSvc service.MediaService
	cfg      config.RetentionConfig
}

func NewRetentionPurgeJob(noteRepo repository.NoteRepo, mediaSvc service.MediaService, cfg config.RetentionConfig) *RetentionPurgeJob {
	return &RetentionPurgeJob{
		noteRepo: noteRepo,
		mediaSvc: mediaSvc,
		cfg:      cfg,
	}
}

func (s *RetentionPurgeJob) Run() {
	traceID := "job-purge-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.RetentionPurgeLock, lockValue, 10*time.Minute, 0)
	if err != nil || !locked {
		return
	}
	defer redis.UnLock(ctx, consts.RetentionPurgeLock, lockValue)

	deletedDays := s.cfg.DeletedNoteDays
	if deletedDays <= 0 {
		deletedDays = defaultDeletedNoteDays
	}
	draftDays := s.cfg.DraftDays
	if draftDays <= 0 {
		draftDays = defaultDraftDays
	}

	purgedNotes, err := s.noteRepo.CleanupDeletedNotes(ctx, deletedDays)
	if err != nil {
		log.ErrorContext(ctx, "清理软删笔记失败", "err", err)
	}
	purgedDrafts, err := s.noteRepo.CleanupOldDrafts(ctx, draftDays)
	if err != nil {
		log.ErrorContext(ctx, "清理陈旧草稿失败", "err", err)
	}
	purgedAttachments, err := s.mediaSvc.PurgeOrphans(ctx, deletedDays)
	if err != nil {
		log.ErrorContext(ctx, "清理孤儿附件失败", "err", err)
	}

	if err = s.noteRepo.OptimizeDatabase(ctx); err != nil {
		log.WarnContext(ctx, "更新表统计信息失败", "err", err)
	}

	log.InfoContext(ctx, "保留清理完成",
		"notes", purgedNotes,
		"drafts", purgedDrafts,
		"attachments", purgedAttachments)
}
