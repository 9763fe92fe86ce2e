package service

import (
	"context"

	"notehub/internal/model"
	"notehub/internal/repository"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"notehub/internal/pkg/redis"
)

func init() {
	// 指向一个不存在的地址, redis 相关路径得到连接错误而非空指针
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
}

type mockNoteRepo struct {
	createNoteFn        func(ctx context.Context, note *model.Note) error
	getNoteFn           func(ctx context.Context, noteID string) (*model.Note, error)
	updateNoteFn        func(ctx context.Context, note *model.Note) error
	upsertInteractionFn func(ctx context.Context, noteID, userID, interactionType string) error
	removeInteractionFn func(ctx context.Context, noteID, userID, interactionType string) error
	getDueScheduledFn   func(ctx context.Context, now int64, limit int) ([]*model.Note, error)
	getThreadNotesFn    func(ctx context.Context, threadID string) ([]*model.Note, error)
	searchNotesFn       func(ctx context.Context, query string, limit, offset int) ([]*model.Note, error)
}

var _ repository.NoteRepo = (*mockNoteRepo)(nil)

func (m *mockNoteRepo) CreateNote(ctx context.Context, note *model.Note) error {
	if m.createNoteFn != nil {
		return m.createNoteFn(ctx, note)
	}
	return nil
}

func (m *mockNoteRepo) GetNote(ctx context.Context, noteID string) (*model.Note, error) {
	if m.getNoteFn != nil {
		return m.getNoteFn(ctx, noteID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNoteRepo) UpdateNote(ctx context.Context, note *model.Note) error {
	if m.updateNoteFn != nil {
		return m.updateNoteFn(ctx, note)
	}
	return nil
}

func (m *mockNoteRepo) DeleteNote(context.Context, string) error { return nil }

func (m *mockNoteRepo) GetNotesByIds(context.Context, []string) ([]*model.Note, error) {
	return nil, nil
}
func (m *mockNoteRepo) CreateNotes(context.Context, []*model.Note) error { return nil }
func (m *mockNoteRepo) UpdateNotes(context.Context, []*model.Note) error { return nil }
func (m *mockNoteRepo) DeleteNotes(context.Context, []string) error      { return nil }

func (m *mockNoteRepo) GetNotesByAuthor(context.Context, string, int, int) ([]*model.Note, error) {
	return nil, nil
}
func (m *mockNoteRepo) CountNotesByAuthor(context.Context, string) (int64, error) { return 0, nil }
func (m *mockNoteRepo) GetUserTimeline(context.Context, string, int, int) ([]*model.Note, error) {
	return nil, nil
}

func (m *mockNoteRepo) GetTimelineForUsers(context.Context, []string, int, int) ([]*model.Note, error) {
	return nil, nil
}
func (m *mockNoteRepo) GetPublicNotes(context.Context, int, int) ([]*model.Note, error) {
	return nil, nil
}
func (m *mockNoteRepo) GetTrendingNotes(context.Context, int, int) ([]*model.Note, error) {
	return nil, nil
}
func (m *mockNoteRepo) GetRecentNotes(context.Context, int, int) ([]*model.Note, error) {
	return nil, nil
}

func (m *mockNoteRepo) GetLikedByUser(context.Context, string, int, int) ([]*model.Note, error) {
	return nil, nil
}
func (m *mockNoteRepo) GetRenotedByUser(context.Context, string, int, int) ([]*model.Note, error) {
	return nil, nil
}
func (m *mockNoteRepo) GetBookmarkedByUser(context.Context, string, int, int) ([]*model.Note, error) {
	return nil, nil
}

func (m *mockNoteRepo) UpsertInteraction(ctx context.Context, noteID, userID, interactionType string) error {
	if m.upsertInteractionFn != nil {
		return m.upsertInteractionFn(ctx, noteID, userID, interactionType)
	}
	return nil
}

func (m *mockNoteRepo) RemoveInteraction(ctx context.Context, noteID, userID, interactionType string) error {
	if m.removeInteractionFn != nil {
		return m.removeInteractionFn(ctx, noteID, userID, interactionType)
	}
	return nil
}

func (m *mockNoteRepo) ApplyMetricDeltas(context.Context, string, map[string]int64) error {
	return nil
}

func (m *mockNoteRepo) GetReplies(context.Context, string, int, int) ([]*model.Note, error) {
	return nil, nil
}
func (m *mockNoteRepo) GetQuotes(context.Context, string, int, int) ([]*model.Note, error) {
	return nil, nil
}
func (m *mockNoteRepo) GetRenotes(context.Context, string, int, int) ([]*model.Note, error) {
	return nil, nil
}

func (m *mockNoteRepo) GetThreadNotes(ctx context.Context, threadID string) ([]*model.Note, error) {
	if m.getThreadNotesFn != nil {
		return m.getThreadNotesFn(ctx, threadID)
	}
	return nil, nil
}

func (m *mockNoteRepo) SearchNotes(ctx context.Context, query string, limit, offset int) ([]*model.Note, error) {
	if m.searchNotesFn != nil {
		return m.searchNotesFn(ctx, query, limit, offset)
	}
	return nil, nil
}

func (m *mockNoteRepo) SearchByContent(context.Context, string, int, int) ([]*model.Note, error) {
	return nil, nil
}
func (m *mockNoteRepo) GetByHashtag(context.Context, string, int, int) ([]*model.Note, error) {
	return nil, nil
}
func (m *mockNoteRepo) GetByMention(context.Context, string, int, int) ([]*model.Note, error) {
	return nil, nil
}

func (m *mockNoteRepo) GetDrafts(context.Context, string, int) ([]*model.Note, error) {
	return nil, nil
}
func (m *mockNoteRepo) GetScheduledNotes(context.Context, string, int) ([]*model.Note, error) {
	return nil, nil
}

func (m *mockNoteRepo) GetDueScheduledNotes(ctx context.Context, now int64, limit int) ([]*model.Note, error) {
	if m.getDueScheduledFn != nil {
		return m.getDueScheduledFn(ctx, now, limit)
	}
	return nil, nil
}

func (m *mockNoteRepo) GetFlaggedNotes(context.Context, int, int) ([]*model.Note, error) {
	return nil, nil
}
func (m *mockNoteRepo) GetDeletedNotes(context.Context, string, int) ([]*model.Note, error) {
	return nil, nil
}

func (m *mockNoteRepo) GetTotalNotesCount(context.Context) (int64, error)         { return 0, nil }
func (m *mockNoteRepo) GetNotesCountByTimeframe(context.Context, int) (int64, error) { return 0, nil }
func (m *mockNoteRepo) GetTopHashtags(context.Context, int, int) ([]repository.HashtagCount, error) {
	return nil, nil
}
func (m *mockNoteRepo) GetTrendingTopics(context.Context, int, int) ([]repository.HashtagCount, error) {
	return nil, nil
}

func (m *mockNoteRepo) CleanupDeletedNotes(context.Context, int) (int64, error) { return 0, nil }
func (m *mockNoteRepo) CleanupOldDrafts(context.Context, int) (int64, error)    { return 0, nil }
func (m *mockNoteRepo) OptimizeDatabase(context.Context) error                  { return nil }
func (m *mockNoteRepo) RebuildIndexes(context.Context) error                    { return nil }

type mockThreadRepo struct {
	createThreadFn      func(ctx context.Context, thread *model.Thread) error
	getThreadFn         func(ctx context.Context, threadID string) (*model.Thread, error)
	updateThreadFn      func(ctx context.Context, thread *model.Thread) error
	deleteThreadFn      func(ctx context.Context, threadID string) error
	recordViewFn        func(ctx context.Context, threadID, userID string, viewedAt int64) error
	upsertParticipantFn func(ctx context.Context, threadID string, p model.ThreadParticipant) error
}

var _ repository.ThreadRepo = (*mockThreadRepo)(nil)

func (m *mockThreadRepo) CreateThread(ctx context.Context, thread *model.Thread) error {
	if m.createThreadFn != nil {
		return m.createThreadFn(ctx, thread)
	}
	return nil
}

func (m *mockThreadRepo) GetThreadByID(ctx context.Context, threadID string) (*model.Thread, error) {
	if m.getThreadFn != nil {
		return m.getThreadFn(ctx, threadID)
	}
	return nil, nil
}

func (m *mockThreadRepo) UpdateThread(ctx context.Context, thread *model.Thread) error {
	if m.updateThreadFn != nil {
		return m.updateThreadFn(ctx, thread)
	}
	return nil
}

func (m *mockThreadRepo) DeleteThread(ctx context.Context, threadID string) error {
	if m.deleteThreadFn != nil {
		return m.deleteThreadFn(ctx, threadID)
	}
	return nil
}

func (m *mockThreadRepo) GetThreadsByAuthor(context.Context, string, int) ([]*model.Thread, error) {
	return nil, nil
}
func (m *mockThreadRepo) GetThreadsByTag(context.Context, string, int) ([]*model.Thread, error) {
	return nil, nil
}

func (m *mockThreadRepo) RecordThreadView(ctx context.Context, threadID, userID string, viewedAt int64) error {
	if m.recordViewFn != nil {
		return m.recordViewFn(ctx, threadID, userID, viewedAt)
	}
	return nil
}

func (m *mockThreadRepo) CountThreadViewers(context.Context, string) (int, error) { return 0, nil }

func (m *mockThreadRepo) UpsertParticipant(ctx context.Context, threadID string, p model.ThreadParticipant) error {
	if m.upsertParticipantFn != nil {
		return m.upsertParticipantFn(ctx, threadID, p)
	}
	return nil
}

func (m *mockThreadRepo) GetThreadParticipants(context.Context, string) ([]model.ThreadParticipant, error) {
	return nil, nil
}

func (m *mockThreadRepo) GetThreadStatistics(context.Context, string) (*model.ThreadStatistics, error) {
	return nil, nil
}

type mockAttachmentRepo struct {
	createFn  func(ctx context.Context, attachment *model.Attachment) error
	getFn     func(ctx context.Context, attachmentID string) (*model.Attachment, error)
	getByIdsFn func(ctx context.Context, ids []string) ([]*model.Attachment, error)
	updateFn  func(ctx context.Context, attachment *model.Attachment) error
}

var _ repository.AttachmentRepo = (*mockAttachmentRepo)(nil)

func (m *mockAttachmentRepo) CreateAttachment(ctx context.Context, attachment *model.Attachment) error {
	if m.createFn != nil {
		return m.createFn(ctx, attachment)
	}
	return nil
}

func (m *mockAttachmentRepo) GetAttachment(ctx context.Context, attachmentID string) (*model.Attachment, error) {
	if m.getFn != nil {
		return m.getFn(ctx, attachmentID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttachmentRepo) GetAttachmentsByIds(ctx context.Context, ids []string) ([]*model.Attachment, error) {
	if m.getByIdsFn != nil {
		return m.getByIdsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockAttachmentRepo) UpdateAttachment(ctx context.Context, attachment *model.Attachment) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, attachment)
	}
	return nil
}

func (m *mockAttachmentRepo) DeleteAttachment(context.Context, string) error { return nil }

func (m *mockAttachmentRepo) GetByUploader(context.Context, string, int, int) ([]*model.Attachment, error) {
	return nil, nil
}
func (m *mockAttachmentRepo) GetByNote(context.Context, string) ([]*model.Attachment, error) {
	return nil, nil
}
func (m *mockAttachmentRepo) GetPendingProcessing(context.Context, int) ([]*model.Attachment, error) {
	return nil, nil
}
func (m *mockAttachmentRepo) CleanupOrphans(context.Context, int) ([]string, error) { return nil, nil }
func (m *mockAttachmentRepo) CleanupExpired(context.Context) ([]string, error)      { return nil, nil }
