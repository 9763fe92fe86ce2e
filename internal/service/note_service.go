package service

import (
	"context"
	log "log/slog"
	"time"

	"notehub/internal/api/dto"
	"notehub/internal/model"
	"notehub/internal/pkg/consts"
	"notehub/internal/pkg/redis"
	"notehub/internal/pkg/util"
	"notehub/internal/repository"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type NoteService interface {
	CreateNote(ctx context.Context, createDTO *dto.CreateNoteDTO) (*dto.NoteDTO, error)
	GetNote(ctx context.Context, noteID, viewerID string) (*dto.NoteDTO, error)
	UpdateNoteContent(ctx context.Context, noteID string, updateDTO *dto.UpdateNoteDTO) (*dto.NoteDTO, error)
	DeleteNote(ctx context.Context, noteID, userID string) error
	RestoreNote(ctx context.Context, noteID, userID string) (*dto.NoteDTO, error)
	FlagNote(ctx context.Context, noteID string) error
	HideNote(ctx context.Context, noteID string) error

	ActOnNote(ctx context.Context, noteID string, actionDTO *dto.NoteActionDTO) error
	UndoNoteAction(ctx context.Context, noteID string, actionDTO *dto.NoteActionDTO) error

	GetNotesByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*dto.NoteDTO, error)
	GetPublicTimeline(ctx context.Context, limit, offset int) ([]*dto.NoteDTO, error)
	GetTrendingNotes(ctx context.Context, hoursBack, limit int) ([]*dto.NoteDTO, error)
	GetReplies(ctx context.Context, noteID string, limit, offset int) ([]*dto.NoteDTO, error)
	GetQuotes(ctx context.Context, noteID string, limit, offset int) ([]*dto.NoteDTO, error)
	GetRenotes(ctx context.Context, noteID string, limit, offset int) ([]*dto.NoteDTO, error)

	SearchNotes(ctx context.Context, searchDTO *dto.SearchNoteDTO) ([]*dto.NoteDTO, error)
	GetNotesByHashtag(ctx context.Context, hashtag string, limit, offset int) ([]*dto.NoteDTO, error)
	GetTopHashtags(ctx context.Context, limit, hoursBack int) ([]*dto.HashtagCountDTO, error)
	GetTrendingTopics(ctx context.Context, limit int) ([]*dto.HashtagCountDTO, error)

	GetDrafts(ctx context.Context, userID string, limit int) ([]*dto.NoteDTO, error)
	GetScheduledNotes(ctx context.Context, userID string, limit int) ([]*dto.NoteDTO, error)
	ScheduleNote(ctx context.Context, noteID string, scheduleDTO *dto.ScheduleNoteDTO) error
	PublishDueScheduled(ctx context.Context) (int, error)

	FlushEngagement(ctx context.Context) (int, error)
}

type NoteServiceImpl struct {
	noteRepo repository.NoteRepo
	idGen    util.IDGenerator
}

func NewNoteService(noteRepo repository.NoteRepo, idGen util.IDGenerator) NoteService {
	return &NoteServiceImpl{
		noteRepo: noteRepo,
		idGen:    idGen,
	}
}

// CreateNote 内容先走处理管线再校验, 校验不过整体拒绝
func (s *NoteServiceImpl) CreateNote(ctx context.Context, createDTO *dto.CreateNoteDTO) (*dto.NoteDTO, error) {
	noteType := model.NoteOriginal
	if createDTO.Type != nil {
		noteType = model.NoteType(*createDTO.Type)
	}
	note := model.NewNote(createDTO.AuthorID, createDTO.Content, noteType)
	note.NoteID = s.idGen.NewNoteID()
	note.AuthorUsername = createDTO.AuthorUsername
	note.ClientName = createDTO.ClientName
	note.ClientVersion = createDTO.ClientVersion

	if createDTO.Visibility != nil {
		note.Visibility = model.NoteVisibility(*createDTO.Visibility)
	}
	if createDTO.ContentWarning != nil {
		note.SetContentWarning(model.ContentWarning(*createDTO.ContentWarning))
	}
	if len(createDTO.AttachmentIDs) > model.MaxNoteAttachment {
		return nil, ErrAttachmentLimit
	}
	for _, attachmentID := range createDTO.AttachmentIDs {
		note.AddAttachmentID(attachmentID)
	}

	if err := s.applyTargets(ctx, note, createDTO); err != nil {
		return nil, err
	}
	if createDTO.Latitude != nil && createDTO.Longitude != nil {
		name := ""
		if createDTO.LocationName != nil {
			name = *createDTO.LocationName
		}
		note.SetLocation(*createDTO.Latitude, *createDTO.Longitude, name)
	}

	switch {
	case createDTO.IsDraft:
		note.Status = model.StatusDraft
	case createDTO.ScheduledAt != nil:
		if *createDTO.ScheduledAt <= time.Now().Unix() {
			return nil, ErrScheduleInPast
		}
		note.Schedule(*createDTO.ScheduledAt)
	}

	if errs := note.Validate(); len(errs) > 0 {
		log.Info("笔记校验失败", "author_id", note.AuthorID, "errors", errs)
		return nil, ErrNoteInvalid
	}
	if err := s.noteRepo.CreateNote(ctx, note); err != nil {
		log.Error("写入笔记失败", "note_id", note.NoteID, "err", err)
		return nil, UnExpectedError
	}
	return toNoteDTO(note), nil
}

// applyTargets 回复/转发/引用需要目标存在且目标作者允许该动作
func (s *NoteServiceImpl) applyTargets(ctx context.Context, note *model.Note, createDTO *dto.CreateNoteDTO) error {
	if createDTO.ReplyToID != nil {
		target, err := s.loadNote(ctx, *createDTO.ReplyToID)
		if err != nil {
			return err
		}
		if !target.CanUserReply(note.AuthorID, nil, nil) {
			return ErrReplyNotAllowed
		}
		note.SetReplyTarget(target.NoteID, target.AuthorID)
	}
	if createDTO.RenoteOfID != nil {
		target, err := s.loadNote(ctx, *createDTO.RenoteOfID)
		if err != nil {
			return err
		}
		if !target.CanUserRenote(note.AuthorID, nil, nil) {
			return ErrRenoteNotAllowed
		}
		note.SetRenoteTarget(target.NoteID)
	}
	if createDTO.QuoteOfID != nil {
		target, err := s.loadNote(ctx, *createDTO.QuoteOfID)
		if err != nil {
			return err
		}
		if !target.CanUserQuote(note.AuthorID, nil, nil) {
			return ErrQuoteNotAllowed
		}
		note.SetQuoteTarget(target.NoteID)
	}
	return nil
}

func (s *NoteServiceImpl) GetNote(ctx context.Context, noteID, viewerID string) (*dto.NoteDTO, error) {
	note, err := s.loadNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if !note.IsVisibleToUser(viewerID, nil, nil) {
		return nil, ErrNoteNotVisible
	}
	return toNoteDTO(note), nil
}

func (s *NoteServiceImpl) UpdateNoteContent(ctx context.Context, noteID string, updateDTO *dto.UpdateNoteDTO) (*dto.NoteDTO, error) {
	note, err := s.loadNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.AuthorID != updateDTO.UserID {
		return nil, UnauthorizedError
	}
	if !note.SetContent(updateDTO.Content) {
		return nil, ErrContentTooLong
	}
	if errs := note.Validate(); len(errs) > 0 {
		return nil, ErrNoteInvalid
	}
	if err = s.noteRepo.UpdateNote(ctx, note); err != nil {
		log.Error("更新笔记失败", "note_id", noteID, "err", err)
		return nil, UnExpectedError
	}
	return toNoteDTO(note), nil
}

// DeleteNote 软删除, 过保留期后由清理任务物理删除
func (s *NoteServiceImpl) DeleteNote(ctx context.Context, noteID, userID string) error {
	note, err := s.loadNote(ctx, noteID)
	if err != nil {
		return err
	}
	if note.AuthorID != userID {
		return UnauthorizedError
	}
	note.SoftDelete()
	if err = s.noteRepo.UpdateNote(ctx, note); err != nil {
		log.Error("删除笔记失败", "note_id", noteID, "err", err)
		return UnExpectedError
	}
	return nil
}

func (s *NoteServiceImpl) RestoreNote(ctx context.Context, noteID, userID string) (*dto.NoteDTO, error) {
	note, err := s.loadRawNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.AuthorID != userID {
		return nil, UnauthorizedError
	}
	note.Restore()
	if err = s.noteRepo.UpdateNote(ctx, note); err != nil {
		log.Error("恢复笔记失败", "note_id", noteID, "err", err)
		return nil, UnExpectedError
	}
	return toNoteDTO(note), nil
}

func (s *NoteServiceImpl) FlagNote(ctx context.Context, noteID string) error {
	return s.moderate(ctx, noteID, func(n *model.Note) { n.FlagForReview() })
}

func (s *NoteServiceImpl) HideNote(ctx context.Context, noteID string) error {
	return s.moderate(ctx, noteID, func(n *model.Note) { n.Hide() })
}

func (s *NoteServiceImpl) moderate(ctx context.Context, noteID string, apply func(*model.Note)) error {
	note, err := s.loadNote(ctx, noteID)
	if err != nil {
		return err
	}
	apply(note)
	if err = s.noteRepo.UpdateNote(ctx, note); err != nil {
		log.Error("更新笔记状态失败", "note_id", noteID, "err", err)
		return UnExpectedError
	}
	return nil
}

// ActOnNote 互动计数先进 redis 缓冲, 由定时任务刷库;
// 点赞/转发/收藏同时落互动明细, 保证幂等
func (s *NoteServiceImpl) ActOnNote(ctx context.Context, noteID string, actionDTO *dto.NoteActionDTO) error {
	note, err := s.loadNote(ctx, noteID)
	if err != nil {
		return err
	}
	if !note.IsVisibleToUser(actionDTO.UserID, nil, nil) {
		return ErrNoteNotVisible
	}

	if actionDTO.Action != consts.InteractionView {
		if err = s.noteRepo.UpsertInteraction(ctx, noteID, actionDTO.UserID, actionDTO.Action); err != nil {
			log.Error("记录互动失败", "note_id", noteID, "err", err)
			return UnExpectedError
		}
	}
	s.bufferMetric(ctx, noteID, metricField(actionDTO.Action), 1)
	for _, tag := range note.Hashtags {
		if err = redis.ZIncrBy(ctx, consts.TrendingHashtagKey, 1, tag); err != nil {
			log.Warn("话题热度更新失败", "hashtag", tag, "err", err)
		}
	}
	return nil
}

func (s *NoteServiceImpl) UndoNoteAction(ctx context.Context, noteID string, actionDTO *dto.NoteActionDTO) error {
	if actionDTO.Action == consts.InteractionView {
		return ErrParamInvalid
	}
	if _, err := s.loadNote(ctx, noteID); err != nil {
		return err
	}
	if err := s.noteRepo.RemoveInteraction(ctx, noteID, actionDTO.UserID, actionDTO.Action); err != nil {
		log.Error("取消互动失败", "note_id", noteID, "err", err)
		return UnExpectedError
	}
	s.bufferMetric(ctx, noteID, metricField(actionDTO.Action), -1)
	return nil
}

func (s *NoteServiceImpl) bufferMetric(ctx context.Context, noteID, field string, delta int64) {
	if field == "" {
		return
	}
	if err := redis.HIncrBy(ctx, consts.NoteCounterKey+noteID, field, delta); err != nil {
		log.Warn("计数缓冲写入失败", "note_id", noteID, "field", field, "err", err)
		return
	}
	if _, err := redis.SAdd(ctx, consts.NoteCounterDirtyKey, noteID); err != nil {
		log.Warn("标记脏计数失败", "note_id", noteID, "err", err)
	}
}

func metricField(action string) string {
	switch action {
	case consts.InteractionLike:
		return consts.MetricLike
	case consts.InteractionRenote:
		return consts.MetricRenote
	case consts.InteractionBookmark:
		return consts.MetricBookmark
	case consts.InteractionView:
		return consts.MetricView
	default:
		return ""
	}
}

func (s *NoteServiceImpl) GetNotesByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*dto.NoteDTO, error) {
	return s.listNotes(s.noteRepo.GetNotesByAuthor(ctx, authorID, limit, offset))
}

func (s *NoteServiceImpl) GetPublicTimeline(ctx context.Context, limit, offset int) ([]*dto.NoteDTO, error) {
	return s.listNotes(s.noteRepo.GetPublicNotes(ctx, limit, offset))
}

func (s *NoteServiceImpl) GetTrendingNotes(ctx context.Context, hoursBack, limit int) ([]*dto.NoteDTO, error) {
	return s.listNotes(s.noteRepo.GetTrendingNotes(ctx, hoursBack, limit))
}

func (s *NoteServiceImpl) GetReplies(ctx context.Context, noteID string, limit, offset int) ([]*dto.NoteDTO, error) {
	return s.listNotes(s.noteRepo.GetReplies(ctx, noteID, limit, offset))
}

func (s *NoteServiceImpl) GetQuotes(ctx context.Context, noteID string, limit, offset int) ([]*dto.NoteDTO, error) {
	return s.listNotes(s.noteRepo.GetQuotes(ctx, noteID, limit, offset))
}

func (s *NoteServiceImpl) GetRenotes(ctx context.Context, noteID string, limit, offset int) ([]*dto.NoteDTO, error) {
	return s.listNotes(s.noteRepo.GetRenotes(ctx, noteID, limit, offset))
}

func (s *NoteServiceImpl) SearchNotes(ctx context.Context, searchDTO *dto.SearchNoteDTO) ([]*dto.NoteDTO, error) {
	limit, offset := util.ClampPage(searchDTO.Limit, searchDTO.Offset, consts.DefaultPageSize, consts.MaxPageSize)
	return s.listNotes(s.noteRepo.SearchNotes(ctx, searchDTO.Query, limit, offset))
}

func (s *NoteServiceImpl) GetNotesByHashtag(ctx context.Context, hashtag string, limit, offset int) ([]*dto.NoteDTO, error) {
	return s.listNotes(s.noteRepo.GetByHashtag(ctx, hashtag, limit, offset))
}

func (s *NoteServiceImpl) GetTopHashtags(ctx context.Context, limit, hoursBack int) ([]*dto.HashtagCountDTO, error) {
	rows, err := s.noteRepo.GetTopHashtags(ctx, limit, hoursBack)
	if err != nil {
		log.Error("话题榜查询失败", "err", err)
		return nil, UnExpectedError
	}
	out := make([]*dto.HashtagCountDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, &dto.HashtagCountDTO{Hashtag: row.Hashtag, Count: row.Count})
	}
	return out, nil
}

// GetTrendingTopics 实时热度走 redis 有序集合, 为空时回退数据库聚合
func (s *NoteServiceImpl) GetTrendingTopics(ctx context.Context, limit int) ([]*dto.HashtagCountDTO, error) {
	members, err := redis.ZRevRange(ctx, consts.TrendingHashtagKey, 0, int64(limit-1))
	if err == nil && len(members) > 0 {
		out := make([]*dto.HashtagCountDTO, 0, len(members))
		for i, tag := range members {
			out = append(out, &dto.HashtagCountDTO{Hashtag: tag, Count: limit - i})
		}
		return out, nil
	}

	rows, err := s.noteRepo.GetTrendingTopics(ctx, limit, 24)
	if err != nil {
		log.Error("热门话题查询失败", "err", err)
		return nil, UnExpectedError
	}
	out := make([]*dto.HashtagCountDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, &dto.HashtagCountDTO{Hashtag: row.Hashtag, Count: row.Count})
	}
	return out, nil
}

func (s *NoteServiceImpl) GetDrafts(ctx context.Context, userID string, limit int) ([]*dto.NoteDTO, error) {
	return s.listNotes(s.noteRepo.GetDrafts(ctx, userID, limit))
}

func (s *NoteServiceImpl) GetScheduledNotes(ctx context.Context, userID string, limit int) ([]*dto.NoteDTO, error) {
	return s.listNotes(s.noteRepo.GetScheduledNotes(ctx, userID, limit))
}

func (s *NoteServiceImpl) ScheduleNote(ctx context.Context, noteID string, scheduleDTO *dto.ScheduleNoteDTO) error {
	note, err := s.loadRawNote(ctx, noteID)
	if err != nil {
		return err
	}
	if note.AuthorID != scheduleDTO.UserID {
		return UnauthorizedError
	}
	if scheduleDTO.ScheduledAt <= time.Now().Unix() {
		return ErrScheduleInPast
	}
	note.Schedule(scheduleDTO.ScheduledAt)
	if err = s.noteRepo.UpdateNote(ctx, note); err != nil {
		log.Error("设置定时发布失败", "note_id", noteID, "err", err)
		return UnExpectedError
	}
	return nil
}

// PublishDueScheduled 发布全部到期的定时笔记, 返回发布数量
func (s *NoteServiceImpl) PublishDueScheduled(ctx context.Context) (int, error) {
	notes, err := s.noteRepo.GetDueScheduledNotes(ctx, time.Now().Unix(), 200)
	if err != nil {
		return 0, errors.Wrap(err, "load due scheduled notes")
	}
	published := 0
	for _, note := range notes {
		note.Publish()
		if err = s.noteRepo.UpdateNote(ctx, note); err != nil {
			log.Error("定时发布失败", "note_id", note.NoteID, "err", err)
			continue
		}
		published++
	}
	return published, nil
}

// FlushEngagement 把 redis 缓冲的计数增量批量刷入数据库
func (s *NoteServiceImpl) FlushEngagement(ctx context.Context) (int, error) {
	dirty, err := redis.SMembers(ctx, consts.NoteCounterDirtyKey)
	if err != nil {
		return 0, errors.Wrap(err, "load dirty counter set")
	}
	flushed := 0
	for _, noteID := range dirty {
		key := consts.NoteCounterKey + noteID
		deltas, err := redis.HGetAllInt64(ctx, key)
		if err != nil {
			log.Warn("读取计数缓冲失败", "note_id", noteID, "err", err)
			continue
		}
		if len(deltas) > 0 {
			if err = s.noteRepo.ApplyMetricDeltas(ctx, noteID, deltas); err != nil {
				log.Error("刷新计数失败", "note_id", noteID, "err", err)
				continue
			}
		}
		_ = redis.DeleteKey(ctx, key)
		_ = redis.SRem(ctx, consts.NoteCounterDirtyKey, noteID)
		flushed++
	}
	return flushed, nil
}

func (s *NoteServiceImpl) listNotes(notes []*model.Note, err error) ([]*dto.NoteDTO, error) {
	if err != nil {
		log.Error("查询笔记列表失败", "err", err)
		return nil, UnExpectedError
	}
	out := make([]*dto.NoteDTO, 0, len(notes))
	for _, note := range notes {
		out = append(out, toNoteDTO(note))
	}
	return out, nil
}

// loadNote 只返回未删除的笔记
func (s *NoteServiceImpl) loadNote(ctx context.Context, noteID string) (*model.Note, error) {
	note, err := s.loadRawNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.Status == model.StatusDeleted {
		return nil, ErrNoteDeleted
	}
	return note, nil
}

func (s *NoteServiceImpl) loadRawNote(ctx context.Context, noteID string) (*model.Note, error) {
	note, err := s.noteRepo.GetNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		log.Error("查询笔记失败", "note_id", noteID, "err", err)
		return nil, UnExpectedError
	}
	return note, nil
}

func toNoteDTO(note *model.Note) *dto.NoteDTO {
	var noteDTO dto.NoteDTO
	_ = copier.Copy(&noteDTO, note)
	return &noteDTO
}
