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

	"github.com/gocql/gocql"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

type ThreadService interface {
	CreateThread(ctx context.Context, createDTO *dto.CreateThreadDTO) (*dto.ThreadDTO, error)
	GetThread(ctx context.Context, threadID, viewerID string) (*dto.ThreadDTO, error)
	GetThreadNotes(ctx context.Context, threadID, viewerID string) ([]*dto.NoteDTO, error)
	DeleteThread(ctx context.Context, threadID, userID string) error

	AppendNote(ctx context.Context, threadID string, appendDTO *dto.AppendThreadNoteDTO) (*dto.NoteDTO, error)
	RemoveNote(ctx context.Context, threadID, noteID, userID string) error
	ReorderNote(ctx context.Context, threadID string, reorderDTO *dto.ReorderThreadNoteDTO) error

	LockThread(ctx context.Context, threadID, userID string) error
	UnlockThread(ctx context.Context, threadID, userID string) error
	PinThread(ctx context.Context, threadID, userID string) error
	UnpinThread(ctx context.Context, threadID, userID string) error
	CompleteThread(ctx context.Context, threadID, userID string) error
	ReopenThread(ctx context.Context, threadID, userID string) error

	AddModerator(ctx context.Context, threadID string, modDTO *dto.ThreadModerationDTO) error
	RemoveModerator(ctx context.Context, threadID string, modDTO *dto.ThreadModerationDTO) error
	BlockUser(ctx context.Context, threadID string, modDTO *dto.ThreadModerationDTO) error
	UnblockUser(ctx context.Context, threadID string, modDTO *dto.ThreadModerationDTO) error

	RecordView(ctx context.Context, threadID string, viewDTO *dto.ThreadViewDTO) error
	GetThreadsByAuthor(ctx context.Context, authorID string, limit int) ([]*dto.ThreadDTO, error)
	GetThreadsByTag(ctx context.Context, tag string, limit int) ([]*dto.ThreadDTO, error)
	GetStatistics(ctx context.Context, threadID string) (*model.ThreadStatistics, error)
}

type ThreadServiceImpl struct {
	threadRepo repository.ThreadRepo
	noteRepo   repository.NoteRepo
	idGen      util.IDGenerator
}

func NewThreadService(threadRepo repository.ThreadRepo, noteRepo repository.NoteRepo, idGen util.IDGenerator) ThreadService {
	return &ThreadServiceImpl{
		threadRepo: threadRepo,
		noteRepo:   noteRepo,
		idGen:      idGen,
	}
}

// CreateThread 起始笔记与串一起创建, 起始笔记固定在位置 0
func (s *ThreadServiceImpl) CreateThread(ctx context.Context, createDTO *dto.CreateThreadDTO) (*dto.ThreadDTO, error) {
	note := model.NewNote(createDTO.AuthorID, createDTO.Content, model.NoteThreaded)
	note.NoteID = s.idGen.NewNoteID()
	note.AuthorUsername = createDTO.AuthorUsername
	if errs := note.Validate(); len(errs) > 0 {
		return nil, ErrNoteInvalid
	}

	thread := model.NewThread(s.idGen.NewThreadID(), note.NoteID, createDTO.AuthorID, createDTO.Title)
	thread.AuthorUsername = createDTO.AuthorUsername
	thread.Description = createDTO.Description
	thread.Tags = createDTO.Tags
	if errs := thread.Validate(); len(errs) > 0 {
		log.Info("串校验失败", "author_id", createDTO.AuthorID, "errors", errs)
		return nil, ErrParamInvalid
	}
	note.SetThreadInfo(thread.ThreadID, 0)

	if err := s.noteRepo.CreateNote(ctx, note); err != nil {
		log.Error("写入起始笔记失败", "note_id", note.NoteID, "err", err)
		return nil, UnExpectedError
	}
	if err := s.threadRepo.CreateThread(ctx, thread); err != nil {
		if errors.Is(err, repository.ErrThreadAlreadyExists) {
			return nil, ErrThreadExist
		}
		log.Error("写入串失败", "thread_id", thread.ThreadID, "err", err)
		return nil, UnExpectedError
	}

	// 位置计数器从 0 起步, 追加时先自增再用
	if _, err := redis.SetNXInt64(ctx, consts.ThreadPositionKey+thread.ThreadID, 0); err != nil {
		log.Warn("初始化位置计数器失败", "thread_id", thread.ThreadID, "err", err)
	}
	s.upsertParticipant(ctx, thread, createDTO.AuthorID, createDTO.AuthorUsername)
	return toThreadDTO(thread), nil
}

func (s *ThreadServiceImpl) GetThread(ctx context.Context, threadID, viewerID string) (*dto.ThreadDTO, error) {
	thread, err := s.loadThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !thread.CanUserView(viewerID) {
		return nil, UnauthorizedError
	}
	return toThreadDTO(thread), nil
}

func (s *ThreadServiceImpl) GetThreadNotes(ctx context.Context, threadID, viewerID string) ([]*dto.NoteDTO, error) {
	thread, err := s.loadThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !thread.CanUserView(viewerID) {
		return nil, UnauthorizedError
	}
	notes, err := s.noteRepo.GetThreadNotes(ctx, threadID)
	if err != nil {
		log.Error("查询串内笔记失败", "thread_id", threadID, "err", err)
		return nil, UnExpectedError
	}
	out := make([]*dto.NoteDTO, 0, len(notes))
	for _, note := range notes {
		out = append(out, toNoteDTO(note))
	}
	return out, nil
}

// DeleteThread 删除串本身, 串内笔记保留并脱离串
func (s *ThreadServiceImpl) DeleteThread(ctx context.Context, threadID, userID string) error {
	thread, err := s.loadThread(ctx, threadID)
	if err != nil {
		return err
	}
	if thread.AuthorID != userID {
		return UnauthorizedError
	}
	if err = s.threadRepo.DeleteThread(ctx, threadID); err != nil {
		log.Error("删除串失败", "thread_id", threadID, "err", err)
		return UnExpectedError
	}
	_ = redis.DeleteKey(ctx, consts.ThreadPositionKey+threadID)
	_ = redis.DeleteKey(ctx, consts.ThreadViewedKey+threadID)
	return nil
}

// AppendNote 追加一条新笔记; 省略位置时由 redis 计数器分配,
// 并发追加也能拿到单调递增的位置
func (s *ThreadServiceImpl) AppendNote(ctx context.Context, threadID string, appendDTO *dto.AppendThreadNoteDTO) (*dto.NoteDTO, error) {
	thread, err := s.loadThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread.IsLocked {
		return nil, ErrThreadLocked
	}
	if thread.IsUserBlocked(appendDTO.AuthorID) {
		return nil, ErrUserBlocked
	}
	if !thread.CanUserAddNote(appendDTO.AuthorID) {
		return nil, UnauthorizedError
	}

	note := model.NewNote(appendDTO.AuthorID, appendDTO.Content, model.NoteThreaded)
	note.NoteID = s.idGen.NewNoteID()
	if errs := note.Validate(); len(errs) > 0 {
		return nil, ErrNoteInvalid
	}

	position := -1
	if appendDTO.Position != nil {
		position = *appendDTO.Position
	}
	if !thread.AddNote(note.NoteID, position) {
		return nil, ErrThreadNoteDuplicate
	}
	if position == -1 {
		if allocated, err := redis.Incr(ctx, consts.ThreadPositionKey+threadID); err == nil {
			note.SetThreadInfo(threadID, int(allocated))
		} else {
			note.SetThreadInfo(threadID, thread.GetNotePosition(note.NoteID))
		}
	} else {
		note.SetThreadInfo(threadID, thread.GetNotePosition(note.NoteID))
	}

	if err = s.noteRepo.CreateNote(ctx, note); err != nil {
		log.Error("写入串内笔记失败", "note_id", note.NoteID, "err", err)
		return nil, UnExpectedError
	}
	if err = s.threadRepo.UpdateThread(ctx, thread); err != nil {
		log.Error("更新串失败", "thread_id", threadID, "err", err)
		return nil, UnExpectedError
	}
	s.upsertParticipant(ctx, thread, appendDTO.AuthorID, note.AuthorUsername)
	return toNoteDTO(note), nil
}

// RemoveNote 起始笔记不可移除, 笔记本身保留并脱离串
func (s *ThreadServiceImpl) RemoveNote(ctx context.Context, threadID, noteID, userID string) error {
	thread, err := s.loadThread(ctx, threadID)
	if err != nil {
		return err
	}
	if !thread.CanUserModerate(userID) {
		return UnauthorizedError
	}
	if thread.IsLocked {
		return ErrThreadLocked
	}
	if noteID == thread.StarterNoteID {
		return ErrStarterImmovable
	}
	if !thread.RemoveNote(noteID) {
		return ErrNoteNotFound
	}
	if err = s.threadRepo.UpdateThread(ctx, thread); err != nil {
		log.Error("更新串失败", "thread_id", threadID, "err", err)
		return UnExpectedError
	}
	return nil
}

func (s *ThreadServiceImpl) ReorderNote(ctx context.Context, threadID string, reorderDTO *dto.ReorderThreadNoteDTO) error {
	thread, err := s.loadThread(ctx, threadID)
	if err != nil {
		return err
	}
	if !thread.CanUserModerate(reorderDTO.UserID) {
		return UnauthorizedError
	}
	if thread.IsLocked {
		return ErrThreadLocked
	}
	if reorderDTO.NoteID == thread.StarterNoteID && reorderDTO.NewPosition != 0 {
		return ErrStarterImmovable
	}
	if !thread.ReorderNote(reorderDTO.NoteID, reorderDTO.NewPosition) {
		return ErrParamInvalid
	}
	if err = s.threadRepo.UpdateThread(ctx, thread); err != nil {
		log.Error("更新串失败", "thread_id", threadID, "err", err)
		return UnExpectedError
	}
	return nil
}

func (s *ThreadServiceImpl) LockThread(ctx context.Context, threadID, userID string) error {
	return s.moderateThread(ctx, threadID, userID, func(t *model.Thread) { t.Lock() })
}

func (s *ThreadServiceImpl) UnlockThread(ctx context.Context, threadID, userID string) error {
	return s.moderateThread(ctx, threadID, userID, func(t *model.Thread) { t.Unlock() })
}

func (s *ThreadServiceImpl) PinThread(ctx context.Context, threadID, userID string) error {
	return s.moderateThread(ctx, threadID, userID, func(t *model.Thread) { t.Pin() })
}

func (s *ThreadServiceImpl) UnpinThread(ctx context.Context, threadID, userID string) error {
	return s.moderateThread(ctx, threadID, userID, func(t *model.Thread) { t.Unpin() })
}

func (s *ThreadServiceImpl) CompleteThread(ctx context.Context, threadID, userID string) error {
	return s.moderateThread(ctx, threadID, userID, func(t *model.Thread) { t.Complete() })
}

func (s *ThreadServiceImpl) ReopenThread(ctx context.Context, threadID, userID string) error {
	return s.moderateThread(ctx, threadID, userID, func(t *model.Thread) { t.Reopen() })
}

func (s *ThreadServiceImpl) moderateThread(ctx context.Context, threadID, userID string, apply func(*model.Thread)) error {
	thread, err := s.loadThread(ctx, threadID)
	if err != nil {
		return err
	}
	if !thread.CanUserModerate(userID) {
		return UnauthorizedError
	}
	apply(thread)
	if err = s.threadRepo.UpdateThread(ctx, thread); err != nil {
		log.Error("更新串失败", "thread_id", threadID, "err", err)
		return UnExpectedError
	}
	return nil
}

func (s *ThreadServiceImpl) AddModerator(ctx context.Context, threadID string, modDTO *dto.ThreadModerationDTO) error {
	return s.moderateThread(ctx, threadID, modDTO.UserID, func(t *model.Thread) { t.AddModerator(modDTO.TargetUserID) })
}

func (s *ThreadServiceImpl) RemoveModerator(ctx context.Context, threadID string, modDTO *dto.ThreadModerationDTO) error {
	return s.moderateThread(ctx, threadID, modDTO.UserID, func(t *model.Thread) { t.RemoveModerator(modDTO.TargetUserID) })
}

// BlockUser 作者不可被拉黑, 模型层直接忽略该请求
func (s *ThreadServiceImpl) BlockUser(ctx context.Context, threadID string, modDTO *dto.ThreadModerationDTO) error {
	return s.moderateThread(ctx, threadID, modDTO.UserID, func(t *model.Thread) { t.BlockUser(modDTO.TargetUserID) })
}

func (s *ThreadServiceImpl) UnblockUser(ctx context.Context, threadID string, modDTO *dto.ThreadModerationDTO) error {
	return s.moderateThread(ctx, threadID, modDTO.UserID, func(t *model.Thread) { t.UnblockUser(modDTO.TargetUserID) })
}

// RecordView 同一用户只计一次浏览, 去重走 redis 集合
func (s *ThreadServiceImpl) RecordView(ctx context.Context, threadID string, viewDTO *dto.ThreadViewDTO) error {
	thread, err := s.loadThread(ctx, threadID)
	if err != nil {
		return err
	}
	if !thread.CanUserView(viewDTO.UserID) {
		return UnauthorizedError
	}

	newViewer, err := redis.SAdd(ctx, consts.ThreadViewedKey+threadID, viewDTO.UserID)
	if err != nil {
		log.Warn("浏览去重失败", "thread_id", threadID, "err", err)
		newViewer = true
	}
	if !newViewer {
		return nil
	}

	if err = s.threadRepo.RecordThreadView(ctx, threadID, viewDTO.UserID, time.Now().Unix()); err != nil {
		log.Warn("记录浏览明细失败", "thread_id", threadID, "err", err)
	}
	thread.RecordView(viewDTO.UserID)
	if err = s.threadRepo.UpdateThread(ctx, thread); err != nil {
		log.Error("更新串浏览计数失败", "thread_id", threadID, "err", err)
		return UnExpectedError
	}
	return nil
}

func (s *ThreadServiceImpl) GetThreadsByAuthor(ctx context.Context, authorID string, limit int) ([]*dto.ThreadDTO, error) {
	return s.listThreads(s.threadRepo.GetThreadsByAuthor(ctx, authorID, limit))
}

func (s *ThreadServiceImpl) GetThreadsByTag(ctx context.Context, tag string, limit int) ([]*dto.ThreadDTO, error) {
	return s.listThreads(s.threadRepo.GetThreadsByTag(ctx, tag, limit))
}

func (s *ThreadServiceImpl) GetStatistics(ctx context.Context, threadID string) (*model.ThreadStatistics, error) {
	stats, err := s.threadRepo.GetThreadStatistics(ctx, threadID)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, ErrThreadNotFound
		}
		log.Error("查询串统计失败", "thread_id", threadID, "err", err)
		return nil, UnExpectedError
	}
	return stats, nil
}

func (s *ThreadServiceImpl) upsertParticipant(ctx context.Context, thread *model.Thread, userID, username string) {
	now := time.Now().Unix()
	participant := model.ThreadParticipant{
		UserID:             userID,
		Username:           username,
		NotesContributed:   1,
		FirstParticipation: now,
		LastParticipation:  now,
		IsModerator:        thread.CanUserModerate(userID),
	}
	if err := s.threadRepo.UpsertParticipant(ctx, thread.ThreadID, participant); err != nil {
		log.Warn("记录参与者失败", "thread_id", thread.ThreadID, "user_id", userID, "err", err)
	}
}

func (s *ThreadServiceImpl) listThreads(threads []*model.Thread, err error) ([]*dto.ThreadDTO, error) {
	if err != nil {
		log.Error("查询串列表失败", "err", err)
		return nil, UnExpectedError
	}
	out := make([]*dto.ThreadDTO, 0, len(threads))
	for _, thread := range threads {
		out = append(out, toThreadDTO(thread))
	}
	return out, nil
}

func (s *ThreadServiceImpl) loadThread(ctx context.Context, threadID string) (*model.Thread, error) {
	thread, err := s.threadRepo.GetThreadByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, ErrThreadNotFound
		}
		log.Error("查询串失败", "thread_id", threadID, "err", err)
		return nil, UnExpectedError
	}
	return thread, nil
}

func toThreadDTO(thread *model.Thread) *dto.ThreadDTO {
	var threadDTO dto.ThreadDTO
	_ = copier.Copy(&threadDTO, thread)
	threadDTO.IsCompleted = thread.IsCompleted()
	return &threadDTO
}
