package handler

import (
	"context"

	"notehub/internal/api/dto"
	"notehub/internal/pkg/response"
	"notehub/internal/pkg/util"
	"notehub/internal/service"

	"github.com/gin-gonic/gin"
)

type ThreadHandler struct {
	threadSvc service.ThreadService
}

func NewThreadHandler(threadSvc service.ThreadService) *ThreadHandler {
	return &ThreadHandler{
		threadSvc: threadSvc,
	}
}

func (s *ThreadHandler) CreateThread(c *gin.Context) {
	var createDTO dto.CreateThreadDTO
	if err := c.ShouldBindJSON(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&createDTO); err != nil {
		response.Error(c, err)
		return
	}

	thread, err := s.threadSvc.CreateThread(c.Request.Context(), &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, thread)
}

func (s *ThreadHandler) GetThread(c *gin.Context) {
	threadID := c.Param("thread_id")
	viewerID := c.Query("viewer_id")

	thread, err := s.threadSvc.GetThread(c.Request.Context(), threadID, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, thread)
}

func (s *ThreadHandler) GetThreadNotes(c *gin.Context) {
	threadID := c.Param("thread_id")
	viewerID := c.Query("viewer_id")

	notes, err := s.threadSvc.GetThreadNotes(c.Request.Context(), threadID, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *ThreadHandler) DeleteThread(c *gin.Context) {
	threadID := c.Param("thread_id")
	userID := c.Query("user_id")

	if err := s.threadSvc.DeleteThread(c.Request.Context(), threadID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ThreadHandler) AppendNote(c *gin.Context) {
	threadID := c.Param("thread_id")

	var appendDTO dto.AppendThreadNoteDTO
	if err := c.ShouldBindJSON(&appendDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&appendDTO); err != nil {
		response.Error(c, err)
		return
	}

	note, err := s.threadSvc.AppendNote(c.Request.Context(), threadID, &appendDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, note)
}

func (s *ThreadHandler) RemoveNote(c *gin.Context) {
	threadID := c.Param("thread_id")
	noteID := c.Param("note_id")
	userID := c.Query("user_id")

	if err := s.threadSvc.RemoveNote(c.Request.Context(), threadID, noteID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ThreadHandler) ReorderNote(c *gin.Context) {
	threadID := c.Param("thread_id")

	var reorderDTO dto.ReorderThreadNoteDTO
	if err := c.ShouldBindJSON(&reorderDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.threadSvc.ReorderNote(c.Request.Context(), threadID, &reorderDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ThreadHandler) LockThread(c *gin.Context) {
	s.moderate(c, s.threadSvc.LockThread)
}

func (s *ThreadHandler) UnlockThread(c *gin.Context) {
	s.moderate(c, s.threadSvc.UnlockThread)
}

func (s *ThreadHandler) PinThread(c *gin.Context) {
	s.moderate(c, s.threadSvc.PinThread)
}

func (s *ThreadHandler) UnpinThread(c *gin.Context) {
	s.moderate(c, s.threadSvc.UnpinThread)
}

func (s *ThreadHandler) CompleteThread(c *gin.Context) {
	s.moderate(c, s.threadSvc.CompleteThread)
}

func (s *ThreadHandler) ReopenThread(c *gin.Context) {
	s.moderate(c, s.threadSvc.ReopenThread)
}

func (s *ThreadHandler) AddModerator(c *gin.Context) {
	s.moderateTarget(c, s.threadSvc.AddModerator)
}

func (s *ThreadHandler) RemoveModerator(c *gin.Context) {
	s.moderateTarget(c, s.threadSvc.RemoveModerator)
}

func (s *ThreadHandler) BlockUser(c *gin.Context) {
	s.moderateTarget(c, s.threadSvc.BlockUser)
}

func (s *ThreadHandler) UnblockUser(c *gin.Context) {
	s.moderateTarget(c, s.threadSvc.UnblockUser)
}

func (s *ThreadHandler) RecordView(c *gin.Context) {
	threadID := c.Param("thread_id")

	var viewDTO dto.ThreadViewDTO
	if err := c.ShouldBindJSON(&viewDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.threadSvc.RecordView(c.Request.Context(), threadID, &viewDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ThreadHandler) GetThreadsByAuthor(c *gin.Context) {
	authorID := c.Param("author_id")
	limit, _ := pageParams(c)

	threads, err := s.threadSvc.GetThreadsByAuthor(c.Request.Context(), authorID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, threads)
}

func (s *ThreadHandler) GetThreadsByTag(c *gin.Context) {
	tag := c.Param("tag")
	limit, _ := pageParams(c)

	threads, err := s.threadSvc.GetThreadsByTag(c.Request.Context(), tag, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, threads)
}

func (s *ThreadHandler) GetStatistics(c *gin.Context) {
	threadID := c.Param("thread_id")

	stats, err := s.threadSvc.GetStatistics(c.Request.Context(), threadID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

type moderateFn func(ctx context.Context, threadID, userID string) error

func (s *ThreadHandler) moderate(c *gin.Context, fn moderateFn) {
	threadID := c.Param("thread_id")
	userID := c.Query("user_id")

	if err := fn(c.Request.Context(), threadID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

type moderateTargetFn func(ctx context.Context, threadID string, modDTO *dto.ThreadModerationDTO) error

func (s *ThreadHandler) moderateTarget(c *gin.Context, fn moderateTargetFn) {
	threadID := c.Param("thread_id")

	var modDTO dto.ThreadModerationDTO
	if err := c.ShouldBindJSON(&modDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := fn(c.Request.Context(), threadID, &modDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
