package handler

import (
	"strconv"

	"notehub/internal/api/dto"
	"notehub/internal/pkg/consts"
	"notehub/internal/pkg/response"
	"notehub/internal/pkg/util"
	"notehub/internal/service"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	noteSvc service.NoteService
}

func NewNoteHandler(noteSvc service.NoteService) *NoteHandler {
	return &NoteHandler{
		noteSvc: noteSvc,
	}
}

func (s *NoteHandler) CreateNote(c *gin.Context) {
	var createDTO dto.CreateNoteDTO
	if err := c.ShouldBindJSON(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&createDTO); err != nil {
		response.Error(c, err)
		return
	}

	note, err := s.noteSvc.CreateNote(c.Request.Context(), &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, note)
}

func (s *NoteHandler) GetNote(c *gin.Context) {
	noteID := c.Param("note_id")
	viewerID := c.Query("viewer_id")

	note, err := s.noteSvc.GetNote(c.Request.Context(), noteID, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, note)
}

func (s *NoteHandler) UpdateNote(c *gin.Context) {
	noteID := c.Param("note_id")

	var updateDTO dto.UpdateNoteDTO
	if err := c.ShouldBindJSON(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}

	note, err := s.noteSvc.UpdateNoteContent(c.Request.Context(), noteID, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, note)
}

func (s *NoteHandler) DeleteNote(c *gin.Context) {
	noteID := c.Param("note_id")
	userID := c.Query("user_id")

	if err := s.noteSvc.DeleteNote(c.Request.Context(), noteID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NoteHandler) RestoreNote(c *gin.Context) {
	noteID := c.Param("note_id")
	userID := c.Query("user_id")

	note, err := s.noteSvc.RestoreNote(c.Request.Context(), noteID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, note)
}

func (s *NoteHandler) FlagNote(c *gin.Context) {
	noteID := c.Param("note_id")

	if err := s.noteSvc.FlagNote(c.Request.Context(), noteID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NoteHandler) HideNote(c *gin.Context) {
	noteID := c.Param("note_id")

	if err := s.noteSvc.HideNote(c.Request.Context(), noteID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NoteHandler) ActOnNote(c *gin.Context) {
	noteID := c.Param("note_id")

	var actionDTO dto.NoteActionDTO
	if err := c.ShouldBindJSON(&actionDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&actionDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.noteSvc.ActOnNote(c.Request.Context(), noteID, &actionDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NoteHandler) UndoNoteAction(c *gin.Context) {
	noteID := c.Param("note_id")

	var actionDTO dto.NoteActionDTO
	if err := c.ShouldBindJSON(&actionDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&actionDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.noteSvc.UndoNoteAction(c.Request.Context(), noteID, &actionDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NoteHandler) GetNotesByAuthor(c *gin.Context) {
	authorID := c.Param("author_id")
	limit, offset := pageParams(c)

	notes, err := s.noteSvc.GetNotesByAuthor(c.Request.Context(), authorID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *NoteHandler) GetPublicTimeline(c *gin.Context) {
	limit, offset := pageParams(c)

	notes, err := s.noteSvc.GetPublicTimeline(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *NoteHandler) GetTrendingNotes(c *gin.Context) {
	hoursBack := intQuery(c, "hours", 24)
	limit, _ := pageParams(c)

	notes, err := s.noteSvc.GetTrendingNotes(c.Request.Context(), hoursBack, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *NoteHandler) GetReplies(c *gin.Context) {
	noteID := c.Param("note_id")
	limit, offset := pageParams(c)

	notes, err := s.noteSvc.GetReplies(c.Request.Context(), noteID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *NoteHandler) GetQuotes(c *gin.Context) {
	noteID := c.Param("note_id")
	limit, offset := pageParams(c)

	notes, err := s.noteSvc.GetQuotes(c.Request.Context(), noteID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *NoteHandler) GetRenotes(c *gin.Context) {
	noteID := c.Param("note_id")
	limit, offset := pageParams(c)

	notes, err := s.noteSvc.GetRenotes(c.Request.Context(), noteID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *NoteHandler) SearchNotes(c *gin.Context) {
	var searchDTO dto.SearchNoteDTO
	if err := c.ShouldBindQuery(&searchDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&searchDTO); err != nil {
		response.Error(c, err)
		return
	}

	notes, err := s.noteSvc.SearchNotes(c.Request.Context(), &searchDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *NoteHandler) GetNotesByHashtag(c *gin.Context) {
	hashtag := c.Param("hashtag")
	limit, offset := pageParams(c)

	notes, err := s.noteSvc.GetNotesByHashtag(c.Request.Context(), hashtag, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *NoteHandler) GetTopHashtags(c *gin.Context) {
	limit, _ := pageParams(c)
	hoursBack := intQuery(c, "hours", 24)

	hashtags, err := s.noteSvc.GetTopHashtags(c.Request.Context(), limit, hoursBack)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, hashtags)
}

func (s *NoteHandler) GetTrendingTopics(c *gin.Context) {
	limit, _ := pageParams(c)

	topics, err := s.noteSvc.GetTrendingTopics(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, topics)
}

func (s *NoteHandler) GetDrafts(c *gin.Context) {
	userID := c.Query("user_id")
	limit, _ := pageParams(c)

	notes, err := s.noteSvc.GetDrafts(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *NoteHandler) GetScheduledNotes(c *gin.Context) {
	userID := c.Query("user_id")
	limit, _ := pageParams(c)

	notes, err := s.noteSvc.GetScheduledNotes(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *NoteHandler) ScheduleNote(c *gin.Context) {
	noteID := c.Param("note_id")

	var scheduleDTO dto.ScheduleNoteDTO
	if err := c.ShouldBindJSON(&scheduleDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.noteSvc.ScheduleNote(c.Request.Context(), noteID, &scheduleDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func pageParams(c *gin.Context) (int, int) {
	limit := intQuery(c, "limit", consts.DefaultPageSize)
	offset := intQuery(c, "offset", 0)
	return util.ClampPage(limit, offset, consts.DefaultPageSize, consts.MaxPageSize)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
