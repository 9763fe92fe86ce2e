package handler

import (
	"notehub/internal/api/dto"
	"notehub/internal/pkg/response"
	"notehub/internal/pkg/util"
	"notehub/internal/service"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaSvc service.MediaService
}

func NewMediaHandler(mediaSvc service.MediaService) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
	}
}

// CreateUpload 客户端先申请预签名地址, 自行上传后再回报完成
func (s *MediaHandler) CreateUpload(c *gin.Context) {
	var uploadDTO dto.CreateUploadDTO
	if err := c.ShouldBindJSON(&uploadDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&uploadDTO); err != nil {
		response.Error(c, err)
		return
	}

	ticket, err := s.mediaSvc.CreateUpload(c.Request.Context(), &uploadDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ticket)
}

func (s *MediaHandler) CompleteUpload(c *gin.Context) {
	attachmentID := c.Param("attachment_id")
	uploaderID := c.Query("uploader_id")

	attachment, err := s.mediaSvc.CompleteUpload(c.Request.Context(), attachmentID, uploaderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, attachment)
}

func (s *MediaHandler) CreateTenorGif(c *gin.Context) {
	var gifDTO dto.TenorGifDTO
	if err := c.ShouldBindJSON(&gifDTO); err != nil {
		response.Error(c, err)
		return
	}

	attachment, err := s.mediaSvc.CreateTenorGif(c.Request.Context(), &gifDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, attachment)
}

func (s *MediaHandler) CreateLinkPreview(c *gin.Context) {
	var previewDTO dto.LinkPreviewDTO
	if err := c.ShouldBindJSON(&previewDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&previewDTO); err != nil {
		response.Error(c, err)
		return
	}

	attachment, err := s.mediaSvc.CreateLinkPreview(c.Request.Context(), &previewDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, attachment)
}

func (s *MediaHandler) CreatePoll(c *gin.Context) {
	var pollDTO dto.CreatePollDTO
	if err := c.ShouldBindJSON(&pollDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&pollDTO); err != nil {
		response.Error(c, err)
		return
	}

	attachment, err := s.mediaSvc.CreatePoll(c.Request.Context(), &pollDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, attachment)
}

func (s *MediaHandler) CreateLocation(c *gin.Context) {
	var locationDTO dto.CreateLocationDTO
	if err := c.ShouldBindJSON(&locationDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&locationDTO); err != nil {
		response.Error(c, err)
		return
	}

	attachment, err := s.mediaSvc.CreateLocation(c.Request.Context(), &locationDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, attachment)
}

func (s *MediaHandler) GetAttachment(c *gin.Context) {
	attachmentID := c.Param("attachment_id")

	attachment, err := s.mediaSvc.GetAttachment(c.Request.Context(), attachmentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, attachment)
}

func (s *MediaHandler) GetAttachmentsByUploader(c *gin.Context) {
	uploaderID := c.Param("uploader_id")
	limit, offset := pageParams(c)

	attachments, err := s.mediaSvc.GetAttachmentsByUploader(c.Request.Context(), uploaderID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, attachments)
}

func (s *MediaHandler) DeleteAttachment(c *gin.Context) {
	attachmentID := c.Param("attachment_id")
	userID := c.Query("user_id")

	if err := s.mediaSvc.DeleteAttachment(c.Request.Context(), attachmentID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *MediaHandler) AttachToNote(c *gin.Context) {
	noteID := c.Param("note_id")

	var attachDTO struct {
		UserID        string   `json:"user_id" binding:"required"`
		AttachmentIDs []string `json:"attachment_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&attachDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.mediaSvc.AttachToNote(c.Request.Context(), noteID, attachDTO.UserID, attachDTO.AttachmentIDs); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *MediaHandler) FlagAttachment(c *gin.Context) {
	attachmentID := c.Param("attachment_id")

	var flagDTO dto.ModerationFlagDTO
	if err := c.ShouldBindJSON(&flagDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&flagDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.mediaSvc.FlagAttachment(c.Request.Context(), attachmentID, &flagDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *MediaHandler) RecordDownload(c *gin.Context) {
	attachmentID := c.Param("attachment_id")

	url, err := s.mediaSvc.RecordDownload(c.Request.Context(), attachmentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"download_url": url})
}
