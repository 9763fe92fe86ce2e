package service

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"notehub/internal/api/dto"
	"notehub/internal/model"
	"notehub/internal/pkg/consts"
	"notehub/internal/pkg/linkpreview"
	"notehub/internal/pkg/minio"
	"notehub/internal/pkg/util"
	"notehub/internal/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type MediaService interface {
	// CreateUpload 登记待上传的媒体附件并签发预签名上传地址
	CreateUpload(ctx context.Context, uploadDTO *dto.CreateUploadDTO) (*dto.UploadTicketDTO, error)
	// CompleteUpload 上传完成后回报, 附件转为可用状态
	CompleteUpload(ctx context.Context, attachmentID, uploaderID string) (*model.Attachment, error)

	CreateTenorGif(ctx context.Context, gifDTO *dto.TenorGifDTO) (*model.Attachment, error)
	CreateLinkPreview(ctx context.Context, previewDTO *dto.LinkPreviewDTO) (*model.Attachment, error)
	CreatePoll(ctx context.Context, pollDTO *dto.CreatePollDTO) (*model.Attachment, error)
	CreateLocation(ctx context.Context, locationDTO *dto.CreateLocationDTO) (*model.Attachment, error)

	GetAttachment(ctx context.Context, attachmentID string) (*model.Attachment, error)
	GetAttachmentsByUploader(ctx context.Context, uploaderID string, limit, offset int) ([]*model.Attachment, error)
	DeleteAttachment(ctx context.Context, attachmentID, userID string) error

	// AttachToNote 把已就绪的附件挂到笔记上
	AttachToNote(ctx context.Context, noteID, userID string, attachmentIDs []string) error
	FlagAttachment(ctx context.Context, attachmentID string, flagDTO *dto.ModerationFlagDTO) error
	RecordDownload(ctx context.Context, attachmentID string) (string, error)

	// PurgeOrphans 清理孤儿与过期附件, 连带删除对象存储里的文件
	PurgeOrphans(ctx context.Context, daysOld int) (int, error)
}

type MediaServiceImpl struct {
	attachmentRepo repository.AttachmentRepo
	noteRepo       repository.NoteRepo
	fetcher        *linkpreview.Fetcher
	idGen          util.IDGenerator
}

func NewMediaService(attachmentRepo repository.AttachmentRepo, noteRepo repository.NoteRepo,
	fetcher *linkpreview.Fetcher, idGen util.IDGenerator) MediaService {
	return &MediaServiceImpl{
		attachmentRepo: attachmentRepo,
		noteRepo:       noteRepo,
		fetcher:        fetcher,
		idGen:          idGen,
	}
}

func (s *MediaServiceImpl) CreateUpload(ctx context.Context, uploadDTO *dto.CreateUploadDTO) (*dto.UploadTicketDTO, error) {
	attachmentType := model.AttachmentType(uploadDTO.Type)
	if !mimeMatchesType(attachmentType, uploadDTO.MimeType) {
		return nil, ErrFileNotSupported
	}
	if max := model.MaxFileSize(attachmentType); max > 0 && uploadDTO.FileSize > max {
		return nil, ErrAttachmentTooLarge
	}

	var attachment *model.Attachment
	switch attachmentType {
	case model.AttachmentVideo:
		attachment = model.CreateVideoAttachment(uploadDTO.UploaderID, uploadDTO.Filename, uploadDTO.MimeType, uploadDTO.FileSize, uploadDTO.Duration)
	default:
		attachment = model.CreateImageAttachment(uploadDTO.UploaderID, uploadDTO.Filename, uploadDTO.MimeType, uploadDTO.FileSize)
		attachment.Type = attachmentType
		attachment.Duration = uploadDTO.Duration
	}
	attachment.AttachmentID = s.idGen.NewAttachmentID()
	attachment.StoragePath = objectNameFor(attachment)
	if !attachment.IsWithinSizeLimits() {
		return nil, ErrAttachmentTooLarge
	}

	uploadURL, err := minio.PresignedPutURL(ctx, attachment.StoragePath)
	if err != nil {
		log.Error("签发上传地址失败", "attachment_id", attachment.AttachmentID, "err", err)
		return nil, UnExpectedError
	}
	if err = s.attachmentRepo.CreateAttachment(ctx, attachment); err != nil {
		log.Error("登记附件失败", "attachment_id", attachment.AttachmentID, "err", err)
		return nil, UnExpectedError
	}
	return &dto.UploadTicketDTO{
		AttachmentID: attachment.AttachmentID,
		ObjectName:   attachment.StoragePath,
		UploadURL:    uploadURL,
	}, nil
}

func (s *MediaServiceImpl) CompleteUpload(ctx context.Context, attachmentID, uploaderID string) (*model.Attachment, error) {
	attachment, err := s.loadAttachment(ctx, attachmentID)
	if err != nil {
		return nil, err
	}
	if attachment.UploaderID != uploaderID {
		return nil, UnauthorizedError
	}
	attachment.PrimaryURL = minio.GetPublicURL(attachment.StoragePath)
	attachment.SetProcessingStatus(model.ProcessingCompleted, "")
	if err = s.attachmentRepo.UpdateAttachment(ctx, attachment); err != nil {
		log.Error("更新附件状态失败", "attachment_id", attachmentID, "err", err)
		return nil, UnExpectedError
	}
	return attachment, nil
}

func (s *MediaServiceImpl) CreateTenorGif(ctx context.Context, gifDTO *dto.TenorGifDTO) (*model.Attachment, error) {
	attachment := model.CreateTenorGif(gifDTO.UploaderID, model.TenorGifData{
		TenorID:    gifDTO.TenorID,
		SearchTerm: gifDTO.SearchTerm,
		Title:      gifDTO.Title,
		Tags:       gifDTO.Tags,
		HasAudio:   gifDTO.HasAudio,
	})
	return s.persistReadyAttachment(ctx, attachment)
}

// CreateLinkPreview 抓取目标页面的元信息生成预览卡片
func (s *MediaServiceImpl) CreateLinkPreview(ctx context.Context, previewDTO *dto.LinkPreviewDTO) (*model.Attachment, error) {
	preview, err := s.fetcher.Fetch(ctx, previewDTO.URL)
	if err != nil {
		log.Info("抓取链接预览失败", "url", previewDTO.URL, "err", err)
		preview = &model.LinkPreview{URL: previewDTO.URL}
	}
	attachment := model.CreateLinkPreviewAttachment(previewDTO.UploaderID, *preview)
	return s.persistReadyAttachment(ctx, attachment)
}

func (s *MediaServiceImpl) CreatePoll(ctx context.Context, pollDTO *dto.CreatePollDTO) (*model.Attachment, error) {
	options := make([]model.PollOption, 0, len(pollDTO.Options))
	for _, text := range pollDTO.Options {
		options = append(options, model.PollOption{
			OptionID: uuid.NewString(),
			Text:     text,
		})
	}
	poll := model.PollData{
		PollID:         uuid.NewString(),
		Question:       pollDTO.Question,
		Options:        options,
		MultipleChoice: pollDTO.MultipleChoice,
		Anonymous:      pollDTO.Anonymous,
	}
	if pollDTO.ExpiresAt != nil {
		poll.ExpiresAt = *pollDTO.ExpiresAt
	}
	attachment := model.CreatePollAttachment(pollDTO.UploaderID, poll)
	return s.persistReadyAttachment(ctx, attachment)
}

func (s *MediaServiceImpl) CreateLocation(ctx context.Context, locationDTO *dto.CreateLocationDTO) (*model.Attachment, error) {
	attachment := model.CreateLocationAttachment(locationDTO.UploaderID, model.LocationData{
		PlaceID:   uuid.NewString(),
		Name:      locationDTO.Name,
		Address:   locationDTO.Address,
		Latitude:  locationDTO.Latitude,
		Longitude: locationDTO.Longitude,
		City:      locationDTO.City,
		Country:   locationDTO.Country,
	})
	return s.persistReadyAttachment(ctx, attachment)
}

func (s *MediaServiceImpl) persistReadyAttachment(ctx context.Context, attachment *model.Attachment) (*model.Attachment, error) {
	attachment.AttachmentID = s.idGen.NewAttachmentID()
	if !attachment.Validate() {
		return nil, ErrAttachmentInvalid
	}
	if err := s.attachmentRepo.CreateAttachment(ctx, attachment); err != nil {
		log.Error("登记附件失败", "attachment_id", attachment.AttachmentID, "err", err)
		return nil, UnExpectedError
	}
	return attachment, nil
}

func (s *MediaServiceImpl) GetAttachment(ctx context.Context, attachmentID string) (*model.Attachment, error) {
	return s.loadAttachment(ctx, attachmentID)
}

func (s *MediaServiceImpl) GetAttachmentsByUploader(ctx context.Context, uploaderID string, limit, offset int) ([]*model.Attachment, error) {
	attachments, err := s.attachmentRepo.GetByUploader(ctx, uploaderID, limit, offset)
	if err != nil {
		log.Error("查询附件列表失败", "uploader_id", uploaderID, "err", err)
		return nil, UnExpectedError
	}
	return attachments, nil
}

func (s *MediaServiceImpl) DeleteAttachment(ctx context.Context, attachmentID, userID string) error {
	attachment, err := s.loadAttachment(ctx, attachmentID)
	if err != nil {
		return err
	}
	if attachment.UploaderID != userID {
		return UnauthorizedError
	}
	if err = s.attachmentRepo.DeleteAttachment(ctx, attachmentID); err != nil {
		log.Error("删除附件失败", "attachment_id", attachmentID, "err", err)
		return UnExpectedError
	}
	if attachment.StoragePath != "" {
		if err = minio.DeleteFile(ctx, attachment.StoragePath); err != nil {
			log.Warn("删除对象存储文件失败", "object", attachment.StoragePath, "err", err)
		}
	}
	return nil
}

// AttachToNote 附件必须已就绪且属于笔记作者, 集合超限整体拒绝
func (s *MediaServiceImpl) AttachToNote(ctx context.Context, noteID, userID string, attachmentIDs []string) error {
	note, err := s.noteRepo.GetNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		log.Error("查询笔记失败", "note_id", noteID, "err", err)
		return UnExpectedError
	}
	if note.AuthorID != userID {
		return UnauthorizedError
	}

	attachments, err := s.attachmentRepo.GetAttachmentsByIds(ctx, attachmentIDs)
	if err != nil {
		log.Error("查询附件失败", "note_id", noteID, "err", err)
		return UnExpectedError
	}
	if len(attachments) != len(attachmentIDs) {
		return ErrAttachmentNotFound
	}

	for _, attachment := range attachments {
		if attachment.UploaderID != userID {
			return UnauthorizedError
		}
		if !attachment.IsProcessingComplete() {
			return ErrAttachmentInvalid
		}
		if !note.AddMediaAttachment(*attachment) {
			return ErrAttachmentLimit
		}
	}
	if !note.ValidateAttachments() {
		return ErrAttachmentInvalid
	}

	for _, attachment := range attachments {
		attachment.NoteID = noteID
		if err = s.attachmentRepo.UpdateAttachment(ctx, attachment); err != nil {
			log.Error("回写附件归属失败", "attachment_id", attachment.AttachmentID, "err", err)
			return UnExpectedError
		}
	}
	if err = s.noteRepo.UpdateNote(ctx, note); err != nil {
		log.Error("更新笔记附件失败", "note_id", noteID, "err", err)
		return UnExpectedError
	}
	return nil
}

// FlagAttachment 记录审核标记, 安全分低于阈值时直接拒绝该附件
func (s *MediaServiceImpl) FlagAttachment(ctx context.Context, attachmentID string, flagDTO *dto.ModerationFlagDTO) error {
	attachment, err := s.loadAttachment(ctx, attachmentID)
	if err != nil {
		return err
	}
	attachment.AddModerationFlag(flagDTO.Flag, "moderation")
	attachment.SetContentSafetyScore(flagDTO.SafetyScore)
	if !attachment.IsContentSafe(model.DefaultSafetyThreshold) {
		attachment.SetProcessingStatus(model.ProcessingRejected, "content safety score below threshold")
	}
	if err = s.attachmentRepo.UpdateAttachment(ctx, attachment); err != nil {
		log.Error("更新附件审核状态失败", "attachment_id", attachmentID, "err", err)
		return UnExpectedError
	}
	return nil
}

// RecordDownload 计数并返回带签名的下载地址
func (s *MediaServiceImpl) RecordDownload(ctx context.Context, attachmentID string) (string, error) {
	attachment, err := s.loadAttachment(ctx, attachmentID)
	if err != nil {
		return "", err
	}
	attachment.RecordDownload("")
	if err = s.attachmentRepo.UpdateAttachment(ctx, attachment); err != nil {
		log.Warn("下载计数落库失败", "attachment_id", attachmentID, "err", err)
	}
	if attachment.StoragePath == "" {
		return attachment.GetDownloadURL(), nil
	}
	url, err := minio.PresignedGetURL(ctx, attachment.StoragePath)
	if err != nil {
		log.Error("签发下载地址失败", "attachment_id", attachmentID, "err", err)
		return "", UnExpectedError
	}
	return url, nil
}

func (s *MediaServiceImpl) PurgeOrphans(ctx context.Context, daysOld int) (int, error) {
	orphanPaths, err := s.attachmentRepo.CleanupOrphans(ctx, daysOld)
	if err != nil {
		return 0, errors.Wrap(err, "cleanup orphan attachments")
	}
	expiredPaths, err := s.attachmentRepo.CleanupExpired(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "cleanup expired attachments")
	}
	paths := append(orphanPaths, expiredPaths...)
	for _, path := range paths {
		if err = minio.DeleteFile(ctx, path); err != nil {
			log.Warn("删除对象存储文件失败", "object", path, "err", err)
		}
	}
	return len(paths), nil
}

func (s *MediaServiceImpl) loadAttachment(ctx context.Context, attachmentID string) (*model.Attachment, error) {
	attachment, err := s.attachmentRepo.GetAttachment(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttachmentNotFound
		}
		log.Error("查询附件失败", "attachment_id", attachmentID, "err", err)
		return nil, UnExpectedError
	}
	return attachment, nil
}

func mimeMatchesType(t model.AttachmentType, mimeType string) bool {
	switch t {
	case model.AttachmentImage, model.AttachmentGif, model.AttachmentSticker, model.AttachmentEmojiReaction:
		return strings.HasPrefix(mimeType, consts.MimePrefixImage)
	case model.AttachmentVideo:
		return strings.HasPrefix(mimeType, consts.MimePrefixVideo)
	case model.AttachmentAudio:
		return strings.HasPrefix(mimeType, consts.MimePrefixAudio)
	case model.AttachmentDocument:
		return true
	default:
		return false
	}
}

func objectNameFor(a *model.Attachment) string {
	return fmt.Sprintf("%s/%s/%d/%s", a.Type.String(), a.UploaderID, time.Now().Year(), a.AttachmentID)
}
