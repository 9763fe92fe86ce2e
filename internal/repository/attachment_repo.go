package repository

import (
	"context"
	"time"

	"notehub/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type AttachmentRepo interface {
	CreateAttachment(ctx context.Context, attachment *model.Attachment) error
	GetAttachment(ctx context.Context, attachmentID string) (*model.Attachment, error)
	GetAttachmentsByIds(ctx context.Context, attachmentIDs []string) ([]*model.Attachment, error)
	UpdateAttachment(ctx context.Context, attachment *model.Attachment) error
	DeleteAttachment(ctx context.Context, attachmentID string) error

	GetByUploader(ctx context.Context, uploaderID string, limit, offset int) ([]*model.Attachment, error)
	GetByNote(ctx context.Context, noteID string) ([]*model.Attachment, error)
	GetPendingProcessing(ctx context.Context, limit int) ([]*model.Attachment, error)

	// CleanupOrphans 清除长期未挂到笔记上的附件, 返回清除的对象存储路径
	CleanupOrphans(ctx context.Context, daysOld int) ([]string, error)
	// CleanupExpired 清除已过期的附件, 返回清除的对象存储路径
	CleanupExpired(ctx context.Context) ([]string, error)
}

type AttachmentRepoImpl struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) AttachmentRepo {
	return &AttachmentRepoImpl{
		db: db,
	}
}

func (s *AttachmentRepoImpl) CreateAttachment(ctx context.Context, attachment *model.Attachment) error {
	err := s.db.WithContext(ctx).Create(attachment).Error
	return errors.Wrapf(err, "create attachment %s", attachment.AttachmentID)
}

func (s *AttachmentRepoImpl) GetAttachment(ctx context.Context, attachmentID string) (*model.Attachment, error) {
	var attachment model.Attachment
	err := s.db.WithContext(ctx).First(&attachment, "attachment_id = ?", attachmentID).Error
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (s *AttachmentRepoImpl) GetAttachmentsByIds(ctx context.Context, attachmentIDs []string) ([]*model.Attachment, error) {
	if len(attachmentIDs) == 0 {
		return nil, nil
	}
	var attachments []*model.Attachment
	err := s.db.WithContext(ctx).Where("attachment_id IN ?", attachmentIDs).Find(&attachments).Error
	return attachments, err
}

func (s *AttachmentRepoImpl) UpdateAttachment(ctx context.Context, attachment *model.Attachment) error {
	err := s.db.WithContext(ctx).Select("*").Omit("created_at").Updates(attachment).Error
	return errors.Wrapf(err, "update attachment %s", attachment.AttachmentID)
}

func (s *AttachmentRepoImpl) DeleteAttachment(ctx context.Context, attachmentID string) error {
	err := s.db.WithContext(ctx).Delete(&model.Attachment{}, "attachment_id = ?", attachmentID).Error
	return errors.Wrapf(err, "delete attachment %s", attachmentID)
}

func (s *AttachmentRepoImpl) GetByUploader(ctx context.Context, uploaderID string, limit, offset int) ([]*model.Attachment, error) {
	var attachments []*model.Attachment
	err := s.db.WithContext(ctx).
		Where("uploader_id = ?", uploaderID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&attachments).Error
	return attachments, err
}

func (s *AttachmentRepoImpl) GetByNote(ctx context.Context, noteID string) ([]*model.Attachment, error) {
	var attachments []*model.Attachment
	err := s.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}

func (s *AttachmentRepoImpl) GetPendingProcessing(ctx context.Context, limit int) ([]*model.Attachment, error) {
	var attachments []*model.Attachment
	err := s.db.WithContext(ctx).
		Where("status IN ?", []model.ProcessingStatus{model.ProcessingPending, model.ProcessingRunning}).
		Order("created_at ASC").
		Limit(limit).
		Find(&attachments).Error
	return attachments, err
}

func (s *AttachmentRepoImpl) CleanupOrphans(ctx context.Context, daysOld int) ([]string, error) {
	cutoff := time.Now().AddDate(0, 0, -daysOld).Unix()
	return s.purge(ctx, "note_id = '' AND created_at < ?", cutoff)
}

func (s *AttachmentRepoImpl) CleanupExpired(ctx context.Context) ([]string, error) {
	return s.purge(ctx, "expires_at IS NOT NULL AND expires_at < ?", time.Now().Unix())
}

func (s *AttachmentRepoImpl) purge(ctx context.Context, cond string, args ...interface{}) ([]string, error) {
	var victims []model.Attachment
	err := s.db.WithContext(ctx).
		Select("attachment_id", "storage_path").
		Where(cond, args...).
		Find(&victims).Error
	if err != nil {
		return nil, errors.Wrap(err, "collect purgeable attachments")
	}
	if len(victims) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(victims))
	paths := make([]string, 0, len(victims))
	for _, v := range victims {
		ids = append(ids, v.AttachmentID)
		if v.StoragePath != "" {
			paths = append(paths, v.StoragePath)
		}
	}
	if err = s.db.WithContext(ctx).Delete(&model.Attachment{}, "attachment_id IN ?", ids).Error; err != nil {
		return nil, errors.Wrap(err, "purge attachments")
	}
	return paths, nil
}
