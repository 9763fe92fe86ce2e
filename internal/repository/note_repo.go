package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"notehub/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HashtagCount 话题与计数
type HashtagCount struct {
	Hashtag string `json:"hashtag"`
	Count   int    `json:"count"`
}

type NoteRepo interface {
	// 基础读写
	CreateNote(ctx context.Context, note *model.Note) error
	GetNote(ctx context.Context, noteID string) (*model.Note, error)
	UpdateNote(ctx context.Context, note *model.Note) error
	DeleteNote(ctx context.Context, noteID string) error

	// 批量操作
	GetNotesByIds(ctx context.Context, noteIDs []string) ([]*model.Note, error)
	CreateNotes(ctx context.Context, notes []*model.Note) error
	UpdateNotes(ctx context.Context, notes []*model.Note) error
	DeleteNotes(ctx context.Context, noteIDs []string) error

	// 按作者
	GetNotesByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*model.Note, error)
	CountNotesByAuthor(ctx context.Context, authorID string) (int64, error)
	GetUserTimeline(ctx context.Context, userID string, limit, offset int) ([]*model.Note, error)

	// 时间线
	GetTimelineForUsers(ctx context.Context, userIDs []string, limit, offset int) ([]*model.Note, error)
	GetPublicNotes(ctx context.Context, limit, offset int) ([]*model.Note, error)
	GetTrendingNotes(ctx context.Context, hoursBack, limit int) ([]*model.Note, error)
	GetRecentNotes(ctx context.Context, hoursBack, limit int) ([]*model.Note, error)

	// 互动维度
	GetLikedByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Note, error)
	GetRenotedByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Note, error)
	GetBookmarkedByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Note, error)
	UpsertInteraction(ctx context.Context, noteID, userID, interactionType string) error
	RemoveInteraction(ctx context.Context, noteID, userID, interactionType string) error
	ApplyMetricDeltas(ctx context.Context, noteID string, deltas map[string]int64) error

	// 关系维度
	GetReplies(ctx context.Context, noteID string, limit, offset int) ([]*model.Note, error)
	GetQuotes(ctx context.Context, noteID string, limit, offset int) ([]*model.Note, error)
	GetRenotes(ctx context.Context, noteID string, limit, offset int) ([]*model.Note, error)
	GetThreadNotes(ctx context.Context, threadID string) ([]*model.Note, error)

	// 检索
	SearchNotes(ctx context.Context, query string, limit, offset int) ([]*model.Note, error)
	SearchByContent(ctx context.Context, content string, limit, offset int) ([]*model.Note, error)
	GetByHashtag(ctx context.Context, hashtag string, limit, offset int) ([]*model.Note, error)
	GetByMention(ctx context.Context, userID string, limit, offset int) ([]*model.Note, error)

	// 按状态
	GetDrafts(ctx context.Context, userID string, limit int) ([]*model.Note, error)
	GetScheduledNotes(ctx context.Context, userID string, limit int) ([]*model.Note, error)
	GetDueScheduledNotes(ctx context.Context, now int64, limit int) ([]*model.Note, error)
	GetFlaggedNotes(ctx context.Context, limit, offset int) ([]*model.Note, error)
	GetDeletedNotes(ctx context.Context, userID string, limit int) ([]*model.Note, error)

	// 统计
	GetTotalNotesCount(ctx context.Context) (int64, error)
	GetNotesCountByTimeframe(ctx context.Context, hoursBack int) (int64, error)
	GetTopHashtags(ctx context.Context, limit, hoursBack int) ([]HashtagCount, error)
	GetTrendingTopics(ctx context.Context, limit, hoursBack int) ([]HashtagCount, error)

	// 维护
	CleanupDeletedNotes(ctx context.Context, daysOld int) (int64, error)
	CleanupOldDrafts(ctx context.Context, daysOld int) (int64, error)
	OptimizeDatabase(ctx context.Context) error
	RebuildIndexes(ctx context.Context) error
}

type NoteRepoImpl struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepo {
	return &NoteRepoImpl{
		db: db,
	}
}

// CreateNote 写入笔记本体与全部侧表, 单事务
func (s *NoteRepoImpl) CreateNote(ctx context.Context, note *model.Note) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(note).Error; err != nil {
			return err
		}
		return s.saveSideTables(tx, note)
	})
	return errors.Wrapf(err, "create note %s", note.NoteID)
}

func (s *NoteRepoImpl) GetNote(ctx context.Context, noteID string) (*model.Note, error) {
	var note model.Note
	err := s.db.WithContext(ctx).First(&note, "note_id = ?", noteID).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, []*model.Note{&note}); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote 覆盖笔记本体并重建侧表
func (s *NoteRepoImpl) UpdateNote(ctx context.Context, note *model.Note) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("*").Omit("created_at").Updates(note).Error; err != nil {
			return err
		}
		if err := s.deleteFeatureRows(tx, []string{note.NoteID}); err != nil {
			return err
		}
		return s.saveSideTables(tx, note)
	})
	return errors.Wrapf(err, "update note %s", note.NoteID)
}

// DeleteNote 物理删除笔记与全部侧表数据
func (s *NoteRepoImpl) DeleteNote(ctx context.Context, noteID string) error {
	return s.DeleteNotes(ctx, []string{noteID})
}

func (s *NoteRepoImpl) GetNotesByIds(ctx context.Context, noteIDs []string) ([]*model.Note, error) {
	if len(noteIDs) == 0 {
		return nil, nil
	}
	var notes []*model.Note
	err := s.db.WithContext(ctx).Where("note_id IN ?", noteIDs).Find(&notes).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *NoteRepoImpl) CreateNotes(ctx context.Context, notes []*model.Note) error {
	if len(notes) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, note := range notes {
			if err := tx.Create(note).Error; err != nil {
				return err
			}
			if err := s.saveSideTables(tx, note); err != nil {
				return err
			}
		}
		return nil
	})
	return errors.Wrap(err, "create notes batch")
}

func (s *NoteRepoImpl) UpdateNotes(ctx context.Context, notes []*model.Note) error {
	if len(notes) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, note := range notes {
			if err := tx.Select("*").Omit("created_at").Updates(note).Error; err != nil {
				return err
			}
			if err := s.deleteFeatureRows(tx, []string{note.NoteID}); err != nil {
				return err
			}
			if err := s.saveSideTables(tx, note); err != nil {
				return err
			}
		}
		return nil
	})
	return errors.Wrap(err, "update notes batch")
}

func (s *NoteRepoImpl) DeleteNotes(ctx context.Context, noteIDs []string) error {
	if len(noteIDs) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Note{}, "note_id IN ?", noteIDs).Error; err != nil {
			return err
		}
		if err := s.deleteFeatureRows(tx, noteIDs); err != nil {
			return err
		}
		if err := tx.Delete(&model.NoteMetric{}, "note_id IN ?", noteIDs).Error; err != nil {
			return err
		}
		return tx.Delete(&model.NoteInteraction{}, "note_id IN ?", noteIDs).Error
	})
	return errors.Wrap(err, "delete notes")
}

func (s *NoteRepoImpl) GetNotesByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*model.Note, error) {
	var notes []*model.Note
	err := s.db.WithContext(ctx).
		Where("author_id = ? AND status = ?", authorID, model.StatusActive).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *NoteRepoImpl) CountNotesByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Note{}).
		Where("author_id = ? AND status = ?", authorID, model.StatusActive).
		Count(&count).Error
	return count, err
}

// GetUserTimeline 用户主页时间线, 含已隐藏之外的自产内容
func (s *NoteRepoImpl) GetUserTimeline(ctx context.Context, userID string, limit, offset int) ([]*model.Note, error) {
	var notes []*model.Note
	err := s.db.WithContext(ctx).
		Where("author_id = ? AND status IN ?", userID, []model.NoteStatus{model.StatusActive, model.StatusFlagged}).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// GetTimelineForUsers 关注流聚合
func (s *NoteRepoImpl) GetTimelineForUsers(ctx context.Context, userIDs []string, limit, offset int) ([]*model.Note, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var notes []*model.Note
	err := s.db.WithContext(ctx).
		Where("author_id IN ? AND status = ?", userIDs, model.StatusActive).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *NoteRepoImpl) GetPublicNotes(ctx context.Context, limit, offset int) ([]*model.Note, error) {
	var notes []*model.Note
	err := s.db.WithContext(ctx).
		Where("visibility = ? AND status = ?", model.VisibilityPublic, model.StatusActive).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// GetTrendingNotes 按窗口内互动总量排序
func (s *NoteRepoImpl) GetTrendingNotes(ctx context.Context, hoursBack, limit int) ([]*model.Note, error) {
	cutoff := cutoffUnix(hoursBack)
	var notes []*model.Note
	err := s.db.WithContext(ctx).Model(&model.Note{}).
		Select("notes.*").
		Joins("JOIN note_metrics ON note_metrics.note_id = notes.note_id").
		Where("notes.created_at >= ? AND notes.status = ? AND notes.visibility = ?",
			cutoff, model.StatusActive, model.VisibilityPublic).
		Order("(note_metrics.like_count + note_metrics.renote_count + note_metrics.reply_count + note_metrics.quote_count + note_metrics.bookmark_count) DESC").
		Limit(limit).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *NoteRepoImpl) GetRecentNotes(ctx context.Context, hoursBack, limit int) ([]*model.Note, error) {
	cutoff := cutoffUnix(hoursBack)
	var notes []*model.Note
	err := s.db.WithContext(ctx).
		Where("created_at >= ? AND status = ? AND visibility = ?",
			cutoff, model.StatusActive, model.VisibilityPublic).
		Order("created_at DESC").
		Limit(limit).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *NoteRepoImpl) GetLikedByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Note, error) {
	return s.getByInteraction(ctx, userID, "like", limit, offset)
}

func (s *NoteRepoImpl) GetRenotedByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Note, error) {
	return s.getByInteraction(ctx, userID, "renote", limit, offset)
}

func (s *NoteRepoImpl) GetBookmarkedByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Note, error) {
	return s.getByInteraction(ctx, userID, "bookmark", limit, offset)
}

func (s *NoteRepoImpl) getByInteraction(ctx context.Context, userID, interactionType string, limit, offset int) ([]*model.Note, error) {
	var notes []*model.Note
	err := s.db.WithContext(ctx).Model(&model.Note{}).
		Select("notes.*").
		Joins("JOIN note_interactions ON note_interactions.note_id = notes.note_id").
		Where("note_interactions.user_id = ? AND note_interactions.interaction_type = ? AND notes.status = ?",
			userID, interactionType, model.StatusActive).
		Order("note_interactions.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// UpsertInteraction 记录互动, 同一用户同一动作幂等
func (s *NoteRepoImpl) UpsertInteraction(ctx context.Context, noteID, userID, interactionType string) error {
	row := &model.NoteInteraction{
		NoteID:          noteID,
		UserID:          userID,
		InteractionType: interactionType,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

func (s *NoteRepoImpl) RemoveInteraction(ctx context.Context, noteID, userID, interactionType string) error {
	return s.db.WithContext(ctx).
		Delete(&model.NoteInteraction{}, "note_id = ? AND user_id = ? AND interaction_type = ?",
			noteID, userID, interactionType).Error
}

// ApplyMetricDeltas 把缓冲的计数增量落到 note_metrics, 负值截断到 0
func (s *NoteRepoImpl) ApplyMetricDeltas(ctx context.Context, noteID string, deltas map[string]int64) error {
	if len(deltas) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.NoteMetric{NoteID: noteID}).Error; err != nil {
			return err
		}
		var metric model.NoteMetric
		if err := tx.First(&metric, "note_id = ?", noteID).Error; err != nil {
			return err
		}
		metric.LikeCount = applyDelta(metric.LikeCount, deltas["like_count"])
		metric.RenoteCount = applyDelta(metric.RenoteCount, deltas["renote_count"])
		metric.ReplyCount = applyDelta(metric.ReplyCount, deltas["reply_count"])
		metric.QuoteCount = applyDelta(metric.QuoteCount, deltas["quote_count"])
		metric.ViewCount = applyDelta(metric.ViewCount, deltas["view_count"])
		metric.BookmarkCount = applyDelta(metric.BookmarkCount, deltas["bookmark_count"])
		return tx.Save(&metric).Error
	})
	return errors.Wrapf(err, "apply metric deltas for note %s", noteID)
}

func (s *NoteRepoImpl) GetReplies(ctx context.Context, noteID string, limit, offset int) ([]*model.Note, error) {
	return s.getByRelation(ctx, "reply_to_id", noteID, limit, offset)
}

func (s *NoteRepoImpl) GetQuotes(ctx context.Context, noteID string, limit, offset int) ([]*model.Note, error) {
	return s.getByRelation(ctx, "quote_of_id", noteID, limit, offset)
}

func (s *NoteRepoImpl) GetRenotes(ctx context.Context, noteID string, limit, offset int) ([]*model.Note, error) {
	return s.getByRelation(ctx, "renote_of_id", noteID, limit, offset)
}

func (s *NoteRepoImpl) getByRelation(ctx context.Context, column, noteID string, limit, offset int) ([]*model.Note, error) {
	var notes []*model.Note
	err := s.db.WithContext(ctx).
		Where(fmt.Sprintf("%s = ?", column), noteID).
		Where("status = ?", model.StatusActive).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// GetThreadNotes 串内全部笔记, 按串内位置排序
func (s *NoteRepoImpl) GetThreadNotes(ctx context.Context, threadID string) ([]*model.Note, error) {
	var notes []*model.Note
	err := s.db.WithContext(ctx).
		Where("thread_id = ? AND status = ?", threadID, model.StatusActive).
		Order("thread_position ASC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// SearchNotes 标签查询走话题索引, 其余按内容匹配
func (s *NoteRepoImpl) SearchNotes(ctx context.Context, query string, limit, offset int) ([]*model.Note, error) {
	query = strings.TrimSpace(query)
	if strings.HasPrefix(query, "#") {
		return s.GetByHashtag(ctx, strings.TrimPrefix(query, "#"), limit, offset)
	}
	if strings.HasPrefix(query, "@") {
		return s.GetByMention(ctx, "user_"+strings.TrimPrefix(query, "@"), limit, offset)
	}
	return s.SearchByContent(ctx, query, limit, offset)
}

func (s *NoteRepoImpl) SearchByContent(ctx context.Context, content string, limit, offset int) ([]*model.Note, error) {
	var notes []*model.Note
	err := s.db.WithContext(ctx).
		Where("content LIKE ? AND status = ? AND visibility = ?",
			"%"+content+"%", model.StatusActive, model.VisibilityPublic).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *NoteRepoImpl) GetByHashtag(ctx context.Context, hashtag string, limit, offset int) ([]*model.Note, error) {
	var notes []*model.Note
	err := s.db.WithContext(ctx).Model(&model.Note{}).
		Select("notes.*").
		Joins("JOIN note_hashtags ON note_hashtags.note_id = notes.note_id").
		Where("note_hashtags.hashtag = ? AND notes.status = ?", hashtag, model.StatusActive).
		Order("notes.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *NoteRepoImpl) GetByMention(ctx context.Context, userID string, limit, offset int) ([]*model.Note, error) {
	var notes []*model.Note
	err := s.db.WithContext(ctx).Model(&model.Note{}).
		Select("notes.*").
		Joins("JOIN note_mentions ON note_mentions.note_id = notes.note_id").
		Where("note_mentions.mentioned_user_id = ? AND notes.status = ?", userID, model.StatusActive).
		Order("notes.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *NoteRepoImpl) GetDrafts(ctx context.Context, userID string, limit int) ([]*model.Note, error) {
	return s.getByStatus(ctx, userID, model.StatusDraft, limit)
}

func (s *NoteRepoImpl) GetScheduledNotes(ctx context.Context, userID string, limit int) ([]*model.Note, error) {
	return s.getByStatus(ctx, userID, model.StatusScheduled, limit)
}

// GetDueScheduledNotes 到期待发布的定时笔记, 跨作者
func (s *NoteRepoImpl) GetDueScheduledNotes(ctx context.Context, now int64, limit int) ([]*model.Note, error) {
	var notes []*model.Note
	err := s.db.WithContext(ctx).
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", model.StatusScheduled, now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *NoteRepoImpl) GetFlaggedNotes(ctx context.Context, limit, offset int) ([]*model.Note, error) {
	var notes []*model.Note
	err := s.db.WithContext(ctx).
		Where("status = ?", model.StatusFlagged).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *NoteRepoImpl) GetDeletedNotes(ctx context.Context, userID string, limit int) ([]*model.Note, error) {
	return s.getByStatus(ctx, userID, model.StatusDeleted, limit)
}

func (s *NoteRepoImpl) getByStatus(ctx context.Context, userID string, status model.NoteStatus, limit int) ([]*model.Note, error) {
	var notes []*model.Note
	err := s.db.WithContext(ctx).
		Where("author_id = ? AND status = ?", userID, status).
		Order("created_at DESC").
		Limit(limit).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	if err = s.populateNotes(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *NoteRepoImpl) GetTotalNotesCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Note{}).
		Where("status = ?", model.StatusActive).
		Count(&count).Error
	return count, err
}

func (s *NoteRepoImpl) GetNotesCountByTimeframe(ctx context.Context, hoursBack int) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Note{}).
		Where("status = ? AND created_at >= ?", model.StatusActive, cutoffUnix(hoursBack)).
		Count(&count).Error
	return count, err
}

// GetTopHashtags 窗口内按出现次数排序的话题榜
func (s *NoteRepoImpl) GetTopHashtags(ctx context.Context, limit, hoursBack int) ([]HashtagCount, error) {
	var rows []HashtagCount
	err := s.db.WithContext(ctx).Model(&model.NoteHashtag{}).
		Select("hashtag, COUNT(*) AS count").
		Where("created_at >= ?", cutoffUnix(hoursBack)).
		Group("hashtag").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, errors.Wrap(err, "top hashtags")
}

// GetTrendingTopics 窗口内按互动总量加权的话题榜
func (s *NoteRepoImpl) GetTrendingTopics(ctx context.Context, limit, hoursBack int) ([]HashtagCount, error) {
	var rows []HashtagCount
	err := s.db.WithContext(ctx).Model(&model.NoteHashtag{}).
		Select("note_hashtags.hashtag, COALESCE(SUM(note_metrics.like_count + note_metrics.renote_count + note_metrics.reply_count + note_metrics.quote_count + note_metrics.bookmark_count), 0) AS count").
		Joins("LEFT JOIN note_metrics ON note_metrics.note_id = note_hashtags.note_id").
		Where("note_hashtags.created_at >= ?", cutoffUnix(hoursBack)).
		Group("note_hashtags.hashtag").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, errors.Wrap(err, "trending topics")
}

// CleanupDeletedNotes 物理清除超过保留期的软删除笔记
func (s *NoteRepoImpl) CleanupDeletedNotes(ctx context.Context, daysOld int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -daysOld).Unix()
	ids, err := s.collectIDs(ctx, "status = ? AND deleted_at IS NOT NULL AND deleted_at < ?",
		model.StatusDeleted, cutoff)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err = s.DeleteNotes(ctx, ids); err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

// CleanupOldDrafts 物理清除长期未动的草稿
func (s *NoteRepoImpl) CleanupOldDrafts(ctx context.Context, daysOld int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -daysOld).Unix()
	ids, err := s.collectIDs(ctx, "status = ? AND updated_at < ?", model.StatusDraft, cutoff)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err = s.DeleteNotes(ctx, ids); err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

func (s *NoteRepoImpl) OptimizeDatabase(ctx context.Context) error {
	for _, table := range noteTables() {
		if err := s.db.WithContext(ctx).Exec("ANALYZE TABLE " + table).Error; err != nil {
			return errors.Wrapf(err, "analyze table %s", table)
		}
	}
	return nil
}

func (s *NoteRepoImpl) RebuildIndexes(ctx context.Context) error {
	for _, table := range noteTables() {
		if err := s.db.WithContext(ctx).Exec("OPTIMIZE TABLE " + table).Error; err != nil {
			return errors.Wrapf(err, "optimize table %s", table)
		}
	}
	return nil
}

func noteTables() []string {
	return []string{"notes", "note_hashtags", "note_mentions", "note_urls", "note_metrics", "note_interactions"}
}

func applyDelta(current int, delta int64) int {
	next := current + int(delta)
	if next < 0 {
		return 0
	}
	return next
}

func cutoffUnix(hoursBack int) int64 {
	return time.Now().Add(-time.Duration(hoursBack) * time.Hour).Unix()
}

func (s *NoteRepoImpl) collectIDs(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&model.Note{}).
		Where(query, args...).
		Pluck("note_id", &ids).Error
	return ids, err
}

// saveSideTables 写入内容特征侧表与计数行
func (s *NoteRepoImpl) saveSideTables(tx *gorm.DB, note *model.Note) error {
	for _, tag := range note.Hashtags {
		row := &model.NoteHashtag{NoteID: note.NoteID, Hashtag: tag, CreatedAt: note.CreatedAt}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
			return err
		}
	}
	for i, userID := range note.MentionedUserIDs {
		row := &model.NoteMention{NoteID: note.NoteID, MentionedUserID: userID, CreatedAt: note.CreatedAt}
		if i < len(note.MentionedUsernames) {
			row.Username = note.MentionedUsernames[i]
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
			return err
		}
	}
	for _, u := range note.URLs {
		row := &model.NoteURL{NoteID: note.NoteID, URL: u, CreatedAt: note.CreatedAt}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
	}
	metric := &model.NoteMetric{
		NoteID:        note.NoteID,
		LikeCount:     note.LikeCount,
		RenoteCount:   note.RenoteCount,
		ReplyCount:    note.ReplyCount,
		QuoteCount:    note.QuoteCount,
		ViewCount:     note.ViewCount,
		BookmarkCount: note.BookmarkCount,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "note_id"}},
		UpdateAll: true,
	}).Create(metric).Error
}

// deleteFeatureRows 清除内容特征侧表, 计数与互动行保留
func (s *NoteRepoImpl) deleteFeatureRows(tx *gorm.DB, noteIDs []string) error {
	if err := tx.Delete(&model.NoteHashtag{}, "note_id IN ?", noteIDs).Error; err != nil {
		return err
	}
	if err := tx.Delete(&model.NoteMention{}, "note_id IN ?", noteIDs).Error; err != nil {
		return err
	}
	return tx.Delete(&model.NoteURL{}, "note_id IN ?", noteIDs).Error
}

// populateNotes 批量回填侧表数据, 避免逐条查询
func (s *NoteRepoImpl) populateNotes(ctx context.Context, notes []*model.Note) error {
	if len(notes) == 0 {
		return nil
	}
	byID := make(map[string]*model.Note, len(notes))
	ids := make([]string, 0, len(notes))
	for _, n := range notes {
		byID[n.NoteID] = n
		ids = append(ids, n.NoteID)
	}

	var hashtags []model.NoteHashtag
	if err := s.db.WithContext(ctx).Where("note_id IN ?", ids).Order("id ASC").Find(&hashtags).Error; err != nil {
		return err
	}
	for _, h := range hashtags {
		if n := byID[h.NoteID]; n != nil {
			n.Hashtags = append(n.Hashtags, h.Hashtag)
		}
	}

	var mentions []model.NoteMention
	if err := s.db.WithContext(ctx).Where("note_id IN ?", ids).Order("id ASC").Find(&mentions).Error; err != nil {
		return err
	}
	for _, m := range mentions {
		if n := byID[m.NoteID]; n != nil {
			n.MentionedUserIDs = append(n.MentionedUserIDs, m.MentionedUserID)
			n.MentionedUsernames = append(n.MentionedUsernames, m.Username)
		}
	}

	var urls []model.NoteURL
	if err := s.db.WithContext(ctx).Where("note_id IN ?", ids).Order("id ASC").Find(&urls).Error; err != nil {
		return err
	}
	for _, u := range urls {
		if n := byID[u.NoteID]; n != nil {
			n.URLs = append(n.URLs, u.URL)
		}
	}

	var metrics []model.NoteMetric
	if err := s.db.WithContext(ctx).Where("note_id IN ?", ids).Find(&metrics).Error; err != nil {
		return err
	}
	for _, m := range metrics {
		if n := byID[m.NoteID]; n != nil {
			n.LikeCount = m.LikeCount
			n.RenoteCount = m.RenoteCount
			n.ReplyCount = m.ReplyCount
			n.QuoteCount = m.QuoteCount
			n.ViewCount = m.ViewCount
			n.BookmarkCount = m.BookmarkCount
		}
	}

	var interactions []model.NoteInteraction
	if err := s.db.WithContext(ctx).Where("note_id IN ?", ids).Order("created_at ASC").Find(&interactions).Error; err != nil {
		return err
	}
	for _, it := range interactions {
		n := byID[it.NoteID]
		if n == nil {
			continue
		}
		switch it.InteractionType {
		case "like":
			n.LikedByUserIDs = append(n.LikedByUserIDs, it.UserID)
		case "renote":
			n.RenotedByUserIDs = append(n.RenotedByUserIDs, it.UserID)
		}
		if n.UserInteractions == nil {
			n.UserInteractions = make(map[string]int64)
		}
		n.UserInteractions[it.UserID] = it.CreatedAt
	}

	return nil
}
