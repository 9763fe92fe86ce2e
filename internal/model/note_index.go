package model

// NoteHashtag 话题索引行, 支撑话题检索与热榜
type NoteHashtag struct {
	ID        uint64 `gorm:"primaryKey"`
	NoteID    string `gorm:"column:note_id;type:varchar(64);not null;index;uniqueIndex:uk_note_hashtag,priority:1"`
	Hashtag   string `gorm:"column:hashtag;type:varchar(100);not null;index:idx_hashtag_created,priority:1;uniqueIndex:uk_note_hashtag,priority:2"`
	CreatedAt int64  `gorm:"column:created_at;autoCreateTime;index:idx_hashtag_created,priority:2"`
}

func (NoteHashtag) TableName() string {
	return "note_hashtags"
}

// NoteMention 提及索引行
type NoteMention struct {
	ID              uint64 `gorm:"primaryKey"`
	NoteID          string `gorm:"column:note_id;type:varchar(64);not null;index;uniqueIndex:uk_note_mention,priority:1"`
	MentionedUserID string `gorm:"column:mentioned_user_id;type:varchar(64);not null;index;uniqueIndex:uk_note_mention,priority:2"`
	Username        string `gorm:"column:username;type:varchar(64)"`
	CreatedAt       int64  `gorm:"column:created_at;autoCreateTime"`
}

func (NoteMention) TableName() string {
	return "note_mentions"
}

// NoteURL 链接索引行
type NoteURL struct {
	ID        uint64 `gorm:"primaryKey"`
	NoteID    string `gorm:"column:note_id;type:varchar(64);not null;index"`
	URL       string `gorm:"column:url;type:varchar(2048);not null"`
	CreatedAt int64  `gorm:"column:created_at;autoCreateTime"`
}

func (NoteURL) TableName() string {
	return "note_urls"
}

// NoteMetric 笔记互动计数行, 与 notes 一对一
type NoteMetric struct {
	NoteID        string `gorm:"column:note_id;primaryKey;type:varchar(64)"`
	LikeCount     int    `gorm:"column:like_count;not null;default:0"`
	RenoteCount   int    `gorm:"column:renote_count;not null;default:0"`
	ReplyCount    int    `gorm:"column:reply_count;not null;default:0"`
	QuoteCount    int    `gorm:"column:quote_count;not null;default:0"`
	ViewCount     int    `gorm:"column:view_count;not null;default:0"`
	BookmarkCount int    `gorm:"column:bookmark_count;not null;default:0"`
	UpdatedAt     int64  `gorm:"column:updated_at;autoUpdateTime"`
}

func (NoteMetric) TableName() string {
	return "note_metrics"
}

// NoteInteraction 用户对笔记的互动行, 同一用户同一动作一行
type NoteInteraction struct {
	ID              uint64 `gorm:"primaryKey"`
	NoteID          string `gorm:"column:note_id;type:varchar(64);not null;index;uniqueIndex:uk_note_user_action,priority:1"`
	UserID          string `gorm:"column:user_id;type:varchar(64);not null;index;uniqueIndex:uk_note_user_action,priority:2"`
	InteractionType string `gorm:"column:interaction_type;type:varchar(16);not null;uniqueIndex:uk_note_user_action,priority:3"`
	CreatedAt       int64  `gorm:"column:created_at;autoCreateTime"`
}

func (NoteInteraction) TableName() string {
	return "note_interactions"
}
