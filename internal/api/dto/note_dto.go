package dto

// CreateNoteDTO 发布笔记
type CreateNoteDTO struct {
	AuthorID       string   `json:"author_id" binding:"required" validate:"min=1,max=64"`
	AuthorUsername string   `json:"author_username" validate:"omitempty,max=64"`
	Content        string   `json:"content" binding:"required" validate:"min=1,max=300"`
	Type           *int     `json:"type" validate:"omitempty,min=0,max=4"`
	Visibility     *int     `json:"visibility" validate:"omitempty,min=0,max=4"`
	ContentWarning *int     `json:"content_warning" validate:"omitempty,min=0,max=4"`
	AttachmentIDs  []string `json:"attachment_ids" validate:"max=4"`

	ReplyToID     *string `json:"reply_to_id,omitempty"`
	ReplyToUserID *string `json:"reply_to_user_id,omitempty"`
	RenoteOfID    *string `json:"renote_of_id,omitempty"`
	QuoteOfID     *string `json:"quote_of_id,omitempty"`

	ScheduledAt *int64 `json:"scheduled_at,omitempty"`
	IsDraft     bool   `json:"is_draft"`

	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	LocationName *string  `json:"location_name,omitempty" validate:"omitempty,max=255"`

	ClientName    string `json:"client_name" validate:"omitempty,max=64"`
	ClientVersion string `json:"client_version" validate:"omitempty,max=32"`
}

// UpdateNoteDTO 编辑笔记内容
type UpdateNoteDTO struct {
	UserID  string `json:"user_id" binding:"required"`
	Content string `json:"content" binding:"required" validate:"min=1,max=300"`
}

// NoteActionDTO 点赞/转发/收藏/浏览
type NoteActionDTO struct {
	UserID string `json:"user_id" binding:"required"`
	Action string `json:"action" binding:"required" validate:"oneof=like renote bookmark view"`
}

// ScheduleNoteDTO 定时发布
type ScheduleNoteDTO struct {
	UserID      string `json:"user_id" binding:"required"`
	ScheduledAt int64  `json:"scheduled_at" binding:"required"`
}

// SearchNoteDTO 搜索
type SearchNoteDTO struct {
	Query string `form:"q" json:"q" binding:"required" validate:"min=1,max=300"`
	PageDTO
}

// NoteDTO 对外的笔记视图
type NoteDTO struct {
	NoteID         string `json:"note_id"`
	AuthorID       string `json:"author_id"`
	AuthorUsername string `json:"author_username,omitempty"`

	Content          string `json:"content"`
	ProcessedContent string `json:"processed_content,omitempty"`

	Type           int `json:"type"`
	Visibility     int `json:"visibility"`
	Status         int `json:"status"`
	ContentWarning int `json:"content_warning"`

	ReplyToID      *string `json:"reply_to_id,omitempty"`
	RenoteOfID     *string `json:"renote_of_id,omitempty"`
	QuoteOfID      *string `json:"quote_of_id,omitempty"`
	ThreadID       *string `json:"thread_id,omitempty"`
	ThreadPosition int     `json:"thread_position,omitempty"`

	MentionedUsernames []string `json:"mentioned_usernames,omitempty"`
	Hashtags           []string `json:"hashtags,omitempty"`
	URLs               []string `json:"urls,omitempty"`
	AttachmentIDs      []string `json:"attachment_ids,omitempty"`

	LikeCount     int `json:"like_count"`
	RenoteCount   int `json:"renote_count"`
	ReplyCount    int `json:"reply_count"`
	QuoteCount    int `json:"quote_count"`
	ViewCount     int `json:"view_count"`
	BookmarkCount int `json:"bookmark_count"`

	IsSensitive      bool `json:"is_sensitive"`
	IsNSFW           bool `json:"is_nsfw"`
	ContainsSpoilers bool `json:"contains_spoilers"`

	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
	ScheduledAt *int64 `json:"scheduled_at,omitempty"`
}

// HashtagCountDTO 话题榜条目
type HashtagCountDTO struct {
	Hashtag string `json:"hashtag"`
	Count   int    `json:"count"`
}
