package dto

// CreateThreadDTO 以一条起始笔记开串
type CreateThreadDTO struct {
	AuthorID       string   `json:"author_id" binding:"required" validate:"min=1,max=64"`
	AuthorUsername string   `json:"author_username" validate:"omitempty,max=64"`
	Title          string   `json:"title" validate:"omitempty,max=255"`
	Description    string   `json:"description" validate:"omitempty,max=1000"`
	Tags           []string `json:"tags" validate:"max=10,dive,min=1,max=100"`
	Content        string   `json:"content" binding:"required" validate:"min=1,max=300"`
}

// AppendThreadNoteDTO 向串内追加笔记
type AppendThreadNoteDTO struct {
	AuthorID string `json:"author_id" binding:"required"`
	Content  string `json:"content" binding:"required" validate:"min=1,max=300"`
	// 省略或 -1 表示追加到末尾
	Position *int `json:"position,omitempty"`
}

// ReorderThreadNoteDTO 调整串内顺序
type ReorderThreadNoteDTO struct {
	UserID      string `json:"user_id" binding:"required"`
	NoteID      string `json:"note_id" binding:"required"`
	NewPosition int    `json:"new_position" validate:"min=0"`
}

// ThreadModerationDTO 串管理操作的目标用户
type ThreadModerationDTO struct {
	UserID       string `json:"user_id" binding:"required"`
	TargetUserID string `json:"target_user_id" binding:"required"`
}

// ThreadViewDTO 记录浏览
type ThreadViewDTO struct {
	UserID string `json:"user_id" binding:"required"`
}

// ThreadDTO 对外的串视图
type ThreadDTO struct {
	ThreadID       string `json:"thread_id"`
	StarterNoteID  string `json:"starter_note_id"`
	AuthorID       string `json:"author_id"`
	AuthorUsername string `json:"author_username,omitempty"`

	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	NoteIDs    []string `json:"note_ids"`
	TotalNotes int      `json:"total_notes"`

	IsLocked    bool `json:"is_locked"`
	IsPinned    bool `json:"is_pinned"`
	IsCompleted bool `json:"is_completed"`

	TotalLikes   int `json:"total_likes"`
	TotalRenotes int `json:"total_renotes"`
	TotalReplies int `json:"total_replies"`
	TotalViews   int `json:"total_views"`

	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
	LastActivityAt *int64 `json:"last_activity_at,omitempty"`
}
