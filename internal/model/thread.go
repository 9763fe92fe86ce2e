package model

import (
	"fmt"
	"time"
)

// Thread 笔记串, 由同一作者按顺序组织的一组笔记
type Thread struct {
	ThreadID       string `json:"thread_id"`
	StarterNoteID  string `json:"starter_note_id"`
	AuthorID       string `json:"author_id"`
	AuthorUsername string `json:"author_username,omitempty"`

	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	NoteIDs    []string `json:"note_ids"`
	TotalNotes int      `json:"total_notes"`
	MaxDepth   int      `json:"max_depth,omitempty"`

	IsLocked     bool `json:"is_locked"`
	IsPinned     bool `json:"is_pinned"`
	IsPublished  bool `json:"is_published"`
	AllowReplies bool `json:"allow_replies"`
	AllowRenotes bool `json:"allow_renotes"`

	TotalLikes         int `json:"total_likes"`
	TotalRenotes       int `json:"total_renotes"`
	TotalReplies       int `json:"total_replies"`
	TotalViews         int `json:"total_views"`
	TotalBookmarks     int `json:"total_bookmarks"`
	UniqueParticipants int `json:"unique_participants"`

	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
	LastActivityAt *int64 `json:"last_activity_at,omitempty"`
	CompletedAt    *int64 `json:"completed_at,omitempty"`

	Visibility     NoteVisibility `json:"visibility"`
	ModeratorIDs   []string       `json:"moderator_ids,omitempty"`
	BlockedUserIDs []string       `json:"blocked_user_ids,omitempty"`

	EngagementRate float64 `json:"engagement_rate"`
	CompletionRate float64 `json:"completion_rate"`
}

// ThreadStatistics 串的统计快照
type ThreadStatistics struct {
	ThreadID     string `json:"thread_id"`
	CalculatedAt int64  `json:"calculated_at"`

	TotalNotes        int     `json:"total_notes"`
	TotalParticipants int     `json:"total_participants"`
	TotalViews        int     `json:"total_views"`
	TotalEngagement   int     `json:"total_engagement"`

	AverageTimeBetweenNotes float64 `json:"average_time_between_notes"` // 分钟
	TotalThreadDuration     float64 `json:"total_thread_duration"`      // 小时
	EngagementRate          float64 `json:"engagement_rate"`
	CompletionRate          float64 `json:"completion_rate"`
	BounceRate              float64 `json:"bounce_rate"`

	AverageNoteLength float64 `json:"average_note_length"`
	TotalHashtags     int     `json:"total_hashtags"`
	TotalMentions     int     `json:"total_mentions"`
	TotalURLs         int     `json:"total_urls"`

	SpamScore        float64 `json:"spam_score"`
	ToxicityScore    float64 `json:"toxicity_score"`
	ReadabilityScore float64 `json:"readability_score"`
}

// ThreadParticipant 串参与者的贡献汇总
type ThreadParticipant struct {
	UserID               string `json:"user_id"`
	Username             string `json:"username"`
	NotesContributed     int    `json:"notes_contributed"`
	TotalLikesReceived   int    `json:"total_likes_received"`
	TotalRepliesReceived int    `json:"total_replies_received"`
	FirstParticipation   int64  `json:"first_participation"`
	LastParticipation    int64  `json:"last_participation"`
	IsModerator          bool   `json:"is_moderator"`
	IsBlocked            bool   `json:"is_blocked"`
}

// NewThread 从起始笔记创建串
func NewThread(threadID, starterNoteID, authorID, title string) *Thread {
	now := time.Now().Unix()
	lastActivity := now
	return &Thread{
		ThreadID:           threadID,
		StarterNoteID:      starterNoteID,
		AuthorID:           authorID,
		Title:              title,
		NoteIDs:            []string{starterNoteID},
		TotalNotes:         1,
		IsPublished:        true,
		AllowReplies:       true,
		AllowRenotes:       true,
		UniqueParticipants: 1,
		Visibility:         VisibilityPublic,
		CreatedAt:          now,
		UpdatedAt:          now,
		LastActivityAt:     &lastActivity,
	}
}

// AddNote 按位置加入笔记, 锁定或重复时拒绝;
// position 为 -1 或超出末尾时追加
func (t *Thread) AddNote(noteID string, position int) bool {
	if t.IsLocked {
		return false
	}
	if contains(t.NoteIDs, noteID) {
		return false
	}
	// 0 号位固定是起始笔记
	if position == 0 {
		return false
	}
	if position == -1 || position >= len(t.NoteIDs) {
		t.NoteIDs = append(t.NoteIDs, noteID)
	} else {
		if position < 0 {
			return false
		}
		t.NoteIDs = append(t.NoteIDs, "")
		copy(t.NoteIDs[position+1:], t.NoteIDs[position:])
		t.NoteIDs[position] = noteID
	}
	t.TotalNotes = len(t.NoteIDs)
	t.touch()
	return true
}

// RemoveNote 移除笔记, 锁定串 / 起始笔记 / 不存在的笔记拒绝
func (t *Thread) RemoveNote(noteID string) bool {
	if t.IsLocked {
		return false
	}
	if noteID == t.StarterNoteID {
		return false
	}
	for i, id := range t.NoteIDs {
		if id == noteID {
			t.NoteIDs = append(t.NoteIDs[:i], t.NoteIDs[i+1:]...)
			t.TotalNotes = len(t.NoteIDs)
			t.touch()
			return true
		}
	}
	return false
}

// ReorderNote 把笔记移动到新位置, 锁定串拒绝, 起始笔记只能留在 0
func (t *Thread) ReorderNote(noteID string, newPosition int) bool {
	if t.IsLocked {
		return false
	}
	if noteID == t.StarterNoteID && newPosition != 0 {
		return false
	}
	if noteID != t.StarterNoteID && newPosition == 0 {
		return false
	}
	idx := -1
	for i, id := range t.NoteIDs {
		if id == noteID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	if newPosition < 0 || newPosition > len(t.NoteIDs) {
		return false
	}
	t.NoteIDs = append(t.NoteIDs[:idx], t.NoteIDs[idx+1:]...)
	if newPosition > len(t.NoteIDs) {
		newPosition = len(t.NoteIDs)
	}
	t.NoteIDs = append(t.NoteIDs, "")
	copy(t.NoteIDs[newPosition+1:], t.NoteIDs[newPosition:])
	t.NoteIDs[newPosition] = noteID
	t.touch()
	return true
}

func (t *Thread) GetNotesInOrder() []string {
	return t.NoteIDs
}

// GetNotePosition 返回笔记位置, 不存在时为 -1
func (t *Thread) GetNotePosition(noteID string) int {
	for i, id := range t.NoteIDs {
		if id == noteID {
			return i
		}
	}
	return -1
}

func (t *Thread) GetNextNoteID(currentNoteID string) string {
	pos := t.GetNotePosition(currentNoteID)
	if pos == -1 || pos >= len(t.NoteIDs)-1 {
		return ""
	}
	return t.NoteIDs[pos+1]
}

func (t *Thread) GetPreviousNoteID(currentNoteID string) string {
	pos := t.GetNotePosition(currentNoteID)
	if pos <= 0 {
		return ""
	}
	return t.NoteIDs[pos-1]
}

func (t *Thread) Lock() {
	t.IsLocked = true
	t.touch()
}

func (t *Thread) Unlock() {
	t.IsLocked = false
	t.touch()
}

func (t *Thread) Pin() {
	t.IsPinned = true
	t.touch()
}

func (t *Thread) Unpin() {
	t.IsPinned = false
	t.touch()
}

// Complete 完结串, 完结的串自动锁定
func (t *Thread) Complete() {
	now := time.Now().Unix()
	t.CompletedAt = &now
	t.IsLocked = true
	t.touch()
}

// Reopen 重新打开已完结的串
func (t *Thread) Reopen() {
	t.CompletedAt = nil
	t.IsLocked = false
	t.touch()
}

func (t *Thread) IsCompleted() bool {
	return t.CompletedAt != nil
}

// AddModerator 添加管理员, 去重
func (t *Thread) AddModerator(userID string) {
	if !contains(t.ModeratorIDs, userID) {
		t.ModeratorIDs = append(t.ModeratorIDs, userID)
		t.touch()
	}
}

func (t *Thread) RemoveModerator(userID string) {
	t.ModeratorIDs = removeString(t.ModeratorIDs, userID)
	t.touch()
}

// BlockUser 拉黑用户, 作者不可被拉黑
func (t *Thread) BlockUser(userID string) {
	if userID == t.AuthorID {
		return
	}
	if !contains(t.BlockedUserIDs, userID) {
		t.BlockedUserIDs = append(t.BlockedUserIDs, userID)
		t.touch()
	}
}

func (t *Thread) UnblockUser(userID string) {
	t.BlockedUserIDs = removeString(t.BlockedUserIDs, userID)
	t.touch()
}

func (t *Thread) IsUserBlocked(userID string) bool {
	return contains(t.BlockedUserIDs, userID)
}

// CanUserModerate 作者和管理员可以管理
func (t *Thread) CanUserModerate(userID string) bool {
	return userID == t.AuthorID || contains(t.ModeratorIDs, userID)
}

// CanUserAddNote 锁定和拉黑拒绝, 作者总是允许, 其余仅公开串允许
func (t *Thread) CanUserAddNote(userID string) bool {
	if t.IsLocked {
		return false
	}
	if t.IsUserBlocked(userID) {
		return false
	}
	if userID == t.AuthorID {
		return true
	}
	return t.Visibility == VisibilityPublic
}

func (t *Thread) CanUserReply(userID string) bool {
	if !t.AllowReplies {
		return false
	}
	if t.IsUserBlocked(userID) {
		return false
	}
	return t.CanUserView(userID)
}

// CanUserView 作者总是可见, 未发布的串对外不可见
func (t *Thread) CanUserView(userID string) bool {
	if userID == t.AuthorID {
		return true
	}
	if !t.IsPublished {
		return false
	}
	switch t.Visibility {
	case VisibilityPublic:
		return true
	case VisibilityFollowersOnly:
		// TODO: 接入关注关系后按粉丝过滤
		return true
	case VisibilityPrivate:
		return false
	default:
		return false
	}
}

// RecordView 浏览计数并刷新活跃时间
func (t *Thread) RecordView(string) {
	t.TotalViews++
	now := time.Now().Unix()
	t.LastActivityAt = &now
}

func (t *Thread) GetTotalEngagement() int {
	return t.TotalLikes + t.TotalRenotes + t.TotalReplies
}

// CalculateEngagementRate 互动率 = 总互动 / 浏览量
func (t *Thread) CalculateEngagementRate() float64 {
	if t.TotalViews == 0 {
		return 0
	}
	return float64(t.GetTotalEngagement()) / float64(t.TotalViews)
}

// Validate 返回结构性校验错误
func (t *Thread) Validate() []string {
	var errs []string
	if t.ThreadID == "" {
		errs = append(errs, "thread id 不能为空")
	}
	if t.StarterNoteID == "" {
		errs = append(errs, "起始笔记 id 不能为空")
	}
	if t.AuthorID == "" {
		errs = append(errs, "作者 id 不能为空")
	}
	if len(t.NoteIDs) == 0 {
		errs = append(errs, "串至少要包含一条笔记")
	}
	if len(t.NoteIDs) > 0 && t.NoteIDs[0] != t.StarterNoteID {
		errs = append(errs, "第一条必须是起始笔记")
	}
	return errs
}

func (t *Thread) IsValid() bool {
	return len(t.Validate()) == 0
}

func (t *Thread) IsEmpty() bool {
	return len(t.NoteIDs) == 0
}

func (t *Thread) IsSingleNote() bool {
	return len(t.NoteIDs) == 1
}

// GetDisplayTitle 展示标题, 缺省为作者署名
func (t *Thread) GetDisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return "Thread by " + t.AuthorUsername
}

func (t *Thread) GetSummary() string {
	if t.Title != "" {
		return t.Title
	}
	return fmt.Sprintf("Thread with %d notes", t.TotalNotes)
}

func (t *Thread) GetAgeSeconds() int64 {
	return time.Now().Unix() - t.CreatedAt
}

func (t *Thread) IsRecent(hours int) bool {
	return t.GetAgeSeconds()/3600 <= int64(hours)
}

func (t *Thread) touch() {
	now := time.Now().Unix()
	t.UpdatedAt = now
	t.LastActivityAt = &now
}

func removeString(list []string, target string) []string {
	out := list[:0]
	for _, v := range list {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}
