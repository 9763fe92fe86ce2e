package model

import (
	"fmt"
	"strings"
	"time"
)

// NoteVisibility 笔记可见性
type NoteVisibility int

const (
	VisibilityPublic        NoteVisibility = 0 // 所有人可见
	VisibilityFollowersOnly NoteVisibility = 1 // 仅粉丝可见
	VisibilityMentionedOnly NoteVisibility = 2 // 仅被提及的用户可见
	VisibilityPrivate       NoteVisibility = 3 // 仅作者可见
	VisibilityCircle        NoteVisibility = 4 // 仅圈子可见
)

func (v NoteVisibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityFollowersOnly:
		return "followers_only"
	case VisibilityMentionedOnly:
		return "mentioned_only"
	case VisibilityPrivate:
		return "private"
	case VisibilityCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// NoteType 笔记类型
type NoteType int

const (
	NoteOriginal NoteType = 0 // 原创
	NoteReply    NoteType = 1 // 回复
	NoteRenote   NoteType = 2 // 转发
	NoteQuote    NoteType = 3 // 引用
	NoteThreaded NoteType = 4 // 串内笔记
)

func (t NoteType) String() string {
	switch t {
	case NoteOriginal:
		return "original"
	case NoteReply:
		return "reply"
	case NoteRenote:
		return "renote"
	case NoteQuote:
		return "quote"
	case NoteThreaded:
		return "thread"
	default:
		return "unknown"
	}
}

// ContentWarning 内容警告类型
type ContentWarning int

const (
	WarningNone       ContentWarning = 0
	WarningSensitive  ContentWarning = 1 // 敏感内容
	WarningViolence   ContentWarning = 2 // 暴力内容
	WarningAdult      ContentWarning = 3 // 成人内容
	WarningSpoiler    ContentWarning = 4 // 剧透
	WarningHarassment ContentWarning = 5 // 骚扰
)

func (w ContentWarning) String() string {
	switch w {
	case WarningNone:
		return "none"
	case WarningSensitive:
		return "sensitive"
	case WarningViolence:
		return "violence"
	case WarningAdult:
		return "adult"
	case WarningSpoiler:
		return "spoiler"
	case WarningHarassment:
		return "harassment"
	default:
		return "unknown"
	}
}

// NoteStatus 笔记状态
type NoteStatus int

const (
	StatusActive    NoteStatus = 0 // 正常
	StatusDeleted   NoteStatus = 1 // 软删除
	StatusHidden    NoteStatus = 2 // 被管理员隐藏
	StatusFlagged   NoteStatus = 3 // 待审核
	StatusDraft     NoteStatus = 4 // 草稿
	StatusScheduled NoteStatus = 5 // 定时发布
)

func (s NoteStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusDeleted:
		return "deleted"
	case StatusHidden:
		return "hidden"
	case StatusFlagged:
		return "flagged"
	case StatusDraft:
		return "draft"
	case StatusScheduled:
		return "scheduled"
	default:
		return "unknown"
	}
}

// 笔记内容约束
const (
	MaxContentLength  = 300 // 正文最长 300 字符
	MaxNoteAttachment = 4   // 单条笔记附件 ID 上限
	MaxMentions       = 10
	MaxHashtags       = 10
	MaxURLs           = 5

	// 互动名单保留的最近用户数
	MaxRecentInteractions = 50
)

// ValidationError 笔记校验错误, 闭集
type ValidationError string

const (
	ValidationContentTooLong      ValidationError = "CONTENT_TOO_LONG"
	ValidationContentEmpty        ValidationError = "CONTENT_EMPTY"
	ValidationInvalidMentions     ValidationError = "INVALID_MENTIONS"
	ValidationInvalidHashtags     ValidationError = "INVALID_HASHTAGS"
	ValidationInvalidReplyTarget  ValidationError = "INVALID_REPLY_TARGET"
	ValidationInvalidRenoteTarget ValidationError = "INVALID_RENOTE_TARGET"
	ValidationTooManyAttachments  ValidationError = "TOO_MANY_ATTACHMENTS"
	ValidationInvalidScheduledAt  ValidationError = "INVALID_SCHEDULED_TIME"
	ValidationSpamDetected        ValidationError = "SPAM_DETECTED"
	ValidationProfanityDetected   ValidationError = "PROFANITY_DETECTED"
)

// Note 短笔记, 正文上限 300 字符
type Note struct {
	NoteID         string `gorm:"column:note_id;primaryKey;type:varchar(64)" json:"note_id"`
	AuthorID       string `gorm:"column:author_id;type:varchar(64);not null;index:idx_author_created,priority:1" json:"author_id"`
	AuthorUsername string `gorm:"column:author_username;type:varchar(64)" json:"author_username,omitempty"`

	Content          string `gorm:"column:content;type:varchar(512)" json:"content"`
	RawContent       string `gorm:"column:raw_content;type:varchar(512)" json:"raw_content,omitempty"`
	ProcessedContent string `gorm:"column:processed_content;type:text" json:"processed_content,omitempty"`

	// 关系链
	ReplyToID      *string `gorm:"column:reply_to_id;type:varchar(64);index" json:"reply_to_id,omitempty"`
	ReplyToUserID  *string `gorm:"column:reply_to_user_id;type:varchar(64)" json:"reply_to_user_id,omitempty"`
	RenoteOfID     *string `gorm:"column:renote_of_id;type:varchar(64);index" json:"renote_of_id,omitempty"`
	QuoteOfID      *string `gorm:"column:quote_of_id;type:varchar(64);index" json:"quote_of_id,omitempty"`
	ThreadID       *string `gorm:"column:thread_id;type:varchar(64);index" json:"thread_id,omitempty"`
	ThreadPosition int     `gorm:"column:thread_position;default:0" json:"thread_position"`

	Type           NoteType       `gorm:"column:type;default:0" json:"type"`
	Visibility     NoteVisibility `gorm:"column:visibility;default:0" json:"visibility"`
	Status         NoteStatus     `gorm:"column:status;default:0;index" json:"status"`
	ContentWarning ContentWarning `gorm:"column:content_warning;default:0" json:"content_warning"`

	// 内容特征, 由侧表维护
	MentionedUserIDs   []string `gorm:"-" json:"mentioned_user_ids,omitempty"`
	MentionedUsernames []string `gorm:"-" json:"mentioned_usernames,omitempty"`
	Hashtags           []string `gorm:"-" json:"hashtags,omitempty"`
	URLs               []string `gorm:"-" json:"urls,omitempty"`

	AttachmentIDs []string             `gorm:"column:attachment_ids;serializer:json" json:"attachment_ids,omitempty"`
	Attachments   AttachmentCollection `gorm:"column:attachments;serializer:json" json:"attachments"`

	// 互动计数, 存 note_metrics 侧表
	LikeCount     int `gorm:"-" json:"like_count"`
	RenoteCount   int `gorm:"-" json:"renote_count"`
	ReplyCount    int `gorm:"-" json:"reply_count"`
	QuoteCount    int `gorm:"-" json:"quote_count"`
	ViewCount     int `gorm:"-" json:"view_count"`
	BookmarkCount int `gorm:"-" json:"bookmark_count"`

	Latitude     *float64 `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude    *float64 `gorm:"column:longitude" json:"longitude,omitempty"`
	LocationName string   `gorm:"column:location_name;type:varchar(255)" json:"location_name,omitempty"`

	IsSensitive       bool     `gorm:"column:is_sensitive;default:0" json:"is_sensitive"`
	IsNSFW            bool     `gorm:"column:is_nsfw;default:0" json:"is_nsfw"`
	ContainsSpoilers  bool     `gorm:"column:contains_spoilers;default:0" json:"contains_spoilers"`
	SpamScore         float64  `gorm:"column:spam_score;default:0" json:"spam_score"`
	ToxicityScore     float64  `gorm:"column:toxicity_score;default:0" json:"toxicity_score"`
	DetectedLanguages []string `gorm:"column:detected_languages;serializer:json" json:"detected_languages,omitempty"`

	CreatedAt   int64  `gorm:"column:created_at;autoCreateTime;index:idx_author_created,priority:2" json:"created_at"`
	UpdatedAt   int64  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	ScheduledAt *int64 `gorm:"column:scheduled_at" json:"scheduled_at,omitempty"`
	DeletedAt   *int64 `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	ClientName    string `gorm:"column:client_name;type:varchar(64)" json:"client_name,omitempty"`
	ClientVersion string `gorm:"column:client_version;type:varchar(32)" json:"client_version,omitempty"`
	UserAgent     string `gorm:"column:user_agent;type:varchar(255)" json:"user_agent,omitempty"`
	IPAddress     string `gorm:"column:ip_address;type:varchar(64)" json:"ip_address,omitempty"`

	// 最近互动名单, 存 note_interactions 侧表
	LikedByUserIDs   []string         `gorm:"-" json:"liked_by_user_ids,omitempty"`
	RenotedByUserIDs []string         `gorm:"-" json:"renoted_by_user_ids,omitempty"`
	UserInteractions map[string]int64 `gorm:"-" json:"user_interactions,omitempty"`

	Metadata         map[string]string `gorm:"column:metadata;serializer:json" json:"metadata,omitempty"`
	IsPromoted       bool              `gorm:"column:is_promoted;default:0" json:"is_promoted"`
	IsVerifiedAuthor bool              `gorm:"column:is_verified_author;default:0" json:"is_verified_author"`
	AllowReplies     bool              `gorm:"column:allow_replies;default:1" json:"allow_replies"`
	AllowRenotes     bool              `gorm:"column:allow_renotes;default:1" json:"allow_renotes"`
	AllowQuotes      bool              `gorm:"column:allow_quotes;default:1" json:"allow_quotes"`
}

func (Note) TableName() string {
	return "notes"
}

// NewNote 创建指定类型的笔记并处理内容
func NewNote(authorID, content string, noteType NoteType) *Note {
	now := time.Now().Unix()
	n := &Note{
		AuthorID:     authorID,
		Content:      content,
		RawContent:   content,
		Type:         noteType,
		Visibility:   VisibilityPublic,
		Status:       StatusActive,
		AllowReplies: true,
		AllowRenotes: true,
		AllowQuotes:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	n.ProcessContent()
	return n
}

// Validate 返回全部校验错误, 合法时为空
func (n *Note) Validate() []ValidationError {
	var errs []ValidationError
	if n.Content == "" && n.Type != NoteRenote {
		errs = append(errs, ValidationContentEmpty)
	}
	if len(n.Content) > MaxContentLength {
		errs = append(errs, ValidationContentTooLong)
	}
	if len(n.MentionedUserIDs) > MaxMentions {
		errs = append(errs, ValidationInvalidMentions)
	}
	if len(n.Hashtags) > MaxHashtags {
		errs = append(errs, ValidationInvalidHashtags)
	}
	if len(n.AttachmentIDs) > MaxNoteAttachment {
		errs = append(errs, ValidationTooManyAttachments)
	}
	if n.Type == NoteReply && n.ReplyToID == nil {
		errs = append(errs, ValidationInvalidReplyTarget)
	}
	if n.Type == NoteRenote && n.RenoteOfID == nil {
		errs = append(errs, ValidationInvalidRenoteTarget)
	}
	if n.ScheduledAt != nil && *n.ScheduledAt <= time.Now().Unix() {
		errs = append(errs, ValidationInvalidScheduledAt)
	}
	if n.SpamScore > 0.8 {
		errs = append(errs, ValidationSpamDetected)
	}
	if n.ToxicityScore > 0.9 {
		errs = append(errs, ValidationProfanityDetected)
	}
	return errs
}

func (n *Note) IsValid() bool {
	return len(n.Validate()) == 0
}

// ValidateAttachments 校验附件集合与兼容 ID 列表是否一致合法
func (n *Note) ValidateAttachments() bool {
	if len(n.AttachmentIDs) > MaxNoteAttachment {
		return false
	}
	if !n.Attachments.Validate() {
		return false
	}
	if len(n.Attachments.GetFailedAttachments()) > 0 {
		return false
	}
	if n.Attachments.Size() != len(n.AttachmentIDs) {
		return false
	}
	return n.Attachments.IsWithinTotalSizeLimit()
}

// SetContent 更新正文, 超长拒绝, 成功后重新处理内容
func (n *Note) SetContent(content string) bool {
	if len(content) > MaxContentLength {
		return false
	}
	n.Content = content
	n.RawContent = content
	n.ProcessContent()
	return true
}

// AddMention 手动补充提及, 去重
func (n *Note) AddMention(userID, username string) {
	for _, id := range n.MentionedUserIDs {
		if id == userID {
			return
		}
	}
	n.MentionedUserIDs = append(n.MentionedUserIDs, userID)
	n.MentionedUsernames = append(n.MentionedUsernames, username)
	n.touch()
}

// AddHashtag 手动补充话题, 去重
func (n *Note) AddHashtag(hashtag string) {
	for _, tag := range n.Hashtags {
		if tag == hashtag {
			return
		}
	}
	n.Hashtags = append(n.Hashtags, hashtag)
	n.touch()
}

// AddAttachmentID 添加兼容附件 ID, 超限或重复时忽略
func (n *Note) AddAttachmentID(attachmentID string) {
	if len(n.AttachmentIDs) >= MaxNoteAttachment {
		return
	}
	for _, id := range n.AttachmentIDs {
		if id == attachmentID {
			return
		}
	}
	n.AttachmentIDs = append(n.AttachmentIDs, attachmentID)
	n.touch()
}

// RemoveAttachmentID 移除兼容附件 ID, 不存在时不做任何事
func (n *Note) RemoveAttachmentID(attachmentID string) {
	for i, id := range n.AttachmentIDs {
		if id == attachmentID {
			n.AttachmentIDs = append(n.AttachmentIDs[:i], n.AttachmentIDs[i+1:]...)
			n.touch()
			return
		}
	}
}

// AddMediaAttachment 添加媒体附件并同步兼容 ID 与审核标记
func (n *Note) AddMediaAttachment(a Attachment) bool {
	if !n.Attachments.Add(a) {
		return false
	}
	found := false
	for _, id := range n.AttachmentIDs {
		if id == a.AttachmentID {
			found = true
			break
		}
	}
	if !found {
		n.AttachmentIDs = append(n.AttachmentIDs, a.AttachmentID)
	}
	if a.IsSensitive {
		n.IsSensitive = true
	}
	if _, ok := a.ModerationFlags["nsfw"]; ok {
		n.MarkNSFW(true)
	}
	if _, ok := a.ModerationFlags["explicit"]; ok {
		n.MarkNSFW(true)
	}
	n.touch()
	return true
}

// RemoveMediaAttachment 移除媒体附件并同步兼容 ID, 不存在时返回 false
func (n *Note) RemoveMediaAttachment(attachmentID string) bool {
	if !n.Attachments.Remove(attachmentID) {
		return false
	}
	n.RemoveAttachmentID(attachmentID)
	return true
}

func (n *Note) ClearAttachments() {
	n.Attachments.Clear()
	n.AttachmentIDs = nil
	n.touch()
}

func (n *Note) HasAttachments() bool {
	return !n.Attachments.Empty() || len(n.AttachmentIDs) > 0
}

func (n *Note) GetAttachmentCount() int {
	if n.Attachments.Size() > 0 {
		return n.Attachments.Size()
	}
	return len(n.AttachmentIDs)
}

func (n *Note) GetAttachmentsByType(t AttachmentType) []Attachment {
	return n.Attachments.GetByType(t)
}

func (n *Note) HasSensitiveAttachments() bool {
	for _, a := range n.Attachments.Attachments {
		if a.IsSensitive {
			return true
		}
	}
	return false
}

func (n *Note) HasProcessingAttachments() bool {
	return len(n.Attachments.GetProcessingAttachments()) > 0
}

func (n *Note) GetTotalAttachmentSize() int64 {
	return n.Attachments.GetTotalSize()
}

// GetPrimaryAttachment 取第一个附件作为主附件
func (n *Note) GetPrimaryAttachment() *Attachment {
	if n.Attachments.Empty() {
		return nil
	}
	return &n.Attachments.Attachments[0]
}

// GetAttachmentSummary 摘要, 形如 "3 images, 1 video"
func (n *Note) GetAttachmentSummary() string {
	if n.Attachments.Empty() {
		return ""
	}
	counts := make(map[AttachmentType]int)
	order := make([]AttachmentType, 0, 4)
	for _, a := range n.Attachments.Attachments {
		if counts[a.Type] == 0 {
			order = append(order, a.Type)
		}
		counts[a.Type]++
	}
	parts := make([]string, 0, len(order))
	for _, t := range order {
		name := t.String()
		if counts[t] > 1 {
			name += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", counts[t], name))
	}
	return strings.Join(parts, ", ")
}

func (n *Note) MarkAllAttachmentsSensitive(sensitive bool) {
	n.Attachments.MarkAllAsSensitive(sensitive)
	if sensitive {
		n.IsSensitive = true
	}
	n.touch()
}

// SetReplyTarget 绑定回复目标
func (n *Note) SetReplyTarget(noteID, userID string) {
	n.ReplyToID = &noteID
	n.ReplyToUserID = &userID
	n.Type = NoteReply
	n.touch()
}

// SetRenoteTarget 绑定转发目标
func (n *Note) SetRenoteTarget(noteID string) {
	n.RenoteOfID = &noteID
	n.Type = NoteRenote
	n.touch()
}

// SetQuoteTarget 绑定引用目标
func (n *Note) SetQuoteTarget(noteID string) {
	n.QuoteOfID = &noteID
	n.Type = NoteQuote
	n.touch()
}

// SetThreadInfo 绑定所属串与位置
func (n *Note) SetThreadInfo(threadID string, position int) {
	n.ThreadID = &threadID
	n.ThreadPosition = position
	n.Type = NoteThreaded
	n.touch()
}

func (n *Note) IncrementLikes()     { n.LikeCount++ }
func (n *Note) IncrementRenotes()   { n.RenoteCount++ }
func (n *Note) IncrementReplies()   { n.ReplyCount++ }
func (n *Note) IncrementQuotes()    { n.QuoteCount++ }
func (n *Note) IncrementViews()     { n.ViewCount++ }
func (n *Note) IncrementBookmarks() { n.BookmarkCount++ }

// DecrementLikes 不会减到负数
func (n *Note) DecrementLikes() {
	if n.LikeCount > 0 {
		n.LikeCount--
	}
}

func (n *Note) DecrementRenotes() {
	if n.RenoteCount > 0 {
		n.RenoteCount--
	}
}

// RecordUserInteraction 记录用户互动, 最近名单截断到上限
func (n *Note) RecordUserInteraction(userID, interactionType string) {
	if n.UserInteractions == nil {
		n.UserInteractions = make(map[string]int64)
	}
	n.UserInteractions[userID] = time.Now().Unix()

	switch interactionType {
	case "like":
		n.LikedByUserIDs = appendRecent(n.LikedByUserIDs, userID)
	case "renote":
		n.RenotedByUserIDs = appendRecent(n.RenotedByUserIDs, userID)
	}
}

func appendRecent(list []string, userID string) []string {
	list = append(list, userID)
	if len(list) > MaxRecentInteractions {
		list = list[len(list)-MaxRecentInteractions:]
	}
	return list
}

func (n *Note) GetTotalEngagement() int {
	return n.LikeCount + n.RenoteCount + n.ReplyCount + n.QuoteCount + n.BookmarkCount
}

// CalculateEngagementRate 互动率 = 总互动 / 浏览量
func (n *Note) CalculateEngagementRate() float64 {
	if n.ViewCount == 0 {
		return 0
	}
	return float64(n.GetTotalEngagement()) / float64(n.ViewCount)
}

// SetLocation 设置地理位置
func (n *Note) SetLocation(lat, lng float64, name string) {
	n.Latitude = &lat
	n.Longitude = &lng
	n.LocationName = name
	n.touch()
}

func (n *Note) ClearLocation() {
	n.Latitude = nil
	n.Longitude = nil
	n.LocationName = ""
	n.touch()
}

func (n *Note) HasLocation() bool {
	return n.Latitude != nil && n.Longitude != nil
}

func (n *Note) MarkSensitive(sensitive bool) {
	n.IsSensitive = sensitive
	if sensitive && n.ContentWarning == WarningNone {
		n.ContentWarning = WarningSensitive
	}
	n.touch()
}

// MarkNSFW 标记成人内容, 强制仅粉丝可见
func (n *Note) MarkNSFW(nsfw bool) {
	n.IsNSFW = nsfw
	if nsfw {
		n.IsSensitive = true
		n.ContentWarning = WarningAdult
		n.Visibility = VisibilityFollowersOnly
	}
	n.touch()
}

func (n *Note) MarkSpoilers(spoilers bool) {
	n.ContainsSpoilers = spoilers
	if spoilers && n.ContentWarning == WarningNone {
		n.ContentWarning = WarningSpoiler
	}
	n.touch()
}

func (n *Note) SetContentWarning(warning ContentWarning) {
	n.ContentWarning = warning
	n.touch()
}

func (n *Note) FlagForReview() {
	n.Status = StatusFlagged
	n.touch()
}

func (n *Note) Hide() {
	n.Status = StatusHidden
	n.touch()
}

// SoftDelete 软删除, 记录删除时间
func (n *Note) SoftDelete() {
	n.Status = StatusDeleted
	now := time.Now().Unix()
	n.DeletedAt = &now
	n.touch()
}

// Restore 恢复软删除的笔记
func (n *Note) Restore() {
	n.Status = StatusActive
	n.DeletedAt = nil
	n.touch()
}

// Schedule 定时发布
func (n *Note) Schedule(scheduledAt int64) {
	n.ScheduledAt = &scheduledAt
	n.Status = StatusScheduled
	n.touch()
}

// Unschedule 取消定时, 回到草稿
func (n *Note) Unschedule() {
	n.ScheduledAt = nil
	n.Status = StatusDraft
	n.touch()
}

// Publish 定时到点后转为正常发布
func (n *Note) Publish() {
	n.ScheduledAt = nil
	n.Status = StatusActive
	n.touch()
}

func (n *Note) IsScheduled() bool {
	return n.Status == StatusScheduled && n.ScheduledAt != nil
}

// ShouldBePublished 定时时间已到
func (n *Note) ShouldBePublished() bool {
	return n.IsScheduled() && *n.ScheduledAt <= time.Now().Unix()
}

// IsVisibleToUser 判断笔记对指定用户是否可见
func (n *Note) IsVisibleToUser(userID string, followingIDs, circleIDs []string) bool {
	if userID == n.AuthorID {
		return true
	}
	switch n.Status {
	case StatusDeleted, StatusHidden, StatusDraft, StatusScheduled:
		return false
	}
	switch n.Visibility {
	case VisibilityPublic:
		return true
	case VisibilityFollowersOnly:
		return contains(followingIDs, n.AuthorID)
	case VisibilityMentionedOnly:
		return contains(n.MentionedUserIDs, userID)
	case VisibilityCircle:
		return contains(circleIDs, userID)
	default:
		return false
	}
}

func (n *Note) CanUserReply(userID string, followingIDs, circleIDs []string) bool {
	return n.AllowReplies && n.IsVisibleToUser(userID, followingIDs, circleIDs)
}

// CanUserRenote 作者不能转发自己的笔记
func (n *Note) CanUserRenote(userID string, followingIDs, circleIDs []string) bool {
	return n.AllowRenotes && userID != n.AuthorID &&
		n.IsVisibleToUser(userID, followingIDs, circleIDs)
}

func (n *Note) CanUserQuote(userID string, followingIDs, circleIDs []string) bool {
	return n.AllowQuotes && n.IsVisibleToUser(userID, followingIDs, circleIDs)
}

func (n *Note) IsPartOfThread() bool {
	return n.ThreadID != nil
}

func (n *Note) IsThreadStarter() bool {
	return n.IsPartOfThread() && n.ThreadPosition == 0
}

func (n *Note) IsDeleted() bool {
	return n.Status == StatusDeleted
}

func (n *Note) IsDraft() bool {
	return n.Status == StatusDraft
}

func (n *Note) IsPublic() bool {
	return n.Visibility == VisibilityPublic
}

func (n *Note) GetContentLength() int {
	return len(n.Content)
}

func (n *Note) GetRemainingCharacters() int {
	remaining := MaxContentLength - len(n.Content)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// GetDisplayContent 展示内容, 优先取处理后的富文本
func (n *Note) GetDisplayContent() string {
	if n.ProcessedContent != "" {
		return n.ProcessedContent
	}
	return n.Content
}

// GetPreviewText 纯文本预览, 超长截断加省略号
func (n *Note) GetPreviewText(maxLength int) string {
	if maxLength <= 0 || len(n.Content) <= maxLength {
		return n.Content
	}
	return n.Content[:maxLength] + "..."
}

func (n *Note) touch() {
	n.UpdatedAt = time.Now().Unix()
}

func contains(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}
