package model

import (
	"strings"
	"time"
)

// AttachmentType 附件类型
type AttachmentType int

const (
	AttachmentImage         AttachmentType = 0  // 静态图片 (JPEG, PNG, WebP, AVIF)
	AttachmentVideo         AttachmentType = 1  // 视频 (MP4, WebM, MOV)
	AttachmentGif           AttachmentType = 2  // 动图
	AttachmentTenorGif      AttachmentType = 3  // Tenor 动图
	AttachmentAudio         AttachmentType = 4  // 音频 (MP3, AAC, OGG)
	AttachmentDocument      AttachmentType = 5  // 文档 (PDF, TXT)
	AttachmentLinkPreview   AttachmentType = 6  // 链接预览卡片
	AttachmentPoll          AttachmentType = 7  // 投票
	AttachmentLocation      AttachmentType = 8  // 位置
	AttachmentSticker       AttachmentType = 9  // 贴纸
	AttachmentEmojiReaction AttachmentType = 10 // 自定义表情
)

func (t AttachmentType) String() string {
	switch t {
	case AttachmentImage:
		return "image"
	case AttachmentVideo:
		return "video"
	case AttachmentGif:
		return "gif"
	case AttachmentTenorGif:
		return "tenor_gif"
	case AttachmentAudio:
		return "audio"
	case AttachmentDocument:
		return "document"
	case AttachmentLinkPreview:
		return "link_preview"
	case AttachmentPoll:
		return "poll"
	case AttachmentLocation:
		return "location"
	case AttachmentSticker:
		return "sticker"
	case AttachmentEmojiReaction:
		return "emoji_reaction"
	default:
		return "unknown"
	}
}

// ProcessingStatus 附件处理状态
type ProcessingStatus int

const (
	ProcessingPending       ProcessingStatus = 0 // 等待处理
	ProcessingRunning       ProcessingStatus = 1 // 处理中
	ProcessingCompleted     ProcessingStatus = 2 // 处理完成
	ProcessingFailed        ProcessingStatus = 3 // 处理失败
	ProcessingCancelled     ProcessingStatus = 4 // 已取消
	ProcessingVirusDetected ProcessingStatus = 5 // 检测到病毒
	ProcessingRejected      ProcessingStatus = 6 // 违反内容政策被拒绝
)

func (s ProcessingStatus) String() string {
	switch s {
	case ProcessingPending:
		return "pending"
	case ProcessingRunning:
		return "processing"
	case ProcessingCompleted:
		return "completed"
	case ProcessingFailed:
		return "failed"
	case ProcessingCancelled:
		return "cancelled"
	case ProcessingVirusDetected:
		return "virus_detected"
	case ProcessingRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// MediaQuality 媒体质量档位
type MediaQuality int

const (
	QualityThumbnail MediaQuality = 0 // 缩略图 (150x150)
	QualityLow       MediaQuality = 1 // 480p
	QualityMedium    MediaQuality = 2 // 720p
	QualityHigh      MediaQuality = 3 // 1080p
	QualityOriginal  MediaQuality = 4 // 原始质量
)

// 附件尺寸限制
const (
	MaxImageSize    = 10 * 1024 * 1024  // 单张图片 10MB
	MaxVideoSize    = 100 * 1024 * 1024 // 单个视频 100MB
	MaxAudioSize    = 25 * 1024 * 1024  // 单个音频 25MB
	MaxDocumentSize = 50 * 1024 * 1024  // 单个文档 50MB
	MaxTotalSize    = 200 * 1024 * 1024 // 单条笔记附件总量 200MB

	MaxImageDimension = 8192   // 图片最大边长
	MaxVideoDimension = 4096   // 视频最大边长
	MaxVideoDuration  = 600.0  // 视频最长 10 分钟
	MaxAudioDuration  = 1800.0 // 音频最长 30 分钟

	DefaultSafetyThreshold = 0.7 // 内容安全分阈值
	MaxModerationFlags     = 10
)

// TenorGifData Tenor 动图元数据
type TenorGifData struct {
	TenorID            string   `json:"tenor_id"`
	SearchTerm         string   `json:"search_term,omitempty"`
	Title              string   `json:"title,omitempty"`
	ContentDescription string   `json:"content_description,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	Category           string   `json:"category,omitempty"`
	HasAudio           bool     `json:"has_audio"`
	ViewCount          int      `json:"view_count"`
	Rating             float64  `json:"rating"`
}

func (d TenorGifData) Validate() bool {
	return d.TenorID != ""
}

// MediaVariant 同一附件的不同质量/格式变体
type MediaVariant struct {
	Quality  MediaQuality `json:"quality"`
	URL      string       `json:"url"`
	Format   string       `json:"format"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	FileSize int64        `json:"file_size"`
	Bitrate  int          `json:"bitrate,omitempty"`
	Duration float64      `json:"duration,omitempty"`
}

func (v MediaVariant) Validate() bool {
	return v.URL != "" && v.Format != ""
}

// LinkPreview 链接预览元数据
type LinkPreview struct {
	URL          string   `json:"url"`
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	SiteName     string   `json:"site_name,omitempty"`
	Author       string   `json:"author,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	FaviconURL   string   `json:"favicon_url,omitempty"`
	CanonicalURL string   `json:"canonical_url,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	IsVideo      bool     `json:"is_video"`
	IsImage      bool     `json:"is_image"`
	IsArticle    bool     `json:"is_article"`
	ReadingTime  float64  `json:"reading_time,omitempty"`
}

func (p LinkPreview) Validate() bool {
	return p.URL != ""
}

// PollOption 投票选项
type PollOption struct {
	OptionID   string   `json:"option_id"`
	Text       string   `json:"text"`
	VoteCount  int      `json:"vote_count"`
	Percentage float64  `json:"percentage"`
	VoterIDs   []string `json:"voter_ids,omitempty"`
}

// PollData 投票附件数据
type PollData struct {
	PollID         string       `json:"poll_id"`
	Question       string       `json:"question"`
	Options        []PollOption `json:"options"`
	MultipleChoice bool         `json:"multiple_choice"`
	Anonymous      bool         `json:"anonymous"`
	ExpiresAt      int64        `json:"expires_at,omitempty"`
	TotalVotes     int          `json:"total_votes"`
	IsExpired      bool         `json:"is_expired"`
	VotedUserIDs   []string     `json:"voted_user_ids,omitempty"`
}

// Validate 投票至少要有两个选项
func (d PollData) Validate() bool {
	return d.Question != "" && len(d.Options) >= 2
}

// LocationData 位置信息
type LocationData struct {
	PlaceID     string            `json:"place_id"`
	Name        string            `json:"name"`
	Address     string            `json:"address,omitempty"`
	Latitude    float64           `json:"latitude"`
	Longitude   float64           `json:"longitude"`
	City        string            `json:"city,omitempty"`
	Country     string            `json:"country,omitempty"`
	CountryCode string            `json:"country_code,omitempty"`
	Timezone    string            `json:"timezone,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func (d LocationData) Validate() bool {
	return d.Name != "" && d.Latitude >= -90 && d.Latitude <= 90 &&
		d.Longitude >= -180 && d.Longitude <= 180
}

// Attachment 笔记媒体附件
type Attachment struct {
	AttachmentID string `gorm:"column:attachment_id;primaryKey;type:varchar(64)" json:"attachment_id"`
	NoteID       string `gorm:"column:note_id;type:varchar(64);index" json:"note_id,omitempty"`
	UploaderID   string `gorm:"column:uploader_id;type:varchar(64);not null;index" json:"uploader_id"`

	Type             AttachmentType   `gorm:"column:type;default:0" json:"type"`
	Status           ProcessingStatus `gorm:"column:status;default:0;index" json:"status"`
	OriginalFilename string           `gorm:"column:original_filename;type:varchar(255)" json:"original_filename,omitempty"`
	MimeType         string           `gorm:"column:mime_type;type:varchar(255)" json:"mime_type,omitempty"`
	FileSize         int64            `gorm:"column:file_size;default:0" json:"file_size"`
	Checksum         string           `gorm:"column:checksum;type:varchar(128)" json:"checksum,omitempty"`

	Width           int     `gorm:"column:width;default:0" json:"width,omitempty"`
	Height          int     `gorm:"column:height;default:0" json:"height,omitempty"`
	Duration        float64 `gorm:"column:duration;default:0" json:"duration,omitempty"`
	Bitrate         int     `gorm:"column:bitrate;default:0" json:"bitrate,omitempty"`
	ColorPalette    string  `gorm:"column:color_palette;type:varchar(255)" json:"color_palette,omitempty"`
	HasTransparency bool    `gorm:"column:has_transparency;default:0" json:"has_transparency,omitempty"`

	AltText     string   `gorm:"column:alt_text;type:varchar(1000)" json:"alt_text,omitempty"`
	Caption     string   `gorm:"column:caption;type:varchar(500)" json:"caption,omitempty"`
	Description string   `gorm:"column:description;type:text" json:"description,omitempty"`
	Tags        []string `gorm:"column:tags;serializer:json" json:"tags,omitempty"`
	IsSensitive bool     `gorm:"column:is_sensitive;default:0" json:"is_sensitive"`
	IsSpoiler   bool     `gorm:"column:is_spoiler;default:0" json:"is_spoiler"`

	PrimaryURL  string         `gorm:"column:primary_url;type:varchar(2048)" json:"primary_url,omitempty"`
	BackupURL   string         `gorm:"column:backup_url;type:varchar(2048)" json:"backup_url,omitempty"`
	StoragePath string         `gorm:"column:storage_path;type:varchar(512)" json:"storage_path,omitempty"`
	Variants    []MediaVariant `gorm:"column:variants;serializer:json" json:"variants,omitempty"`

	TenorData   *TenorGifData `gorm:"column:tenor_data;serializer:json" json:"tenor_data,omitempty"`
	LinkPreview *LinkPreview  `gorm:"column:link_preview;serializer:json" json:"link_preview,omitempty"`
	PollData    *PollData     `gorm:"column:poll_data;serializer:json" json:"poll_data,omitempty"`
	Location    *LocationData `gorm:"column:location_data;serializer:json" json:"location_data,omitempty"`

	ProcessingJobID    string            `gorm:"column:processing_job_id;type:varchar(64)" json:"processing_job_id,omitempty"`
	ProcessingErrors   []string          `gorm:"column:processing_errors;serializer:json" json:"processing_errors,omitempty"`
	ModerationFlags    map[string]string `gorm:"column:moderation_flags;serializer:json" json:"moderation_flags,omitempty"`
	ContentSafetyScore float64           `gorm:"column:content_safety_score;default:1" json:"content_safety_score"`

	ViewCount     int      `gorm:"column:view_count;default:0" json:"view_count"`
	DownloadCount int      `gorm:"column:download_count;default:0" json:"download_count"`
	ShareCount    int      `gorm:"column:share_count;default:0" json:"share_count"`
	ViewerIDs     []string `gorm:"column:viewer_ids;serializer:json" json:"viewer_ids,omitempty"`

	CreatedAt   int64  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   int64  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	ProcessedAt *int64 `gorm:"column:processed_at" json:"processed_at,omitempty"`
	ExpiresAt   *int64 `gorm:"column:expires_at" json:"expires_at,omitempty"`
}

func (Attachment) TableName() string {
	return "attachments"
}

// NewAttachment 创建指定 ID 的空附件
func NewAttachment(attachmentID string) *Attachment {
	now := time.Now().Unix()
	return &Attachment{
		AttachmentID:       attachmentID,
		Status:             ProcessingPending,
		ContentSafetyScore: 1.0,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// CreateImageAttachment 创建图片附件
func CreateImageAttachment(uploaderID, filename, mimeType string, fileSize int64) *Attachment {
	a := NewAttachment("")
	a.UploaderID = uploaderID
	a.Type = AttachmentImage
	a.OriginalFilename = filename
	a.MimeType = mimeType
	a.FileSize = fileSize
	return a
}

// CreateVideoAttachment 创建视频附件
func CreateVideoAttachment(uploaderID, filename, mimeType string, fileSize int64, duration float64) *Attachment {
	a := NewAttachment("")
	a.UploaderID = uploaderID
	a.Type = AttachmentVideo
	a.OriginalFilename = filename
	a.MimeType = mimeType
	a.FileSize = fileSize
	a.Duration = duration
	return a
}

// CreateTenorGif 创建 Tenor 动图附件, 无需媒体处理
func CreateTenorGif(uploaderID string, data TenorGifData) *Attachment {
	a := NewAttachment("")
	a.UploaderID = uploaderID
	a.Type = AttachmentTenorGif
	a.Status = ProcessingCompleted
	a.TenorData = &data
	return a
}

// CreateLinkPreviewAttachment 创建链接预览附件
func CreateLinkPreviewAttachment(uploaderID string, preview LinkPreview) *Attachment {
	a := NewAttachment("")
	a.UploaderID = uploaderID
	a.Type = AttachmentLinkPreview
	a.Status = ProcessingCompleted
	a.LinkPreview = &preview
	return a
}

// CreatePollAttachment 创建投票附件
func CreatePollAttachment(uploaderID string, poll PollData) *Attachment {
	a := NewAttachment("")
	a.UploaderID = uploaderID
	a.Type = AttachmentPoll
	a.Status = ProcessingCompleted
	a.PollData = &poll
	return a
}

// CreateLocationAttachment 创建位置附件
func CreateLocationAttachment(uploaderID string, location LocationData) *Attachment {
	a := NewAttachment("")
	a.UploaderID = uploaderID
	a.Type = AttachmentLocation
	a.Status = ProcessingCompleted
	a.Location = &location
	return a
}

// AddVariant 添加质量变体, 同档位覆盖旧值
func (a *Attachment) AddVariant(v MediaVariant) {
	for i := range a.Variants {
		if a.Variants[i].Quality == v.Quality && a.Variants[i].Format == v.Format {
			a.Variants[i] = v
			a.touch()
			return
		}
	}
	a.Variants = append(a.Variants, v)
	a.touch()
}

// GetBestVariant 返回不超过期望档位的最高质量变体, 没有则降级取最低档
func (a *Attachment) GetBestVariant(preferred MediaQuality) *MediaVariant {
	var best *MediaVariant
	for i := range a.Variants {
		v := &a.Variants[i]
		if v.Quality > preferred {
			continue
		}
		if best == nil || v.Quality > best.Quality {
			best = v
		}
	}
	if best == nil {
		for i := range a.Variants {
			v := &a.Variants[i]
			if best == nil || v.Quality < best.Quality {
				best = v
			}
		}
	}
	return best
}

// GetVariantsByFormat 按格式过滤变体
func (a *Attachment) GetVariantsByFormat(format string) []MediaVariant {
	var out []MediaVariant
	for _, v := range a.Variants {
		if v.Format == format {
			out = append(out, v)
		}
	}
	return out
}

func (a *Attachment) ClearVariants() {
	a.Variants = nil
	a.touch()
}

// GetURL 取指定档位的访问地址, 无变体时回退主地址
func (a *Attachment) GetURL(quality MediaQuality) string {
	if v := a.GetBestVariant(quality); v != nil {
		return v.URL
	}
	return a.PrimaryURL
}

func (a *Attachment) GetThumbnailURL() string {
	return a.GetURL(QualityThumbnail)
}

func (a *Attachment) GetDownloadURL() string {
	if v := a.GetBestVariant(QualityOriginal); v != nil {
		return v.URL
	}
	return a.PrimaryURL
}

// processingStage 把状态映射到单调阶段: 等待 < 处理中 < 终态
func processingStage(s ProcessingStatus) int {
	switch s {
	case ProcessingPending:
		return 0
	case ProcessingRunning:
		return 1
	default:
		return 2
	}
}

// SetProcessingStatus 更新处理状态, 完成时记录处理时间;
// 状态只能向前推进, 回退到更早阶段拒绝
func (a *Attachment) SetProcessingStatus(status ProcessingStatus, errMsg string) bool {
	if processingStage(status) < processingStage(a.Status) {
		return false
	}
	a.Status = status
	if errMsg != "" {
		a.ProcessingErrors = append(a.ProcessingErrors, errMsg)
	}
	if status == ProcessingCompleted {
		now := time.Now().Unix()
		a.ProcessedAt = &now
	}
	a.touch()
	return true
}

func (a *Attachment) AddProcessingError(err string) {
	a.ProcessingErrors = append(a.ProcessingErrors, err)
	a.touch()
}

func (a *Attachment) ClearProcessingErrors() {
	a.ProcessingErrors = nil
}

func (a *Attachment) IsProcessingComplete() bool {
	return a.Status == ProcessingCompleted
}

func (a *Attachment) IsProcessingFailed() bool {
	return a.Status == ProcessingFailed || a.Status == ProcessingVirusDetected ||
		a.Status == ProcessingRejected
}

// AddModerationFlag 添加审核标记, 超出上限忽略
func (a *Attachment) AddModerationFlag(flag, reason string) {
	if a.ModerationFlags == nil {
		a.ModerationFlags = make(map[string]string)
	}
	if len(a.ModerationFlags) >= MaxModerationFlags {
		if _, ok := a.ModerationFlags[flag]; !ok {
			return
		}
	}
	a.ModerationFlags[flag] = reason
	a.touch()
}

func (a *Attachment) RemoveModerationFlag(flag string) {
	delete(a.ModerationFlags, flag)
	a.touch()
}

func (a *Attachment) HasModerationFlags() bool {
	return len(a.ModerationFlags) > 0
}

func (a *Attachment) GetModerationFlags() []string {
	flags := make([]string, 0, len(a.ModerationFlags))
	for flag := range a.ModerationFlags {
		flags = append(flags, flag)
	}
	return flags
}

// SetContentSafetyScore 设置安全分并截断到 [0,1]
func (a *Attachment) SetContentSafetyScore(score float64) {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	a.ContentSafetyScore = score
	a.touch()
}

func (a *Attachment) IsContentSafe(threshold float64) bool {
	return a.ContentSafetyScore >= threshold
}

// RecordView 记录浏览, 同一用户只计入一次独立观众
func (a *Attachment) RecordView(userID string) {
	a.ViewCount++
	for _, id := range a.ViewerIDs {
		if id == userID {
			return
		}
	}
	a.ViewerIDs = append(a.ViewerIDs, userID)
}

func (a *Attachment) RecordDownload(string) {
	a.DownloadCount++
}

func (a *Attachment) RecordShare(string) {
	a.ShareCount++
}

func (a *Attachment) GetUniqueViewers() int {
	return len(a.ViewerIDs)
}

// MaxFileSize 返回类型对应的单文件大小上限, 0 表示不限
func MaxFileSize(t AttachmentType) int64 {
	switch t {
	case AttachmentImage, AttachmentGif, AttachmentSticker, AttachmentEmojiReaction:
		return MaxImageSize
	case AttachmentVideo:
		return MaxVideoSize
	case AttachmentAudio:
		return MaxAudioSize
	case AttachmentDocument:
		return MaxDocumentSize
	default:
		return 0
	}
}

// IsWithinSizeLimits 校验文件大小 / 尺寸 / 时长是否在类型上限内
func (a *Attachment) IsWithinSizeLimits() bool {
	if max := MaxFileSize(a.Type); max > 0 && a.FileSize > max {
		return false
	}
	switch a.Type {
	case AttachmentImage, AttachmentGif:
		if a.Width > MaxImageDimension || a.Height > MaxImageDimension {
			return false
		}
	case AttachmentVideo:
		if a.Width > MaxVideoDimension || a.Height > MaxVideoDimension {
			return false
		}
		if a.Duration > MaxVideoDuration {
			return false
		}
	case AttachmentAudio:
		if a.Duration > MaxAudioDuration {
			return false
		}
	}
	return true
}

// Validate 校验附件自身是否合法
func (a *Attachment) Validate() bool {
	if a.UploaderID == "" {
		return false
	}
	if !a.IsWithinSizeLimits() {
		return false
	}
	switch a.Type {
	case AttachmentTenorGif:
		return a.TenorData != nil && a.TenorData.Validate()
	case AttachmentLinkPreview:
		return a.LinkPreview != nil && a.LinkPreview.Validate()
	case AttachmentPoll:
		return a.PollData != nil && a.PollData.Validate()
	case AttachmentLocation:
		return a.Location != nil && a.Location.Validate()
	}
	return true
}

func (a *Attachment) IsImage() bool {
	return a.Type == AttachmentImage || a.Type == AttachmentGif || a.Type == AttachmentTenorGif
}

func (a *Attachment) IsVideo() bool {
	return a.Type == AttachmentVideo
}

func (a *Attachment) IsAudio() bool {
	return a.Type == AttachmentAudio
}

func (a *Attachment) IsAnimated() bool {
	return a.Type == AttachmentGif || a.Type == AttachmentTenorGif || a.Type == AttachmentVideo
}

// RequiresProcessing 是否需要进入媒体处理流水线
func (a *Attachment) RequiresProcessing() bool {
	switch a.Type {
	case AttachmentImage, AttachmentVideo, AttachmentGif, AttachmentAudio, AttachmentDocument:
		return true
	}
	return false
}

func (a *Attachment) GetAspectRatio() float64 {
	if a.Height == 0 {
		return 0
	}
	return float64(a.Width) / float64(a.Height)
}

func (a *Attachment) GetFileExtension() string {
	idx := strings.LastIndex(a.OriginalFilename, ".")
	if idx < 0 || idx == len(a.OriginalFilename)-1 {
		return ""
	}
	return strings.ToLower(a.OriginalFilename[idx+1:])
}

// GetDisplayName 展示名, 优先取说明文字
func (a *Attachment) GetDisplayName() string {
	if a.Caption != "" {
		return a.Caption
	}
	if a.OriginalFilename != "" {
		return a.OriginalFilename
	}
	return a.AttachmentID
}

func (a *Attachment) touch() {
	a.UpdatedAt = time.Now().Unix()
}
