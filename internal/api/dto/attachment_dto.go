package dto

// CreateUploadDTO 申请上传图片/视频/音频附件
type CreateUploadDTO struct {
	UploaderID string  `json:"uploader_id" binding:"required"`
	Type       int     `json:"type" validate:"min=0,max=10"`
	Filename   string  `json:"filename" binding:"required" validate:"min=1,max=255"`
	MimeType   string  `json:"mime_type" binding:"required" validate:"min=1,max=255"`
	FileSize   int64   `json:"file_size" binding:"required" validate:"min=1"`
	Duration   float64 `json:"duration" validate:"omitempty,min=0"`
}

// UploadTicketDTO 预签名上传凭据
type UploadTicketDTO struct {
	AttachmentID string `json:"attachment_id"`
	ObjectName   string `json:"object_name"`
	UploadURL    string `json:"upload_url"`
}

// TenorGifDTO 引用 Tenor 动图
type TenorGifDTO struct {
	UploaderID string   `json:"uploader_id" binding:"required"`
	TenorID    string   `json:"tenor_id" binding:"required"`
	SearchTerm string   `json:"search_term" validate:"omitempty,max=255"`
	Title      string   `json:"title" validate:"omitempty,max=255"`
	Tags       []string `json:"tags" validate:"max=10"`
	HasAudio   bool     `json:"has_audio"`
}

// LinkPreviewDTO 生成链接预览附件
type LinkPreviewDTO struct {
	UploaderID string `json:"uploader_id" binding:"required"`
	URL        string `json:"url" binding:"required" validate:"url,max=2048"`
}

// CreatePollDTO 创建投票附件
type CreatePollDTO struct {
	UploaderID     string   `json:"uploader_id" binding:"required"`
	Question       string   `json:"question" binding:"required" validate:"min=1,max=300"`
	Options        []string `json:"options" binding:"required" validate:"min=2,max=4,dive,min=1,max=100"`
	MultipleChoice bool     `json:"multiple_choice"`
	Anonymous      bool     `json:"anonymous"`
	ExpiresAt      *int64   `json:"expires_at,omitempty"`
}

// CreateLocationDTO 创建位置附件
type CreateLocationDTO struct {
	UploaderID string  `json:"uploader_id" binding:"required"`
	Name       string  `json:"name" binding:"required" validate:"min=1,max=255"`
	Address    string  `json:"address" validate:"omitempty,max=512"`
	Latitude   float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude  float64 `json:"longitude" validate:"min=-180,max=180"`
	City       string  `json:"city" validate:"omitempty,max=128"`
	Country    string  `json:"country" validate:"omitempty,max=128"`
}

// ModerationFlagDTO 附件审核标记
type ModerationFlagDTO struct {
	Flag        string  `json:"flag" binding:"required" validate:"min=1,max=64"`
	SafetyScore float64 `json:"safety_score" validate:"min=0,max=1"`
}
