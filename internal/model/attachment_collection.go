package model

// 单条笔记附件集合的容量上限
const MaxCollectionAttachments = 10

// AttachmentCollection 附件集合, 支持批量操作
type AttachmentCollection struct {
	Attachments []Attachment `json:"attachments"`
}

// Add 添加附件, 集合已满时拒绝
func (c *AttachmentCollection) Add(a Attachment) bool {
	if c.IsFull() {
		return false
	}
	c.Attachments = append(c.Attachments, a)
	return true
}

// Remove 按 ID 移除附件, 不存在时返回 false
func (c *AttachmentCollection) Remove(attachmentID string) bool {
	for i := range c.Attachments {
		if c.Attachments[i].AttachmentID == attachmentID {
			c.Attachments = append(c.Attachments[:i], c.Attachments[i+1:]...)
			return true
		}
	}
	return false
}

func (c *AttachmentCollection) Clear() {
	c.Attachments = nil
}

func (c *AttachmentCollection) Size() int {
	return len(c.Attachments)
}

func (c *AttachmentCollection) Empty() bool {
	return len(c.Attachments) == 0
}

func (c *AttachmentCollection) IsFull() bool {
	return len(c.Attachments) >= MaxCollectionAttachments
}

// Validate 集合内每个附件合法且总量不超限
func (c *AttachmentCollection) Validate() bool {
	if len(c.Attachments) > MaxCollectionAttachments {
		return false
	}
	for i := range c.Attachments {
		if !c.Attachments[i].Validate() {
			return false
		}
	}
	return c.IsWithinTotalSizeLimit()
}

func (c *AttachmentCollection) IsWithinTotalSizeLimit() bool {
	return c.GetTotalSize() <= MaxTotalSize
}

// HasMixedTypes 是否混合了多种附件类型
func (c *AttachmentCollection) HasMixedTypes() bool {
	if len(c.Attachments) < 2 {
		return false
	}
	first := c.Attachments[0].Type
	for _, a := range c.Attachments[1:] {
		if a.Type != first {
			return true
		}
	}
	return false
}

// SetNoteID 把集合内附件统一关联到笔记
func (c *AttachmentCollection) SetNoteID(noteID string) {
	for i := range c.Attachments {
		c.Attachments[i].NoteID = noteID
	}
}

func (c *AttachmentCollection) MarkAllAsSensitive(sensitive bool) {
	for i := range c.Attachments {
		c.Attachments[i].IsSensitive = sensitive
	}
}

func (c *AttachmentCollection) GetByType(t AttachmentType) []Attachment {
	var out []Attachment
	for _, a := range c.Attachments {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

func (c *AttachmentCollection) GetProcessingAttachments() []Attachment {
	var out []Attachment
	for _, a := range c.Attachments {
		if a.Status == ProcessingPending || a.Status == ProcessingRunning {
			out = append(out, a)
		}
	}
	return out
}

func (c *AttachmentCollection) GetFailedAttachments() []Attachment {
	var out []Attachment
	for i := range c.Attachments {
		if c.Attachments[i].IsProcessingFailed() {
			out = append(out, c.Attachments[i])
		}
	}
	return out
}

func (c *AttachmentCollection) GetTotalViews() int {
	total := 0
	for _, a := range c.Attachments {
		total += a.ViewCount
	}
	return total
}

func (c *AttachmentCollection) GetTotalDownloads() int {
	total := 0
	for _, a := range c.Attachments {
		total += a.DownloadCount
	}
	return total
}

func (c *AttachmentCollection) GetTotalSize() int64 {
	var total int64
	for _, a := range c.Attachments {
		total += a.FileSize
	}
	return total
}
