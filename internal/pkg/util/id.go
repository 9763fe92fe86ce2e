package util

import (
	"strings"

	"github.com/google/uuid"
)

// IDGenerator 统一的业务 ID 生成器, 便于测试替换
type IDGenerator interface {
	NewNoteID() string
	NewThreadID() string
	NewAttachmentID() string
	NewTraceID() string
}

type uuidGenerator struct{}

func NewIDGenerator() IDGenerator {
	return uuidGenerator{}
}

func (uuidGenerator) NewNoteID() string {
	return "note_" + compactUUID()
}

func (uuidGenerator) NewThreadID() string {
	return "thread_" + compactUUID()
}

func (uuidGenerator) NewAttachmentID() string {
	return "att_" + compactUUID()
}

func (uuidGenerator) NewTraceID() string {
	return uuid.NewString()
}

func compactUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
