package util

import (
	"strings"
	"testing"
)

func TestIDGenerator(t *testing.T) {
	gen := NewIDGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := gen.NewNoteID()
		if id == "" || !strings.HasPrefix(id, "note_") {
			t.Fatalf("非法的笔记 ID: %q", id)
		}
		if _, ok := seen[id]; ok {
			t.Fatalf("ID 重复: %q", id)
		}
		seen[id] = struct{}{}
	}

	if !strings.HasPrefix(gen.NewThreadID(), "thread_") {
		t.Error("串 ID 前缀不符")
	}
	if !strings.HasPrefix(gen.NewAttachmentID(), "att_") {
		t.Error("附件 ID 前缀不符")
	}
	if gen.NewTraceID() == "" {
		t.Error("trace id 不应为空")
	}
}
