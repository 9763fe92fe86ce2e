package service

import (
	"context"
	"testing"

	"notehub/internal/api/dto"
	"notehub/internal/model"
	"notehub/internal/pkg/util"
	"notehub/internal/repository"
)

func newThreadService(threadRepo *mockThreadRepo, noteRepo *mockNoteRepo) ThreadService {
	return NewThreadService(threadRepo, noteRepo, util.NewIDGenerator())
}

func TestCreateThreadWithStarterNote(t *testing.T) {
	var savedNote *model.Note
	var savedThread *model.Thread
	noteRepo := &mockNoteRepo{
		createNoteFn: func(ctx context.Context, note *model.Note) error {
			savedNote = note
			return nil
		},
	}
	threadRepo := &mockThreadRepo{
		createThreadFn: func(ctx context.Context, thread *model.Thread) error {
			savedThread = thread
			return nil
		},
	}
	svc := newThreadService(threadRepo, noteRepo)

	got, err := svc.CreateThread(context.Background(), &dto.CreateThreadDTO{
		AuthorID: "user_alice",
		Title:    "Go 学习笔记",
		Tags:     []string{"golang"},
		Content:  "first note",
	})
	if err != nil {
		t.Fatalf("开串失败: %v", err)
	}
	if savedNote == nil || savedThread == nil {
		t.Fatal("起始笔记和串都应落库")
	}
	if savedThread.StarterNoteID != savedNote.NoteID {
		t.Error("起始笔记 id 不一致")
	}
	if savedNote.ThreadID == nil || *savedNote.ThreadID != savedThread.ThreadID {
		t.Error("起始笔记未关联串")
	}
	if savedNote.ThreadPosition != 0 {
		t.Errorf("起始笔记位置应为 0, 实际 %d", savedNote.ThreadPosition)
	}
	if got.TotalNotes != 1 {
		t.Errorf("新串应只有 1 条笔记, 实际 %d", got.TotalNotes)
	}
}

func TestCreateThreadDuplicate(t *testing.T) {
	threadRepo := &mockThreadRepo{
		createThreadFn: func(ctx context.Context, thread *model.Thread) error {
			return repository.ErrThreadAlreadyExists
		},
	}
	svc := newThreadService(threadRepo, &mockNoteRepo{})

	_, err := svc.CreateThread(context.Background(), &dto.CreateThreadDTO{
		AuthorID: "user_alice",
		Content:  "first note",
	})
	if err != ErrThreadExist {
		t.Errorf("重复创建应返回串已存在, 实际 %v", err)
	}
}

func TestAppendNoteLockedThread(t *testing.T) {
	thread := model.NewThread("thread_1", "note_1", "user_alice", "")
	thread.Lock()
	threadRepo := &mockThreadRepo{
		getThreadFn: func(ctx context.Context, threadID string) (*model.Thread, error) {
			return thread, nil
		},
	}
	svc := newThreadService(threadRepo, &mockNoteRepo{})

	_, err := svc.AppendNote(context.Background(), "thread_1", &dto.AppendThreadNoteDTO{
		AuthorID: "user_alice",
		Content:  "more",
	})
	if err != ErrThreadLocked {
		t.Errorf("锁定的串应拒绝追加, 实际 %v", err)
	}
}

func TestAppendNoteBlockedUser(t *testing.T) {
	thread := model.NewThread("thread_1", "note_1", "user_alice", "")
	thread.BlockUser("user_troll")
	threadRepo := &mockThreadRepo{
		getThreadFn: func(ctx context.Context, threadID string) (*model.Thread, error) {
			return thread, nil
		},
	}
	svc := newThreadService(threadRepo, &mockNoteRepo{})

	_, err := svc.AppendNote(context.Background(), "thread_1", &dto.AppendThreadNoteDTO{
		AuthorID: "user_troll",
		Content:  "spam",
	})
	if err != ErrUserBlocked {
		t.Errorf("被拉黑用户应拒绝, 实际 %v", err)
	}
}

func TestAppendNoteUpdatesThread(t *testing.T) {
	thread := model.NewThread("thread_1", "note_1", "user_alice", "")
	var updated *model.Thread
	threadRepo := &mockThreadRepo{
		getThreadFn: func(ctx context.Context, threadID string) (*model.Thread, error) {
			return thread, nil
		},
		updateThreadFn: func(ctx context.Context, th *model.Thread) error {
			updated = th
			return nil
		},
	}
	svc := newThreadService(threadRepo, &mockNoteRepo{})

	got, err := svc.AppendNote(context.Background(), "thread_1", &dto.AppendThreadNoteDTO{
		AuthorID: "user_alice",
		Content:  "second",
	})
	if err != nil {
		t.Fatalf("追加失败: %v", err)
	}
	if updated == nil || updated.TotalNotes != 2 {
		t.Errorf("串笔记数应为 2")
	}
	if got.ThreadID == nil || *got.ThreadID != "thread_1" {
		t.Error("新笔记未关联串")
	}
	if got.ThreadPosition < 1 {
		t.Errorf("追加位置应在起始笔记之后, 实际 %d", got.ThreadPosition)
	}
}

func TestRemoveReorderLockedThread(t *testing.T) {
	thread := model.NewThread("thread_1", "note_1", "user_alice", "")
	thread.AddNote("note_2", -1)
	thread.Lock()
	threadRepo := &mockThreadRepo{
		getThreadFn: func(ctx context.Context, threadID string) (*model.Thread, error) {
			return thread, nil
		},
	}
	svc := newThreadService(threadRepo, &mockNoteRepo{})

	if err := svc.RemoveNote(context.Background(), "thread_1", "note_2", "user_alice"); err != ErrThreadLocked {
		t.Errorf("锁定的串应拒绝移除, 实际 %v", err)
	}
	err := svc.ReorderNote(context.Background(), "thread_1", &dto.ReorderThreadNoteDTO{
		UserID:      "user_alice",
		NoteID:      "note_2",
		NewPosition: 1,
	})
	if err != ErrThreadLocked {
		t.Errorf("锁定的串应拒绝重排, 实际 %v", err)
	}
}

func TestRemoveStarterNoteRejected(t *testing.T) {
	thread := model.NewThread("thread_1", "note_1", "user_alice", "")
	threadRepo := &mockThreadRepo{
		getThreadFn: func(ctx context.Context, threadID string) (*model.Thread, error) {
			return thread, nil
		},
	}
	svc := newThreadService(threadRepo, &mockNoteRepo{})

	err := svc.RemoveNote(context.Background(), "thread_1", "note_1", "user_alice")
	if err != ErrStarterImmovable {
		t.Errorf("起始笔记不可移除, 实际 %v", err)
	}
}

func TestReorderStarterRejected(t *testing.T) {
	thread := model.NewThread("thread_1", "note_1", "user_alice", "")
	thread.AddNote("note_2", -1)
	threadRepo := &mockThreadRepo{
		getThreadFn: func(ctx context.Context, threadID string) (*model.Thread, error) {
			return thread, nil
		},
	}
	svc := newThreadService(threadRepo, &mockNoteRepo{})

	err := svc.ReorderNote(context.Background(), "thread_1", &dto.ReorderThreadNoteDTO{
		UserID:      "user_alice",
		NoteID:      "note_1",
		NewPosition: 1,
	})
	if err != ErrStarterImmovable {
		t.Errorf("起始笔记不可移动, 实际 %v", err)
	}
}

func TestModerationRequiresAuthority(t *testing.T) {
	thread := model.NewThread("thread_1", "note_1", "user_alice", "")
	threadRepo := &mockThreadRepo{
		getThreadFn: func(ctx context.Context, threadID string) (*model.Thread, error) {
			return thread, nil
		},
	}
	svc := newThreadService(threadRepo, &mockNoteRepo{})

	if err := svc.LockThread(context.Background(), "thread_1", "user_mallory"); err != UnauthorizedError {
		t.Errorf("非作者加锁应拒绝, 实际 %v", err)
	}
	if err := svc.LockThread(context.Background(), "thread_1", "user_alice"); err != nil {
		t.Errorf("作者加锁失败: %v", err)
	}
	if !thread.IsLocked {
		t.Error("串应已锁定")
	}
}

func TestCompleteThreadLocks(t *testing.T) {
	thread := model.NewThread("thread_1", "note_1", "user_alice", "")
	threadRepo := &mockThreadRepo{
		getThreadFn: func(ctx context.Context, threadID string) (*model.Thread, error) {
			return thread, nil
		},
	}
	svc := newThreadService(threadRepo, &mockNoteRepo{})

	if err := svc.CompleteThread(context.Background(), "thread_1", "user_alice"); err != nil {
		t.Fatalf("完结失败: %v", err)
	}
	if !thread.IsCompleted() || !thread.IsLocked {
		t.Error("完结的串应自动锁定")
	}

	if err := svc.ReopenThread(context.Background(), "thread_1", "user_alice"); err != nil {
		t.Fatalf("重开失败: %v", err)
	}
	if thread.IsCompleted() || thread.IsLocked {
		t.Error("重开后应解除完结与锁定")
	}
}

func TestBlockAuthorIgnored(t *testing.T) {
	thread := model.NewThread("thread_1", "note_1", "user_alice", "")
	threadRepo := &mockThreadRepo{
		getThreadFn: func(ctx context.Context, threadID string) (*model.Thread, error) {
			return thread, nil
		},
	}
	svc := newThreadService(threadRepo, &mockNoteRepo{})

	err := svc.BlockUser(context.Background(), "thread_1", &dto.ThreadModerationDTO{
		UserID:       "user_alice",
		TargetUserID: "user_alice",
	})
	if err != nil {
		t.Fatalf("拉黑调用失败: %v", err)
	}
	if thread.IsUserBlocked("user_alice") {
		t.Error("作者不应被拉黑")
	}
}

func TestRecordViewDedupFallsBackOnRedisError(t *testing.T) {
	thread := model.NewThread("thread_1", "note_1", "user_alice", "")
	viewRecorded := false
	threadRepo := &mockThreadRepo{
		getThreadFn: func(ctx context.Context, threadID string) (*model.Thread, error) {
			return thread, nil
		},
		recordViewFn: func(ctx context.Context, threadID, userID string, viewedAt int64) error {
			viewRecorded = true
			return nil
		},
	}
	svc := newThreadService(threadRepo, &mockNoteRepo{})

	// redis 不可用时退化为每次都计数
	err := svc.RecordView(context.Background(), "thread_1", &dto.ThreadViewDTO{UserID: "user_bob"})
	if err != nil {
		t.Fatalf("记录浏览失败: %v", err)
	}
	if !viewRecorded {
		t.Error("应写入浏览明细")
	}
	if thread.TotalViews != 1 {
		t.Errorf("浏览计数应为 1, 实际 %d", thread.TotalViews)
	}
}
