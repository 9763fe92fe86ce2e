package model

import (
	"reflect"
	"testing"
)

func newTestThread() *Thread {
	return NewThread("thread_1", "note_0", "author_1", "")
}

func TestNewThreadDefaults(t *testing.T) {
	th := newTestThread()
	if !reflect.DeepEqual(th.NoteIDs, []string{"note_0"}) {
		t.Fatalf("新串应包含起始笔记, 实际 %v", th.NoteIDs)
	}
	if th.TotalNotes != 1 || th.UniqueParticipants != 1 {
		t.Error("新串计数初始化不符")
	}
	if !th.IsPublished || th.IsLocked {
		t.Error("新串应已发布且未锁定")
	}
	if !th.IsValid() {
		t.Errorf("新串应通过校验: %v", th.Validate())
	}
}

func TestAddNote(t *testing.T) {
	th := newTestThread()

	if !th.AddNote("note_1", -1) {
		t.Fatal("追加应成功")
	}
	if !th.AddNote("note_2", -1) {
		t.Fatal("追加应成功")
	}
	// 插入到中间
	if !th.AddNote("note_x", 1) {
		t.Fatal("按位置插入应成功")
	}
	want := []string{"note_0", "note_x", "note_1", "note_2"}
	if !reflect.DeepEqual(th.NoteIDs, want) {
		t.Errorf("顺序不符: %v", th.NoteIDs)
	}
	if th.TotalNotes != 4 {
		t.Errorf("总数应为 4, 实际 %d", th.TotalNotes)
	}

	// 重复拒绝
	if th.AddNote("note_1", -1) {
		t.Error("重复笔记应被拒绝")
	}
	// 位置 0 固定给起始笔记
	if th.AddNote("note_head", 0) {
		t.Error("插入位置 0 应被拒绝")
	}
	if th.NoteIDs[0] != "note_0" {
		t.Errorf("起始笔记应留在 0 号位, 实际 %v", th.NoteIDs)
	}
	// 越界位置等同追加
	if !th.AddNote("note_tail", 99) {
		t.Error("越界位置应追加到末尾")
	}
	if th.NoteIDs[len(th.NoteIDs)-1] != "note_tail" {
		t.Errorf("应追加到末尾, 实际 %v", th.NoteIDs)
	}
}

func TestAddNoteLocked(t *testing.T) {
	th := newTestThread()
	th.Lock()
	before := append([]string(nil), th.NoteIDs...)
	if th.AddNote("note_1", -1) {
		t.Error("锁定的串应拒绝加入")
	}
	if !reflect.DeepEqual(th.NoteIDs, before) {
		t.Error("失败的加入不应改变串")
	}
	th.Unlock()
	if !th.AddNote("note_1", -1) {
		t.Error("解锁后应可加入")
	}
}

func TestRemoveNote(t *testing.T) {
	th := newTestThread()
	th.AddNote("note_1", -1)

	if th.RemoveNote("note_0") {
		t.Error("起始笔记不可移除")
	}
	if th.RemoveNote("missing") {
		t.Error("不存在的笔记移除应失败")
	}
	if !th.RemoveNote("note_1") {
		t.Error("移除应成功")
	}
	if th.TotalNotes != 1 {
		t.Errorf("移除后总数应为 1, 实际 %d", th.TotalNotes)
	}
}

func TestRemoveNoteLocked(t *testing.T) {
	th := newTestThread()
	th.AddNote("note_1", -1)
	th.Lock()
	before := append([]string(nil), th.NoteIDs...)
	if th.RemoveNote("note_1") {
		t.Error("锁定的串应拒绝移除")
	}
	if !reflect.DeepEqual(th.NoteIDs, before) {
		t.Error("失败的移除不应改变串")
	}
}

func TestReorderNote(t *testing.T) {
	th := newTestThread()
	th.AddNote("note_1", -1)
	th.AddNote("note_2", -1)

	if th.ReorderNote("note_0", 2) {
		t.Error("起始笔记不可离开位置 0")
	}
	if th.ReorderNote("missing", 1) {
		t.Error("不存在的笔记不可移动")
	}
	if !th.ReorderNote("note_2", 1) {
		t.Fatal("合法移动应成功")
	}
	want := []string{"note_0", "note_2", "note_1"}
	if !reflect.DeepEqual(th.NoteIDs, want) {
		t.Errorf("移动后顺序不符: %v", th.NoteIDs)
	}
	if th.ReorderNote("note_1", -2) {
		t.Error("负位置应被拒绝")
	}
	if th.ReorderNote("note_1", 0) {
		t.Error("非起始笔记不可移到位置 0")
	}

	th.Lock()
	before := append([]string(nil), th.NoteIDs...)
	if th.ReorderNote("note_2", 2) {
		t.Error("锁定的串应拒绝重排")
	}
	if !reflect.DeepEqual(th.NoteIDs, before) {
		t.Error("失败的重排不应改变串")
	}
}

func TestNavigation(t *testing.T) {
	th := newTestThread()
	th.AddNote("note_1", -1)
	th.AddNote("note_2", -1)

	if got := th.GetNotePosition("note_1"); got != 1 {
		t.Errorf("位置应为 1, 实际 %d", got)
	}
	if got := th.GetNextNoteID("note_1"); got != "note_2" {
		t.Errorf("下一条应为 note_2, 实际 %s", got)
	}
	if got := th.GetNextNoteID("note_2"); got != "" {
		t.Error("末尾的下一条应为空")
	}
	if got := th.GetPreviousNoteID("note_0"); got != "" {
		t.Error("起始的上一条应为空")
	}
	if got := th.GetPreviousNoteID("note_2"); got != "note_1" {
		t.Errorf("上一条应为 note_1, 实际 %s", got)
	}
}

func TestCompleteAndReopen(t *testing.T) {
	th := newTestThread()
	th.Complete()
	if !th.IsCompleted() || !th.IsLocked {
		t.Error("完结应记录时间并自动锁定")
	}
	th.Reopen()
	if th.IsCompleted() || th.IsLocked {
		t.Error("重开应清空完结时间并解锁")
	}
}

func TestModeration(t *testing.T) {
	th := newTestThread()

	th.BlockUser("author_1")
	if th.IsUserBlocked("author_1") {
		t.Error("作者不可被拉黑")
	}

	th.BlockUser("troll")
	th.BlockUser("troll")
	if len(th.BlockedUserIDs) != 1 {
		t.Error("拉黑应去重")
	}
	if th.CanUserAddNote("troll") {
		t.Error("被拉黑用户不可加入")
	}
	th.UnblockUser("troll")
	if th.IsUserBlocked("troll") {
		t.Error("解除拉黑后应可用")
	}

	th.AddModerator("mod_1")
	if !th.CanUserModerate("mod_1") || !th.CanUserModerate("author_1") {
		t.Error("作者和管理员可以管理")
	}
	if th.CanUserModerate("stranger") {
		t.Error("普通用户不可管理")
	}
	th.RemoveModerator("mod_1")
	if th.CanUserModerate("mod_1") {
		t.Error("移除后不再有管理权限")
	}
}

func TestCanUserAddNote(t *testing.T) {
	th := newTestThread()
	if !th.CanUserAddNote("anyone") {
		t.Error("公开串任何人可加入")
	}
	th.Visibility = VisibilityFollowersOnly
	if th.CanUserAddNote("anyone") {
		t.Error("非公开串外人不可加入")
	}
	if !th.CanUserAddNote("author_1") {
		t.Error("作者总是可以加入")
	}
	th.Lock()
	if th.CanUserAddNote("author_1") {
		t.Error("锁定后连作者也不可加入")
	}
}

func TestCanUserView(t *testing.T) {
	th := newTestThread()
	if !th.CanUserView("anyone") {
		t.Error("公开串任何人可见")
	}
	th.IsPublished = false
	if th.CanUserView("anyone") {
		t.Error("未发布的串对外不可见")
	}
	if !th.CanUserView("author_1") {
		t.Error("作者总是可见")
	}
	th.IsPublished = true
	th.Visibility = VisibilityPrivate
	if th.CanUserView("anyone") {
		t.Error("私密串对外不可见")
	}
}

func TestThreadEngagement(t *testing.T) {
	th := newTestThread()
	th.RecordView("v1")
	th.RecordView("v2")
	th.TotalLikes = 3
	th.TotalRenotes = 1
	th.TotalReplies = 2

	if th.TotalViews != 2 {
		t.Errorf("浏览数应为 2, 实际 %d", th.TotalViews)
	}
	if th.GetTotalEngagement() != 6 {
		t.Errorf("总互动应为 6, 实际 %d", th.GetTotalEngagement())
	}
	if rate := th.CalculateEngagementRate(); rate != 3.0 {
		t.Errorf("互动率应为 3.0, 实际 %f", rate)
	}
}

func TestThreadValidation(t *testing.T) {
	th := newTestThread()
	th.NoteIDs = []string{"other", "note_0"}
	if th.IsValid() {
		t.Error("第一条不是起始笔记时应校验失败")
	}
	th.NoteIDs = nil
	if th.IsValid() {
		t.Error("空串应校验失败")
	}
}
