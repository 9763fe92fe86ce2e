package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"notehub/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newNoteRepo(t *testing.T) NoteRepo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	err = db.AutoMigrate(
		&model.Note{},
		&model.NoteHashtag{},
		&model.NoteMention{},
		&model.NoteURL{},
		&model.NoteMetric{},
		&model.NoteInteraction{},
	)
	if err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return NewNoteRepository(db)
}

func buildNote(id, author, content string) *model.Note {
	n := model.NewNote(author, content, model.NoteOriginal)
	n.NoteID = id
	return n
}

func TestCreateAndGetNote(t *testing.T) {
	repo := newNoteRepo(t)
	ctx := context.Background()

	note := buildNote("note_1", "user_alice", "Hello @bob check #golang at https://go.dev")
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("创建笔记失败: %v", err)
	}

	got, err := repo.GetNote(ctx, "note_1")
	if err != nil {
		t.Fatalf("查询笔记失败: %v", err)
	}
	if got.Content != note.Content {
		t.Errorf("内容不一致: %q", got.Content)
	}
	if len(got.Hashtags) != 1 || got.Hashtags[0] != "golang" {
		t.Errorf("话题回填错误: %v", got.Hashtags)
	}
	if len(got.MentionedUserIDs) != 1 || got.MentionedUserIDs[0] != "user_bob" {
		t.Errorf("提及回填错误: %v", got.MentionedUserIDs)
	}
	if len(got.MentionedUsernames) != 1 || got.MentionedUsernames[0] != "bob" {
		t.Errorf("提及用户名回填错误: %v", got.MentionedUsernames)
	}
	if len(got.URLs) != 1 || got.URLs[0] != "https://go.dev" {
		t.Errorf("链接回填错误: %v", got.URLs)
	}
	if got.LikeCount != 0 || got.ViewCount != 0 {
		t.Errorf("初始计数应为 0: like=%d view=%d", got.LikeCount, got.ViewCount)
	}
}

func TestGetNoteNotFound(t *testing.T) {
	repo := newNoteRepo(t)
	_, err := repo.GetNote(context.Background(), "note_missing")
	if err != gorm.ErrRecordNotFound {
		t.Errorf("期望 ErrRecordNotFound, 实际 %v", err)
	}
}

func TestUpdateNoteRebuildsFeatures(t *testing.T) {
	repo := newNoteRepo(t)
	ctx := context.Background()

	note := buildNote("note_1", "user_alice", "old #before")
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("创建笔记失败: %v", err)
	}

	note.SetContent("new #after")
	if err := repo.UpdateNote(ctx, note); err != nil {
		t.Fatalf("更新笔记失败: %v", err)
	}

	got, err := repo.GetNote(ctx, "note_1")
	if err != nil {
		t.Fatalf("查询笔记失败: %v", err)
	}
	if len(got.Hashtags) != 1 || got.Hashtags[0] != "after" {
		t.Errorf("侧表未重建: %v", got.Hashtags)
	}

	before, err := repo.GetByHashtag(ctx, "before", 10, 0)
	if err != nil {
		t.Fatalf("话题查询失败: %v", err)
	}
	if len(before) != 0 {
		t.Errorf("旧话题应已清除, 实际命中 %d 条", len(before))
	}
}

func TestDeleteNoteRemovesSideData(t *testing.T) {
	repo := newNoteRepo(t)
	ctx := context.Background()

	note := buildNote("note_1", "user_alice", "bye #gone")
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("创建笔记失败: %v", err)
	}
	if err := repo.DeleteNote(ctx, "note_1"); err != nil {
		t.Fatalf("删除笔记失败: %v", err)
	}
	if _, err := repo.GetNote(ctx, "note_1"); err != gorm.ErrRecordNotFound {
		t.Errorf("删除后仍可查询: %v", err)
	}
	hits, err := repo.GetByHashtag(ctx, "gone", 10, 0)
	if err != nil {
		t.Fatalf("话题查询失败: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("话题侧表未清理, 命中 %d 条", len(hits))
	}
}

func TestInteractionsIdempotent(t *testing.T) {
	repo := newNoteRepo(t)
	ctx := context.Background()

	note := buildNote("note_1", "user_alice", "like me")
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("创建笔记失败: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.UpsertInteraction(ctx, "note_1", "user_bob", "like"); err != nil {
			t.Fatalf("第 %d 次点赞失败: %v", i+1, err)
		}
	}

	liked, err := repo.GetLikedByUser(ctx, "user_bob", 10, 0)
	if err != nil {
		t.Fatalf("查询点赞列表失败: %v", err)
	}
	if len(liked) != 1 {
		t.Fatalf("重复点赞应幂等, 实际 %d 条", len(liked))
	}
	if len(liked[0].LikedByUserIDs) != 1 || liked[0].LikedByUserIDs[0] != "user_bob" {
		t.Errorf("点赞用户回填错误: %v", liked[0].LikedByUserIDs)
	}

	if err = repo.RemoveInteraction(ctx, "note_1", "user_bob", "like"); err != nil {
		t.Fatalf("取消点赞失败: %v", err)
	}
	liked, err = repo.GetLikedByUser(ctx, "user_bob", 10, 0)
	if err != nil {
		t.Fatalf("查询点赞列表失败: %v", err)
	}
	if len(liked) != 0 {
		t.Errorf("取消后仍有 %d 条点赞记录", len(liked))
	}
}

func TestApplyMetricDeltas(t *testing.T) {
	repo := newNoteRepo(t)
	ctx := context.Background()

	note := buildNote("note_1", "user_alice", "count me")
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("创建笔记失败: %v", err)
	}

	err := repo.ApplyMetricDeltas(ctx, "note_1", map[string]int64{
		"like_count": 3,
		"view_count": 10,
	})
	if err != nil {
		t.Fatalf("应用计数增量失败: %v", err)
	}

	got, err := repo.GetNote(ctx, "note_1")
	if err != nil {
		t.Fatalf("查询笔记失败: %v", err)
	}
	if got.LikeCount != 3 || got.ViewCount != 10 {
		t.Errorf("计数未生效: like=%d view=%d", got.LikeCount, got.ViewCount)
	}

	// 负增量截断到 0
	err = repo.ApplyMetricDeltas(ctx, "note_1", map[string]int64{"like_count": -5})
	if err != nil {
		t.Fatalf("应用负增量失败: %v", err)
	}
	got, err = repo.GetNote(ctx, "note_1")
	if err != nil {
		t.Fatalf("查询笔记失败: %v", err)
	}
	if got.LikeCount != 0 {
		t.Errorf("负增量应截断到 0, 实际 %d", got.LikeCount)
	}
}

func TestSearchNotesRouting(t *testing.T) {
	repo := newNoteRepo(t)
	ctx := context.Background()

	tagged := buildNote("note_1", "user_alice", "learning #golang today")
	mention := buildNote("note_2", "user_alice", "hey @bob long time")
	plain := buildNote("note_3", "user_alice", "nothing special here")
	for _, n := range []*model.Note{tagged, mention, plain} {
		if err := repo.CreateNote(ctx, n); err != nil {
			t.Fatalf("创建笔记 %s 失败: %v", n.NoteID, err)
		}
	}

	hits, err := repo.SearchNotes(ctx, "#golang", 10, 0)
	if err != nil {
		t.Fatalf("话题搜索失败: %v", err)
	}
	if len(hits) != 1 || hits[0].NoteID != "note_1" {
		t.Errorf("话题搜索路由错误: %v", noteIDs(hits))
	}

	hits, err = repo.SearchNotes(ctx, "@bob", 10, 0)
	if err != nil {
		t.Fatalf("提及搜索失败: %v", err)
	}
	if len(hits) != 1 || hits[0].NoteID != "note_2" {
		t.Errorf("提及搜索路由错误: %v", noteIDs(hits))
	}

	hits, err = repo.SearchNotes(ctx, "special", 10, 0)
	if err != nil {
		t.Fatalf("内容搜索失败: %v", err)
	}
	if len(hits) != 1 || hits[0].NoteID != "note_3" {
		t.Errorf("内容搜索路由错误: %v", noteIDs(hits))
	}
}

func TestThreadNotesOrdering(t *testing.T) {
	repo := newNoteRepo(t)
	ctx := context.Background()

	threadID := "thread_1"
	for i := 3; i >= 1; i-- {
		n := buildNote(fmt.Sprintf("note_%d", i), "user_alice", fmt.Sprintf("part %d", i))
		n.SetThreadInfo(threadID, i)
		if err := repo.CreateNote(ctx, n); err != nil {
			t.Fatalf("创建串内笔记失败: %v", err)
		}
	}

	notes, err := repo.GetThreadNotes(ctx, threadID)
	if err != nil {
		t.Fatalf("查询串内笔记失败: %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("串内笔记数量错误: %d", len(notes))
	}
	for i, n := range notes {
		if n.ThreadPosition != i+1 {
			t.Errorf("位置 %d 处的笔记 thread_position=%d", i, n.ThreadPosition)
		}
	}
}

func TestGetDueScheduledNotes(t *testing.T) {
	repo := newNoteRepo(t)
	ctx := context.Background()

	now := time.Now().Unix()
	due := buildNote("note_due", "user_alice", "publish me")
	due.Status = model.StatusScheduled
	past := now - 60
	due.ScheduledAt = &past

	future := buildNote("note_future", "user_alice", "not yet")
	future.Status = model.StatusScheduled
	later := now + 3600
	future.ScheduledAt = &later

	for _, n := range []*model.Note{due, future} {
		if err := repo.CreateNote(ctx, n); err != nil {
			t.Fatalf("创建定时笔记失败: %v", err)
		}
	}

	notes, err := repo.GetDueScheduledNotes(ctx, now, 10)
	if err != nil {
		t.Fatalf("查询到期笔记失败: %v", err)
	}
	if len(notes) != 1 || notes[0].NoteID != "note_due" {
		t.Errorf("到期筛选错误: %v", noteIDs(notes))
	}
}

func TestCleanupDeletedNotes(t *testing.T) {
	repo := newNoteRepo(t)
	ctx := context.Background()

	old := buildNote("note_old", "user_alice", "long gone")
	old.Status = model.StatusDeleted
	oldAt := time.Now().AddDate(0, 0, -40).Unix()
	old.DeletedAt = &oldAt

	recent := buildNote("note_recent", "user_alice", "just deleted")
	recent.Status = model.StatusDeleted
	recentAt := time.Now().Unix()
	recent.DeletedAt = &recentAt

	for _, n := range []*model.Note{old, recent} {
		if err := repo.CreateNote(ctx, n); err != nil {
			t.Fatalf("创建笔记失败: %v", err)
		}
	}

	removed, err := repo.CleanupDeletedNotes(ctx, 30)
	if err != nil {
		t.Fatalf("清理失败: %v", err)
	}
	if removed != 1 {
		t.Errorf("期望清理 1 条, 实际 %d", removed)
	}
	if _, err = repo.GetNote(ctx, "note_old"); err != gorm.ErrRecordNotFound {
		t.Errorf("过期笔记应被物理删除: %v", err)
	}
	if _, err = repo.GetNote(ctx, "note_recent"); err != nil {
		t.Errorf("保留期内的笔记不应删除: %v", err)
	}
}

func TestTopHashtags(t *testing.T) {
	repo := newNoteRepo(t)
	ctx := context.Background()

	contents := []string{"a #go", "b #go", "c #go #rust", "d #rust", "e #zig"}
	for i, c := range contents {
		n := buildNote(fmt.Sprintf("note_%d", i), "user_alice", c)
		if err := repo.CreateNote(ctx, n); err != nil {
			t.Fatalf("创建笔记失败: %v", err)
		}
	}

	top, err := repo.GetTopHashtags(ctx, 2, 24)
	if err != nil {
		t.Fatalf("话题榜查询失败: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("话题榜条数错误: %d", len(top))
	}
	if top[0].Hashtag != "go" || top[0].Count != 3 {
		t.Errorf("榜首错误: %+v", top[0])
	}
	if top[1].Hashtag != "rust" || top[1].Count != 2 {
		t.Errorf("第二名错误: %+v", top[1])
	}
}

func TestVisibilityFilters(t *testing.T) {
	repo := newNoteRepo(t)
	ctx := context.Background()

	public := buildNote("note_pub", "user_alice", "everyone sees")
	private := buildNote("note_priv", "user_alice", "only me")
	private.Visibility = model.VisibilityPrivate
	hidden := buildNote("note_hidden", "user_alice", "taken down")
	hidden.Hide()

	for _, n := range []*model.Note{public, private, hidden} {
		if err := repo.CreateNote(ctx, n); err != nil {
			t.Fatalf("创建笔记失败: %v", err)
		}
	}

	pub, err := repo.GetPublicNotes(ctx, 10, 0)
	if err != nil {
		t.Fatalf("公开流查询失败: %v", err)
	}
	if len(pub) != 1 || pub[0].NoteID != "note_pub" {
		t.Errorf("公开流过滤错误: %v", noteIDs(pub))
	}

	byAuthor, err := repo.GetNotesByAuthor(ctx, "user_alice", 10, 0)
	if err != nil {
		t.Fatalf("作者查询失败: %v", err)
	}
	if len(byAuthor) != 2 {
		t.Errorf("作者流应含公开与私有各 1 条, 实际 %v", noteIDs(byAuthor))
	}
}

func noteIDs(notes []*model.Note) []string {
	ids := make([]string, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.NoteID)
	}
	return ids
}
