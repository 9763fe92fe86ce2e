package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestProcessContentExtraction(t *testing.T) {
	n := NewNote("author_1", "Hello @alice check out #test at https://example.com", NoteOriginal)

	if len(n.MentionedUsernames) != 1 || n.MentionedUsernames[0] != "alice" {
		t.Fatalf("期望提及 alice, 实际 %v", n.MentionedUsernames)
	}
	if n.MentionedUserIDs[0] != "user_alice" {
		t.Fatalf("期望解析出 user_alice, 实际 %v", n.MentionedUserIDs)
	}
	if len(n.Hashtags) != 1 || n.Hashtags[0] != "test" {
		t.Fatalf("期望话题 test, 实际 %v", n.Hashtags)
	}
	if len(n.URLs) != 1 || n.URLs[0] != "https://example.com" {
		t.Fatalf("期望链接 https://example.com, 实际 %v", n.URLs)
	}
	if n.SpamScore >= 0.2 {
		t.Errorf("正常内容垃圾分应低于 0.2, 实际 %f", n.SpamScore)
	}
}

func TestProcessContentDedup(t *testing.T) {
	n := NewNote("author_1", "@bob @bob #go #go #go https://a.io https://a.io", NoteOriginal)
	if len(n.MentionedUsernames) != 1 {
		t.Errorf("提及应去重, 实际 %v", n.MentionedUsernames)
	}
	if len(n.Hashtags) != 1 {
		t.Errorf("话题应去重, 实际 %v", n.Hashtags)
	}
	if len(n.URLs) != 1 {
		t.Errorf("链接应去重, 实际 %v", n.URLs)
	}
}

func TestProcessedContentHighlight(t *testing.T) {
	n := NewNote("author_1", "hi @alice #go", NoteOriginal)
	want := `hi <a href="/user/alice">@alice</a> <a href="/hashtag/go">#go</a>`
	if n.ProcessedContent != want {
		t.Errorf("富文本不符:\n got %s\nwant %s", n.ProcessedContent, want)
	}
}

func TestSpamScoreAllCaps(t *testing.T) {
	n := NewNote("author_1", strings.Repeat("A", 50), NoteOriginal)
	if n.SpamScore < 0.3 {
		t.Errorf("全大写重复内容垃圾分应不低于 0.3, 实际 %f", n.SpamScore)
	}
}

func TestSpamScoreRepeatedRun(t *testing.T) {
	n := NewNote("author_1", "sooooo", NoteOriginal)
	if n.SpamScore != 0.1 {
		t.Errorf("连续 5 个相同字符垃圾分应为 0.1, 实际 %f", n.SpamScore)
	}
	n = NewNote("author_1", "soooo", NoteOriginal)
	if n.SpamScore != 0 {
		t.Errorf("连续 4 个相同字符不应计分, 实际 %f", n.SpamScore)
	}
}

func TestSpamScoreCapsRatioTotalLength(t *testing.T) {
	// 大写占比按全文字符数计算, 空格计入分母
	n := NewNote("author_1", "A B C", NoteOriginal)
	if n.SpamScore != 0 {
		t.Errorf("大写占比 0.6 不应触发扣分, 实际 %f", n.SpamScore)
	}
	n = NewNote("author_1", "ABCDEFGH", NoteOriginal)
	if n.SpamScore != 0.3 {
		t.Errorf("大写占比 1.0 应计 0.3, 实际 %f", n.SpamScore)
	}
}

func TestSpamScoreClamped(t *testing.T) {
	// 同时触发全部启发项
	content := strings.Repeat("AAAAA!!!! ", 5) +
		"#a #b #c #d #e #f @u1 @u2 @u3 @u4 @u5 @u6"
	n := NewNote("author_1", content, NoteOriginal)
	if n.SpamScore < 0 || n.SpamScore > 1 {
		t.Errorf("垃圾分超出 [0,1]: %f", n.SpamScore)
	}
}

func TestToxicityScore(t *testing.T) {
	tests := []struct {
		content string
		min     float64
		max     float64
	}{
		{"have a nice day", 0, 0},
		{"you stupid idiot", 0.4, 0.4},
		{"hate stupid idiot kill die worst **** everything", 1.0, 1.0},
	}
	for _, tt := range tests {
		n := NewNote("author_1", tt.content, NoteOriginal)
		if n.ToxicityScore < tt.min || n.ToxicityScore > tt.max {
			t.Errorf("内容 %q 毒性分 %f, 期望 [%f,%f]", tt.content, n.ToxicityScore, tt.min, tt.max)
		}
	}
}

func TestDetectLanguage(t *testing.T) {
	en := NewNote("author_1", "the cat is on the mat", NoteOriginal)
	if en.DetectedLanguages[len(en.DetectedLanguages)-1] != "en" {
		t.Errorf("英文内容应判为 en, 实际 %v", en.DetectedLanguages)
	}
	other := NewNote("author_1", "zzz qqq", NoteOriginal)
	if other.DetectedLanguages[len(other.DetectedLanguages)-1] != "unknown" {
		t.Errorf("未知内容应判为 unknown, 实际 %v", other.DetectedLanguages)
	}
}

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		setup   func() *Note
		wantErr ValidationError
	}{
		{
			name: "空内容",
			setup: func() *Note {
				return NewNote("author_1", "", NoteOriginal)
			},
			wantErr: ValidationContentEmpty,
		},
		{
			name: "超长内容",
			setup: func() *Note {
				n := NewNote("author_1", "ok", NoteOriginal)
				n.Content = strings.Repeat("x", MaxContentLength+1)
				return n
			},
			wantErr: ValidationContentTooLong,
		},
		{
			name: "回复缺目标",
			setup: func() *Note {
				return NewNote("author_1", "reply text", NoteReply)
			},
			wantErr: ValidationInvalidReplyTarget,
		},
		{
			name: "转发缺目标",
			setup: func() *Note {
				return NewNote("author_1", "", NoteRenote)
			},
			wantErr: ValidationInvalidRenoteTarget,
		},
		{
			name: "提及超限",
			setup: func() *Note {
				n := NewNote("author_1", "ok", NoteOriginal)
				for i := 0; i < MaxMentions+1; i++ {
					n.MentionedUserIDs = append(n.MentionedUserIDs, "u")
				}
				return n
			},
			wantErr: ValidationInvalidMentions,
		},
		{
			name: "附件超限",
			setup: func() *Note {
				n := NewNote("author_1", "ok", NoteOriginal)
				n.AttachmentIDs = []string{"a", "b", "c", "d", "e"}
				return n
			},
			wantErr: ValidationTooManyAttachments,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.setup().Validate()
			found := false
			for _, e := range errs {
				if e == tt.wantErr {
					found = true
				}
			}
			if !found {
				t.Errorf("期望校验错误 %s, 实际 %v", tt.wantErr, errs)
			}
		})
	}
}

func TestEmptyRenoteIsAllowed(t *testing.T) {
	n := NewNote("author_1", "", NoteRenote)
	target := "note_9"
	n.RenoteOfID = &target
	for _, e := range n.Validate() {
		if e == ValidationContentEmpty {
			t.Error("转发允许空内容")
		}
	}
}

func TestScheduleValidation(t *testing.T) {
	n := NewNote("author_1", "later", NoteOriginal)

	n.Schedule(time.Now().Unix() - 10)
	found := false
	for _, e := range n.Validate() {
		if e == ValidationInvalidScheduledAt {
			found = true
		}
	}
	if !found {
		t.Error("过去的定时时间应校验失败")
	}

	n.Schedule(time.Now().Add(time.Hour).Unix())
	for _, e := range n.Validate() {
		if e == ValidationInvalidScheduledAt {
			t.Error("一小时后的定时时间应通过")
		}
	}
	if n.Status != StatusScheduled {
		t.Errorf("定时后状态应为 SCHEDULED, 实际 %v", n.Status)
	}
	if n.ShouldBePublished() {
		t.Error("未到时间不应发布")
	}

	n.Unschedule()
	if n.Status != StatusDraft || n.ScheduledAt != nil {
		t.Error("取消定时后应回到草稿")
	}
}

func TestSetContentRejectsOverlong(t *testing.T) {
	n := NewNote("author_1", "short", NoteOriginal)
	if n.SetContent(strings.Repeat("x", MaxContentLength+1)) {
		t.Fatal("超长内容应被拒绝")
	}
	if n.Content != "short" {
		t.Errorf("拒绝后内容不应变化, 实际 %q", n.Content)
	}
	if !n.SetContent("updated @carol") {
		t.Fatal("合法更新应成功")
	}
	if len(n.MentionedUsernames) != 1 || n.MentionedUsernames[0] != "carol" {
		t.Errorf("更新后应重新提取特征, 实际 %v", n.MentionedUsernames)
	}
}

func TestLifecycleTransitions(t *testing.T) {
	n := NewNote("author_1", "hello", NoteOriginal)

	n.SoftDelete()
	if n.Status != StatusDeleted || n.DeletedAt == nil {
		t.Error("软删除应记录状态和时间")
	}
	n.Restore()
	if n.Status != StatusActive || n.DeletedAt != nil {
		t.Error("恢复应清空删除时间")
	}
	n.FlagForReview()
	if n.Status != StatusFlagged {
		t.Error("举报后应进入待审核")
	}
	n.Hide()
	if n.Status != StatusHidden {
		t.Error("隐藏后状态应为 HIDDEN")
	}
}

func TestEngagementCounters(t *testing.T) {
	n := NewNote("author_1", "hello", NoteOriginal)
	n.DecrementLikes()
	if n.LikeCount != 0 {
		t.Error("计数不应减到负数")
	}
	n.IncrementLikes()
	n.IncrementRenotes()
	n.IncrementReplies()
	n.IncrementQuotes()
	n.IncrementBookmarks()
	if n.GetTotalEngagement() != 5 {
		t.Errorf("总互动应为 5, 实际 %d", n.GetTotalEngagement())
	}
	n.IncrementViews()
	n.IncrementViews()
	if rate := n.CalculateEngagementRate(); rate != 2.5 {
		t.Errorf("互动率应为 2.5, 实际 %f", rate)
	}
}

func TestRecordUserInteractionCap(t *testing.T) {
	n := NewNote("author_1", "hello", NoteOriginal)
	for i := 0; i < MaxRecentInteractions+20; i++ {
		n.RecordUserInteraction("u", "like")
	}
	if len(n.LikedByUserIDs) != MaxRecentInteractions {
		t.Errorf("最近点赞名单应截断到 %d, 实际 %d", MaxRecentInteractions, len(n.LikedByUserIDs))
	}
}

func TestVisibility(t *testing.T) {
	n := NewNote("author_1", "hello", NoteOriginal)

	if !n.IsVisibleToUser("author_1", nil, nil) {
		t.Error("作者总是可见")
	}
	if !n.IsVisibleToUser("stranger", nil, nil) {
		t.Error("公开笔记对所有人可见")
	}

	n.Visibility = VisibilityFollowersOnly
	if n.IsVisibleToUser("stranger", nil, nil) {
		t.Error("非粉丝不应看到仅粉丝可见的笔记")
	}
	if !n.IsVisibleToUser("fan", []string{"author_1"}, nil) {
		t.Error("粉丝应看到仅粉丝可见的笔记")
	}

	n.Visibility = VisibilityMentionedOnly
	n.MentionedUserIDs = []string{"user_alice"}
	if !n.IsVisibleToUser("user_alice", nil, nil) {
		t.Error("被提及用户应可见")
	}
	if n.IsVisibleToUser("stranger", nil, nil) {
		t.Error("未被提及用户不应可见")
	}

	n.Visibility = VisibilityCircle
	if !n.IsVisibleToUser("friend", nil, []string{"friend"}) {
		t.Error("圈内用户应可见")
	}

	n.Visibility = VisibilityPrivate
	if n.IsVisibleToUser("stranger", nil, nil) {
		t.Error("私密笔记对外不可见")
	}

	n.Visibility = VisibilityPublic
	n.SoftDelete()
	if n.IsVisibleToUser("stranger", nil, nil) {
		t.Error("已删除笔记对外不可见")
	}
	if !n.IsVisibleToUser("author_1", nil, nil) {
		t.Error("作者仍可见自己已删除的笔记")
	}
}

func TestCanUserRenote(t *testing.T) {
	n := NewNote("author_1", "hello", NoteOriginal)
	if n.CanUserRenote("author_1", nil, nil) {
		t.Error("作者不能转发自己的笔记")
	}
	if !n.CanUserRenote("other", nil, nil) {
		t.Error("其他用户可以转发公开笔记")
	}
	n.AllowRenotes = false
	if n.CanUserRenote("other", nil, nil) {
		t.Error("关闭转发后不允许转发")
	}
}

func TestMarkNSFW(t *testing.T) {
	n := NewNote("author_1", "hello", NoteOriginal)
	n.MarkNSFW(true)
	if !n.IsSensitive || n.ContentWarning != WarningAdult {
		t.Error("NSFW 应连带敏感标记和成人警告")
	}
	if n.Visibility != VisibilityFollowersOnly {
		t.Errorf("NSFW 应强制仅粉丝可见, 实际 %v", n.Visibility)
	}
}

func TestAttachmentSync(t *testing.T) {
	n := NewNote("author_1", "hello", NoteOriginal)
	a := *CreateImageAttachment("author_1", "cat.jpg", "image/jpeg", 1024)
	a.AttachmentID = "att_1"
	a.IsSensitive = true

	if !n.AddMediaAttachment(a) {
		t.Fatal("添加附件应成功")
	}
	if len(n.AttachmentIDs) != 1 || n.AttachmentIDs[0] != "att_1" {
		t.Errorf("兼容 ID 应同步, 实际 %v", n.AttachmentIDs)
	}
	if !n.IsSensitive {
		t.Error("敏感附件应传导到笔记")
	}

	if n.RemoveMediaAttachment("missing") {
		t.Error("移除不存在的附件应返回 false")
	}
	if len(n.AttachmentIDs) != 1 {
		t.Error("失败的移除不应改变状态")
	}
	if !n.RemoveMediaAttachment("att_1") {
		t.Error("移除存在的附件应成功")
	}
	if n.HasAttachments() {
		t.Error("移除后不应再有附件")
	}
}

func TestNSFWModerationFlagPropagates(t *testing.T) {
	n := NewNote("author_1", "hello", NoteOriginal)
	a := *CreateImageAttachment("author_1", "x.jpg", "image/jpeg", 1024)
	a.AttachmentID = "att_2"
	a.AddModerationFlag("nsfw", "auto")
	n.AddMediaAttachment(a)
	if !n.IsNSFW {
		t.Error("nsfw 审核标记应使笔记标记为 NSFW")
	}
}

func TestNoteJSONRoundTrip(t *testing.T) {
	n := NewNote("author_1", "Hello @alice #go https://example.com", NoteOriginal)
	n.NoteID = "note_1"
	n.AuthorUsername = "author"
	n.SetLocation(31.2, 121.5, "Shanghai")

	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	var back Note
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("反序列化失败: %v", err)
	}
	if back.NoteID != n.NoteID || back.Content != n.Content {
		t.Error("核心字段往返后不一致")
	}
	if back.Type != n.Type || back.Visibility != n.Visibility || back.Status != n.Status {
		t.Error("枚举应以整数形式往返")
	}
	if back.Latitude == nil || *back.Latitude != 31.2 {
		t.Error("可选字段往返后不一致")
	}
	if back.ScheduledAt != nil || back.DeletedAt != nil {
		t.Error("未设置的可选时间应保持为空")
	}
}

func TestGetPreviewText(t *testing.T) {
	n := NewNote("author_1", strings.Repeat("a", 120), NoteOriginal)
	got := n.GetPreviewText(100)
	if len(got) != 103 || !strings.HasSuffix(got, "...") {
		t.Errorf("预览应截断加省略号, 实际长度 %d", len(got))
	}
}

func TestGetAttachmentSummary(t *testing.T) {
	n := NewNote("author_1", "hello", NoteOriginal)
	img1 := *CreateImageAttachment("author_1", "a.jpg", "image/jpeg", 1)
	img1.AttachmentID = "a1"
	img2 := *CreateImageAttachment("author_1", "b.jpg", "image/jpeg", 1)
	img2.AttachmentID = "a2"
	vid := *CreateVideoAttachment("author_1", "c.mp4", "video/mp4", 1, 10)
	vid.AttachmentID = "a3"
	n.AddMediaAttachment(img1)
	n.AddMediaAttachment(img2)
	n.AddMediaAttachment(vid)
	if got := n.GetAttachmentSummary(); got != "2 images, 1 video" {
		t.Errorf("附件摘要不符, 实际 %q", got)
	}
}
