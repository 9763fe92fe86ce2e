package model

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	mentionPattern = regexp.MustCompile(`@([a-zA-Z0-9_]{1,15})`)
	hashtagPattern = regexp.MustCompile(`#([a-zA-Z0-9_]{1,100})`)
	urlPattern     = regexp.MustCompile(`(https?://[^\s]+)`)
)

// 语言检测用的英文高频词
var englishWords = []string{"the", "and", "is", "to", "a", "in", "it", "you", "that", "he", "was", "for"}

// 毒性检测词表
var toxicWords = []string{"hate", "stupid", "idiot", "kill", "die", "worst"}

// ProcessContent 内容处理流水线, 提取特征 / 打分 / 生成富文本
func (n *Note) ProcessContent() {
	n.ExtractMentions()
	n.ExtractHashtags()
	n.ExtractURLs()
	n.DetectLanguage()
	n.CalculateSpamScore()
	n.CalculateToxicityScore()
	n.ProcessedContent = n.highlightContentFeatures(n.Content)
	n.touch()
}

// ExtractMentions 提取 @提及, 去重保序, 用户 ID 走目录服务占位解析
func (n *Note) ExtractMentions() {
	n.MentionedUserIDs = nil
	n.MentionedUsernames = nil
	for _, m := range mentionPattern.FindAllStringSubmatch(n.Content, -1) {
		username := m[1]
		if contains(n.MentionedUsernames, username) {
			continue
		}
		n.MentionedUsernames = append(n.MentionedUsernames, username)
		n.MentionedUserIDs = append(n.MentionedUserIDs, resolveUserID(username))
	}
}

// resolveUserID 用户名到 ID 的占位解析, 待接入用户服务
func resolveUserID(username string) string {
	return "user_" + username
}

// ExtractHashtags 提取话题标签, 去重保序
func (n *Note) ExtractHashtags() {
	n.Hashtags = nil
	for _, m := range hashtagPattern.FindAllStringSubmatch(n.Content, -1) {
		tag := m[1]
		if !contains(n.Hashtags, tag) {
			n.Hashtags = append(n.Hashtags, tag)
		}
	}
}

// ExtractURLs 提取链接, 去重保序
func (n *Note) ExtractURLs() {
	n.URLs = nil
	for _, m := range urlPattern.FindAllStringSubmatch(n.Content, -1) {
		u := m[1]
		if !contains(n.URLs, u) {
			n.URLs = append(n.URLs, u)
		}
	}
}

// DetectLanguage 朴素语言检测, 命中两个以上英文高频词判为英文
func (n *Note) DetectLanguage() {
	lower := strings.ToLower(n.Content)
	hits := 0
	for _, w := range englishWords {
		if strings.Contains(lower, w) {
			hits++
		}
	}
	if hits >= 2 {
		n.DetectedLanguages = append(n.DetectedLanguages, "en")
	} else {
		n.DetectedLanguages = append(n.DetectedLanguages, "unknown")
	}
}

// CalculateSpamScore 启发式垃圾分, 截断到 [0,1]
func (n *Note) CalculateSpamScore() {
	score := 0.0

	// 大写占比过高, 分母取全文字符数
	total, uppers := 0, 0
	for _, r := range n.Content {
		total++
		if r >= 'A' && r <= 'Z' {
			uppers++
		}
	}
	if total > 0 && float64(uppers)/float64(total) > 0.7 {
		score += 0.3
	}

	if strings.Count(n.Content, "!") > 3 {
		score += 0.2
	}
	if len(n.Hashtags) > 5 {
		score += 0.2
	}
	if len(n.MentionedUserIDs) > 5 {
		score += 0.2
	}
	// 同一字符连续重复
	if hasRepeatedRun(n.Content, 5) {
		score += 0.1
	}

	if score > 1.0 {
		score = 1.0
	}
	n.SpamScore = score
}

// hasRepeatedRun 判断是否存在长度达到 minRun 的同字符连续段
func hasRepeatedRun(s string, minRun int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run >= minRun {
			return true
		}
	}
	return false
}

// CalculateToxicityScore 词表毒性分, 截断到 [0,1]
func (n *Note) CalculateToxicityScore() {
	score := 0.0
	lower := strings.ToLower(n.Content)
	for _, w := range toxicWords {
		if strings.Contains(lower, w) {
			score += 0.2
		}
	}
	if strings.Count(n.Content, "*") > 3 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	n.ToxicityScore = score
}

// highlightContentFeatures 把提及 / 话题 / 链接替换为可点击标签
func (n *Note) highlightContentFeatures(content string) string {
	processed := mentionPattern.ReplaceAllStringFunc(content, func(m string) string {
		username := m[1:]
		return fmt.Sprintf(`<a href="/user/%s">@%s</a>`, username, username)
	})
	processed = hashtagPattern.ReplaceAllStringFunc(processed, func(m string) string {
		tag := m[1:]
		return fmt.Sprintf(`<a href="/hashtag/%s">#%s</a>`, tag, tag)
	})
	processed = urlPattern.ReplaceAllStringFunc(processed, func(u string) string {
		return fmt.Sprintf(`<a href="%s" target="_blank">%s</a>`, u, u)
	})
	return processed
}
