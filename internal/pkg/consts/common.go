package consts

const (
	MimePrefixImage = "image"
	MimePrefixAudio = "audio"
	MimePrefixVideo = "video"
)

// 互动类型
const (
	InteractionLike     = "like"
	InteractionRenote   = "renote"
	InteractionBookmark = "bookmark"
	InteractionView     = "view"
)

// 计数器哈希的字段名
const (
	MetricLike     = "like_count"
	MetricRenote   = "renote_count"
	MetricReply    = "reply_count"
	MetricQuote    = "quote_count"
	MetricView     = "view_count"
	MetricBookmark = "bookmark_count"
)

// 默认分页
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
