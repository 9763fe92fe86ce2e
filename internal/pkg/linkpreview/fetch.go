package linkpreview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"notehub/internal/api/config"
	"notehub/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "notehub-linkpreview/1.0"

// Fetcher 抓取网页并解析为链接预览
type Fetcher struct {
	client *resty.Client
}

func NewFetcher(cfg config.LinkPreviewConfig) *Fetcher {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", ua).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &Fetcher{client: client}
}

// Fetch 抓取目标地址并解析
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*model.LinkPreview, error) {
	resp, err := f.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("fetch %s returned status %d", pageURL, resp.StatusCode())
	}
	return Parse(pageURL, string(resp.Body()))
}

// Parse 从 HTML 文本解析链接预览元数据
func Parse(pageURL, html string) (*model.LinkPreview, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	preview := &model.LinkPreview{URL: pageURL}

	preview.Title = strings.TrimSpace(doc.Find("title").First().Text())

	// Open Graph 标签优先于普通 meta
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}
		if prop, ok := s.Attr("property"); ok {
			switch prop {
			case "og:title":
				preview.Title = content
			case "og:description":
				preview.Description = content
			case "og:site_name":
				preview.SiteName = content
			case "og:image":
				preview.ThumbnailURL = content
				preview.IsImage = true
			case "og:url":
				preview.CanonicalURL = content
			case "og:type":
				switch {
				case strings.HasPrefix(content, "video"):
					preview.IsVideo = true
				case content == "article":
					preview.IsArticle = true
				}
			case "og:video", "og:video:url":
				preview.IsVideo = true
			}
			return
		}
		if name, ok := s.Attr("name"); ok {
			switch name {
			case "description":
				if preview.Description == "" {
					preview.Description = content
				}
			case "author":
				preview.Author = content
			case "keywords":
				for _, kw := range strings.Split(content, ",") {
					if kw = strings.TrimSpace(kw); kw != "" {
						preview.Keywords = append(preview.Keywords, kw)
					}
				}
			}
		}
	})

	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok && preview.CanonicalURL == "" {
		preview.CanonicalURL = href
	}
	if href, ok := doc.Find(`link[rel="icon"], link[rel="shortcut icon"]`).First().Attr("href"); ok {
		preview.FaviconURL = href
	}

	if preview.IsArticle {
		preview.ReadingTime = estimateReadingTime(doc)
	}

	return preview, nil
}

// estimateReadingTime 按 200 词每分钟估算阅读时长
func estimateReadingTime(doc *goquery.Document) float64 {
	text := doc.Find("body").Text()
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return float64(words) / 200.0
}
