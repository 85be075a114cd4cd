package handlers

import (
	"fmt"
	"html"
	"net/http"
	"quill/internal/services"
	"quill/internal/utils"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	feedSize    = 20
	sitemapSize = 500
)

// SEOHandler serves robots.txt, the sitemap and the RSS feed.
type SEOHandler struct {
	feeds   *services.FeedService
	groups  *services.GroupService
	siteURL string
}

func NewSEOHandler(feeds *services.FeedService, groups *services.GroupService, siteURL string) *SEOHandler {
	return &SEOHandler{feeds: feeds, groups: groups, siteURL: siteURL}
}

// RobotsTxt 返回robots.txt内容
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

# 禁止爬取需要登录的页面
Disallow: /create/
Disallow: /follow/
Disallow: /auth/

Sitemap: %s/sitemap.xml
`, h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

// SitemapXML 动态生成sitemap.xml
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	ctx := c.Request.Context()
	groups, err := h.groups.List(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	posts, err := h.feeds.Latest(ctx, sitemapSize)
	if err != nil {
		fail(c, err)
		return
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`)
	writeURL(&b, h.siteURL+"/", time.Now(), "hourly", 1.0)

	for _, group := range groups {
		writeURL(&b, fmt.Sprintf("%s/group/%s/", h.siteURL, group.Slug), group.CreatedAt, "daily", 0.7)
	}

	for _, post := range posts {
		// 新文章优先级更高
		priority, changefreq := 0.6, "weekly"
		if time.Since(post.PubDate) < 7*24*time.Hour {
			priority, changefreq = 0.8, "daily"
		}
		writeURL(&b, h.siteURL+detailURL(post.ID), post.PubDate, changefreq, priority)
	}
	b.WriteString(`</urlset>`)

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

func writeURL(b *strings.Builder, loc string, lastmod time.Time, changefreq string, priority float64) {
	fmt.Fprintf(b, `  <url>
    <loc>%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>%s</changefreq>
    <priority>%.1f</priority>
  </url>
`, escapeXML(loc), lastmod.Format("2006-01-02"), changefreq, priority)
}

// RSSFeed 生成RSS 2.0 feed
func (h *SEOHandler) RSSFeed(c *gin.Context) {
	posts, err := h.feeds.Latest(c.Request.Context(), feedSize)
	if err != nil {
		fail(c, err)
		return
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
  <channel>
    <title>Quill</title>
    <link>` + escapeXML(h.siteURL) + `</link>
    <description>Latest posts</description>
    <lastBuildDate>` + time.Now().Format(time.RFC1123Z) + `</lastBuildDate>
    <atom:link href="` + escapeXML(h.siteURL) + `/feed.xml" rel="self" type="application/rss+xml"/>
`)

	for _, post := range posts {
		link := h.siteURL + detailURL(post.ID)
		category := ""
		if post.Group != nil {
			category = "\n      <category>" + escapeXML(post.Group.Title) + "</category>"
		}
		// 正文用 CDATA 包装 HTML
		b.WriteString(`    <item>
      <title>` + escapeXML(post.String()) + `</title>
      <link>` + escapeXML(link) + `</link>
      <description><![CDATA[` + cdata(string(utils.RenderMarkdown(post.Text))) + `]]></description>
      <author>` + escapeXML(post.Author.Username) + `</author>` + category + `
      <pubDate>` + post.PubDate.Format(time.RFC1123Z) + `</pubDate>
      <guid isPermaLink="true">` + escapeXML(link) + `</guid>
    </item>
`)
	}
	b.WriteString(`  </channel>
</rss>`)

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

// escapeXML 转义XML特殊字符
func escapeXML(s string) string {
	return html.EscapeString(s)
}

// cdata keeps a CDATA section from being closed early by its content.
func cdata(s string) string {
	return strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
}
