package utils

import (
	"html"
	"html/template"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	nethtml "golang.org/x/net/html"
)

// mentionPattern matches @username after a line start, whitespace or an
// opening bracket. A trailing dot ends the sentence, not the name.
var mentionPattern = regexp.MustCompile(`(^|[\s(\[])@([\w+-]+(?:\.[\w+-]+)*)`)

// EnhanceHTMLContent 为 HTML 中的图片增加懒加载和安全属性，并把 @用户名 链接到个人主页
func EnhanceHTMLContent(htmlStr string) template.HTML {
	if htmlStr == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return template.HTML(htmlStr)
	}

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		s.SetAttr("referrerpolicy", "no-referrer")
		s.SetAttr("loading", "lazy")
	})

	linkMentions(doc.Find("body"))

	// goquery renders full document tags if missing, we just want the body content
	out, _ := doc.Find("body").Html()
	if out == "" {
		out, _ = doc.Html()
	}

	return template.HTML(out)
}

// linkMentions rewrites text nodes below s, skipping links and code.
func linkMentions(s *goquery.Selection) {
	s.Contents().Each(func(i int, child *goquery.Selection) {
		node := child.Get(0)
		switch node.Type {
		case nethtml.ElementNode:
			switch node.Data {
			case "a", "code", "pre":
				return
			}
			linkMentions(child)
		case nethtml.TextNode:
			if !mentionPattern.MatchString(node.Data) {
				return
			}
			child.ReplaceWithHtml(mentionHTML(node.Data))
		}
	})
}

func mentionHTML(text string) string {
	var b strings.Builder
	last := 0
	for _, m := range mentionPattern.FindAllStringSubmatchIndex(text, -1) {
		// m[4]:m[5] is the username, m[4]-1 the @
		b.WriteString(html.EscapeString(text[last : m[4]-1]))
		name := text[m[4]:m[5]]
		b.WriteString(`<a class="mention" href="/profile/` + url.PathEscape(name) + `/">@` + html.EscapeString(name) + `</a>`)
		last = m[5]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}
