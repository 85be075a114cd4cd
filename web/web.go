// Package web holds the HTML templates and registers them with gin.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"quill/internal/utils"
	"strings"
	"time"

	"github.com/gin-contrib/multitemplate"
)

//go:embed templates
var embedded embed.FS

// Views lists every page template; the key is the name handlers render.
var Views = []string{
	"posts/index.html",
	"posts/group_list.html",
	"posts/groups.html",
	"posts/profile.html",
	"posts/post_detail.html",
	"posts/create_post.html",
	"posts/follow.html",
	"auth/login.html",
	"auth/signup.html",
	"error.html",
}

// LoadTemplates parses every view together with the base layout and shared
// includes. An empty dir selects the templates compiled into the binary.
func LoadTemplates(dir, mediaURL string) (multitemplate.Renderer, error) {
	var fsys fs.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(embedded, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}

	funcMap := FuncMap(mediaURL)
	r := multitemplate.NewRenderer()
	for _, view := range Views {
		tmpl, err := template.New("base.html").Funcs(funcMap).
			ParseFS(fsys, "layouts/base.html", "includes/*.html", path.Join("views", view))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", view, err)
		}
		r.Add(view, tmpl)
	}
	return r, nil
}

// FuncMap returns the helpers available to every template.
func FuncMap(mediaURL string) template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"markdown": utils.RenderMarkdown,
		"date": func(t time.Time) string {
			return t.Format("2 January 2006")
		},
		// media 拼接上传文件的访问地址
		"media": func(name string) string {
			return strings.TrimSuffix(mediaURL, "/") + "/" + strings.TrimPrefix(name, "/")
		},
	}
}
