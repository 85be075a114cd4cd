package router

import (
	"quill/internal/config"
	"quill/internal/handlers"
	"quill/internal/middleware"
	"quill/internal/services"
	"quill/internal/utils"
	"quill/web"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LoginPath is where AuthRequired sends anonymous visitors.
const LoginPath = "/auth/login/"

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	DB     *gorm.DB
	Cache  utils.PageCache
	Media  services.MediaStore
	Config config.Config
}

// New builds the engine with middleware, templates and every route.
func New(deps Deps) (*gin.Engine, error) {
	cfg := deps.Config

	renderer, err := web.LoadTemplates(cfg.TemplatesDir, cfg.MediaURL)
	if err != nil {
		return nil, err
	}

	users := services.NewUserService(deps.DB)
	feeds := services.NewFeedService(deps.DB)
	posts := services.NewPostService(deps.DB, deps.Media)
	groups := services.NewGroupService(deps.DB)
	follows := services.NewFollowService(deps.DB)

	authHandler := handlers.NewAuthHandler(users)
	postHandler := handlers.NewPostHandler(feeds, posts, groups, deps.Cache, cfg.Cache.Prefix, cfg.Cache.TTL)
	followHandler := handlers.NewFollowHandler(feeds, follows)
	groupHandler := handlers.NewGroupHandler(groups)
	seoHandler := handlers.NewSEOHandler(feeds, groups, cfg.SiteURL)

	r := gin.Default()
	r.HTMLRender = renderer
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{cfg.MediaURL})))
	r.Use(sessions.Sessions(cfg.SessionName, cookie.NewStore([]byte(cfg.SessionSecret))))
	r.Use(middleware.LoadUser(users))

	// 上传的图片
	r.Static(cfg.MediaURL, cfg.MediaRoot)

	// 公共路由 (Public Routes)
	r.GET("/", postHandler.Index)                     // 首页，带缓存
	r.GET("/groups/", groupHandler.List)              // 所有分组
	r.GET("/group/:slug/", postHandler.GroupPosts)    // 分组文章列表
	r.GET("/profile/:username/", postHandler.Profile) // 用户主页
	r.GET("/posts/:id/", postHandler.Detail)          // 文章详情页
	r.GET("/robots.txt", seoHandler.RobotsTxt)        // robots.txt
	r.GET("/sitemap.xml", seoHandler.SitemapXML)      // 站点地图
	r.GET("/feed.xml", seoHandler.RSSFeed)            // RSS

	auth := r.Group("/auth")
	{
		auth.GET("/signup/", authHandler.ShowSignup)
		auth.POST("/signup/", authHandler.Signup)
		auth.GET("/login/", authHandler.ShowLogin)
		auth.POST("/login/", authHandler.Login)
		auth.GET("/logout/", authHandler.Logout)
	}

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired(LoginPath))
	{
		authorized.GET("/create/", postHandler.ShowCreate)                 // 发布文章页面
		authorized.POST("/create/", postHandler.Create)                    // 提交发布文章
		authorized.GET("/posts/:id/edit/", postHandler.ShowEdit)           // 编辑文章页面
		authorized.POST("/posts/:id/edit/", postHandler.Update)            // 提交文章更新
		authorized.POST("/posts/:id/comment/", postHandler.AddComment)     // 发表评论
		authorized.GET("/follow/", followHandler.Index)                    // 关注的作者
		authorized.GET("/profile/:username/follow/", followHandler.Follow) // 关注
		authorized.GET("/profile/:username/unfollow/", followHandler.Unfollow)
	}

	r.NoRoute(handlers.NotFound)
	return r, nil
}
