package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"quill/internal/models"
	"quill/internal/services"
	"quill/internal/utils"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// PostHandler serves the feeds, post detail and the post/comment forms.
type PostHandler struct {
	feeds       *services.FeedService
	posts       *services.PostService
	groups      *services.GroupService
	cache       utils.PageCache
	cachePrefix string
	cacheTTL    time.Duration
}

func NewPostHandler(feeds *services.FeedService, posts *services.PostService, groups *services.GroupService,
	cache utils.PageCache, cachePrefix string, cacheTTL time.Duration) *PostHandler {
	return &PostHandler{
		feeds:       feeds,
		posts:       posts,
		groups:      groups,
		cache:       cache,
		cachePrefix: cachePrefix,
		cacheTTL:    cacheTTL,
	}
}

// Index 首页，按页缓存
// The cached value is the page itself, so a hit and a miss render the same
// bytes. New posts show up once the entry expires or the cache is flushed.
func (h *PostHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	page := services.ParsePage(c.Query("page"))
	cacheKey := fmt.Sprintf("%s:page:%d", h.cachePrefix, page)

	data, ok := h.cache.Get(ctx, cacheKey)
	if !ok {
		posts, err := h.feeds.GlobalFeed(ctx, page)
		if err != nil {
			fail(c, err)
			return
		}
		if data, err = json.Marshal(posts); err != nil {
			fail(c, fmt.Errorf("encode page: %w", err))
			return
		}
		if err := h.cache.Set(ctx, cacheKey, data, h.cacheTTL); err != nil {
			log.Printf("cache %s: %v", cacheKey, err)
		}
	}

	var posts services.Page[models.Post]
	if err := json.Unmarshal(data, &posts); err != nil {
		fail(c, fmt.Errorf("decode cached page %s: %w", cacheKey, err))
		return
	}

	Render(c, http.StatusOK, "posts/index.html", gin.H{"PageObj": posts})
}

func (h *PostHandler) GroupPosts(c *gin.Context) {
	group, posts, err := h.feeds.GroupFeed(c.Request.Context(), c.Param("slug"), services.ParsePage(c.Query("page")))
	if err != nil {
		fail(c, err)
		return
	}

	Render(c, http.StatusOK, "posts/group_list.html", gin.H{
		"Group":   group,
		"PageObj": posts,
	})
}

func (h *PostHandler) Profile(c *gin.Context) {
	profile, err := h.feeds.ProfileFeed(c.Request.Context(), c.Param("username"), viewerID(c), services.ParsePage(c.Query("page")))
	if err != nil {
		fail(c, err)
		return
	}

	Render(c, http.StatusOK, "posts/profile.html", gin.H{
		"Author":    profile.Author,
		"PostCount": profile.PostCount,
		"Following": profile.Following,
		"PageObj":   profile.Page,
	})
}

func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		NotFound(c)
		return
	}
	h.renderDetail(c, http.StatusOK, id, newFormView(nil, nil))
}

func (h *PostHandler) renderDetail(c *gin.Context, code int, id uint, form formView) {
	detail, err := h.feeds.PostDetail(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	Render(c, code, "posts/post_detail.html", gin.H{
		"Post":      detail.Post,
		"PostCount": detail.PostCount,
		"Comments":  detail.Comments,
		"Form":      form,
	})
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	h.renderPostForm(c, http.StatusOK, nil, newFormView(nil, nil))
}

func (h *PostHandler) Create(c *gin.Context) {
	user := mustUser(c)

	var form PostForm
	verr := bindForm(c, &form)
	in := postInput(c, form, verr)
	if verr.OrNil() != nil {
		h.renderPostForm(c, http.StatusBadRequest, nil, newFormView(postFormValues(form), verr))
		return
	}

	if _, err := h.posts.Create(c.Request.Context(), user, in); err != nil {
		if errors.As(err, &verr) {
			h.renderPostForm(c, http.StatusBadRequest, nil, newFormView(postFormValues(form), verr))
			return
		}
		fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+user.Username+"/")
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	user := mustUser(c)
	id, ok := postID(c)
	if !ok {
		NotFound(c)
		return
	}

	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if post.AuthorID != user.ID {
		c.Redirect(http.StatusFound, detailURL(post.ID))
		return
	}

	values := map[string]string{"text": post.Text}
	if post.GroupID != nil {
		values["group"] = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
	h.renderPostForm(c, http.StatusOK, post, newFormView(values, nil))
}

func (h *PostHandler) Update(c *gin.Context) {
	user := mustUser(c)
	id, ok := postID(c)
	if !ok {
		NotFound(c)
		return
	}

	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	// 非作者不报错，直接回到详情页
	if post.AuthorID != user.ID {
		c.Redirect(http.StatusFound, detailURL(post.ID))
		return
	}

	var form PostForm
	verr := bindForm(c, &form)
	in := postInput(c, form, verr)
	if verr.OrNil() != nil {
		h.renderPostForm(c, http.StatusBadRequest, post, newFormView(postFormValues(form), verr))
		return
	}

	_, err = h.posts.Update(c.Request.Context(), user, post.ID, in)
	switch {
	case err == nil, errors.Is(err, services.ErrForbidden):
		c.Redirect(http.StatusFound, detailURL(post.ID))
	case errors.As(err, &verr):
		h.renderPostForm(c, http.StatusBadRequest, post, newFormView(postFormValues(form), verr))
	default:
		fail(c, err)
	}
}

// renderPostForm renders the create form, or the edit form when post is
// not nil.
func (h *PostHandler) renderPostForm(c *gin.Context, code int, post *models.Post, form formView) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	obj := gin.H{
		"Form":   form,
		"Groups": groups,
		"IsEdit": post != nil,
	}
	if post != nil {
		obj["Post"] = post
	}
	Render(c, code, "posts/create_post.html", obj)
}

func (h *PostHandler) AddComment(c *gin.Context) {
	user := mustUser(c)
	id, ok := postID(c)
	if !ok {
		NotFound(c)
		return
	}

	var form CommentForm
	verr := bindForm(c, &form)
	if verr.OrNil() == nil {
		_, err := h.posts.AddComment(c.Request.Context(), user, id, form.Text)
		if err == nil {
			c.Redirect(http.StatusFound, detailURL(id))
			return
		}
		if !errors.As(err, &verr) {
			fail(c, err)
			return
		}
	}

	h.renderDetail(c, http.StatusBadRequest, id, newFormView(map[string]string{"text": form.Text}, verr))
}

func detailURL(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}
