package handlers

import (
	"net/http"
	"net/url"
	"quill/internal/services"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	feeds   *services.FeedService
	follows *services.FollowService
}

func NewFollowHandler(feeds *services.FeedService, follows *services.FollowService) *FollowHandler {
	return &FollowHandler{feeds: feeds, follows: follows}
}

// Index 关注作者的文章流
func (h *FollowHandler) Index(c *gin.Context) {
	user := mustUser(c)
	posts, err := h.feeds.FollowFeed(c.Request.Context(), user.ID, services.ParsePage(c.Query("page")))
	if err != nil {
		fail(c, err)
		return
	}
	Render(c, http.StatusOK, "posts/follow.html", gin.H{"PageObj": posts})
}

func (h *FollowHandler) Follow(c *gin.Context) {
	username := c.Param("username")
	if _, err := h.follows.Follow(c.Request.Context(), mustUser(c), username); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(username))
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	username := c.Param("username")
	if err := h.follows.Unfollow(c.Request.Context(), mustUser(c), username); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(username))
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}
