package handlers

import (
	"net/http"
	"quill/internal/services"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groups *services.GroupService
}

func NewGroupHandler(groups *services.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// List 展示所有分组列表
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	Render(c, http.StatusOK, "posts/groups.html", gin.H{"Groups": groups})
}
