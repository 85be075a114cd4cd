package handlers

import (
	"errors"
	"log"
	"net/http"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the error page with the given status.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Code": code, "Error": message})
}

// NotFound is the handler for unknown routes.
func NotFound(c *gin.Context) {
	RenderError(c, http.StatusNotFound, "Page not found")
}

// fail maps a service error to a response: missing rows are 404, anything
// else is logged and reported as 500.
func fail(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		NotFound(c)
		return
	}
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	RenderError(c, http.StatusInternalServerError, "Internal server error")
}

// postID parses the :id route parameter; ok is false when it is not a
// positive integer.
func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// viewerID is 0 for anonymous visitors.
func viewerID(c *gin.Context) uint {
	if user := middleware.CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

func mustUser(c *gin.Context) *models.User {
	return c.MustGet(middleware.CheckUserKey).(*models.User)
}
