package middleware

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"quill/internal/models"
	"quill/internal/services"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// SessionUserKey is the session field holding the logged-in user's id.
const SessionUserKey = "user_id"

// AuthRequired redirects anonymous visitors to loginPath, carrying the
// original request URI in the next parameter.
func AuthRequired(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginURL(loginPath, c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginURL builds loginPath?next=target with the slashes of target left
// readable.
func LoginURL(loginPath, target string) string {
	next := strings.ReplaceAll(url.QueryEscape(target), "%2F", "/")
	return loginPath + "?next=" + next
}

// LoadUser retrieves user from session and sets to context
func LoadUser(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if id, ok := session.Get(SessionUserKey).(uint); ok {
			user, err := users.Get(c.Request.Context(), id)
			switch {
			case err == nil:
				c.Set(CheckUserKey, user)
			case errors.Is(err, services.ErrNotFound):
				// 用户已不存在，清理会话
				session.Delete(SessionUserKey)
				_ = session.Save()
			default:
				log.Printf("load session user %d: %v", id, err)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the logged-in user or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
