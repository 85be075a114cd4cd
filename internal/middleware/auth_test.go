package middleware

import (
	"net/http"
	"net/http/httptest"
	"quill/internal/models"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLoginURL(t *testing.T) {
	assert.Equal(t, "/auth/login/?next=/create/", LoginURL("/auth/login/", "/create/"))
	assert.Equal(t, "/auth/login/?next=/follow/%3Fpage%3D2", LoginURL("/auth/login/", "/follow/?page=2"))
}

func TestAuthRequired(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-User") != "" {
			c.Set(CheckUserKey, &models.User{ID: 1, Username: c.GetHeader("X-User")})
		}
	})
	r.GET("/create/", AuthRequired("/auth/login/"), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Username)
	})

	t.Run("anonymous is redirected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/create/", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/auth/login/?next=/create/", w.Header().Get("Location"))
	})

	t.Run("logged in passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/create/", nil)
		req.Header.Set("X-User", "alice")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", w.Body.String())
	})
}

func TestCurrentUserWithoutLogin(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentUser(c))
}
