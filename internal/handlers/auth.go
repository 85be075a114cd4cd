package handlers

import (
	"errors"
	"log"
	"net/http"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/services"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	Render(c, http.StatusOK, "auth/signup.html", gin.H{"Form": newFormView(nil, nil)})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var form SignupForm
	verr := bindForm(c, &form)
	values := map[string]string{"username": form.Username}
	if verr.OrNil() != nil {
		Render(c, http.StatusBadRequest, "auth/signup.html", gin.H{"Form": newFormView(values, verr)})
		return
	}

	user, err := h.users.Register(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.As(err, &verr) {
			Render(c, http.StatusBadRequest, "auth/signup.html", gin.H{"Form": newFormView(values, verr)})
			return
		}
		fail(c, err)
		return
	}

	if err := login(c, user); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", gin.H{
		"Form": newFormView(nil, nil),
		"Next": c.Query("next"),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm
	verr := bindForm(c, &form)
	values := map[string]string{"username": form.Username}
	if verr.OrNil() != nil {
		Render(c, http.StatusBadRequest, "auth/login.html", gin.H{
			"Form": newFormView(values, verr),
			"Next": form.Next,
		})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{
			"Form":  newFormView(values, nil),
			"Next":  form.Next,
			"Error": "Please enter a correct username and password.",
		})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	if err := login(c, user); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, safeNext(form.Next))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Printf("logout: %v", err)
	}
	c.Redirect(http.StatusFound, "/")
}

func login(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	return session.Save()
}

// safeNext only follows local redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
