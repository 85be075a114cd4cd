package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"quill/internal/services"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// PostForm is the create/edit post form. The image travels as a separate
// multipart file.
type PostForm struct {
	Text  string `form:"text" binding:"required"`
	Group string `form:"group"`
}

type CommentForm struct {
	Text string `form:"text" binding:"required"`
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

type SignupForm struct {
	Username string `form:"username" binding:"required,max=150"`
	Password string `form:"password" binding:"required,min=8"`
}

// formView is what templates see as .Form: submitted values and field
// errors, both keyed by input name.
type formView struct {
	Values map[string]string
	Errors map[string]string
}

func newFormView(values map[string]string, verr *services.ValidationError) formView {
	if values == nil {
		values = map[string]string{}
	}
	view := formView{Values: values, Errors: map[string]string{}}
	if verr != nil {
		for field, message := range verr.Fields {
			view.Errors[field] = message
		}
	}
	return view
}

// bindForm binds the request into form. Binding failures come back as a
// ValidationError so they render like any other field error.
func bindForm(c *gin.Context, form interface{}) *services.ValidationError {
	verr := &services.ValidationError{}
	err := c.ShouldBind(form)
	if err == nil {
		return verr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("__all__", "Invalid form submission.")
		return verr
	}
	for _, fe := range fieldErrs {
		verr.Add(strings.ToLower(fe.Field()), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	}
	return "Enter a valid value."
}

// postInput turns a bound PostForm plus the optional image upload into the
// service input, collecting parse errors in verr.
func postInput(c *gin.Context, form PostForm, verr *services.ValidationError) services.PostInput {
	in := services.PostInput{Text: form.Text}

	if raw := strings.TrimSpace(form.Group); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			verr.Add("group", "Select a valid choice. That choice is not one of the available choices.")
		} else {
			groupID := uint(id)
			in.GroupID = &groupID
		}
	}

	upload, msg := readImage(c)
	if msg != "" {
		verr.Add("image", msg)
	}
	in.Image = upload
	return in
}

const invalidImageMsg = "Upload a valid image."

// readImage 读取上传的图片，未上传时返回 nil；第二个返回值是表单错误提示
func readImage(c *gin.Context) (*services.Upload, string) {
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, ""
	}
	if err != nil {
		return nil, invalidImageMsg
	}
	if header.Size > services.MaxImageSize {
		return nil, fmt.Sprintf("Image must be smaller than %d MB.", services.MaxImageSize>>20)
	}

	f, err := header.Open()
	if err != nil {
		return nil, invalidImageMsg
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, services.MaxImageSize+1))
	if err != nil {
		return nil, invalidImageMsg
	}
	if len(data) == 0 {
		return nil, ""
	}
	return &services.Upload{Filename: header.Filename, Data: data}, ""
}

func postFormValues(form PostForm) map[string]string {
	return map[string]string{"text": form.Text, "group": form.Group}
}
