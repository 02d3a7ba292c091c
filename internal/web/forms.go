package web

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	internal_errors "github.com/courseline-dev/courseline/internal/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type ThreadForm struct {
	Title   string `validate:"required,max=200"`
	Content string `validate:"required,max=10000"`
}

type ReplyForm struct {
	Content string `validate:"required,max=10000"`
}

// ParseThreadForm trims and validates the new-question form. Rejections
// happen here, before the controller is ever involved.
func ParseThreadForm(r *http.Request) (ThreadForm, error) {
	form := ThreadForm{
		Title:   strings.TrimSpace(r.FormValue("title")),
		Content: strings.TrimSpace(r.FormValue("content")),
	}
	if err := validate.Struct(form); err != nil {
		return form, internal_errors.New("Title and content are required", http.StatusBadRequest)
	}
	return form, nil
}

func ParseReplyForm(r *http.Request) (ReplyForm, error) {
	form := ReplyForm{Content: strings.TrimSpace(r.FormValue("content"))}
	if err := validate.Struct(form); err != nil {
		return form, internal_errors.New("Reply content is required", http.StatusBadRequest)
	}
	return form, nil
}
