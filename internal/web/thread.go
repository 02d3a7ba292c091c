package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/courseline-dev/courseline/internal/discussion"
	"github.com/courseline-dev/courseline/internal/domain"
)

func threadParam(r *http.Request) (domain.ThreadId, error) {
	return strconv.ParseInt(chi.URLParam(r, "thread"), 10, 64)
}

func replyParam(r *http.Request) (domain.ReplyId, error) {
	return strconv.ParseInt(chi.URLParam(r, "reply"), 10, 64)
}

// ThreadGetHandler opens a thread's detail view. A failed fetch falls back
// to the feed; the controller keeps the feed view and records the error.
func (h *Handler) ThreadGetHandler(w http.ResponseWriter, r *http.Request) {
	course, err := courseParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	id, err := threadParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	controller := h.Sessions.Controller(w, r)
	if err := controller.OpenThread(r.Context(), id); err != nil {
		http.Redirect(w, r, feedURL(course), http.StatusSeeOther)
		return
	}

	thread, _ := controller.SelectedThread()
	errMsg, _ := controller.Error()
	h.renderTemplate(w, r, "thread.html", renderThreadPage(course, thread), errMsg)
}

// ReplyPostHandler submits a reply to the open thread.
func (h *Handler) ReplyPostHandler(w http.ResponseWriter, r *http.Request) {
	course, err := courseParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	id, err := threadParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	target := threadURL(course, id)

	form, err := ParseReplyForm(r)
	if err != nil {
		redirectWithError(w, r, target, err.Error())
		return
	}

	controller := h.Sessions.Controller(w, r)
	if err := controller.SubmitReply(r.Context(), form.Content); err != nil {
		redirectWithError(w, r, target, err.Error())
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// UpvoteHandler toggles the viewer's vote on a reply.
func (h *Handler) UpvoteHandler(w http.ResponseWriter, r *http.Request) {
	h.replyMutation(w, r, (*discussion.Controller).Upvote)
}

// AcceptHandler marks a reply as the accepted answer.
func (h *Handler) AcceptHandler(w http.ResponseWriter, r *http.Request) {
	h.replyMutation(w, r, (*discussion.Controller).MarkAccepted)
}

// replyMutation runs a reply-scoped controller operation and redirects back
// to the thread the browser came from. Failures are already in the banner.
func (h *Handler) replyMutation(w http.ResponseWriter, r *http.Request, op func(*discussion.Controller, context.Context, domain.ReplyId) error) {
	course, err := courseParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	reply, err := replyParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	controller := h.Sessions.Controller(w, r)
	target := feedURL(course)
	if thread, ok := controller.SelectedThread(); ok {
		target = threadURL(course, thread.Id)
	}

	_ = op(controller, r.Context(), reply)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
