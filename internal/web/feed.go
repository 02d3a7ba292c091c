package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/courseline-dev/courseline/internal/discussion"
	"github.com/courseline-dev/courseline/internal/domain"
)

func courseParam(r *http.Request) (domain.CourseId, error) {
	return strconv.ParseInt(chi.URLParam(r, "course"), 10, 64)
}

func feedURL(course domain.CourseId) string {
	return fmt.Sprintf("/courses/%d", course)
}

func threadURL(course domain.CourseId, thread domain.ThreadId) string {
	return fmt.Sprintf("/courses/%d/threads/%d", course, thread)
}

// FeedGetHandler renders the question feed. Entering the feed from a
// thread is the back() transition; the refresh that follows is the page
// load itself, not an automatic consequence of going back.
func (h *Handler) FeedGetHandler(w http.ResponseWriter, r *http.Request) {
	course, err := courseParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	controller := h.Sessions.Controller(w, r)
	controller.Back()

	if sort := r.URL.Query().Get("sort"); sort != "" {
		controller.SetSortKey(discussion.ParseSortKey(sort))
	}
	search := r.URL.Query().Get("search")

	// Refresh failures land in the controller's banner; render regardless.
	_ = controller.RefreshFeed(r.Context(), course, search)

	previews := controller.Feed()
	page := FeedPage{
		Course:  course,
		Threads: make([]ThreadRow, len(previews)),
		SortKey: controller.SortKey(),
		Search:  controller.SearchQuery(),
		Busy:    controller.Activity(),
	}
	for i, preview := range previews {
		page.Threads[i] = renderThreadRow(preview)
	}

	errMsg := r.URL.Query().Get("error")
	if errMsg == "" {
		errMsg, _ = controller.Error()
	}
	h.renderTemplate(w, r, "feed.html", page, errMsg)
}

// CreateThreadHandler posts a new question and lands on its detail view.
func (h *Handler) CreateThreadHandler(w http.ResponseWriter, r *http.Request) {
	course, err := courseParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	form, err := ParseThreadForm(r)
	if err != nil {
		redirectWithError(w, r, feedURL(course), err.Error())
		return
	}

	controller := h.Sessions.Controller(w, r)
	if err := controller.CreateThread(r.Context(), course, form.Title, form.Content); err != nil {
		redirectWithError(w, r, feedURL(course), err.Error())
		return
	}

	thread, ok := controller.SelectedThread()
	if !ok {
		// Should be unreachable: a successful create always selects.
		http.Redirect(w, r, feedURL(course), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, threadURL(course, thread.Id), http.StatusSeeOther)
}
