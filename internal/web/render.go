package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/courseline-dev/courseline/internal/discussion"
	"github.com/courseline-dev/courseline/internal/domain"
	"github.com/courseline-dev/courseline/internal/logger"
	"github.com/courseline-dev/courseline/internal/session"
)

const baseTemplate = "base.html"

// ugcPolicy strips anything dangerous from user-authored content before it
// is marked safe for the template. Markdown is not rendered, only cleaned.
var ugcPolicy = bluemonday.UGCPolicy()

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common CommonData
}

type CommonData struct {
	Identity *session.Identity
	Error    string
}

// View models: domain records enriched with render-ready fields.

type ThreadRow struct {
	domain.ThreadPreview
	AuthorName string
}

type ReplyView struct {
	domain.Reply
	AuthorName string
	Body       template.HTML
}

type FeedPage struct {
	Course  domain.CourseId
	Threads []ThreadRow
	SortKey discussion.SortKey
	Search  string
	Busy    discussion.Activity
}

type ThreadPage struct {
	Course     domain.CourseId
	Thread     domain.Thread
	AuthorName string
	Body       template.HTML
	Replies    []ReplyView
}

func renderThreadRow(preview domain.ThreadPreview) ThreadRow {
	return ThreadRow{ThreadPreview: preview, AuthorName: preview.Author.DisplayName()}
}

func renderReply(reply domain.Reply) ReplyView {
	return ReplyView{
		Reply:      reply,
		AuthorName: reply.Author.DisplayName(),
		Body:       template.HTML(ugcPolicy.Sanitize(reply.Content)),
	}
}

func renderThreadPage(course domain.CourseId, thread domain.Thread) ThreadPage {
	page := ThreadPage{
		Course:     course,
		Thread:     thread,
		AuthorName: thread.Author.DisplayName(),
		Body:       template.HTML(ugcPolicy.Sanitize(thread.Content)),
		Replies:    make([]ReplyView, len(thread.Replies)),
	}
	for i, reply := range thread.Replies {
		page.Replies[i] = renderReply(reply)
	}
	return page
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any, errMsg string) {
	tmpl, ok := h.Templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	common := CommonData{Error: errMsg}
	if identity, ok := session.IdentityFromToken(h.Credentials.Token()); ok {
		common.Identity = &identity
	}

	wrapped := TemplateData{Data: data, Common: common}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, wrapped); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}
	_, _ = buf.WriteTo(w)
}

// redirectWithError sends the browser to targetURL with the message in the
// query string, the PRG counterpart of the error banner.
func redirectWithError(w http.ResponseWriter, r *http.Request, targetURL, errMsg string) {
	http.Redirect(w, r, fmt.Sprintf("%s?error=%s", targetURL, url.QueryEscape(errMsg)), http.StatusSeeOther)
}

// MustLoadTemplates parses every page template against the base layout.
func MustLoadTemplates(tmplPath string) map[string]*template.Template {
	templates := make(map[string]*template.Template)
	files, err := os.ReadDir(tmplPath)
	if err != nil {
		panic("can't read template dir: " + err.Error())
	}

	funcs := template.FuncMap{
		"fmtTime": func(t time.Time) string {
			return t.Local().Format("02 Jan 2006 15:04")
		},
	}

	for _, f := range files {
		if filepath.Ext(f.Name()) != ".html" || f.Name() == baseTemplate {
			continue
		}
		templates[f.Name()] = template.Must(template.New(baseTemplate).Funcs(funcs).ParseFiles(
			path.Join(tmplPath, baseTemplate),
			path.Join(tmplPath, f.Name()),
		))
	}
	return templates
}
