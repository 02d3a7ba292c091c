// Package web is the presentational layer: it renders controller state and
// turns form posts back into controller intents. All discussion logic lives
// in internal/discussion; handlers here only translate.
package web

import (
	"html/template"
	"net/http"

	"github.com/courseline-dev/courseline/internal/session"
)

type Handler struct {
	Templates   map[string]*template.Template
	Sessions    *SessionRegistry
	Credentials session.CredentialProvider
}

func New(templates map[string]*template.Template, sessions *SessionRegistry, credentials session.CredentialProvider) *Handler {
	return &Handler{
		Templates:   templates,
		Sessions:    sessions,
		Credentials: credentials,
	}
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
