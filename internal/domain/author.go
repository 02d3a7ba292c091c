package domain

import "strings"

// Author is the identity attached to threads and replies. Immutable once
// fetched from the backend.
type Author struct {
	Id        AuthorId `json:"id"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
}

// DisplayName is "first last" when either name part is set, otherwise the
// username.
func (a Author) DisplayName() string {
	full := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if full != "" {
		return full
	}
	return a.Username
}
