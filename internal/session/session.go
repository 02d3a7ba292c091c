// Package session supplies the current user credential to the rest of the
// client. Token issuing and refresh belong to the backend; this side only
// reads whatever was persisted at login time.
package session

import (
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// CredentialProvider returns the current bearer token, or "" when the user
// has no persisted session. An empty credential is sent as-is; the backend
// decides what unauthenticated callers may do.
type CredentialProvider interface {
	Token() string
}

// Static is a fixed-token provider, mainly for tests.
type Static string

func (s Static) Token() string {
	return string(s)
}

// FileStore reads the persisted session token from disk on every call, so
// a login performed by another process is picked up without a restart.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) Token() string {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		// Missing token is not an error: requests go out unauthenticated.
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// Identity is the signed-in user as far as the UI needs to know.
type Identity struct {
	Username string
}

// IdentityFromToken extracts display claims without verifying the signature.
// The client holds no signing key; the backend verifies the token on every
// request that matters. A malformed or empty token yields no identity.
func IdentityFromToken(token string) (Identity, bool) {
	if token == "" {
		return Identity{}, false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Identity{}, false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, false
	}

	username, _ := claims["username"].(string)
	if username == "" {
		username, _ = claims["email"].(string)
	}
	if username == "" {
		return Identity{}, false
	}
	return Identity{Username: username}, true
}
