// Package session provides minimal request identity helpers.
//
// It intentionally avoids policy decisions and storage concerns.
package session

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

var ErrUnauthorized = errors.New("session: unauthorized")

// CookieName carries the session token on interactive requests.
const CookieName = "weft_session"

// Landing is the default module/action a user is routed to after
// authentication.
type Landing struct {
	Module string
	Action string
}

// User identifies the current request principal. The zero value is the
// anonymous user.
type User struct {
	ID      string
	Name    string
	Landing Landing
}

// Populated reports whether the user carries a real identity.
func (u User) Populated() bool {
	return strings.TrimSpace(u.ID) != ""
}

// LandingURL returns the module/action route the user lands on, or ""
// for an anonymous user.
func (u User) LandingURL() string {
	if !u.Populated() {
		return ""
	}
	return u.Landing.Module + "/" + u.Landing.Action
}

// Resolver maps a session token to a user.
type Resolver interface {
	Resolve(token string) (User, error)
}

// FuncResolver adapts a function into a Resolver.
type FuncResolver func(token string) (User, error)

func (f FuncResolver) Resolve(token string) (User, error) {
	return f(token)
}

// StaticUsers resolves tokens from a fixed in-memory table. It is
// intended only for development and proofs of concept.
type StaticUsers struct {
	users map[string]User
}

func NewStaticUsers() *StaticUsers {
	return &StaticUsers{users: make(map[string]User)}
}

func (s *StaticUsers) Add(token string, u User) {
	s.users[token] = u
}

func (s *StaticUsers) Resolve(token string) (User, error) {
	if token == "" {
		return User{}, ErrUnauthorized
	}
	for stored, u := range s.users {
		if subtle.ConstantTimeCompare([]byte(stored), []byte(token)) == 1 {
			return u, nil
		}
	}
	return User{}, ErrUnauthorized
}

// Token extracts the session token from the request: cookie first, then
// bearer authorization header. Returns "" when neither is present.
func Token(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// Current resolves the request to a user, falling back to the anonymous
// user when no valid session token is present.
func Current(r *http.Request, res Resolver) User {
	token := Token(r)
	if token == "" || res == nil {
		return User{}
	}
	u, err := res.Resolve(token)
	if err != nil {
		return User{}
	}
	return u
}
