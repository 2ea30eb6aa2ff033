// Package router parses request paths into module/action route tokens.
//
// It is a token parser, not a routing engine: mapping tokens to handlers
// is owned by the module registry and the dispatcher.
package router

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var ErrBadRoute = errors.New("router: bad route")

// DefaultAction is the action token used when the path resolves none.
const DefaultAction = "default"

// Route holds the tokens resolved from one request path of the form
// /{module}/{action}/{p0}/{p1}/... Tokens are fixed once parsed.
type Route struct {
	Module string
	Action string
	Params []string
	Raw    bool
}

// Parse resolves route tokens from the request. An empty path falls back
// to the given default module; a missing action token becomes
// DefaultAction. Module and action tokens must match [a-z][a-z0-9_]*.
func Parse(r *http.Request, defaultModule string) (*Route, error) {
	rt := &Route{
		Module: defaultModule,
		Action: DefaultAction,
		Raw:    isRaw(r),
	}

	path := strings.Trim(r.URL.Path, "/")
	if path == "" {
		if !ValidToken(rt.Module) {
			return nil, fmt.Errorf("%w: invalid default module %q", ErrBadRoute, defaultModule)
		}
		return rt, nil
	}

	segments := strings.Split(path, "/")
	if !ValidToken(segments[0]) {
		return nil, fmt.Errorf("%w: invalid module token %q", ErrBadRoute, segments[0])
	}
	rt.Module = segments[0]

	if len(segments) > 1 {
		if !ValidToken(segments[1]) {
			return nil, fmt.Errorf("%w: invalid action token %q", ErrBadRoute, segments[1])
		}
		rt.Action = segments[1]
	}
	if len(segments) > 2 {
		rt.Params = segments[2:]
	}
	return rt, nil
}

// Param returns the positional route parameter at index i.
func (r *Route) Param(i int) (string, bool) {
	if i < 0 || i >= len(r.Params) {
		return "", false
	}
	return r.Params[i], true
}

var tokenPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidToken reports whether s is an acceptable module or action token.
func ValidToken(s string) bool {
	return tokenPattern.MatchString(s)
}

// isRaw reports whether the request is flagged as non-interactive, which
// suppresses human-facing redirect error messaging.
func isRaw(r *http.Request) bool {
	if r.URL.Query().Get("format") == "raw" {
		return true
	}
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}
