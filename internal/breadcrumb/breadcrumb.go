// Package breadcrumb tracks the navigational trail for one request.
//
// It intentionally avoids rendering and routing concerns.
package breadcrumb

import "errors"

var ErrEmptyTrail = errors.New("breadcrumb: empty trail")

// HomeTitle is the title given to the seeded landing entry.
const HomeTitle = "Home"

// Path is one entry in a navigational trail.
type Path struct {
	Title  string
	URL    string
	Active bool
}

// Trail is an ordered sequence of paths. Exactly the most recently
// added path is active; all earlier entries are inactive. Entries are
// never removed for the lifetime of the trail.
type Trail struct {
	paths []Path
}

// New constructs a trail. A non-empty landing URL seeds an initial
// "Home" entry pointing at it; an empty landing starts the trail empty.
func New(landing string) *Trail {
	t := &Trail{}
	if landing != "" {
		t.Add(HomeTitle, landing)
	}
	return t
}

// Add appends a path marked active and flips every prior entry to
// inactive. Title and url are opaque; no validation is applied.
func (t *Trail) Add(title, url string) *Trail {
	for i := range t.paths {
		t.paths[i].Active = false
	}
	t.paths = append(t.paths, Path{Title: title, URL: url, Active: true})
	return t
}

// Paths returns a copy of the full ordered sequence of entries.
func (t *Trail) Paths() []Path {
	out := make([]Path, len(t.paths))
	copy(out, t.paths)
	return out
}

// LastTitle returns the title of the most recently added path.
func (t *Trail) LastTitle() (string, error) {
	if len(t.paths) == 0 {
		return "", ErrEmptyTrail
	}
	return t.paths[len(t.paths)-1].Title, nil
}
