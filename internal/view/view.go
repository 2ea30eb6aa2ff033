// Package view resolves and renders HTML templates by module/action
// convention: <dir>/<module>/<action>.html rendered inside <dir>/layout.html.
package view

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sync"

	"weft/internal/appctx"
	"weft/internal/breadcrumb"
	"weft/internal/session"
)

var (
	ErrNotFound      = errors.New("view: template not found")
	ErrUnknownModule = errors.New("view: unknown module template dir")
)

// View renders itself into a response body.
type View interface {
	Render(w io.Writer, data Data) error
}

// Data is the envelope every template receives.
type Data struct {
	Title    string
	User     session.User
	Trail    []breadcrumb.Path
	Messages []appctx.Message
	Content  any
}

// TemplateView is a parsed layout+content template pair.
type TemplateView struct {
	name string
	tpl  *template.Template
}

func (v *TemplateView) Render(w io.Writer, data Data) error {
	if err := v.tpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("view: render %s: %w", v.name, err)
	}
	return nil
}

// Registry hands out per-module template sets rooted at one directory.
type Registry struct {
	dir string
	dev bool

	mu   sync.Mutex
	sets map[string]*Set
}

// NewRegistry creates a template registry. In dev mode, sets reparse
// templates after the watcher flags a change.
func NewRegistry(dir string, dev bool) *Registry {
	return &Registry{dir: dir, dev: dev, sets: make(map[string]*Set)}
}

// Set returns the template set for a module. The module's template
// directory must exist; a missing directory is a structural error and
// fails at boot, not per request.
func (r *Registry) Set(module string) (*Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sets[module]; ok {
		return s, nil
	}

	moduleDir := filepath.Join(r.dir, module)
	info, err := os.Stat(moduleDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModule, moduleDir)
	}
	s := &Set{
		module: module,
		dir:    moduleDir,
		layout: filepath.Join(r.dir, "layout.html"),
		dev:    r.dev,
		cache:  make(map[string]*TemplateView),
	}
	r.sets[module] = s
	return s, nil
}

// invalidate marks the set owning path stale so it reparses lazily.
func (r *Registry) invalidate(path string) {
	module := filepath.Base(filepath.Dir(path))
	r.mu.Lock()
	defer r.mu.Unlock()
	if module == filepath.Base(r.dir) {
		// Shared layout changed; every set is stale.
		for _, s := range r.sets {
			s.markStale()
		}
		return
	}
	if s, ok := r.sets[module]; ok {
		s.markStale()
	}
}

// Set resolves action names to parsed views for one module.
type Set struct {
	module string
	dir    string
	layout string
	dev    bool

	mu    sync.Mutex
	stale bool
	cache map[string]*TemplateView
}

// Resolve returns the view backing the named action. A missing template
// file is ErrNotFound; callers decide how much of that to disclose.
func (s *Set) Resolve(action string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev && s.stale {
		s.cache = make(map[string]*TemplateView)
		s.stale = false
	}
	if v, ok := s.cache[action]; ok {
		return v, nil
	}

	file := filepath.Join(s.dir, action+".html")
	if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, s.module, action)
	}
	tpl, err := template.ParseFiles(s.layout, file)
	if err != nil {
		return nil, fmt.Errorf("view: parse %s/%s: %w", s.module, action, err)
	}
	v := &TemplateView{name: s.module + "/" + action, tpl: tpl}
	s.cache[action] = v
	return v, nil
}

func (s *Set) markStale() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}
