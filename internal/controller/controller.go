// Package controller provides the dispatch scaffolding shared by every
// module controller: view resolution, entity loading, and terse access
// to the request context collaborators.
//
// Controllers are built once per dispatched action; every operation an
// action may need is an explicit method on Base or the capability
// interface, never dynamic dispatch.
package controller

import (
	"net/http"
	"sync"

	"weft/internal/appctx"
	"weft/internal/i18n"
	"weft/internal/router"
	"weft/internal/view"
)

// ActionFunc runs one dispatched action.
type ActionFunc func() error

// Controller is the capability surface the dispatcher requires. An
// action token missing from Actions is a checked not-found at dispatch
// time, never a silent no-op.
type Controller interface {
	Init() error
	Actions() map[string]ActionFunc
}

// ViewResolver resolves an action name to its backing view.
type ViewResolver interface {
	Resolve(action string) (view.View, error)
}

// Deps are the per-request collaborators handed to module constructors.
type Deps struct {
	Ctx        *appctx.Ctx
	Route      *router.Route
	Translator *i18n.Translator
	Views      ViewResolver
}

// Entity is anything with a loaded predicate.
type Entity interface {
	Loaded() bool
}

// Base carries the controller fields every module embeds. Name and the
// view name are fixed at construction and never change.
type Base struct {
	Ctx        *appctx.Ctx
	Router     *router.Route
	Translator *i18n.Translator
	Views      ViewResolver
	Name       string

	viewName string
}

// NewBase wires the collaborators in construction order: fields, then
// translator scope, then the view name from the resolved action token.
func NewBase(d Deps, name string) Base {
	b := Base{
		Ctx:        d.Ctx,
		Router:     d.Route,
		Translator: d.Translator,
		Views:      d.Views,
		Name:       name,
	}
	b.Translator.SetModule(name)
	b.viewName = d.Route.Action
	return b
}

// Init is the overridable no-op extension hook; the dispatcher invokes
// it before the action method runs.
func (b *Base) Init() error {
	return nil
}

// ViewName returns the view resolved for this request.
func (b *Base) ViewName() string {
	return b.viewName
}

var routeAliasWarn sync.Once

// Route is a deprecated alias kept for callers that predate the Router
// field rename.
//
// Deprecated: use the Router field.
func (b *Base) Route() *router.Route {
	routeAliasWarn.Do(func() {
		b.Ctx.Log.Warn().Msg("controller: Route() is deprecated, use the Router field")
	})
	return b.Router
}

// GetView resolves the current view. On a missing template the outcome
// is gated on authentication: a populated user gets a logged error and,
// on interactive requests, a redirect to the referrer (or the base URL);
// raw requests record no redirect so the caller's bare status can win at
// dispatch. An anonymous user gets a hard denial with no redirect, so
// unauthenticated requests cannot probe module structure. Returns nil on
// any failure.
func (b *Base) GetView() view.View {
	v, err := b.Views.Resolve(b.viewName)
	if err == nil {
		return v
	}

	if !b.Ctx.User.Populated() {
		b.Ctx.Deny()
		return nil
	}

	b.Ctx.Log.Error().
		Err(err).
		Str("module", b.Name).
		Str("view", b.viewName).
		Msg("view resolution failed")
	if b.Router.Raw {
		return nil
	}
	target := b.Ctx.Referrer
	if target == "" {
		target = b.Ctx.BaseURL
	}
	b.Ctx.Redirect(target)
	return nil
}

// Display resolves the view and renders it with the given content. When
// no view can serve the request, interactive requests get a translated
// "resource not found" notice and a redirect to the module base route;
// raw requests get a bare 404.
func (b *Base) Display(content any) error {
	v := b.GetView()
	if v == nil {
		if b.Ctx.Denied() {
			return nil
		}
		if b.Router.Raw {
			b.Ctx.SetStatus(http.StatusNotFound)
			return nil
		}
		b.Ctx.EnqueueError(b.Translator.T("resource_not_found"))
		b.Ctx.Redirect(b.Ctx.ModuleURL(b.Name))
		return nil
	}
	return v.Render(b.Ctx.Body(), b.ViewData(content))
}

// ViewData builds the template envelope for this request.
func (b *Base) ViewData(content any) view.Data {
	return view.Data{
		Title:    b.Translator.T("title"),
		User:     b.Ctx.User,
		Trail:    b.Ctx.Trail.Paths(),
		Messages: b.Ctx.Messages(),
		Content:  content,
	}
}

// LoadEntity reads the first positional route parameter as an entity id
// and loads it. Every failure is reported to the user and returns nil:
// a missing id enqueues a translated error; a load miss (nil entity or
// false loaded predicate) enqueues a translated error and logs the kind
// and offending id.
func (b *Base) LoadEntity(load func(id string) Entity, kind string) Entity {
	id, ok := b.Router.Param(0)
	if !ok {
		b.Ctx.EnqueueError(b.Translator.T("missing_id"))
		return nil
	}
	e := load(id)
	if e == nil || !e.Loaded() {
		b.Ctx.EnqueueError(b.Translator.Tf("not_found_by_id", map[string]string{"id": id}))
		b.Ctx.Log.Error().
			Str("kind", kind).
			Str("id", id).
			Msg("entity load failed")
		return nil
	}
	return e
}
