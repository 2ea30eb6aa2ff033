// Package dispatch owns the front controller.
//
// Ownership boundary:
// - route token parsing and module lookup
// - per-request context construction
// - action invocation and outcome application
//
// Dispatch does not own view resolution or module behavior.
package dispatch

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"weft/internal/appctx"
	"weft/internal/controller"
	"weft/internal/i18n"
	"weft/internal/observability"
	"weft/internal/registry"
	"weft/internal/router"
	"weft/internal/session"
	"weft/internal/state"
	"weft/internal/view"
)

// Options wires the shared collaborators into an engine.
type Options struct {
	Log           zerolog.Logger
	BaseURL       string
	DefaultModule string
	Registry      *registry.Registry
	Views         *view.Registry
	Catalogs      *i18n.Catalogs
	States        state.Store
	Sessions      session.Resolver
}

// Engine dispatches requests to registered module controllers.
type Engine struct {
	log           zerolog.Logger
	baseURL       string
	defaultModule string
	registry      *registry.Registry
	views         *view.Registry
	catalogs      *i18n.Catalogs
	states        state.Store
	sessions      session.Resolver
}

// New builds an engine and eagerly resolves every registered module's
// template set, so structural errors (missing template directories)
// surface at boot instead of mid-request.
func New(opts Options) (*Engine, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("dispatch: registry is required")
	}
	if opts.Views == nil {
		return nil, fmt.Errorf("dispatch: view registry is required")
	}
	if opts.States == nil {
		return nil, fmt.Errorf("dispatch: state store is required")
	}
	if opts.Catalogs == nil {
		opts.Catalogs = i18n.Empty()
	}

	for _, m := range opts.Registry.All() {
		if _, err := opts.Views.Set(m.Name); err != nil {
			return nil, fmt.Errorf("dispatch: module %s: %w", m.Name, err)
		}
	}

	return &Engine{
		log:           opts.Log,
		baseURL:       opts.BaseURL,
		defaultModule: opts.DefaultModule,
		registry:      opts.Registry,
		views:         opts.Views,
		catalogs:      opts.Catalogs,
		states:        opts.States,
		sessions:      opts.Sessions,
	}, nil
}

// Handler returns the HTTP surface: health, metrics, and the front
// controller for everything else.
func (e *Engine) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(e.log))
	r.Use(observability.RequestMetricsMiddleware("weftd"))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(e.handle)
	return r
}

func (e *Engine) handle(c *gin.Context) {
	start := time.Now()

	rt, err := router.Parse(c.Request, e.defaultModule)
	if err != nil {
		observability.RecordDispatch("", "", "bad_route", time.Since(start))
		c.String(http.StatusNotFound, "not found")
		return
	}

	mod, ok := e.registry.Get(rt.Module)
	if !ok {
		observability.RecordDispatch(rt.Module, rt.Action, "unknown_module", time.Since(start))
		c.String(http.StatusNotFound, "not found")
		return
	}

	views, err := e.views.Set(rt.Module)
	if err != nil {
		e.log.Error().Err(err).Str("module", rt.Module).Msg("template set unavailable")
		observability.RecordDispatch(rt.Module, rt.Action, "no_templates", time.Since(start))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	user := session.Current(c.Request, e.sessions)
	if err := c.Request.ParseForm(); err != nil {
		e.log.Warn().Err(err).Msg("form parse failed")
	}
	ctx := appctx.New(appctx.Options{
		RequestID:  observability.RequestID(c),
		User:       user,
		States:     e.states,
		SessionKey: session.Token(c.Request),
		Form:       c.Request.Form,
		Log:        e.log,
		BaseURL:    e.baseURL,
		Referrer:   c.Request.Referer(),
	})

	ctrl := mod.New(controller.Deps{
		Ctx:        ctx,
		Route:      rt,
		Translator: e.catalogs.Translator(rt.Module),
		Views:      views,
	})
	if err := ctrl.Init(); err != nil {
		ctx.Log.Error().Err(err).Str("module", rt.Module).Msg("controller init failed")
		observability.RecordDispatch(rt.Module, rt.Action, "init_error", time.Since(start))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	act, ok := ctrl.Actions()[rt.Action]
	if !ok {
		observability.RecordDispatch(rt.Module, rt.Action, "unknown_action", time.Since(start))
		c.String(http.StatusNotFound, "not found")
		return
	}

	if err := act(); err != nil {
		ctx.Log.Error().Err(err).
			Str("module", rt.Module).
			Str("action", rt.Action).
			Msg("action failed")
		observability.RecordDispatch(rt.Module, rt.Action, "action_error", time.Since(start))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	e.finish(c, ctx, rt, start)
}

// finish applies the request outcome in precedence order: denial, then
// redirect, then bare status, then the rendered body.
func (e *Engine) finish(c *gin.Context, ctx *appctx.Ctx, rt *router.Route, start time.Time) {
	var outcome string
	switch {
	case ctx.Denied():
		outcome = "denied"
		c.String(http.StatusForbidden, "access denied")
	case ctx.RedirectTarget() != "":
		outcome = "redirect"
		ctx.FlushFlash()
		c.Redirect(http.StatusSeeOther, ctx.RedirectTarget())
	case ctx.Status() != 0:
		outcome = fmt.Sprintf("status_%d", ctx.Status())
		c.Status(ctx.Status())
	default:
		outcome = "ok"
		c.Data(http.StatusOK, "text/html; charset=utf-8", ctx.Body().Bytes())
	}
	observability.RecordDispatch(rt.Module, rt.Action, outcome, time.Since(start))
}
