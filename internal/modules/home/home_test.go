package home

import (
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"weft/internal/appctx"
	"weft/internal/controller"
	"weft/internal/i18n"
	"weft/internal/registry"
	"weft/internal/router"
	"weft/internal/session"
	"weft/internal/state"
	"weft/internal/view"
)

type stubView struct{}

func (stubView) Render(w io.Writer, data view.Data) error {
	if d, ok := data.Content.(dashboard); ok {
		_, err := io.WriteString(w, d.Greeting)
		return err
	}
	_, err := io.WriteString(w, data.Title)
	return err
}

type stubViews struct{}

func (stubViews) Resolve(action string) (view.View, error) { return stubView{}, nil }

func newController(t *testing.T, user session.User, action string) controller.Controller {
	t.Helper()
	ctx := appctx.New(appctx.Options{
		User:    user,
		States:  state.NewMemoryStore(),
		Log:     zerolog.Nop(),
		BaseURL: "http://base",
	})
	return New(controller.Deps{
		Ctx:        ctx,
		Route:      &router.Route{Module: Name, Action: action},
		Translator: i18n.Empty().Translator(Name),
		Views:      stubViews{},
	})
}

func TestActionsCoverRegisteredTokens(t *testing.T) {
	ctrl := newController(t, session.User{}, "default")
	actions := ctrl.Actions()
	for _, name := range []string{"default", "about"} {
		if actions[name] == nil {
			t.Fatalf("missing action %q", name)
		}
	}
}

func TestDashboardGreetsUserByName(t *testing.T) {
	user := session.User{ID: "u1", Name: "Ada", Landing: session.Landing{Module: Name, Action: "default"}}
	ctrl := newController(t, user, "default")
	hc := ctrl.(*Controller)
	if err := hc.Actions()["default"](); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	// Empty catalogs echo the key with {name} interpolated.
	if body := hc.Ctx.Body().String(); !strings.Contains(body, "greeting") {
		t.Fatalf("body = %q", body)
	}
	title, err := hc.Ctx.Trail.LastTitle()
	if err != nil {
		t.Fatalf("trail: %v", err)
	}
	if title != "title" {
		t.Fatalf("trail last title = %q", title)
	}
}

func TestDashboardAnonymousGreeting(t *testing.T) {
	ctrl := newController(t, session.User{}, "default")
	hc := ctrl.(*Controller)
	if err := hc.Actions()["default"](); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if body := hc.Ctx.Body().String(); !strings.Contains(body, "greeting_anonymous") {
		t.Fatalf("body = %q", body)
	}
}

func TestRegister(t *testing.T) {
	r := registry.New()
	if err := Register(r); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, ok := r.Get(Name); !ok {
		t.Fatalf("module not registered")
	}
	if err := Register(r); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}
