// Package home is the landing module: a dashboard and an about page.
package home

import (
	"weft/internal/controller"
	"weft/internal/registry"
)

const Name = "home"

func Register(r *registry.Registry) error {
	return r.Register(registry.Module{Name: Name, New: New})
}

type Controller struct {
	controller.Base
}

func New(d controller.Deps) controller.Controller {
	c := &Controller{}
	c.Base = controller.NewBase(d, Name)
	return c
}

func (c *Controller) Actions() map[string]controller.ActionFunc {
	return map[string]controller.ActionFunc{
		"default": c.dashboard,
		"about":   c.about,
	}
}

type dashboard struct {
	Greeting string
}

func (c *Controller) dashboard() error {
	c.Ctx.Trail.Add(c.Translator.T("title"), Name+"/default")
	greeting := c.Translator.T("greeting_anonymous")
	if c.Ctx.User.Populated() {
		greeting = c.Translator.Tf("greeting", map[string]string{"name": c.Ctx.User.Name})
	}
	return c.Display(dashboard{Greeting: greeting})
}

func (c *Controller) about() error {
	c.Ctx.Trail.Add(c.Translator.T("about_title"), Name+"/about")
	return c.Display(nil)
}
