// Package notes is a demo module exercising entity loading and state
// bag persistence: notes live in the application state bag as JSON.
package notes

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"

	"weft/internal/controller"
	"weft/internal/registry"
)

const Name = "notes"

// notePrefix namespaces note records inside the application state bag.
const notePrefix = "note:"

func Register(r *registry.Registry) error {
	return r.Register(registry.Module{Name: Name, New: New})
}

// Note is the persisted entity. loaded is the predicate LoadEntity
// checks; only records actually read back from the state bag carry it.
type Note struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`

	loaded bool
}

func (n *Note) Loaded() bool { return n.loaded }

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
		"default": c.list,
		"view":    c.view,
		"add":     c.add,
	}
}

func (c *Controller) list() error {
	c.Ctx.Trail.Add(c.Translator.T("title"), Name+"/default")

	keys, err := c.Ctx.StateKeys()
	if err != nil {
		return err
	}
	var all []Note
	for _, key := range keys {
		if !strings.HasPrefix(key, notePrefix) {
			continue
		}
		n, ok := c.loadNote(strings.TrimPrefix(key, notePrefix))
		if ok {
			all = append(all, *n)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })
	return c.Display(all)
}

func (c *Controller) view() error {
	c.Ctx.Trail.Add(c.Translator.T("title"), Name+"/default")

	e := c.LoadEntity(c.loadEntity, "note")
	if e == nil {
		if c.Router.Raw {
			c.Ctx.SetStatus(http.StatusNotFound)
			return nil
		}
		c.Ctx.Redirect(c.Ctx.ModuleURL(Name))
		return nil
	}
	note := e.(*Note)
	c.Ctx.Trail.Add(note.Title, Name+"/view/"+note.ID)
	return c.Display(note)
}

func (c *Controller) add() error {
	title := strings.TrimSpace(c.Ctx.Form.Get("title"))
	if title == "" {
		c.Ctx.EnqueueError(c.Translator.T("missing_title"))
		c.Ctx.Redirect(c.Ctx.ModuleURL(Name))
		return nil
	}

	note := Note{
		ID:    uuid.NewString(),
		Title: title,
		Body:  c.Ctx.Form.Get("body"),
	}
	data, err := json.Marshal(note)
	if err != nil {
		return err
	}
	if err := c.Ctx.SetState(notePrefix+note.ID, string(data)); err != nil {
		return err
	}

	c.Ctx.EnqueueMessage(c.Translator.Tf("note_added", map[string]string{"title": note.Title}))
	c.Ctx.Redirect(c.Ctx.ModuleURL(Name) + "/view/" + note.ID)
	return nil
}

// loadNote reads one note record back from the state bag.
func (c *Controller) loadNote(id string) (*Note, bool) {
	raw, ok, err := c.Ctx.GetState(notePrefix + id)
	if err != nil || !ok {
		return nil, false
	}
	var n Note
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return nil, false
	}
	n.loaded = true
	return &n, true
}

// loadEntity adapts loadNote to the controller entity contract. An
// unknown id yields an entity whose loaded predicate is false.
func (c *Controller) loadEntity(id string) controller.Entity {
	n, ok := c.loadNote(id)
	if !ok {
		return &Note{ID: id}
	}
	return n
}
