// Package appctx owns the per-request application context.
//
// One Ctx serves exactly one dispatched action. It carries the current
// user, the breadcrumb trail, the flash message queue, the redirect
// outcome, and a handle on the shared state bag. Nothing in it is shared
// across requests, so no locking is needed.
package appctx

import (
	"bytes"
	"encoding/json"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"weft/internal/breadcrumb"
	"weft/internal/session"
	"weft/internal/state"
)

// appNS is the state bag namespace backing the SetState/GetState proxies.
const appNS = "app"

// flashKey stores queued messages across a redirect.
const flashKey = "flash"

type Severity string

const (
	SeverityMessage Severity = "message"
	SeverityError   Severity = "error"
)

// Message is one user-facing notice queued during a request.
type Message struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// Options configures a request context. RequestID carries the id the
// HTTP layer already assigned to this request; when empty a fresh one is
// generated.
type Options struct {
	RequestID  string
	User       session.User
	States     state.Store
	SessionKey string
	Form       url.Values
	Log        zerolog.Logger
	BaseURL    string
	Referrer   string
}

// Ctx is the per-request application context.
type Ctx struct {
	ID       string
	User     session.User
	Trail    *breadcrumb.Trail
	Form     url.Values
	Log      zerolog.Logger
	BaseURL  string
	Referrer string

	states   state.Store
	flashNS  string
	messages []Message
	redirect string
	status   int
	denied   bool
	body     bytes.Buffer
}

// New builds a request context. A populated user seeds the breadcrumb
// trail with their landing route; pending flash messages from a prior
// redirect are drained into the queue. Requests without a session key
// get no flash namespace: anonymous clients are indistinguishable, so
// persisting their notices would hand them to unrelated clients.
func New(opts Options) *Ctx {
	id := opts.RequestID
	if id == "" {
		id = uuid.NewString()
	}
	c := &Ctx{
		ID:       id,
		User:     opts.User,
		Trail:    breadcrumb.New(opts.User.LandingURL()),
		Form:     opts.Form,
		Log:      opts.Log.With().Str("request_id", id).Logger(),
		BaseURL:  opts.BaseURL,
		Referrer: opts.Referrer,
		states:   opts.States,
	}
	if opts.SessionKey != "" {
		c.flashNS = "flash:" + opts.SessionKey
	}
	if c.Form == nil {
		c.Form = url.Values{}
	}
	c.drainFlash()
	return c
}

// EnqueueMessage queues an informational notice for the user.
func (c *Ctx) EnqueueMessage(text string) {
	c.messages = append(c.messages, Message{Text: text, Severity: SeverityMessage})
}

// EnqueueError queues an error notice for the user.
func (c *Ctx) EnqueueError(text string) {
	c.messages = append(c.messages, Message{Text: text, Severity: SeverityError})
}

// Messages returns a copy of the queued notices.
func (c *Ctx) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Redirect records the redirect target for this request. The first call
// wins; later calls are ignored, matching the hard-redirect semantics of
// per-request dispatch.
func (c *Ctx) Redirect(target string) {
	if c.redirect == "" {
		c.redirect = target
	}
}

// RedirectTarget returns the recorded redirect target, or "".
func (c *Ctx) RedirectTarget() string {
	return c.redirect
}

// Deny terminates the request with an access-denied outcome. No redirect
// and no module-structure disclosure follow a denial.
func (c *Ctx) Deny() {
	c.denied = true
}

func (c *Ctx) Denied() bool {
	return c.denied
}

// SetStatus records a bare status outcome (used for raw requests).
func (c *Ctx) SetStatus(code int) {
	c.status = code
}

func (c *Ctx) Status() int {
	return c.status
}

// Body is the response buffer views render into.
func (c *Ctx) Body() *bytes.Buffer {
	return &c.body
}

// ModuleURL returns the base route for a module.
func (c *Ctx) ModuleURL(module string) string {
	return c.BaseURL + "/" + module
}

// SetState stores a value in the application-wide state bag.
func (c *Ctx) SetState(key, value string) error {
	return c.states.Set(appNS, key, value)
}

// GetState reads a value from the application-wide state bag.
func (c *Ctx) GetState(key string) (string, bool, error) {
	return c.states.Get(appNS, key)
}

// UnsetState removes a value from the application-wide state bag.
func (c *Ctx) UnsetState(key string) error {
	return c.states.Unset(appNS, key)
}

// StateKeys lists the keys currently in the application-wide state bag.
func (c *Ctx) StateKeys() ([]string, error) {
	return c.states.Keys(appNS)
}

// FlushFlash persists queued messages for the next request of the same
// session. The dispatcher calls it when the request ends in a redirect.
// Without a session key the messages are dropped instead of persisted.
func (c *Ctx) FlushFlash() {
	if c.flashNS == "" || len(c.messages) == 0 {
		return
	}
	data, err := json.Marshal(c.messages)
	if err != nil {
		c.Log.Error().Err(err).Msg("flash encode failed")
		return
	}
	if err := c.states.Set(c.flashNS, flashKey, string(data)); err != nil {
		c.Log.Error().Err(err).Msg("flash store failed")
	}
}

// drainFlash loads and clears messages persisted by a prior redirect.
func (c *Ctx) drainFlash() {
	if c.states == nil || c.flashNS == "" {
		return
	}
	raw, ok, err := c.states.Get(c.flashNS, flashKey)
	if err != nil {
		c.Log.Error().Err(err).Msg("flash load failed")
		return
	}
	if !ok {
		return
	}
	var pending []Message
	if err := json.Unmarshal([]byte(raw), &pending); err == nil {
		c.messages = append(c.messages, pending...)
	}
	if err := c.states.Unset(c.flashNS, flashKey); err != nil {
		c.Log.Error().Err(err).Msg("flash clear failed")
	}
}
