// Package view maps view names to the view models painted by the front end.
package view

import (
	"time"

	"github.com/trezcool/classhub/core/i18n"
	"github.com/trezcool/classhub/core/identity"
	"github.com/trezcool/classhub/core/state"
)

const (
	Overview  = "overview"
	Calendar  = "calendar"
	Timetable = "timetable"
	Subjects  = "subjects"
	ClassList = "classlist"
	Admin     = "admin"
	Dev       = "dev"
)

// Context is what a view renders from.
type Context struct {
	Store  *state.Store
	T      i18n.Translator
	Caps   identity.Capabilities
	Viewer identity.Identity
	Now    time.Time
	// Params are the query parameters of the request, e.g. week=-1 or search=amina.
	Params map[string]string
}

func (c Context) param(key string) string {
	if c.Params == nil {
		return ""
	}
	return c.Params[key]
}

type View interface {
	Name() string
	Render(ctx Context) interface{}
}

type route struct {
	view  View
	label string // translation key
	allow func(identity.Capabilities) bool
}

func everyone(identity.Capabilities) bool   { return true }
func supers(c identity.Capabilities) bool   { return c.Super }
func elevated(c identity.Capabilities) bool { return c.Elevated }

// Router resolves view names against the capabilities of the viewer.
type Router struct {
	routes []route
}

func NewRouter() *Router {
	return &Router{routes: []route{
		{view: overviewView{}, label: "overview", allow: everyone},
		{view: calendarView{}, label: "calendar", allow: everyone},
		{view: timetableView{}, label: "timetable", allow: everyone},
		{view: subjectsView{}, label: "subjects", allow: everyone},
		{view: classListView{}, label: "classlist", allow: everyone},
		{view: adminView{}, label: "management", allow: supers},
		{view: devView{}, label: "dev", allow: elevated},
	}}
}

// Resolve returns the view named name, or the overview when the name is unknown or not allowed.
func (r *Router) Resolve(name string, caps identity.Capabilities) View {
	for _, rt := range r.routes {
		if rt.view.Name() == name && rt.allow(caps) {
			return rt.view
		}
	}
	return r.routes[0].view
}

// Label returns the translation key naming the view.
func (r *Router) Label(name string) string {
	for _, rt := range r.routes {
		if rt.view.Name() == name {
			return rt.label
		}
	}
	return name
}

// NavEntry is one item of the navigation menu.
type NavEntry struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Navigation lists the views caps may open, labelled in t's language.
func (r *Router) Navigation(caps identity.Capabilities, t i18n.Translator, current string) []NavEntry {
	entries := make([]NavEntry, 0, len(r.routes))
	for _, rt := range r.routes {
		if !rt.allow(caps) {
			continue
		}
		entries = append(entries, NavEntry{
			ID:     rt.view.Name(),
			Label:  t.T(rt.label),
			Active: rt.view.Name() == current,
		})
	}
	return entries
}
