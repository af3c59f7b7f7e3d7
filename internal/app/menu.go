package app

import (
	"github.com/jsamuelsen/quote-rotator/internal/domain"
	"github.com/jsamuelsen/quote-rotator/internal/ports"
)

const (
	// DefaultMenuBaseClass is the class the navigation menu always carries.
	DefaultMenuBaseClass = "navbar-list"

	// DefaultMenuFoldMarker marks the navigation menu as collapsed.
	DefaultMenuFoldMarker = "folded"
)

// MenuTogglerConfig names the class tokens of the navigation menu.
type MenuTogglerConfig struct {
	BaseClass  string
	FoldMarker string
}

// MenuToggler flips the fold marker of a menu element once per activation
// of the toggle control. Tokens other than the marker are left untouched.
type MenuToggler struct {
	baseClass  string
	foldMarker string
}

// NewMenuToggler creates a toggler. Empty names fall back to the defaults.
func NewMenuToggler(cfg MenuTogglerConfig) *MenuToggler {
	t := &MenuToggler{baseClass: cfg.BaseClass, foldMarker: cfg.FoldMarker}

	if t.baseClass == "" {
		t.baseClass = DefaultMenuBaseClass
	}

	if t.foldMarker == "" {
		t.foldMarker = DefaultMenuFoldMarker
	}

	return t
}

// Initial returns the class attribute the menu markup starts with.
func (t *MenuToggler) Initial(folded bool) string {
	cl := domain.ParseClassList(t.baseClass)
	if folded {
		cl.Add(t.foldMarker)
	}

	return cl.String()
}

// Toggle adds the fold marker to el when absent and removes it when present,
// and returns the resulting state.
func (t *MenuToggler) Toggle(el ports.ClassElement) domain.MenuState {
	cl := domain.ParseClassList(el.ClassName())
	folded := cl.Toggle(t.foldMarker)
	el.SetClassName(cl.String())

	return stateOf(folded)
}

// State reports the current state of el without changing it.
func (t *MenuToggler) State(el ports.ClassElement) domain.MenuState {
	return stateOf(domain.ParseClassList(el.ClassName()).Contains(t.foldMarker))
}

func stateOf(folded bool) domain.MenuState {
	if folded {
		return domain.MenuFolded
	}

	return domain.MenuExpanded
}

// MenuElement is an in-memory ports.ClassElement.
type MenuElement struct {
	Class string
}

// ClassName implements ports.ClassElement.
func (e *MenuElement) ClassName() string { return e.Class }

// SetClassName implements ports.ClassElement.
func (e *MenuElement) SetClassName(className string) { e.Class = className }
