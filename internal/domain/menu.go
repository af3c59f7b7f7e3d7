package domain

import (
	"slices"
	"strings"
)

// MenuState is the visibility of the navigation menu.
type MenuState string

const (
	// MenuExpanded means the fold marker is absent and the menu is shown.
	MenuExpanded MenuState = "expanded"

	// MenuFolded means the fold marker is present and the menu is collapsed.
	MenuFolded MenuState = "folded"
)

// ClassList is an ordered set of CSS class tokens, as found in a class attribute.
// The zero value is an empty list ready to use.
type ClassList struct {
	tokens []string
}

// ParseClassList splits a class attribute on whitespace.
// Duplicate tokens collapse to their first occurrence.
func ParseClassList(attr string) *ClassList {
	cl := &ClassList{}
	for _, token := range strings.Fields(attr) {
		cl.Add(token)
	}

	return cl
}

// Contains reports whether token is in the list.
func (cl *ClassList) Contains(token string) bool {
	return slices.Contains(cl.tokens, token)
}

// Add appends token unless it is already present or blank.
func (cl *ClassList) Add(token string) {
	token = strings.TrimSpace(token)
	if token == "" || cl.Contains(token) {
		return
	}

	cl.tokens = append(cl.tokens, token)
}

// Remove drops token, keeping the order of the others.
func (cl *ClassList) Remove(token string) {
	cl.tokens = slices.DeleteFunc(cl.tokens, func(t string) bool { return t == token })
}

// Toggle removes token when present and adds it otherwise.
// It returns true when the token is present afterwards.
func (cl *ClassList) Toggle(token string) bool {
	if cl.Contains(token) {
		cl.Remove(token)
		return false
	}

	cl.Add(token)

	return cl.Contains(token)
}

// Len returns the number of tokens.
func (cl *ClassList) Len() int {
	return len(cl.tokens)
}

// Tokens returns a copy of the tokens in order.
func (cl *ClassList) Tokens() []string {
	return slices.Clone(cl.tokens)
}

// String renders the list back into a class attribute.
func (cl *ClassList) String() string {
	return strings.Join(cl.tokens, " ")
}
