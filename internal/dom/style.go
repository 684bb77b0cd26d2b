package dom

import (
	"slices"
	"strconv"
	"strings"
)

// ClassList manipulates an element's classes.
type ClassList struct {
	el *Element
}

// ClassList returns the element's class list.
func (e *Element) ClassList() ClassList {
	return ClassList{el: e}
}

// HasClass reports whether the element carries class.
func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.classes, class)
}

// ClassName returns the classes joined by spaces.
func (e *Element) ClassName() string {
	return strings.Join(e.classes, " ")
}

// SetClassName replaces all classes with the space-separated names.
func (e *Element) SetClassName(names string) {
	e.classes = e.classes[:0]
	for _, name := range strings.Fields(names) {
		if !slices.Contains(e.classes, name) {
			e.classes = append(e.classes, name)
		}
	}
}

// Add adds classes. Returns true if any class was not already present.
func (c ClassList) Add(classes ...string) bool {
	changed := false
	for _, class := range classes {
		if class == "" || slices.Contains(c.el.classes, class) {
			continue
		}
		c.el.classes = append(c.el.classes, class)
		changed = true
	}
	if changed {
		c.el.classChanged()
	}
	return changed
}

// Remove removes classes. Returns true if any class was present.
func (c ClassList) Remove(classes ...string) bool {
	changed := false
	for _, class := range classes {
		if i := slices.Index(c.el.classes, class); i >= 0 {
			c.el.classes = slices.Delete(c.el.classes, i, i+1)
			changed = true
		}
	}
	if changed {
		c.el.classChanged()
	}
	return changed
}

// Contains reports whether class is present.
func (c ClassList) Contains(class string) bool {
	return c.el.HasClass(class)
}

// Values returns a copy of the classes in insertion order.
func (c ClassList) Values() []string {
	return slices.Clone(c.el.classes)
}

// Style is an element's inline style declarations.
type Style struct {
	el *Element
}

// Style returns the element's inline style.
func (e *Element) Style() Style {
	return Style{el: e}
}

// Get returns the declared value of prop, or "".
func (s Style) Get(prop string) string {
	return s.el.style[prop]
}

// Set declares prop. An empty value removes the declaration.
func (s Style) Set(prop, value string) {
	if value == "" {
		delete(s.el.style, prop)
		return
	}
	s.el.style[prop] = value
}

// SetInt declares prop with an integer value.
func (s Style) SetInt(prop string, value int) {
	s.Set(prop, strconv.Itoa(value))
}

// ComputedStyle holds the resolved values the dialog code reads.
type ComputedStyle struct {
	PaddingRight int
	ZIndex       int
	Overflow     string
}

// parseLength reads the leading integer of a length such as "12" or "12px".
func parseLength(v string) int {
	v = strings.TrimSpace(v)
	end := 0
	for end < len(v) && (v[end] == '-' && end == 0 || v[end] >= '0' && v[end] <= '9') {
		end++
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0
	}
	return n
}
