package vdom

import "strings"

// Event is the payload delivered to element event handlers.
type Event struct {
	// Type is the event name without the "on" prefix (e.g., "input").
	Type string

	// Value is the current value of the target element.
	Value string

	// Checked is the checked state of checkbox and radio targets.
	Checked bool

	// Values holds every selected option of a multiple select.
	Values []string

	defaultPrevented bool
}

// PreventDefault suppresses the host's native behaviour for this event,
// such as page navigation on form submission.
func (e *Event) PreventDefault() {
	if e != nil {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e != nil && e.defaultPrevented
}

// event creates an EventHandler with the given name and handler.
// The name is prefixed with "on" (e.g., "input" becomes "oninput").
func event(name string, handler any) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// OnInput handles input events (fired when value changes).
func OnInput(handler any) EventHandler { return event("input", handler) }

// OnChange handles change events (fired when value is committed).
func OnChange(handler any) EventHandler { return event("change", handler) }

// OnBlur handles blur events.
func OnBlur(handler any) EventHandler { return event("blur", handler) }

// OnFocus handles focus events.
func OnFocus(handler any) EventHandler { return event("focus", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler any) EventHandler { return event("submit", handler) }

// OnReset handles form reset events.
func OnReset(handler any) EventHandler { return event("reset", handler) }

// OnClick handles click events.
func OnClick(handler any) EventHandler { return event("click", handler) }

// Dispatch invokes the handler registered on node for the named event.
// The name may be given with or without the "on" prefix. It returns false
// when the node has no handler for the event or the handler has an
// unsupported signature.
func Dispatch(node *VNode, name string, ev *Event) bool {
	if node == nil || node.Kind != KindElement {
		return false
	}
	key := name
	if !strings.HasPrefix(key, "on") {
		key = "on" + key
	}
	if ev == nil {
		ev = &Event{}
	}
	if ev.Type == "" {
		ev.Type = strings.TrimPrefix(key, "on")
	}

	switch h := node.Props[key].(type) {
	case func(*Event):
		h(ev)
	case func(string):
		h(ev.Value)
	case func():
		h()
	default:
		return false
	}
	return true
}

// Find returns the first element in the tree, depth-first, for which match
// returns true. Component children are rendered while walking.
func Find(root *VNode, match func(*VNode) bool) *VNode {
	if root == nil {
		return nil
	}
	if root.Kind == KindComponent {
		if root.Comp == nil {
			return nil
		}
		return Find(root.Comp.Render(), match)
	}
	if root.Kind == KindElement && match(root) {
		return root
	}
	for _, child := range root.Children {
		if found := Find(child, match); found != nil {
			return found
		}
	}
	return nil
}

// FindByName returns the first element whose name attribute equals name.
func FindByName(root *VNode, name string) *VNode {
	return Find(root, func(n *VNode) bool {
		s, ok := n.Props["name"].(string)
		return ok && s == name
	})
}

// FindByTag returns the first element with the given tag.
func FindByTag(root *VNode, tag string) *VNode {
	return Find(root, func(n *VNode) bool { return n.Tag == tag })
}
