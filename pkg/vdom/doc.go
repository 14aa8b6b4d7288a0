// Package vdom provides the virtual node model that forms and fields render into.
//
// Nodes are plain Go values. Elements carry attributes and event handlers in
// Props; handlers are stored under their "on"-prefixed event name and are
// invoked by the host runtime through Dispatch.
//
// # Building Nodes
//
//	node := Form(
//	    Class("signup"),
//	    OnSubmit(func(e *Event) { e.PreventDefault() }),
//	    Label(For("email"), Text("Email")),
//	    Input(ID("email"), Name("email"), Type("email")),
//	    Button(Type("submit"), Text("Sign up")),
//	)
//
// Arguments to element constructors can be nil, Attr, []Attr, EventHandler,
// *VNode, []*VNode, Component, or string (shorthand for a text node).
//
// # Events
//
// Event mirrors the small part of a DOM event that form handling needs: the
// event type, the current input value, the checked flag, and PreventDefault.
//
//	ev := &Event{Type: "input", Value: "a@b.com"}
//	Dispatch(input, "input", ev)
package vdom
