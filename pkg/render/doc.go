// Package render converts vdom trees into HTML.
//
// Output is deterministic: attributes are written in sorted order, event
// handlers are reduced to data-on-* marker attributes, and text and
// attribute values are escaped. Raw nodes pass through a bluemonday policy
// before they are written.
//
// # Basic Usage
//
//	r := render.NewRenderer(render.RendererConfig{})
//	html, err := r.RenderToString(ctrl.Node(email.Node(field.Input)))
//
// # Full Page Rendering
//
//	err := r.RenderPage(w, render.PageData{Title: "Sign up", Body: node})
package render
