package form

import "github.com/vango-dev/vform/pkg/vdom"

// Props are the bindings a form render callback attaches to its <form>
// element.
type Props struct {
	// OnSubmit submits the form and prevents the native submission.
	OnSubmit func(*vdom.Event)
}

// Attrs returns p as element arguments.
func (p Props) Attrs() []any {
	return []any{vdom.OnSubmit(p.OnSubmit), vdom.NoValidate()}
}

// RenderFunc renders a form from its bindings and current state.
type RenderFunc func(props Props, state State) *vdom.VNode

// Props returns the form's element bindings.
func (c *Controller) Props() Props {
	return Props{OnSubmit: c.HandleSubmit}
}

// Render calls fn with the form bindings and a snapshot of the state.
func (c *Controller) Render(fn RenderFunc) *vdom.VNode {
	if fn == nil {
		return nil
	}
	return fn(c.Props(), c.Snapshot())
}

// Node wraps children in a <form> element bound to the controller. The
// element is marked aria-busy while a submission is in flight.
func (c *Controller) Node(children ...any) *vdom.VNode {
	state := c.Snapshot()
	args := c.Props().Attrs()
	if state.Submitting {
		args = append(args, vdom.AriaBusy(true))
	}
	return vdom.Form(append(args, children...)...)
}
