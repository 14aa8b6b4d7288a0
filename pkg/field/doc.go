// Package field binds a single named input to a form controller.
//
// A Binding is created with Mount, which registers the name with the
// form.Scope it is given, and released with Unmount. The binding holds no
// value of its own: every read goes to the controller and every change is
// reported to it through HandleChange.
//
// Bindings render in one of two ways. Node emits a native input, textarea
// or select element pre-bound to the controller:
//
//	email.Node(field.Input, vdom.Type("email"), vdom.Placeholder("you@example.com"))
//
// Render hands the bound input props, the field's state, and the form's
// state to a callback that builds whatever markup the caller wants:
//
//	email.Render(func(in field.InputProps, f form.FieldState, s form.State) *vdom.VNode {
//	    return vdom.Div(
//	        vdom.Input(in.Attrs()...),
//	        vdom.If(f.VisibleError() != "", vdom.Span(vdom.Text(f.Error))),
//	    )
//	})
package field
