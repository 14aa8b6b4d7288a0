package scenario

import (
	"context"
	"fmt"

	"github.com/vango-dev/vform/pkg/field"
	"github.com/vango-dev/vform/pkg/form"
	"github.com/vango-dev/vform/pkg/vdom"
)

// Form is a scenario mounted on a controller: one binding per field.
type Form struct {
	sc       *Scenario
	ctrl     *form.Controller
	bindings map[string]*field.Binding
}

// Mount registers a binding for every field of sc on ctrl, in definition
// order. opts apply to every binding. On failure the bindings mounted so far
// are removed again.
func Mount(sc *Scenario, ctrl *form.Controller, opts ...field.Option) (*Form, error) {
	if ctrl == nil {
		return nil, form.ErrNoForm
	}
	f := &Form{
		sc:       sc,
		ctrl:     ctrl,
		bindings: make(map[string]*field.Binding, len(sc.Fields)),
	}
	for _, def := range sc.Fields {
		b, err := field.Mount(ctrl, def.Name, opts...)
		if err != nil {
			f.unmountAll()
			return nil, fmt.Errorf("scenario: mount %q: %w", def.Name, err)
		}
		f.bindings[def.Name] = b
	}
	return f, nil
}

// Scenario returns the definition the form was mounted from.
func (f *Form) Scenario() *Scenario { return f.sc }

// Controller returns the form controller.
func (f *Form) Controller() *form.Controller { return f.ctrl }

// Binding returns the mounted binding for name.
func (f *Form) Binding(name string) (*field.Binding, bool) {
	b, ok := f.bindings[name]
	return b, ok
}

// Unmount removes the binding for name. It reports whether a binding was
// mounted.
func (f *Form) Unmount(name string) bool {
	b, ok := f.bindings[name]
	if !ok {
		return false
	}
	b.Unmount()
	delete(f.bindings, name)
	return true
}

func (f *Form) unmountAll() {
	for name := range f.bindings {
		f.Unmount(name)
	}
}

// Close unmounts every binding and disposes the controller.
func (f *Form) Close() {
	f.unmountAll()
	f.ctrl.Dispose()
}

// Apply performs one scripted step. A submit step waits for the submission
// to settle and returns the handler's error.
func (f *Form) Apply(ctx context.Context, s Step) error {
	switch {
	case s.Change != nil:
		b, ok := f.bindings[s.Change.Field]
		if !ok {
			return fmt.Errorf("%w: %q", field.ErrUnmounted, s.Change.Field)
		}
		return b.HandleChange(s.Change.Value)

	case s.Blur != "":
		b, ok := f.bindings[s.Blur]
		if !ok {
			return fmt.Errorf("%w: %q", field.ErrUnmounted, s.Blur)
		}
		b.HandleBlur()
		return nil

	case s.Submit:
		return f.ctrl.Submit(ctx, nil).Wait()

	case s.Unmount != "":
		if !f.Unmount(s.Unmount) {
			return fmt.Errorf("%w: %q", field.ErrUnmounted, s.Unmount)
		}
		return nil

	case s.Validate:
		return f.ctrl.Validate()

	case s.Reset:
		f.ctrl.Reset()
		return nil
	}
	return fmt.Errorf("scenario: empty step")
}

// Node renders the whole form: a labelled control per mounted field with its
// help and visible error, a status line, and a submit button. attrs are
// applied to the form element.
func (f *Form) Node(attrs ...any) *vdom.VNode {
	state := f.ctrl.Snapshot()

	children := append([]any{vdom.Class("vform")}, attrs...)
	if f.sc.Title != "" {
		children = append(children, vdom.H1(f.sc.Title))
	}
	for _, def := range f.sc.Fields {
		if b, ok := f.bindings[def.Name]; ok {
			children = append(children, fieldNode(def, b, state.Field(def.Name)))
		}
	}

	switch {
	case state.Submitting:
		children = append(children, vdom.P(vdom.Class("status"), "Submitting…"))
	case state.SubmitFailed:
		children = append(children, vdom.P(vdom.Class("status", "error"), vdom.Role("alert"), "Submission failed"))
	}

	button := []any{vdom.Type("submit"), "Submit"}
	if state.Submitting {
		button = append(button, vdom.Disabled())
	}
	children = append(children, vdom.Button(button...))

	return f.ctrl.Node(children...)
}

func fieldNode(def Field, b *field.Binding, fs form.FieldState) *vdom.VNode {
	id := "field-" + def.Name
	errID := id + "-error"
	visible := fs.VisibleError()

	c, _ := field.ParseComponent(def.Component)
	args := []any{vdom.ID(id)}
	if def.Type != "" && c == field.Input {
		args = append(args, vdom.Type(def.Type))
	}
	if def.Required() {
		args = append(args, vdom.Required())
	}
	if visible != "" {
		args = append(args, vdom.AriaDescribedBy(errID))
	}
	if c == field.Select {
		for _, opt := range def.Options {
			args = append(args, vdom.Option(vdom.Value(opt), opt))
		}
	}

	return vdom.Div(vdom.Class("field"),
		vdom.Label(vdom.For(id), def.DisplayLabel()),
		b.Node(c, args...),
		vdom.If(def.Help != "", vdom.Small(vdom.Class("help"), vdom.Raw(def.Help))),
		vdom.If(visible != "", vdom.Small(vdom.ID(errID), vdom.Class("error"), vdom.Role("alert"), visible)),
	)
}
