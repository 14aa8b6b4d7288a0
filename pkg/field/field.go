package field

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vango-dev/vform/pkg/form"
)

// ErrUnmounted is returned when a change is reported through a binding
// after Unmount.
var ErrUnmounted = errors.New("field: binding is unmounted")

// Option configures a Binding.
type Option func(*options)

type options struct {
	initial  []any
	onUpdate func(form.FieldState, form.State)
	onError  func(error)
}

// WithInitialValue sets the value the field registers with, overriding the
// form's InitialValues entry.
func WithInitialValue(v any) Option {
	return func(o *options) {
		o.initial = []any{v}
	}
}

// OnUpdate subscribes fn to every state change of the form for as long as
// the binding is mounted. It is how a field re-renders.
func OnUpdate(fn func(field form.FieldState, state form.State)) Option {
	return func(o *options) {
		o.onUpdate = fn
	}
}

// OnError receives errors from changes made through the bound event
// handlers, which have no return value. The default panics, so validation
// failures reach the host's error handling instead of being dropped.
func OnError(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// Binding connects one named field to a form.
type Binding struct {
	scope   form.Scope
	name    string
	onError func(error)

	mu          sync.Mutex
	mounted     bool
	unsubscribe func()
}

// Mount registers name with scope and returns the binding. It fails when
// scope is nil, name is empty, or the scope rejects the registration.
func Mount(scope form.Scope, name string, opts ...Option) (*Binding, error) {
	if scope == nil {
		return nil, form.ErrNoForm
	}
	if name == "" {
		return nil, form.ErrMissingName
	}

	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if err := scope.Register(name, o.initial...); err != nil {
		return nil, err
	}

	b := &Binding{
		scope:   scope,
		name:    name,
		onError: o.onError,
		mounted: true,
	}
	if b.onError == nil {
		b.onError = func(err error) {
			panic(fmt.Errorf("field %q: %w", name, err))
		}
	}
	if fn := o.onUpdate; fn != nil {
		b.unsubscribe = scope.Subscribe(func(s form.State) {
			fn(s.Field(name), s)
		})
	}
	return b, nil
}

// Name returns the registered field name.
func (b *Binding) Name() string {
	return b.name
}

// Mounted reports whether the binding is still registered.
func (b *Binding) Mounted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mounted
}

// Unmount stops update notifications and unregisters the field. It is safe
// to call more than once.
func (b *Binding) Unmount() {
	b.mu.Lock()
	if !b.mounted {
		b.mu.Unlock()
		return
	}
	b.mounted = false
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	b.scope.Unregister(b.name)
}

// HandleChange reports a new value for the field.
func (b *Binding) HandleChange(v any) error {
	if !b.Mounted() {
		return ErrUnmounted
	}
	return b.scope.SetValue(b.name, v)
}

// HandleBlur marks the field as touched.
func (b *Binding) HandleBlur() {
	if !b.Mounted() {
		return
	}
	b.scope.Touch(b.name)
}

// State returns the field's current projection of the form state.
func (b *Binding) State() form.FieldState {
	return b.scope.Snapshot().Field(b.name)
}
