package form

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ValidateFunc computes the errors for a complete set of values. A returned
// error means validation itself failed; it is propagated to the caller of
// the operation that triggered the pass.
type ValidateFunc func(values Values) (Errors, error)

// Config configures a Controller. Every field is optional.
type Config struct {
	// Name identifies the form in logs and metrics. Defaults to "form".
	Name string

	// InitialValues are the defaults used when a field registers without an
	// explicit initial value, and again on Reset.
	InitialValues Values

	// Validate runs after every value change. Nil means the form never has
	// errors.
	Validate ValidateFunc

	// OnSubmit is called by Submit when the form is valid. Nil means
	// submission always succeeds immediately.
	OnSubmit SubmitFunc

	// Dispatch schedules submission settlement on the host's update loop.
	// Nil applies the settlement on the goroutine that ran OnSubmit.
	Dispatch func(func())

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Observer receives lifecycle notifications. Defaults to a no-op.
	Observer Observer
}

// Scope is the API a Controller exposes to the fields rendered beneath it.
// It is passed to fields explicitly.
type Scope interface {
	Register(name string, initial ...any) error
	Unregister(name string)
	SetValue(name string, value any) error
	Touch(name string)
	Snapshot() State
	Subscribe(fn func(State)) (unsubscribe func())
}

var _ Scope = (*Controller)(nil)

// fieldRecord is the registration of one field.
type fieldRecord struct {
	initial any
}

type subscriber struct {
	id uint64
	fn func(State)
}

// Controller owns the state of one form instance.
//
// All mutations are serialized by an internal mutex. Validate and subscriber
// callbacks must not call back into the mutating methods of the controller
// that invoked them; subscribers may call Snapshot.
type Controller struct {
	name     string
	initial  Values
	validate ValidateFunc
	onSubmit SubmitFunc
	dispatch func(func())
	logger   *slog.Logger
	observer Observer

	mu           sync.Mutex
	fields       map[string]fieldRecord
	values       Values
	errors       Errors
	touched      map[string]bool
	submitting   bool
	submitFailed bool
	pending      *Submission
	disposed     bool

	subs    []subscriber
	nextSub uint64
}

// New creates a Controller from cfg.
func New(cfg Config) *Controller {
	name := cfg.Name
	if name == "" {
		name = "form"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	observer := cfg.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	initial := cfg.InitialValues.Clone()

	return &Controller{
		name:     name,
		initial:  initial,
		validate: cfg.Validate,
		onSubmit: cfg.OnSubmit,
		dispatch: cfg.Dispatch,
		logger:   logger.With("component", "form", "form", name),
		observer: observer,
		fields:   make(map[string]fieldRecord),
		values:   make(Values),
		errors:   make(Errors),
		touched:  make(map[string]bool),
	}
}

// Name returns the form name.
func (c *Controller) Name() string {
	return c.name
}

// Register adds a field. The field's value is the first initial argument if
// given, otherwise the matching InitialValues entry, otherwise "".
// Registration does not run validation.
func (c *Controller) Register(name string, initial ...any) error {
	if name == "" {
		return ErrMissingName
	}

	state, subs, count, err := c.register(name, initial)
	if err != nil {
		return err
	}
	c.logger.Debug("field registered", "field", name)
	c.observer.FieldsChanged(c.name, count)
	c.notify(state, subs)
	return nil
}

func (c *Controller) register(name string, initial []any) (State, []subscriber, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return State{}, nil, 0, ErrDisposed
	}
	if _, exists := c.fields[name]; exists {
		return State{}, nil, 0, fmt.Errorf("%w: %q", ErrDuplicateField, name)
	}

	var value any = ""
	if len(initial) > 0 {
		value = initial[0]
	} else if v, ok := c.initial[name]; ok {
		value = v
	}

	c.fields[name] = fieldRecord{initial: cloneValue(value)}
	c.values[name] = cloneValue(value)
	return c.snapshotLocked(), c.subscribersLocked(), len(c.fields), nil
}

// Unregister removes a field and everything recorded for it. Unknown names
// are ignored.
func (c *Controller) Unregister(name string) {
	state, subs, count, ok := c.unregister(name)
	if !ok {
		return
	}
	c.logger.Debug("field unregistered", "field", name)
	c.observer.FieldsChanged(c.name, count)
	c.notify(state, subs)
}

func (c *Controller) unregister(name string) (State, []subscriber, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return State{}, nil, 0, false
	}
	if _, ok := c.fields[name]; !ok {
		return State{}, nil, 0, false
	}
	delete(c.fields, name)
	delete(c.values, name)
	delete(c.errors, name)
	delete(c.touched, name)
	return c.snapshotLocked(), c.subscribersLocked(), len(c.fields), true
}

// SetValue records a new value for a registered field and revalidates the
// whole form. If validation fails with an error, nothing is committed and
// the error is returned.
func (c *Controller) SetValue(name string, value any) error {
	state, subs, err := c.setValue(name, value)
	if err != nil {
		return err
	}
	c.notify(state, subs)
	return nil
}

func (c *Controller) setValue(name string, value any) (State, []subscriber, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return State{}, nil, ErrDisposed
	}
	if _, ok := c.fields[name]; !ok {
		return State{}, nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	candidate := c.values.Clone()
	candidate[name] = cloneValue(value)
	errs, err := c.runValidate(candidate)
	if err != nil {
		return State{}, nil, fmt.Errorf("form: validate after change to %q: %w", name, err)
	}

	c.values = candidate
	c.errors = errs
	return c.snapshotLocked(), c.subscribersLocked(), nil
}

// Touch marks a registered field as touched, typically on blur.
func (c *Controller) Touch(name string) {
	c.mu.Lock()
	if c.disposed || c.touched[name] {
		c.mu.Unlock()
		return
	}
	if _, ok := c.fields[name]; !ok {
		c.mu.Unlock()
		return
	}
	c.touched[name] = true
	state, subs := c.snapshotLocked(), c.subscribersLocked()
	c.mu.Unlock()

	c.notify(state, subs)
}

// Validate runs a full validation pass over the current values.
func (c *Controller) Validate() error {
	state, subs, err := c.revalidate()
	if err != nil {
		return err
	}
	c.notify(state, subs)
	return nil
}

func (c *Controller) revalidate() (State, []subscriber, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return State{}, nil, ErrDisposed
	}
	errs, err := c.runValidate(c.values.Clone())
	if err != nil {
		return State{}, nil, fmt.Errorf("form: validate: %w", err)
	}
	c.errors = errs
	return c.snapshotLocked(), c.subscribersLocked(), nil
}

// Reset restores every registered field to its registration value and
// clears errors, touched flags and SubmitFailed. A submission in flight is
// not affected.
func (c *Controller) Reset() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.values = make(Values, len(c.fields))
	for name, rec := range c.fields {
		c.values[name] = cloneValue(rec.initial)
	}
	c.errors = make(Errors)
	c.touched = make(map[string]bool)
	c.submitFailed = false
	state, subs := c.snapshotLocked(), c.subscribersLocked()
	c.mu.Unlock()

	c.logger.Debug("form reset")
	c.notify(state, subs)
}

// runValidate must be called with c.mu held.
func (c *Controller) runValidate(values Values) (Errors, error) {
	if c.validate == nil {
		return make(Errors), nil
	}
	start := time.Now()
	errs, err := c.validate(values)
	if err != nil {
		return nil, err
	}
	out := make(Errors, len(errs))
	for k, msg := range errs {
		out[k] = msg
	}
	c.observer.Validated(c.name, len(out), time.Since(start))
	return out, nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	touched := make(map[string]bool, len(c.touched))
	for k, v := range c.touched {
		touched[k] = v
	}
	return State{
		Values:       c.values.Clone(),
		Errors:       c.errors.Clone(),
		Touched:      touched,
		ValidForm:    len(c.errors) == 0,
		Submitting:   c.submitting,
		SubmitFailed: c.submitFailed,
	}
}

// Subscribe registers fn to be called with a fresh State after every state
// change. Subscribers are called synchronously, in subscription order, on
// the goroutine that made the change. The returned function removes the
// subscription.
func (c *Controller) Subscribe(fn func(State)) func() {
	if fn == nil {
		return func() {}
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return func() {}
	}
	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { c.unsubscribe(id) })
	}
}

func (c *Controller) unsubscribe(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.subs {
		if s.id == id {
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			return
		}
	}
}

func (c *Controller) subscribersLocked() []subscriber {
	if len(c.subs) == 0 {
		return nil
	}
	return append([]subscriber(nil), c.subs...)
}

// notify must be called without c.mu held.
func (c *Controller) notify(state State, subs []subscriber) {
	for i, s := range subs {
		if i == len(subs)-1 {
			s.fn(state)
			continue
		}
		s.fn(state.Clone())
	}
}

// Dispose releases the controller. Subscribers are dropped, later mutations
// fail with ErrDisposed, and the result of a submission still in flight is
// discarded when it arrives.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.disposed = true
	c.subs = nil
	if c.pending != nil {
		c.logger.Debug("disposed with submission in flight")
	}
}

// Disposed reports whether Dispose has been called.
func (c *Controller) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}
