package form

import (
	"context"
	"fmt"
	"time"

	"github.com/vango-dev/vform/pkg/vdom"
)

// SubmitFunc handles a valid submission. It receives a copy of the values
// and the state at the moment it was invoked. A returned error marks the
// submission as failed; it is not re-raised.
type SubmitFunc func(ctx context.Context, values Values, state State) error

// Submission is the handle for one Submit call.
type Submission struct {
	invoked bool
	done    chan struct{}
	err     error
}

func newSubmission(invoked bool) *Submission {
	return &Submission{invoked: invoked, done: make(chan struct{})}
}

func skippedSubmission(err error) *Submission {
	s := newSubmission(false)
	s.finish(err)
	return s
}

func (s *Submission) finish(err error) {
	s.err = err
	close(s.done)
}

// Invoked reports whether this submission called OnSubmit.
func (s *Submission) Invoked() bool {
	return s.invoked
}

// Done is closed once the submission has settled and the form state has
// been updated.
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the submission settles and returns the error returned
// by OnSubmit. Skipped submissions return immediately; a skip caused by a
// disposed controller returns ErrDisposed.
func (s *Submission) Wait() error {
	<-s.done
	return s.err
}

// Submit attempts to submit the form. It always calls ev.PreventDefault.
//
// When the form has errors, OnSubmit is not called and the submitting and
// failure flags are left as they are. When a submission is already in flight
// the in-flight Submission is returned. Otherwise the form is marked as
// submitting and OnSubmit runs on a new goroutine with a context that is
// detached from ctx's cancellation; submissions cannot be cancelled.
func (c *Controller) Submit(ctx context.Context, ev *vdom.Event) *Submission {
	ev.PreventDefault()
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	switch {
	case c.disposed:
		c.mu.Unlock()
		c.observer.SubmitSkipped(c.name, SkipDisposed)
		return skippedSubmission(ErrDisposed)

	case c.pending != nil:
		p := c.pending
		c.mu.Unlock()
		c.logger.Debug("submit ignored, submission in flight")
		c.observer.SubmitSkipped(c.name, SkipInFlight)
		return p

	case len(c.errors) > 0:
		n := len(c.errors)
		c.mu.Unlock()
		c.logger.Debug("submit blocked by validation errors", "errors", n)
		c.observer.SubmitSkipped(c.name, SkipInvalid)
		return skippedSubmission(nil)
	}

	sub := newSubmission(true)
	c.pending = sub
	c.submitting = true
	state := c.snapshotLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()

	values := state.Values.Clone()
	arg := state.Clone()

	c.logger.Debug("submit started")
	c.observer.SubmitStarted(c.name)
	c.notify(state, subs)

	go c.run(context.WithoutCancel(ctx), sub, values, arg)
	return sub
}

// HandleSubmit is Submit bound to a background context, suitable as an
// onsubmit handler.
func (c *Controller) HandleSubmit(ev *vdom.Event) {
	c.Submit(context.Background(), ev)
}

func (c *Controller) run(ctx context.Context, sub *Submission, values Values, state State) {
	start := time.Now()
	err := c.call(ctx, values, state)
	elapsed := time.Since(start)

	settle := func() {
		c.settle(sub, err, elapsed)
	}
	if c.dispatch != nil {
		c.dispatch(settle)
		return
	}
	settle()
}

func (c *Controller) call(ctx context.Context, values Values, state State) (err error) {
	if c.onSubmit == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("form: submit handler panicked: %v", r)
		}
	}()
	return c.onSubmit(ctx, values, state)
}

func (c *Controller) settle(sub *Submission, err error, elapsed time.Duration) {
	defer sub.finish(err)

	c.observer.SubmitSettled(c.name, err, elapsed)

	c.mu.Lock()
	if c.pending == sub {
		c.pending = nil
	}
	if c.disposed {
		c.mu.Unlock()
		c.logger.Debug("submit result dropped, controller disposed", "failed", err != nil)
		return
	}
	c.submitting = false
	c.submitFailed = err != nil
	state, subs := c.snapshotLocked(), c.subscribersLocked()
	c.mu.Unlock()

	if err != nil {
		c.logger.Info("submit failed", "error", err, "elapsed", elapsed)
	} else {
		c.logger.Debug("submit succeeded", "elapsed", elapsed)
	}
	c.notify(state, subs)
}
