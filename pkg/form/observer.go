package form

import "time"

// Observer receives lifecycle notifications from a Controller. Calls are made
// synchronously and must not block.
type Observer interface {
	// FieldsChanged reports the number of registered fields after a
	// registration or removal.
	FieldsChanged(form string, count int)

	// Validated reports a completed validation pass.
	Validated(form string, errorCount int, elapsed time.Duration)

	// SubmitSkipped reports a Submit call that did not invoke OnSubmit.
	SubmitSkipped(form string, reason string)

	// SubmitStarted reports that OnSubmit is about to run.
	SubmitStarted(form string)

	// SubmitSettled reports that OnSubmit returned.
	SubmitSettled(form string, err error, elapsed time.Duration)
}

// Reasons passed to Observer.SubmitSkipped.
const (
	SkipInvalid  = "invalid"
	SkipInFlight = "in_flight"
	SkipDisposed = "disposed"
)

type nopObserver struct{}

func (nopObserver) FieldsChanged(string, int)                  {}
func (nopObserver) Validated(string, int, time.Duration)       {}
func (nopObserver) SubmitSkipped(string, string)               {}
func (nopObserver) SubmitStarted(string)                       {}
func (nopObserver) SubmitSettled(string, error, time.Duration) {}
