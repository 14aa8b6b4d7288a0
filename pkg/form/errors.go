package form

import "errors"

// ErrMissingName is returned when a field registers without a name.
var ErrMissingName = errors.New("form: field name is required")

// ErrDuplicateField is returned when a second field registers a name that
// is already registered on the same controller. The first registration is
// kept.
var ErrDuplicateField = errors.New("form: duplicate field name")

// ErrUnknownField is returned when a value is reported for a name that is
// not registered.
var ErrUnknownField = errors.New("form: field is not registered")

// ErrNoForm is returned when a field is mounted without an enclosing form.
var ErrNoForm = errors.New("form: field used outside a form controller")

// ErrDisposed is returned by operations on a controller after Dispose.
var ErrDisposed = errors.New("form: controller disposed")
