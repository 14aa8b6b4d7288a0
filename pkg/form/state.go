package form

import "fmt"

// Values maps field names to their current values.
type Values map[string]any

// String returns the value of a field formatted as a string.
// Missing and nil values return "".
func (v Values) String(name string) string {
	val, ok := v[name]
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", val)
}

// Clone returns a copy of v. Slice values are copied so the clone does not
// share backing arrays with v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = cloneValue(val)
	}
	return out
}

func cloneValue(val any) any {
	switch s := val.(type) {
	case []string:
		if s == nil {
			return s
		}
		return append(make([]string, 0, len(s)), s...)
	case []any:
		if s == nil {
			return s
		}
		return append(make([]any, 0, len(s)), s...)
	default:
		return val
	}
}

// Errors maps field names to validation messages. A missing key means the
// field has no error.
type Errors map[string]string

// Clone returns a copy of e.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, msg := range e {
		out[k] = msg
	}
	return out
}

// State is a snapshot of a form. Every State handed out by a Controller owns
// its maps; mutating them has no effect on the controller.
type State struct {
	// Values holds the value of every registered field.
	Values Values `json:"values"`

	// Errors holds the result of the most recent validation pass.
	Errors Errors `json:"errors"`

	// Touched records fields that have been blurred since registration or
	// the last Reset.
	Touched map[string]bool `json:"touched"`

	// ValidForm is true when Errors is empty.
	ValidForm bool `json:"valid_form"`

	// Submitting is true while the OnSubmit handler is running.
	Submitting bool `json:"submitting"`

	// SubmitFailed is true when the most recent submission returned an error.
	SubmitFailed bool `json:"submit_failed"`
}

// Field returns the projection of s for a single field.
func (s State) Field(name string) FieldState {
	return FieldState{
		Name:    name,
		Value:   s.Values[name],
		Error:   s.Errors[name],
		Touched: s.Touched[name],
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	touched := make(map[string]bool, len(s.Touched))
	for k, v := range s.Touched {
		touched[k] = v
	}
	s.Values = s.Values.Clone()
	s.Errors = s.Errors.Clone()
	s.Touched = touched
	return s
}

// FieldState is a single field's view of the form state.
type FieldState struct {
	Name    string `json:"name"`
	Value   any    `json:"value"`
	Error   string `json:"error,omitempty"`
	Touched bool   `json:"touched"`
}

// Invalid reports whether the field currently has an error.
func (f FieldState) Invalid() bool {
	return f.Error != ""
}

// VisibleError returns the error only once the field has been touched, which
// is usually when it should be shown to the user.
func (f FieldState) VisibleError() string {
	if !f.Touched {
		return ""
	}
	return f.Error
}
