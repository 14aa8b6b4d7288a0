// Package form provides the form controller: the single owner of field
// values, validation errors and submission status for one mounted form.
//
// # Overview
//
// A Controller is created from a Config and handed, explicitly, to every
// field binding that belongs to it (see package field). Fields register a
// unique name, report value changes through SetValue, and subscribe to
// state updates. After every mutation the controller runs the configured
// ValidateFunc over the complete value map, replaces its error map with the
// result, and notifies subscribers synchronously with a fresh State copy.
//
// # Basic Usage
//
//	ctrl := form.New(form.Config{
//	    InitialValues: form.Values{"email": "a@b.com"},
//	    Validate: func(v form.Values) (form.Errors, error) {
//	        if !strings.Contains(v.String("email"), "@") {
//	            return form.Errors{"email": "Invalid"}, nil
//	        }
//	        return nil, nil
//	    },
//	    OnSubmit: func(ctx context.Context, v form.Values, s form.State) error {
//	        return api.Signup(ctx, v.String("email"))
//	    },
//	})
//	defer ctrl.Dispose()
//
//	email, _ := field.Mount(ctrl, "email")
//	page := ctrl.Node(
//	    email.Node(field.Input, vdom.Type("email")),
//	    vdom.Button(vdom.Type("submit"), vdom.Text("Sign up")),
//	)
//
// # Submission
//
// Submit refuses to call OnSubmit while the form has errors. Otherwise it
// marks the form as submitting and runs OnSubmit on its own goroutine; when
// the handler returns, Submitting is cleared and SubmitFailed records
// whether it returned an error. Submit calls made while a submission is in
// flight return that submission instead of starting another one.
//
// Set Config.Dispatch to apply the settlement on the host's update loop
// instead of the handler goroutine.
package form
