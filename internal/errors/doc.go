// Package errors provides structured, actionable error messages for the
// vform CLI.
//
// Library packages return plain sentinel errors. When the CLI reports a
// failure to a person it wraps the cause in an *Error carrying a code, a
// category, an explanation and, where one exists, a hint on how to fix it.
//
// # Error Codes
//
// Each code (e.g., "V011") maps to a registered template:
//   - V001-V009: configuration (vform.json)
//   - V010-V019: scenario files
//   - V020-V029: form validation and submission
//   - V030-V039: command line and playground
//
// # Usage
//
//	err := errors.New("V011").
//	    Wrap(parseErr).
//	    WithLocationFromYAML("signup.yaml", parseErr).
//	    WithSuggestion("Check the indentation of the fields list")
//
//	fmt.Fprint(os.Stderr, err.Format())
//	// Output:
//	// ERROR V011: Scenario could not be parsed
//	//
//	//   signup.yaml:4
//	//
//	//      3 │ fields:
//	//   →  4 │   - name: email
//	//      5 │      label: Email
//	//
//	//   Hint: Check the indentation of the fields list
package errors
