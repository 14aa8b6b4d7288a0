// Package observe connects form controllers to Prometheus and OpenTelemetry.
//
// Metrics implements form.Observer:
//
//	m := observe.NewMetrics(observe.WithNamespace("myapp"))
//	ctrl := form.New(form.Config{Name: "signup", Observer: m})
//
// Metrics collected:
//   - vform_fields_registered: Gauge of registered fields per form
//   - vform_validations_total: Counter of validation passes per form
//   - vform_validation_errors: Histogram of error counts per pass
//   - vform_validation_duration_seconds: Histogram of validation time
//   - vform_submits_total: Counter of submit attempts by form and outcome
//   - vform_submit_duration_seconds: Histogram of OnSubmit run time
//
// TraceSubmit wraps a form.SubmitFunc in a span:
//
//	OnSubmit: observe.TraceSubmit("signup", saveSignup)
package observe
