package observe

import (
	"context"
	"sort"

	"github.com/vango-dev/vform/pkg/form"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "vform"

// TraceConfig configures TraceSubmit.
type TraceConfig struct {
	// TracerName is the name of the tracer (default: "vform").
	TracerName string

	// TracerProvider overrides the global tracer provider.
	TracerProvider trace.TracerProvider

	// IncludeFields records the submitted field names as a span attribute.
	// Values are never recorded.
	IncludeFields bool
}

// TraceOption configures TraceSubmit.
type TraceOption func(*TraceConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TraceOption {
	return func(c *TraceConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider used instead of the global one.
func WithTracerProvider(tp trace.TracerProvider) TraceOption {
	return func(c *TraceConfig) {
		c.TracerProvider = tp
	}
}

// WithFieldNames enables recording the submitted field names.
func WithFieldNames(include bool) TraceOption {
	return func(c *TraceConfig) {
		c.IncludeFields = include
	}
}

// TraceSubmit wraps fn so each invocation runs inside a span named
// "vform.submit <form>". The span context is passed to fn; a returned error
// is recorded on the span and returned unchanged.
//
// The tracer comes from the global OpenTelemetry provider unless
// WithTracerProvider is given. Configure the provider before building the
// form:
//
//	otel.SetTracerProvider(tp)
//	ctrl := form.New(form.Config{
//	    OnSubmit: observe.TraceSubmit("signup", saveSignup),
//	})
func TraceSubmit(formName string, fn form.SubmitFunc, opts ...TraceOption) form.SubmitFunc {
	config := TraceConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.TracerProvider != nil {
		tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	return func(ctx context.Context, values form.Values, state form.State) error {
		attrs := []attribute.KeyValue{
			attribute.String("vform.form", formName),
			attribute.Int("vform.field_count", len(values)),
		}
		if config.IncludeFields {
			attrs = append(attrs, attribute.StringSlice("vform.fields", fieldNames(values)))
		}

		ctx, span := tracer.Start(ctx, "vform.submit "+formName,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		var err error
		if fn != nil {
			err = fn(ctx, values, state)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}

func fieldNames(values form.Values) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
