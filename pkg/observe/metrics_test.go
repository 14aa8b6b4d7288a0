package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/vango-dev/vform/pkg/form"
	"github.com/vango-dev/vform/pkg/vdom"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsObserverCallbacks(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))

	m.FieldsChanged("signup", 3)
	m.Validated("signup", 2, time.Millisecond)
	m.SubmitSkipped("signup", form.SkipInvalid)
	m.SubmitSettled("signup", nil, time.Millisecond)
	m.SubmitSettled("signup", errors.New("down"), time.Millisecond)

	if got := gaugeValue(t, m.fields.WithLabelValues("signup")); got != 3 {
		t.Errorf("fields_registered = %v, want 3", got)
	}
	if got := counterValue(t, m.validations.WithLabelValues("signup")); got != 1 {
		t.Errorf("validations_total = %v, want 1", got)
	}
	if got := histogramCount(t, m.validationErrors.WithLabelValues("signup")); got != 1 {
		t.Errorf("validation_errors samples = %v, want 1", got)
	}
	for outcome, want := range map[string]float64{
		form.SkipInvalid: 1,
		OutcomeSucceeded: 1,
		OutcomeFailed:    1,
	} {
		if got := counterValue(t, m.submits.WithLabelValues("signup", outcome)); got != want {
			t.Errorf("submits_total{outcome=%q} = %v, want %v", outcome, got, want)
		}
	}
	if got := histogramCount(t, m.submitTime.WithLabelValues("signup")); got != 2 {
		t.Errorf("submit_duration samples = %v, want 2", got)
	}
}

func TestMetricsWithController(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))
	c := form.New(form.Config{
		Name:     "login",
		Observer: m,
		Validate: func(v form.Values) (form.Errors, error) {
			if v.String("user") == "" {
				return form.Errors{"user": "Required"}, nil
			}
			return nil, nil
		},
	})

	c.Register("user")
	c.Register("password")
	if got := gaugeValue(t, m.fields.WithLabelValues("login")); got != 2 {
		t.Errorf("fields_registered = %v, want 2", got)
	}

	c.Validate()
	c.Submit(context.Background(), &vdom.Event{}).Wait()
	if got := counterValue(t, m.submits.WithLabelValues("login", form.SkipInvalid)); got != 1 {
		t.Errorf("invalid skips = %v, want 1", got)
	}

	c.SetValue("user", "ann")
	if err := c.Submit(context.Background(), &vdom.Event{}).Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got := counterValue(t, m.submits.WithLabelValues("login", OutcomeSucceeded)); got != 1 {
		t.Errorf("succeeded = %v, want 1", got)
	}
	if got := counterValue(t, m.validations.WithLabelValues("login")); got != 2 {
		t.Errorf("validations_total = %v, want 2", got)
	}

	c.Unregister("password")
	if got := gaugeValue(t, m.fields.WithLabelValues("login")); got != 1 {
		t.Errorf("fields_registered after unregister = %v, want 1", got)
	}
}

func TestNewMetricsDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(WithRegistry(reg))

	defer func() {
		if recover() == nil {
			t.Error("second NewMetrics on the same registry did not panic")
		}
	}()
	NewMetrics(WithRegistry(reg))
}
