package playground

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/vform/internal/scenario"
	"github.com/vango-dev/vform/pkg/form"
	"github.com/vango-dev/vform/pkg/observe"
)

const signupYAML = `
name: signup
title: Sign up
fields:
  - name: email
    type: email
    label: Email
    rules:
      - contains: "@"
        message: Invalid
  - name: plan
    component: select
    options: [free, pro]
    initial: free
  - name: terms
    type: checkbox
    rules:
      - required: true
`

func newTestServer(t *testing.T, mutate func(*Config)) (*Server, *httptest.Server) {
	t.Helper()
	sc, err := scenario.Parse([]byte(signupYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg := Config{
		Scenario: sc,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return srv, ts
}

func postJSON(t *testing.T, ts *httptest.Server, path string, form url.Values) (int, stateResponse) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out stateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return resp.StatusCode, out
}

func TestPage(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	html := string(body)

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Sign up</title>",
		`action="/submit"`,
		`method="post"`,
		`name="email"`,
		`<option selected value="free">free</option>`,
		`id="state"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %s", want)
		}
	}
}

func TestChangeBlurAndState(t *testing.T) {
	_, ts := newTestServer(t, nil)

	status, resp := postJSON(t, ts, "/change", url.Values{"field": {"email"}, "value": {"bad"}})
	if status != http.StatusOK {
		t.Fatalf("status = %d (%s)", status, resp.Error)
	}
	if resp.State.Values["email"] != "bad" || resp.State.Errors["email"] != "Invalid" {
		t.Errorf("state after change = %+v", resp.State)
	}

	_, resp = postJSON(t, ts, "/blur", url.Values{"field": {"email"}})
	if !resp.State.Touched["email"] {
		t.Error("email not touched after blur")
	}

	_, resp = postJSON(t, ts, "/change", url.Values{"field": {"terms"}, "value": {"on"}})
	if resp.State.Values["terms"] != true {
		t.Errorf("terms = %v, want true", resp.State.Values["terms"])
	}

	status, resp = postJSON(t, ts, "/change", url.Values{"field": {"nope"}, "value": {"x"}})
	if status != http.StatusNotFound || !strings.Contains(resp.Error, "nope") {
		t.Errorf("unknown field: status=%d error=%q", status, resp.Error)
	}

	httpResp, err := http.Get(ts.URL + "/state")
	if err != nil {
		t.Fatal(err)
	}
	defer httpResp.Body.Close()
	var got stateResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.State.Values["email"] != "bad" || got.State.ValidForm {
		t.Errorf("GET /state = %+v", got.State)
	}
}

func TestSubmit(t *testing.T) {
	var submitted form.Values
	_, ts := newTestServer(t, func(c *Config) {
		c.WrapSubmit = func(next form.SubmitFunc) form.SubmitFunc {
			return func(ctx context.Context, v form.Values, s form.State) error {
				submitted = v
				return next(ctx, v, s)
			}
		}
	})

	status, resp := postJSON(t, ts, "/submit", url.Values{"email": {"bad"}})
	if status != http.StatusUnprocessableEntity {
		t.Errorf("invalid submit status = %d, want 422", status)
	}
	if resp.State.Errors["terms"] == "" || !resp.State.Touched["terms"] {
		t.Errorf("unchecked terms not validated: %+v", resp.State)
	}
	if submitted != nil {
		t.Fatal("OnSubmit called for an invalid form")
	}

	status, resp = postJSON(t, ts, "/submit", url.Values{"email": {"a@b.c"}, "plan": {"pro"}, "terms": {"on"}})
	if status != http.StatusOK || resp.Error != "" {
		t.Fatalf("submit status = %d error = %q", status, resp.Error)
	}
	want := form.Values{"email": "a@b.c", "plan": "pro", "terms": true}
	for k, v := range want {
		if submitted[k] != v {
			t.Errorf("submitted[%s] = %v, want %v", k, submitted[k], v)
		}
	}
	if resp.State.Submitting || resp.State.SubmitFailed {
		t.Errorf("state after submit = %+v", resp.State)
	}
}

func TestSubmitRedirectsBrowsers(t *testing.T) {
	_, ts := newTestServer(t, nil)
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	resp, err := client.PostForm(ts.URL+"/reset", url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Errorf("reset: status=%d location=%q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, err = client.PostForm(ts.URL+"/submit", url.Values{"email": {"a@b.c"}, "terms": {"on"}})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("submit: status=%d, want 303", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, ts := newTestServer(t, func(c *Config) {
		c.Observer = observe.NewMetrics(observe.WithRegistry(reg))
		c.Gatherer = reg
	})

	postJSON(t, ts, "/change", url.Values{"field": {"email"}, "value": {"x@y.z"}})

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		`vform_fields_registered{form="signup"} 3`,
		`vform_validations_total{form="signup"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestNoMetricsWithoutGatherer(t *testing.T) {
	_, ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestWebSocketStream(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	read := func() Message {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON: %v", err)
		}
		return msg
	}

	first := read()
	if first.Type != "state" || first.Seq != 1 || first.State.Values["plan"] != "free" {
		t.Fatalf("first message = %+v", first)
	}

	if err := srv.Controller().SetValue("email", "streamed"); err != nil {
		t.Fatal(err)
	}
	next := read()
	if next.Seq != 2 || next.State.Values["email"] != "streamed" {
		t.Errorf("second message = %+v", next)
	}
}

func TestNewRequiresScenario(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New without scenario succeeded")
	}
}
