package scenario

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/vango-dev/vform/pkg/field"
	"github.com/vango-dev/vform/pkg/form"
	"github.com/vango-dev/vform/pkg/tui"
)

// Compile builds a form configuration from sc: name, initial values, a
// ValidateFunc evaluating the field rules, and a submit handler following
// sc.Submit. Logger, Observer and Dispatch are left for the caller.
func (sc *Scenario) Compile() form.Config {
	initial := make(form.Values, len(sc.InitialValues)+len(sc.Fields))
	for k, v := range sc.InitialValues {
		initial[k] = v
	}
	for _, f := range sc.Fields {
		if f.Initial != nil {
			initial[f.Name] = f.Initial
		} else if _, ok := initial[f.Name]; !ok && f.Checkbox() {
			initial[f.Name] = false
		}
	}

	return form.Config{
		Name:          sc.FormName(),
		InitialValues: initial,
		Validate:      compileRules(sc.Fields),
		OnSubmit:      submitHandler(sc.Submit),
	}
}

type check struct {
	field string
	test  func(values form.Values) bool
	msg   string
}

func compileRules(fields []Field) form.ValidateFunc {
	var checks []check
	for _, f := range fields {
		for _, r := range f.Rules {
			checks = append(checks, compileRule(f, r))
		}
	}
	if len(checks) == 0 {
		return nil
	}

	return func(values form.Values) (form.Errors, error) {
		errs := form.Errors{}
		for _, c := range checks {
			if _, registered := values[c.field]; !registered {
				continue
			}
			if _, failed := errs[c.field]; failed {
				continue
			}
			if !c.test(values) {
				errs[c.field] = c.msg
			}
		}
		return errs, nil
	}
}

func compileRule(f Field, r Rule) check {
	name := f.Name
	c := check{field: name, msg: r.Message}
	def := func(msg string) {
		if c.msg == "" {
			c.msg = msg
		}
	}

	switch {
	case r.Required:
		def("Required")
		c.test = func(v form.Values) bool {
			switch val := v[name].(type) {
			case bool:
				return val
			case []string:
				return len(val) > 0
			default:
				return strings.TrimSpace(v.String(name)) != ""
			}
		}

	case r.Contains != "":
		def(fmt.Sprintf("Must contain %q", r.Contains))
		c.test = func(v form.Values) bool {
			return strings.Contains(v.String(name), r.Contains)
		}

	case r.Pattern != "":
		def("Invalid format")
		re := regexp.MustCompile(r.Pattern)
		c.test = func(v form.Values) bool {
			return re.MatchString(v.String(name))
		}

	case r.MinLength > 0:
		def(fmt.Sprintf("Must be at least %d characters", r.MinLength))
		c.test = func(v form.Values) bool {
			return utf8.RuneCountInString(v.String(name)) >= r.MinLength
		}

	case r.Equals != "":
		def(fmt.Sprintf("Must match %s", r.Equals))
		c.test = func(v form.Values) bool {
			return v.String(name) == v.String(r.Equals)
		}

	default:
		c.test = func(form.Values) bool { return true }
	}
	return c
}

func submitHandler(b SubmitBehavior) form.SubmitFunc {
	return func(ctx context.Context, _ form.Values, _ form.State) error {
		if b.Delay > 0 {
			t := time.NewTimer(b.Delay)
			defer t.Stop()
			select {
			case <-t.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if b.Fail != "" {
			return errors.New(b.Fail)
		}
		return nil
	}
}

// Prompts returns a terminal prompt per field, in definition order.
func (sc *Scenario) Prompts() []tui.Prompt {
	prompts := make([]tui.Prompt, 0, len(sc.Fields))
	for _, f := range sc.Fields {
		p := tui.Prompt{
			Name:    f.Name,
			Label:   f.DisplayLabel(),
			Help:    plainText(f.Help),
			Options: f.Options,
		}
		c, _ := field.ParseComponent(f.Component)
		switch {
		case c == field.Textarea:
			p.Kind = tui.TextArea
		case c == field.Select:
			p.Kind = tui.Select
		case f.Checkbox():
			p.Kind = tui.Confirm
		case strings.EqualFold(f.Type, "password"):
			p.Kind = tui.Password
		}
		prompts = append(prompts, p)
	}
	return prompts
}

// plainPolicy strips every tag from help markup for terminal output.
var plainPolicy = bluemonday.StrictPolicy()

func plainText(markup string) string {
	if markup == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(markup)))
}
