// Package scenario loads YAML form definitions, compiles them into form
// configurations, and replays scripted interactions against them.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/vango-dev/vform/pkg/field"
	"gopkg.in/yaml.v3"
)

// Scenario is a form definition plus an optional script of interactions.
type Scenario struct {
	Name          string         `yaml:"name"`
	Title         string         `yaml:"title"`
	InitialValues map[string]any `yaml:"initial_values"`
	Fields        []Field        `yaml:"fields"`
	Submit        SubmitBehavior `yaml:"submit"`
	Steps         []Step         `yaml:"steps"`
}

// Field describes one form field and how it is rendered and checked.
type Field struct {
	Name      string   `yaml:"name"`
	Component string   `yaml:"component"`
	Type      string   `yaml:"type"`
	Label     string   `yaml:"label"`
	Help      string   `yaml:"help"` // HTML fragment, sanitized when rendered
	Options   []string `yaml:"options"`
	Initial   any      `yaml:"initial"`
	Rules     []Rule   `yaml:"rules"`
}

// Rule is one check applied to a field's value. Exactly one condition should
// be set; Message overrides the default message.
type Rule struct {
	Required  bool   `yaml:"required"`
	Contains  string `yaml:"contains"`
	Pattern   string `yaml:"pattern"`
	MinLength int    `yaml:"min_length"`
	Equals    string `yaml:"equals"`
	Message   string `yaml:"message"`
}

// SubmitBehavior controls the generated submit handler.
type SubmitBehavior struct {
	// Fail makes every submission fail with this message.
	Fail string `yaml:"fail"`

	// Delay is how long a submission takes, e.g. "250ms".
	Delay time.Duration `yaml:"delay"`
}

// Step is one scripted interaction. Exactly one action is set.
type Step struct {
	Change   *Change `yaml:"change"`
	Blur     string  `yaml:"blur"`
	Submit   bool    `yaml:"submit"`
	Unmount  string  `yaml:"unmount"`
	Validate bool    `yaml:"validate"`
	Reset    bool    `yaml:"reset"`
}

// Change sets a field's value.
type Change struct {
	Field string `yaml:"field"`
	Value any    `yaml:"value"`
}

// Action returns a short description of the step, e.g. "change email".
func (s Step) Action() string {
	switch {
	case s.Change != nil:
		return "change " + s.Change.Field
	case s.Blur != "":
		return "blur " + s.Blur
	case s.Submit:
		return "submit"
	case s.Unmount != "":
		return "unmount " + s.Unmount
	case s.Validate:
		return "validate"
	case s.Reset:
		return "reset"
	default:
		return ""
	}
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{s.Change != nil, s.Blur != "", s.Submit, s.Unmount != "", s.Validate, s.Reset} {
		if set {
			n++
		}
	}
	return n
}

// ErrInvalidScenario is wrapped by every validation failure from Parse.
var ErrInvalidScenario = errors.New("scenario: invalid definition")

// Parse decodes and validates a YAML scenario. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidScenario)
	}
	return Decode(bytes.NewReader(data))
}

// Decode reads a YAML scenario from r.
func Decode(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScenario)
		}
		return nil, fmt.Errorf("scenario: parse: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadFile reads and parses the scenario at path.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Validate checks field names, components, rules and steps.
func (sc *Scenario) Validate() error {
	if len(sc.Fields) == 0 {
		return fmt.Errorf("%w: no fields", ErrInvalidScenario)
	}

	seen := make(map[string]bool, len(sc.Fields))
	for i, f := range sc.Fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return fmt.Errorf("%w: field %d has no name", ErrInvalidScenario, i)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidScenario, name)
		}
		seen[name] = true

		c, err := field.ParseComponent(f.Component)
		if err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrInvalidScenario, name, err)
		}
		if c == field.Select && len(f.Options) == 0 {
			return fmt.Errorf("%w: select field %q has no options", ErrInvalidScenario, name)
		}
		for j, r := range f.Rules {
			if r.Pattern != "" {
				if _, err := regexp.Compile(r.Pattern); err != nil {
					return fmt.Errorf("%w: field %q rule %d: %v", ErrInvalidScenario, name, j, err)
				}
			}
			if r.MinLength < 0 {
				return fmt.Errorf("%w: field %q rule %d: negative min_length", ErrInvalidScenario, name, j)
			}
		}
	}

	for _, f := range sc.Fields {
		for j, r := range f.Rules {
			if r.Equals != "" && !seen[r.Equals] {
				return fmt.Errorf("%w: field %q rule %d: equals unknown field %q", ErrInvalidScenario, f.Name, j, r.Equals)
			}
		}
	}

	for i, s := range sc.Steps {
		if s.actions() != 1 {
			return fmt.Errorf("%w: step %d must set exactly one action", ErrInvalidScenario, i+1)
		}
		var ref string
		switch {
		case s.Change != nil:
			ref = s.Change.Field
		case s.Blur != "":
			ref = s.Blur
		case s.Unmount != "":
			ref = s.Unmount
		}
		if ref != "" && !seen[ref] {
			return fmt.Errorf("%w: step %d references unknown field %q", ErrInvalidScenario, i+1, ref)
		}
		if s.Change != nil && s.Change.Field == "" {
			return fmt.Errorf("%w: step %d: change without field", ErrInvalidScenario, i+1)
		}
	}
	return nil
}

// FormName returns the scenario name, or "form" when unset.
func (sc *Scenario) FormName() string {
	if sc.Name == "" {
		return "form"
	}
	return sc.Name
}

// Field returns the definition for name.
func (sc *Scenario) Field(name string) (Field, bool) {
	for _, f := range sc.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// DisplayLabel returns the label, or the name when no label is set.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// Required reports whether one of the field's rules is a required rule.
func (f Field) Required() bool {
	for _, r := range f.Rules {
		if r.Required {
			return true
		}
	}
	return false
}

// Checkbox reports whether the field is a checkbox input.
func (f Field) Checkbox() bool {
	return strings.EqualFold(f.Type, "checkbox")
}
