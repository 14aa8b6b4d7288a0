package field

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vango-dev/vform/pkg/form"
	"github.com/vango-dev/vform/pkg/vdom"
)

// Component selects the native element Node emits.
type Component int

const (
	Input Component = iota
	Textarea
	Select
)

// String returns the element tag for c.
func (c Component) String() string {
	switch c {
	case Textarea:
		return "textarea"
	case Select:
		return "select"
	default:
		return "input"
	}
}

// ParseComponent maps an element tag to a Component.
func ParseComponent(s string) (Component, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "input":
		return Input, nil
	case "textarea":
		return Textarea, nil
	case "select":
		return Select, nil
	default:
		return Input, fmt.Errorf("field: unknown component %q", s)
	}
}

// InputProps are the bindings a field render callback attaches to its
// input element.
type InputProps struct {
	Name  string
	Value any

	// OnChange reports the event value to the form.
	OnChange func(*vdom.Event)

	// OnBlur marks the field as touched.
	OnBlur func(*vdom.Event)
}

// Attrs returns p as element arguments: name, value, and the input, change
// and blur handlers.
func (p InputProps) Attrs() []any {
	return []any{
		vdom.Name(p.Name),
		vdom.Value(valueString(p.Value)),
		vdom.OnInput(p.OnChange),
		vdom.OnChange(p.OnChange),
		vdom.OnBlur(p.OnBlur),
	}
}

// RenderFunc renders a field from its bindings, its own state, and the
// form's state.
type RenderFunc func(props InputProps, field form.FieldState, state form.State) *vdom.VNode

// changeMode selects which part of an event carries the new value.
type changeMode int

const (
	modeValue   changeMode = iota // Event.Value
	modeChecked                   // Event.Checked
	modeMulti                     // Event.Values
)

// modeFor derives the change mode from the field's current value: booleans
// are checkboxes, string slices are multiple selects.
func modeFor(value any) changeMode {
	switch value.(type) {
	case bool:
		return modeChecked
	case []string:
		return modeMulti
	default:
		return modeValue
	}
}

// Props returns the bindings for the field's current value.
func (b *Binding) Props() InputProps {
	v := b.State().Value
	return b.props(v, modeFor(v))
}

func (b *Binding) props(value any, mode changeMode) InputProps {
	return InputProps{
		Name:  b.name,
		Value: value,
		OnChange: func(ev *vdom.Event) {
			var v any
			switch {
			case mode == modeChecked:
				v = ev != nil && ev.Checked
			case mode == modeMulti:
				selected := []string{}
				if ev != nil {
					selected = append(selected, ev.Values...)
				}
				v = selected
			case ev == nil:
				v = ""
			default:
				v = ev.Value
			}
			if err := b.HandleChange(v); err != nil && !errors.Is(err, ErrUnmounted) {
				b.onError(err)
			}
		},
		OnBlur: func(*vdom.Event) {
			b.HandleBlur()
		},
	}
}

// Render calls fn with the field's bindings and state. OnChange reads
// Event.Checked for a field holding a bool and Event.Values for a field
// holding a []string. An unmounted binding renders nothing.
func (b *Binding) Render(fn RenderFunc) *vdom.VNode {
	if fn == nil || !b.Mounted() {
		return nil
	}
	state := b.scope.Snapshot()
	f := state.Field(b.name)
	return fn(b.props(f.Value, modeFor(f.Value)), f, state)
}

// Node emits the native element for c bound to the field. Extra args are
// applied first, so the bound name, value and handlers always win. Select
// options passed in args are marked selected when they match the value; a
// select with the multiple attribute reads Event.Values and stores a
// []string. An unmounted binding renders nothing.
func (b *Binding) Node(c Component, args ...any) *vdom.VNode {
	if !b.Mounted() {
		return nil
	}
	f := b.State()

	bound := make([]any, 0, len(args)+6)
	bound = append(bound, args...)
	if f.Touched && f.Invalid() {
		bound = append(bound, vdom.AriaInvalid(true))
	}

	switch c {
	case Textarea:
		p := b.props(f.Value, modeValue)
		bound = append(bound,
			vdom.Name(p.Name),
			vdom.OnInput(p.OnChange),
			vdom.OnChange(p.OnChange),
			vdom.OnBlur(p.OnBlur),
			valueString(f.Value),
		)
		return vdom.Textarea(bound...)

	case Select:
		mode := modeValue
		if hasAttr(args, "multiple") || modeFor(f.Value) == modeMulti {
			mode = modeMulti
		}
		p := b.props(f.Value, mode)
		bound = append(bound,
			vdom.Name(p.Name),
			vdom.OnChange(p.OnChange),
			vdom.OnBlur(p.OnBlur),
		)
		node := vdom.Select(bound...)
		markSelected(node, f.Value)
		return node

	default:
		if isCheckbox(args) {
			p := b.props(f.Value, modeChecked)
			bound = append(bound,
				vdom.Name(p.Name),
				vdom.OnChange(p.OnChange),
				vdom.OnBlur(p.OnBlur),
			)
			if checked, _ := f.Value.(bool); checked {
				bound = append(bound, vdom.Checked())
			}
			return vdom.Input(bound...)
		}
		bound = append(bound, b.props(f.Value, modeValue).Attrs()...)
		return vdom.Input(bound...)
	}
}

func isCheckbox(args []any) bool {
	for _, arg := range args {
		if a, ok := arg.(vdom.Attr); ok && a.Key == "type" {
			t, _ := a.Value.(string)
			return t == "checkbox"
		}
	}
	return false
}

func hasAttr(args []any, key string) bool {
	for _, arg := range args {
		if a, ok := arg.(vdom.Attr); ok && a.Key == key {
			on, isBool := a.Value.(bool)
			return !isBool || on
		}
	}
	return false
}

func markSelected(node *vdom.VNode, value any) {
	want := map[string]bool{}
	switch v := value.(type) {
	case []string:
		for _, s := range v {
			want[s] = true
		}
	default:
		want[valueString(v)] = true
	}

	for _, child := range node.Children {
		if child == nil || child.Kind != vdom.KindElement || child.Tag != "option" {
			continue
		}
		optValue, ok := child.Props["value"].(string)
		if !ok {
			continue
		}
		if want[optValue] {
			child.Props["selected"] = true
		} else {
			delete(child.Props, "selected")
		}
	}
}

func valueString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}
