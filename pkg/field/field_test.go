package field

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/vform/pkg/form"
	"github.com/vango-dev/vform/pkg/vdom"
)

func newSignupForm() *form.Controller {
	return form.New(form.Config{
		InitialValues: form.Values{"email": "a@b.com"},
		Validate: func(v form.Values) (form.Errors, error) {
			if !strings.Contains(v.String("email"), "@") {
				return form.Errors{"email": "Invalid"}, nil
			}
			return nil, nil
		},
	})
}

func TestMount(t *testing.T) {
	t.Run("uses form initial value", func(t *testing.T) {
		c := newSignupForm()
		b, err := Mount(c, "email")
		if err != nil {
			t.Fatalf("Mount: %v", err)
		}
		if got := b.State().Value; got != "a@b.com" {
			t.Errorf("Value = %v, want a@b.com", got)
		}
	})

	t.Run("explicit initial value wins", func(t *testing.T) {
		c := newSignupForm()
		b, err := Mount(c, "email", WithInitialValue("x@y.z"))
		if err != nil {
			t.Fatal(err)
		}
		if got := b.State().Value; got != "x@y.z" {
			t.Errorf("Value = %v, want x@y.z", got)
		}
	})

	t.Run("configuration errors", func(t *testing.T) {
		if _, err := Mount(nil, "email"); !errors.Is(err, form.ErrNoForm) {
			t.Errorf("nil scope err = %v, want ErrNoForm", err)
		}
		if _, err := Mount(newSignupForm(), ""); !errors.Is(err, form.ErrMissingName) {
			t.Errorf("empty name err = %v, want ErrMissingName", err)
		}

		c := newSignupForm()
		if _, err := Mount(c, "x"); err != nil {
			t.Fatal(err)
		}
		if _, err := Mount(c, "x"); !errors.Is(err, form.ErrDuplicateField) {
			t.Errorf("duplicate err = %v, want ErrDuplicateField", err)
		}
	})
}

func TestHandleChangeFlowsThroughController(t *testing.T) {
	c := newSignupForm()
	b, _ := Mount(c, "email")

	if err := b.HandleChange("bad"); err != nil {
		t.Fatal(err)
	}
	f := b.State()
	if f.Value != "bad" || f.Error != "Invalid" {
		t.Errorf("field state = %+v, want bad/Invalid", f)
	}
	if f.VisibleError() != "" {
		t.Error("error visible before the field was touched")
	}

	b.HandleBlur()
	if got := b.State().VisibleError(); got != "Invalid" {
		t.Errorf("VisibleError = %q, want Invalid", got)
	}
	if c.Snapshot().ValidForm {
		t.Error("form valid with an invalid field")
	}
}

func TestUnmount(t *testing.T) {
	c := newSignupForm()
	b, _ := Mount(c, "email")
	b.HandleChange("bad")

	updates := 0
	other, _ := Mount(c, "name", OnUpdate(func(form.FieldState, form.State) { updates++ }))
	_ = other

	b.Unmount()
	b.Unmount()

	s := c.Snapshot()
	if _, ok := s.Values["email"]; ok {
		t.Error("values still contain email")
	}
	if _, ok := s.Errors["email"]; ok {
		t.Error("errors still contain email")
	}
	if updates != 1 {
		t.Errorf("other field updates = %d, want 1", updates)
	}
	if b.Mounted() {
		t.Error("Mounted = true after Unmount")
	}
	if err := b.HandleChange("x"); !errors.Is(err, ErrUnmounted) {
		t.Errorf("HandleChange after unmount err = %v, want ErrUnmounted", err)
	}
	if b.Node(Input) != nil {
		t.Error("unmounted binding rendered a node")
	}

	// The name is free again.
	if _, err := Mount(c, "email"); err != nil {
		t.Errorf("remount: %v", err)
	}
}

func TestOnUpdate(t *testing.T) {
	c := newSignupForm()

	var got []form.FieldState
	b, _ := Mount(c, "email", OnUpdate(func(f form.FieldState, s form.State) {
		got = append(got, f)
	}))

	b.HandleChange("bad")
	b.HandleBlur()
	b.Unmount()
	c.Register("later")

	want := []form.FieldState{
		{Name: "email", Value: "bad", Error: "Invalid"},
		{Name: "email", Value: "bad", Error: "Invalid", Touched: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("updates mismatch (-want +got):\n%s", diff)
	}
}

func TestNodeInput(t *testing.T) {
	c := newSignupForm()
	b, _ := Mount(c, "email")

	node := b.Node(Input, vdom.Type("email"), vdom.Value("ignored"))
	if node.Tag != "input" {
		t.Fatalf("Tag = %q, want input", node.Tag)
	}
	if node.Props["value"] != "a@b.com" {
		t.Errorf("value = %v, want controller value", node.Props["value"])
	}
	if node.Props["name"] != "email" || node.Props["type"] != "email" {
		t.Errorf("props = %v", node.Props)
	}

	vdom.Dispatch(node, "input", &vdom.Event{Value: "bad"})
	vdom.Dispatch(node, "blur", nil)

	next := b.Node(Input)
	if next.Props["value"] != "bad" {
		t.Errorf("value after input = %v, want bad", next.Props["value"])
	}
	if next.Props["aria-invalid"] != true {
		t.Error("touched invalid input not marked aria-invalid")
	}
}

func TestNodeTextarea(t *testing.T) {
	c := form.New(form.Config{})
	b, _ := Mount(c, "bio", WithInitialValue("hello"))

	node := b.Node(Textarea, vdom.Rows(3))
	if node.Tag != "textarea" {
		t.Fatalf("Tag = %q, want textarea", node.Tag)
	}
	if len(node.Children) != 1 || node.Children[0].Text != "hello" {
		t.Errorf("children = %+v, want single text child hello", node.Children)
	}
	vdom.Dispatch(node, "change", &vdom.Event{Value: "bye"})
	if got := b.State().Value; got != "bye" {
		t.Errorf("Value = %v, want bye", got)
	}
}

func TestNodeSelect(t *testing.T) {
	c := form.New(form.Config{})
	b, _ := Mount(c, "plan", WithInitialValue("pro"))

	render := func() *vdom.VNode {
		return b.Node(Select,
			vdom.Option(vdom.Value("free"), "Free"),
			vdom.Option(vdom.Value("pro"), vdom.Selected(), "Pro"),
		)
	}

	node := render()
	if node.Children[0].Props["selected"] != nil {
		t.Error("free selected")
	}
	if node.Children[1].Props["selected"] != true {
		t.Error("pro not selected")
	}

	vdom.Dispatch(node, "change", &vdom.Event{Value: "free"})
	node = render()
	if node.Children[0].Props["selected"] != true {
		t.Error("free not selected after change")
	}
	if _, ok := node.Children[1].Props["selected"]; ok {
		t.Error("stale selected attribute on pro")
	}
}

func TestNodeCheckbox(t *testing.T) {
	c := form.New(form.Config{})
	b, _ := Mount(c, "terms", WithInitialValue(false))

	node := b.Node(Input, vdom.Type("checkbox"))
	if _, ok := node.Props["checked"]; ok {
		t.Error("unchecked box rendered checked")
	}
	vdom.Dispatch(node, "change", &vdom.Event{Checked: true})

	if got := b.State().Value; got != true {
		t.Errorf("Value = %v, want true", got)
	}
	if b.Node(Input, vdom.Type("checkbox")).Props["checked"] != true {
		t.Error("checked box not rendered checked")
	}
}

func TestRender(t *testing.T) {
	c := newSignupForm()
	b, _ := Mount(c, "email")
	b.HandleChange("bad")

	var gotField form.FieldState
	var gotForm form.State
	node := b.Render(func(in InputProps, f form.FieldState, s form.State) *vdom.VNode {
		gotField, gotForm = f, s
		return vdom.Div(vdom.Input(in.Attrs()...), vdom.Span(vdom.Text(f.Error)))
	})

	if gotField.Error != "Invalid" || gotForm.ValidForm {
		t.Errorf("field=%+v valid=%v", gotField, gotForm.ValidForm)
	}
	input := vdom.FindByTag(node, "input")
	if input == nil || input.Props["value"] != "bad" {
		t.Fatalf("input = %+v", input)
	}
	vdom.Dispatch(input, "input", &vdom.Event{Value: "ok@x.y"})
	if !c.Snapshot().ValidForm {
		t.Error("form invalid after fixing the value")
	}
	if b.Render(nil) != nil {
		t.Error("Render(nil) should return nil")
	}
}

func TestEventHandlerErrors(t *testing.T) {
	boom := errors.New("boom")
	c := form.New(form.Config{Validate: func(form.Values) (form.Errors, error) { return nil, boom }})

	var got error
	b, _ := Mount(c, "x", OnError(func(err error) { got = err }))
	vdom.Dispatch(b.Node(Input), "input", &vdom.Event{Value: "v"})
	if !errors.Is(got, boom) {
		t.Errorf("OnError got %v, want boom", got)
	}

	d, _ := Mount(c, "y")
	defer func() {
		if r := recover(); r == nil {
			t.Error("default error handler did not panic")
		}
	}()
	vdom.Dispatch(d.Node(Input), "input", &vdom.Event{Value: "v"})
}

func TestParseComponent(t *testing.T) {
	tests := []struct {
		in      string
		want    Component
		wantErr bool
	}{
		{"", Input, false},
		{"input", Input, false},
		{"Textarea", Textarea, false},
		{"select", Select, false},
		{"video", Input, true},
	}
	for _, tt := range tests {
		got, err := ParseComponent(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseComponent(%q) = %v, %v", tt.in, got, err)
		}
		if err == nil && got.String() != strings.ToLower(tt.in) && tt.in != "" {
			t.Errorf("String() = %q, want %q", got.String(), strings.ToLower(tt.in))
		}
	}
}

func TestRenderCheckbox(t *testing.T) {
	c := form.New(form.Config{})
	b, _ := Mount(c, "agree", WithInitialValue(false))

	render := func() *vdom.VNode {
		return b.Render(func(in InputProps, f form.FieldState, s form.State) *vdom.VNode {
			return vdom.Input(vdom.Type("checkbox"), vdom.Name(in.Name), vdom.OnChange(in.OnChange))
		})
	}

	vdom.Dispatch(render(), "change", &vdom.Event{Type: "change", Checked: true})
	if got := b.State().Value; got != true {
		t.Fatalf("Value after checking = %#v, want true", got)
	}
	vdom.Dispatch(render(), "change", &vdom.Event{Type: "change"})
	if got := b.State().Value; got != false {
		t.Errorf("Value after unchecking = %#v, want false", got)
	}
}

func TestNodeMultipleSelect(t *testing.T) {
	c := form.New(form.Config{})
	b, _ := Mount(c, "tags", WithInitialValue([]string{"a", "b"}))

	render := func() *vdom.VNode {
		return b.Node(Select, vdom.Multiple(),
			vdom.Option(vdom.Value("a"), "A"),
			vdom.Option(vdom.Value("b"), "B"),
			vdom.Option(vdom.Value("c"), "C"),
		)
	}
	selected := func(node *vdom.VNode) []bool {
		out := make([]bool, len(node.Children))
		for i, opt := range node.Children {
			out[i] = opt.Props["selected"] == true
		}
		return out
	}

	node := render()
	if diff := cmp.Diff([]bool{true, true, false}, selected(node)); diff != "" {
		t.Errorf("initial selection (-want +got):\n%s", diff)
	}

	vdom.Dispatch(node, "change", &vdom.Event{Type: "change", Value: "b", Values: []string{"b", "c"}})
	if diff := cmp.Diff([]string{"b", "c"}, b.State().Value); diff != "" {
		t.Errorf("value after change (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{false, true, true}, selected(render())); diff != "" {
		t.Errorf("selection after change (-want +got):\n%s", diff)
	}

	vdom.Dispatch(render(), "change", &vdom.Event{Type: "change"})
	if diff := cmp.Diff([]string{}, b.State().Value); diff != "" {
		t.Errorf("value after clearing (-want +got):\n%s", diff)
	}
}

func TestRenderMultipleValues(t *testing.T) {
	c := form.New(form.Config{})
	b, _ := Mount(c, "tags", WithInitialValue([]string{"a"}))

	node := b.Render(func(in InputProps, f form.FieldState, s form.State) *vdom.VNode {
		return vdom.Select(vdom.Multiple(), vdom.Name(in.Name), vdom.OnChange(in.OnChange))
	})
	vdom.Dispatch(node, "change", &vdom.Event{Values: []string{"a", "c"}})
	if diff := cmp.Diff([]string{"a", "c"}, b.State().Value); diff != "" {
		t.Errorf("value (-want +got):\n%s", diff)
	}
}
