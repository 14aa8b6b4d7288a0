package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element with an arbitrary tag.
func El(tag string, args ...any) *VNode { return createElement(tag, args) }

// createElement creates a new VNode with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, *VNode, []*VNode, Component, string, EventHandler.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    make(Props),
		Children: make([]*VNode, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case Attr:
			node.setAttr(v)

		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}

		case EventHandler:
			node.setHandler(v)

		case []EventHandler:
			for _, h := range v {
				node.setHandler(h)
			}

		default:
			node.appendChild(arg)
		}
	}

	return node
}

// appendChild adds a child argument: a node, a node slice, a component or a
// text string. Anything else is ignored.
func (v *VNode) appendChild(arg any) {
	switch c := arg.(type) {
	case *VNode:
		if c != nil {
			v.Children = append(v.Children, c)
		}
	case []*VNode:
		for _, child := range c {
			v.appendChild(child)
		}
	case Component:
		v.Children = append(v.Children, &VNode{Kind: KindComponent, Comp: c})
	case string:
		v.Children = append(v.Children, Text(c))
	}
}

func (v *VNode) setHandler(h EventHandler) {
	if h.Event != "" && h.Handler != nil {
		v.Props[h.Event] = h.Handler
	}
}

func (v *VNode) setAttr(a Attr) {
	if a.Key == "" {
		return
	}
	v.Props[a.Key] = a.Value
}

// Form elements

func Form(args ...any) *VNode     { return createElement("form", args) }
func Input(args ...any) *VNode    { return createElement("input", args) }
func Textarea(args ...any) *VNode { return createElement("textarea", args) }
func Select(args ...any) *VNode   { return createElement("select", args) }
func Option(args ...any) *VNode   { return createElement("option", args) }
func Label(args ...any) *VNode    { return createElement("label", args) }
func Button(args ...any) *VNode   { return createElement("button", args) }
func Fieldset(args ...any) *VNode { return createElement("fieldset", args) }
func Legend(args ...any) *VNode   { return createElement("legend", args) }

// Content elements

func Div(args ...any) *VNode   { return createElement("div", args) }
func Span(args ...any) *VNode  { return createElement("span", args) }
func P(args ...any) *VNode     { return createElement("p", args) }
func Small(args ...any) *VNode { return createElement("small", args) }
func Ul(args ...any) *VNode    { return createElement("ul", args) }
func Li(args ...any) *VNode    { return createElement("li", args) }
func H1(args ...any) *VNode    { return createElement("h1", args) }
func Pre(args ...any) *VNode   { return createElement("pre", args) }

// Document elements

func Html(args ...any) *VNode   { return createElement("html", args) }
func Head(args ...any) *VNode   { return createElement("head", args) }
func Body(args ...any) *VNode   { return createElement("body", args) }
func Title(args ...any) *VNode  { return createElement("title", args) }
func Meta(args ...any) *VNode   { return createElement("meta", args) }
func Script(args ...any) *VNode { return createElement("script", args) }
