package render

import "github.com/vango-dev/vform/pkg/vdom"

// inlineElements don't get newlines in pretty-printed output.
var inlineElements = map[string]bool{
	"a":        true,
	"b":        true,
	"code":     true,
	"em":       true,
	"i":        true,
	"label":    true,
	"option":   true,
	"small":    true,
	"span":     true,
	"strong":   true,
	"textarea": true,
}

func isInlineElement(tag string) bool {
	return inlineElements[tag]
}

func isVoidElement(tag string) bool {
	return vdom.IsVoidElement(tag)
}

// booleanAttrs are rendered as a bare name when true and omitted when false.
var booleanAttrs = map[string]bool{
	"autofocus":      true,
	"checked":        true,
	"disabled":       true,
	"formnovalidate": true,
	"hidden":         true,
	"multiple":       true,
	"novalidate":     true,
	"readonly":       true,
	"required":       true,
	"selected":       true,
}

func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}
