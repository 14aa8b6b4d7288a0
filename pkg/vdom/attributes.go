package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// AriaInvalid sets the aria-invalid attribute.
func AriaInvalid(invalid bool) Attr { return attr("aria-invalid", invalid) }

// AriaDescribedBy sets the aria-describedby attribute.
func AriaDescribedBy(id string) Attr { return attr("aria-describedby", id) }

// AriaBusy sets the aria-busy attribute.
func AriaBusy(busy bool) Attr { return attr("aria-busy", busy) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// Form input attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the value attribute.
func Value(value string) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// For sets the for attribute on labels.
func For(id string) Attr { return attr("for", id) }

// Rows sets the rows attribute on textareas.
func Rows(n int) Attr { return attr("rows", n) }

// Action sets the action attribute on forms.
func Action(url string) Attr { return attr("action", url) }

// Method sets the method attribute on forms.
func Method(m string) Attr { return attr("method", m) }

// NoValidate disables native browser validation on a form.
func NoValidate() Attr { return attr("novalidate", true) }

// Form state attributes

// Disabled sets the disabled attribute.
func Disabled() Attr { return attr("disabled", true) }

// Readonly sets the readonly attribute.
func Readonly() Attr { return attr("readonly", true) }

// Required sets the required attribute.
func Required() Attr { return attr("required", true) }

// Checked sets the checked attribute.
func Checked() Attr { return attr("checked", true) }

// Selected sets the selected attribute.
func Selected() Attr { return attr("selected", true) }

// Multiple sets the multiple attribute.
func Multiple() Attr { return attr("multiple", true) }

// Autocomplete sets the autocomplete attribute.
func Autocomplete(value string) Attr { return attr("autocomplete", value) }
