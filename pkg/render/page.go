package render

import (
	"io"

	"github.com/vango-dev/vform/pkg/vdom"
)

// PageData describes a complete HTML document.
type PageData struct {
	Title string

	// Lang is the document language. Defaults to "en".
	Lang string

	// Head holds extra nodes appended to <head>.
	Head []*vdom.VNode

	// Body is rendered inside <body>.
	Body *vdom.VNode
}

// RenderPage writes a full HTML5 document for page to w.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
		return err
	}
	r.newline(w)

	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	head := vdom.Head(
		vdom.Meta(vdom.Attr{Key: "charset", Value: "utf-8"}),
		vdom.Meta(vdom.Name("viewport"), vdom.Attr{Key: "content", Value: "width=device-width, initial-scale=1"}),
		vdom.Title(page.Title),
		page.Head,
	)

	return r.renderNode(w, vdom.Html(vdom.Attr{Key: "lang", Value: lang}, head, vdom.Body(page.Body)), 0)
}
