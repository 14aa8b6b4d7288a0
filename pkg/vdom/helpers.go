package vdom

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// Raw creates an HTML node that the renderer sanitizes instead of escaping.
func Raw(html string) *VNode {
	return &VNode{Kind: KindRaw, Text: html}
}

// Fragment groups children without a wrapper element. It accepts the same
// child arguments as an element.
func Fragment(children ...any) *VNode {
	node := &VNode{Kind: KindFragment, Children: make([]*VNode, 0, len(children))}
	for _, child := range children {
		node.appendChild(child)
	}
	return node
}

// If returns node when cond holds, nil otherwise.
func If(cond bool, node *VNode) *VNode {
	if cond {
		return node
	}
	return nil
}
