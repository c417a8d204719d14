package view

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is a handle to a node of a Document.
type Element struct {
	doc  *Document
	node *html.Node
}

// Same reports whether both handles point at the same node.
func (e *Element) Same(other *Element) bool {
	return e != nil && other != nil && e.node == other.node
}

// ID returns the element's id attribute.
func (e *Element) ID() string {
	v, _ := e.Attr("id")
	return v
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.node.Data
}

// Attr returns an attribute value and whether it is declared.
func (e *Element) Attr(key string) (string, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return attr(e.node, key)
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(key, val string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	setAttr(e.node, key, val)
}

// RemoveAttr drops an attribute if present.
func (e *Element) RemoveAttr(key string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	removeAttr(e.node, key)
}

// HasClass reports whether the class list contains class.
func (e *Element) HasClass(class string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return hasClass(e.node, class)
}

// AddClass appends class to the class list unless already present.
func (e *Element) AddClass(class string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if hasClass(e.node, class) {
		return
	}
	setClasses(e.node, append(classes(e.node), class))
}

// RemoveClass drops every occurrence of class.
func (e *Element) RemoveClass(class string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	removeClass(e.node, class)
}

// ToggleClass flips class and reports whether it is now present.
func (e *Element) ToggleClass(class string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if hasClass(e.node, class) {
		removeClass(e.node, class)
		return false
	}
	setClasses(e.node, append(classes(e.node), class))
	return true
}

// Style returns an inline style property, or "" when unset.
func (e *Element) Style(prop string) string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	raw, _ := attr(e.node, "style")
	for _, d := range parseStyle(raw) {
		if d.prop == prop {
			return d.value
		}
	}
	return ""
}

// SetStyles applies inline style properties in one step. Pairs are
// property, value, property, value...
func (e *Element) SetStyles(pairs ...string) {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("view: SetStyles needs property/value pairs, got %d args", len(pairs)))
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	raw, _ := attr(e.node, "style")
	decls := parseStyle(raw)
	for i := 0; i < len(pairs); i += 2 {
		decls = setDecl(decls, pairs[i], pairs[i+1])
	}
	setAttr(e.node, "style", formatStyle(decls))
}

// Text returns the concatenated text content.
func (e *Element) Text() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	var b strings.Builder
	walk(e.node, func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
	})
	return b.String()
}

// SetText replaces all children with a single text node.
func (e *Element) SetText(text string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	clearChildren(e.node)
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Append creates a child element at the end of e and returns it.
func (e *Element) Append(tag string, attrs ...html.Attribute) *Element {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     strings.ToLower(tag),
		DataAtom: atom.Lookup([]byte(strings.ToLower(tag))),
		Attr:     append([]html.Attribute(nil), attrs...),
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.node.AppendChild(n)
	return &Element{doc: e.doc, node: n}
}

// Children returns the element children of e.
func (e *Element) Children() []*Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, &Element{doc: e.doc, node: c})
		}
	}
	return out
}

// Clear removes every child node.
func (e *Element) Clear() {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	clearChildren(e.node)
}

// Detach removes the element from its parent. It reports whether anything
// was removed; detaching an element that has no parent is a no-op.
func (e *Element) Detach() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.node.Parent == nil {
		return false
	}
	e.node.Parent.RemoveChild(e.node)
	return true
}

// Attached reports whether the element is still reachable from the
// document root.
func (e *Element) Attached() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

// Attr builds an html.Attribute, for use with Append.
func Attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

func classes(n *html.Node) []string {
	raw, _ := attr(n, "class")
	return strings.Fields(raw)
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

func setClasses(n *html.Node, list []string) {
	setAttr(n, "class", strings.Join(list, " "))
}

func removeClass(n *html.Node, class string) {
	list := classes(n)
	kept := list[:0]
	for _, c := range list {
		if c != class {
			kept = append(kept, c)
		}
	}
	setClasses(n, kept)
}

func clearChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}
