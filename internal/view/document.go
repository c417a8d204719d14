// Package view is a small DOM-like model of a rendered page.
//
// A Document wraps an x/net/html node tree and serializes every read and
// mutation behind one lock, so timer callbacks and request handlers can share
// a document without observing half-applied changes. Elements are handles
// into the tree; they stay valid after being detached.
package view

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const emptyPage = "<!DOCTYPE html><html><head></head><body></body></html>"

// Document is a mutable page tree.
type Document struct {
	mu   sync.Mutex
	root *html.Node
}

// Parse builds a document from HTML markup.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// New returns a document with an empty head and body.
func New() *Document {
	doc, err := ParseString(emptyPage)
	if err != nil {
		// The constant markup always parses.
		panic(err)
	}
	return doc
}

// ResolveSlot looks up an element by its id attribute. A missing slot is
// reported through the boolean, never as an error.
func (d *Document) ResolveSlot(id string) (*Element, bool) {
	if id == "" {
		return nil, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	n := findFirst(d.root, func(n *html.Node) bool {
		v, ok := attr(n, "id")
		return ok && v == id
	})
	if n == nil {
		return nil, false
	}
	return &Element{doc: d, node: n}, true
}

// ByClass returns every attached element carrying the class, in document order.
func (d *Document) ByClass(class string) []*Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*Element
	walk(d.root, func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, class) {
			out = append(out, &Element{doc: d, node: n})
		}
	})
	return out
}

// Body returns the body element. Parsed documents always have one.
func (d *Document) Body() *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := findFirst(d.root, func(n *html.Node) bool { return n.DataAtom == atom.Body })
	if n == nil {
		return nil
	}
	return &Element{doc: d, node: n}
}

// Render writes the whole document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// RenderElement writes the outer HTML of a single element.
func (d *Document) RenderElement(w io.Writer, el *Element) error {
	if el == nil || el.doc != d {
		return fmt.Errorf("render element: element does not belong to document")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, el.node)
}

// String renders the document, mostly for tests and debugging.
func (d *Document) String() string {
	var b strings.Builder
	if err := d.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}
