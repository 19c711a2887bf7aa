package host

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// RootElementID is the element the welcome screen mounts into.
const RootElementID = "root"

//go:embed index.html
var indexHTML []byte

var ErrAlreadyMounted = errors.New("element already mounted")

// Target is a mount point inside a host page.
type Target interface {
	Mount(fragment io.Reader) error
}

// Host is a page that exposes mount points by element id.
type Host interface {
	Lookup(id string) (Target, bool)
}

// Document is a parsed host page. Not safe for concurrent use; build one
// per response.
type Document struct {
	root    *html.Node
	mounted map[*html.Node]bool
}

func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse host page: %w", err)
	}
	return &Document{root: root, mounted: make(map[*html.Node]bool)}, nil
}

// Default parses the embedded index.html.
func Default() (*Document, error) {
	return Parse(bytes.NewReader(indexHTML))
}

func (d *Document) Lookup(id string) (Target, bool) {
	n := findByID(d.root, id)
	if n == nil {
		return nil, false
	}
	return &element{doc: d, node: n}, true
}

func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

type element struct {
	doc  *Document
	node *html.Node
}

// Mount replaces the element's children with the parsed fragment.
func (e *element) Mount(fragment io.Reader) error {
	if e.doc.mounted[e.node] {
		return ErrAlreadyMounted
	}

	nodes, err := html.ParseFragment(fragment, e.node)
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}

	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	e.doc.mounted[e.node] = true
	return nil
}
