// Package markup loads, repairs, and serializes HTML documents.
package markup

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is one parsed HTML file plus the raw bytes it was read from. The
// raw bytes are kept so backups always hold exactly what was on disk before
// the rewrite.
type Document struct {
	Path string
	Root *html.Node

	raw []byte
}

// Load reads and parses the file at path. Bytes that are not valid UTF-8 are
// dropped rather than failing the read, and the parser tolerates malformed
// markup, so Load fails only on filesystem errors.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text := strings.ToValidUTF8(string(raw), "")

	// html.Parse reports errors only from the reader, and a string reader
	// never produces one.
	root, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &Document{Path: path, Root: root, raw: raw}, nil
}

// Original returns the bytes the document was loaded from, before any
// mutation.
func (d *Document) Original() []byte { return d.raw }

// Render serializes the current tree. Output is parser-normalized markup, not
// the original bytes.
func (d *Document) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.Root); err != nil {
		return nil, fmt.Errorf("render %s: %w", d.Path, err)
	}
	return buf.Bytes(), nil
}

// Head returns the document's head element, synthesizing it when missing.
func (d *Document) Head() *html.Node {
	return EnsureHead(d.Root)
}

// EnsureHead returns the first head element under root. When the tree has
// none it creates one: as the first child of an existing html element, or
// inside a new html element inserted as root's first child when the tree
// lacks that too. Calling it again returns the same node without further
// mutation.
//
// Parsed documents always carry html and head, so synthesis only fires for
// trees assembled by hand.
func EnsureHead(root *html.Node) *html.Node {
	if head := FindElement(root, "head"); head != nil {
		return head
	}

	head := &html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head}

	htmlEl := FindElement(root, "html")
	if htmlEl == nil {
		htmlEl = &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
		root.InsertBefore(htmlEl, root.FirstChild)
	}
	htmlEl.InsertBefore(head, htmlEl.FirstChild)
	return head
}

// FindElement returns the first element named name in document order, or nil.
// It never mutates the tree.
func FindElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FindElement(c, name); found != nil {
			return found
		}
	}
	return nil
}
