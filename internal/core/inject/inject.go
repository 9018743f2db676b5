// Package inject embeds the bundled gate and scheduler script bodies and
// inserts them idempotently into a document head.
package inject

import (
	_ "embed"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//go:embed gate.js
var gateRaw string

//go:embed recheck.js
var schedulerRaw string

var (
	// Gate is the access-cookie gate. It runs synchronously at the top of
	// <head> and redirects to /sorry.html when the cookie is missing or
	// expired.
	Gate = strings.TrimSuffix(gateRaw, "\n")

	// Scheduler is the recheck loop appended at the end of <head>. It
	// re-runs the cookie check every 10-25 seconds.
	Scheduler = strings.TrimSuffix(schedulerRaw, "\n")
)

// Normalize reduces a script body to its comparison form: surrounding
// whitespace trimmed, then trailing whitespace stripped from every line.
// Blocks that normalize equal count as the same script, so files touched by
// editors that strip or add trailing whitespace are still recognized.
func Normalize(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}

// FindExact returns every inline script element under root whose text content
// normalizes equal to body. Scripts with a src attribute never match.
func FindExact(root *html.Node, body string) []*html.Node {
	want := Normalize(body)

	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if isInlineScript(n) && Normalize(scriptText(n)) == want {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

// InsertTop inserts body as an inline script at the top of head, unless an
// equivalent script already exists anywhere under root. Reports whether a
// node was inserted.
func InsertTop(root, head *html.Node, body string) bool {
	if len(FindExact(root, body)) > 0 {
		return false
	}
	head.InsertBefore(newScript(body), head.FirstChild)
	return true
}

// InsertBottom appends body as an inline script at the end of head, unless an
// equivalent script already exists anywhere under root. Reports whether a
// node was inserted.
func InsertBottom(root, head *html.Node, body string) bool {
	if len(FindExact(root, body)) > 0 {
		return false
	}
	head.AppendChild(newScript(body))
	return true
}

func newScript(body string) *html.Node {
	s := &html.Node{Type: html.ElementNode, Data: "script", DataAtom: atom.Script}
	s.AppendChild(&html.Node{Type: html.TextNode, Data: body})
	return s
}

func isInlineScript(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Data != "script" {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "src" {
			return false
		}
	}
	return true
}

// scriptText concatenates the text children of a script element. Parsed
// documents hold inline script bodies as a single text node, but built trees
// may split them.
func scriptText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
