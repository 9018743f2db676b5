package audit

import (
	"context"
	"strings"

	"github.com/colonyops/gatekeep/internal/core/inject"
	"github.com/colonyops/gatekeep/internal/core/markup"
	"golang.org/x/net/html"
)

// PlacementCheck verifies that the gate runs before anything else in head and
// the scheduler after. Placement problems are warnings: the scripts still
// work, just later or earlier than intended.
type PlacementCheck struct{}

// NewPlacementCheck creates a new placement check.
func NewPlacementCheck() *PlacementCheck {
	return &PlacementCheck{}
}

func (c *PlacementCheck) Name() string {
	return "Placement"
}

func (c *PlacementCheck) Run(_ context.Context, doc *markup.Document) Result {
	result := Result{Name: c.Name()}

	head := markup.FindElement(doc.Root, "head")
	if head == nil {
		result.Items = append(result.Items, Item{
			Label:  "head",
			Status: StatusFail,
			Detail: "no head element",
		})
		return result
	}

	scripts := headScripts(head)
	if len(scripts) == 0 {
		// Presence is ScriptsCheck's problem; nothing to place here.
		return result
	}

	if normalized(scripts[0]) == inject.Normalize(inject.Gate) {
		result.Items = append(result.Items, Item{Label: "gate first", Status: StatusPass})
	} else {
		result.Items = append(result.Items, Item{
			Label:  "gate first",
			Status: StatusWarn,
			Detail: "another script runs before the gate",
		})
	}

	if normalized(scripts[len(scripts)-1]) == inject.Normalize(inject.Scheduler) {
		result.Items = append(result.Items, Item{Label: "scheduler last", Status: StatusPass})
	} else {
		result.Items = append(result.Items, Item{
			Label:  "scheduler last",
			Status: StatusWarn,
			Detail: "another script runs after the scheduler",
		})
	}

	return result
}

// headScripts returns head's direct inline script children in order.
func headScripts(head *html.Node) []*html.Node {
	var scripts []*html.Node
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "script" {
			continue
		}
		if hasSrc(c) {
			continue
		}
		scripts = append(scripts, c)
	}
	return scripts
}

func hasSrc(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key == "src" {
			return true
		}
	}
	return false
}

func normalized(script *html.Node) string {
	var b strings.Builder
	for c := script.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return inject.Normalize(b.String())
}
