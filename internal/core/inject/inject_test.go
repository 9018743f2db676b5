package inject

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseDoc(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

func TestPayloads(t *testing.T) {
	// Both bodies are fixed contracts shipped in the binary.
	assert.Contains(t, Gate, `c.startsWith("access=")`)
	assert.Contains(t, Gate, `window.location.replace("/sorry.html")`)
	assert.True(t, strings.HasPrefix(Gate, "(function () {"))
	assert.True(t, strings.HasSuffix(Gate, "})();"))

	assert.Contains(t, Scheduler, "scheduleRecheck()")
	assert.Contains(t, Scheduler, "Math.random() * (25000 - 10000 + 1)")
	assert.True(t, strings.HasSuffix(Scheduler, "scheduleRecheck();"))

	// The two blocks must never collapse to the same identity.
	assert.NotEqual(t, Normalize(Gate), Normalize(Scheduler))

	// Embedding must not leave surrounding whitespace that would survive a
	// round trip through a rendered document.
	assert.Equal(t, Normalize(Gate), Gate)
	assert.Equal(t, Normalize(Scheduler), Scheduler)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text unchanged",
			in:   "line one\nline two",
			want: "line one\nline two",
		},
		{
			name: "surrounding blank lines stripped",
			in:   "\n\n  body();\n\n",
			want: "body();",
		},
		{
			name: "trailing whitespace per line stripped",
			in:   "a();  \nb();\t\nc();",
			want: "a();\nb();\nc();",
		},
		{
			name: "leading indentation on inner lines kept",
			in:   "if (x) {\n  y();\n}",
			want: "if (x) {\n  y();\n}",
		},
		{
			name: "crlf line endings",
			in:   "a();\r\nb();\r\n",
			want: "a();\nb();",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "whitespace only",
			in:   " \n\t\n ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
			// Normalizing twice never changes the result again.
			if again := Normalize(got); again != got {
				t.Errorf("Normalize() not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestFindExact(t *testing.T) {
	doc := parseDoc(t, `<html><head>
<script>alert(1);</script>
<script src="/app.js"></script>
<script>
  target();
</script>
</head><body></body></html>`)

	matches := FindExact(doc, "target();")
	require.Len(t, matches, 1, "whitespace variant should normalize equal")

	matches = FindExact(doc, "alert(1);")
	assert.Len(t, matches, 1)

	// src scripts are externals and never match, even with empty bodies.
	matches = FindExact(doc, "")
	assert.Empty(t, matches)

	matches = FindExact(doc, "missing();")
	assert.Empty(t, matches)
}

func TestFindExact_EditedScriptIsUnrelated(t *testing.T) {
	// A hand-edited copy that no longer normalizes equal is treated as
	// unrelated content.
	doc := parseDoc(t, `<html><head><script>target(); // edited</script></head><body></body></html>`)

	assert.Empty(t, FindExact(doc, "target();"))
}

func TestInsertTop(t *testing.T) {
	doc := parseDoc(t, `<html><head><title>t</title></head><body></body></html>`)
	head := findElement(doc, "head")
	require.NotNil(t, head)

	inserted := InsertTop(doc, head, Gate)
	require.True(t, inserted)

	first := head.FirstChild
	require.NotNil(t, first)
	assert.Equal(t, "script", first.Data)
	assert.Equal(t, Gate, scriptText(first))

	// Second call finds the block and does nothing.
	assert.False(t, InsertTop(doc, head, Gate))
	assert.Len(t, FindExact(doc, Gate), 1)
}

func TestInsertTop_EmptyHead(t *testing.T) {
	head := &html.Node{Type: html.ElementNode, Data: "head"}
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(head)

	require.True(t, InsertTop(root, head, "x();"))
	require.NotNil(t, head.FirstChild)
	assert.Equal(t, "x();", scriptText(head.FirstChild))
}

func TestInsertBottom(t *testing.T) {
	doc := parseDoc(t, `<html><head><title>t</title><meta charset="utf-8"></head><body></body></html>`)
	head := findElement(doc, "head")
	require.NotNil(t, head)

	inserted := InsertBottom(doc, head, Scheduler)
	require.True(t, inserted)

	last := head.LastChild
	require.NotNil(t, last)
	assert.Equal(t, "script", last.Data)
	assert.Equal(t, Scheduler, scriptText(last))

	assert.False(t, InsertBottom(doc, head, Scheduler))
	assert.Len(t, FindExact(doc, Scheduler), 1)
}

func TestInsert_VariantSuppressesInsertion(t *testing.T) {
	// A previously injected block whose lines picked up trailing spaces
	// still counts as present.
	variant := strings.ReplaceAll(Gate, "\n", "   \n")
	doc := parseDoc(t, "<html><head><script>"+variant+"</script></head><body></body></html>")
	head := findElement(doc, "head")
	require.NotNil(t, head)

	assert.False(t, InsertTop(doc, head, Gate))
}

func TestInsert_UnrelatedScriptsUntouched(t *testing.T) {
	doc := parseDoc(t, `<html><head><script>custom();</script></head><body></body></html>`)
	head := findElement(doc, "head")
	require.NotNil(t, head)

	require.True(t, InsertTop(doc, head, Gate))
	require.True(t, InsertBottom(doc, head, Scheduler))

	// The unrelated script survives, sandwiched between the two blocks.
	assert.Len(t, FindExact(doc, "custom();"), 1)
	assert.Equal(t, Gate, scriptText(head.FirstChild))
	assert.Equal(t, Scheduler, scriptText(head.LastChild))
}

func TestInsert_BothBlocksOrdered(t *testing.T) {
	doc := parseDoc(t, `<html><head></head><body>x</body></html>`)
	head := findElement(doc, "head")
	require.NotNil(t, head)

	require.True(t, InsertTop(doc, head, Gate))
	require.True(t, InsertBottom(doc, head, Scheduler))

	var texts []string
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if isInlineScript(c) {
			texts = append(texts, scriptText(c))
		}
	}
	require.Len(t, texts, 2)
	assert.Equal(t, Gate, texts[0])
	assert.Equal(t, Scheduler, texts[1])
}
